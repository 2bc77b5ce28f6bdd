package recipe

import (
	"fmt"
	"runtime"
)

// Operating systems understood by the packaging pipeline.
const (
	OSLinux   = "Linux"
	OSWindows = "Windows"
	OSMacos   = "Macos"
)

// Build variants understood by the packaging pipeline.
const (
	BuildTypeDebug          = "Debug"
	BuildTypeRelease        = "Release"
	BuildTypeRelWithDebInfo = "RelWithDebInfo"
)

var knownOSes = []string{OSLinux, OSWindows, OSMacos}
var knownBuildTypes = []string{BuildTypeDebug, BuildTypeRelease, BuildTypeRelWithDebInfo}

// ConfigurationError reports an invalid or missing Settings/Option combination.
// It always signals a logic or input error that aborts the pipeline.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s = '%s': %s", e.Field, e.Value, e.Reason)
}

// Settings is the fixed platform and build context of one packaging run.
// It is constructed once per invocation and never mutated afterwards.
type Settings struct {
	OS        string
	Compiler  string
	BuildType string
	Arch      string
}

// DefaultSettings derives a settings record from the host platform.
func DefaultSettings() Settings {
	s := Settings{
		Compiler:  "gcc",
		BuildType: BuildTypeRelease,
		Arch:      runtime.GOARCH,
	}
	switch runtime.GOOS {
	case "windows":
		s.OS = OSWindows
		s.Compiler = "msvc"
	case "darwin":
		s.OS = OSMacos
		s.Compiler = "clang"
	default:
		s.OS = OSLinux
	}
	return s
}

// NewSettings builds a settings record from the host defaults overridden by
// the given key/value pairs. Unknown keys and unknown enumerated values are
// a ConfigurationError.
func NewSettings(overrides map[string]string) (Settings, error) {
	s := DefaultSettings()
	for key, value := range overrides {
		switch key {
		case "os":
			s.OS = value
		case "compiler":
			s.Compiler = value
		case "build_type":
			s.BuildType = value
		case "arch":
			s.Arch = value
		default:
			return s, &ConfigurationError{Field: key, Value: value, Reason: "unknown setting"}
		}
	}
	return s, s.Validate()
}

// Validate checks all enumerated settings values.
func (s Settings) Validate() error {
	if !contains(knownOSes, s.OS) {
		return &ConfigurationError{Field: "os", Value: s.OS, Reason: fmt.Sprintf("must be one of %v", knownOSes)}
	}
	if !contains(knownBuildTypes, s.BuildType) {
		return &ConfigurationError{Field: "build_type", Value: s.BuildType, Reason: fmt.Sprintf("must be one of %v", knownBuildTypes)}
	}
	if s.Compiler == "" {
		return &ConfigurationError{Field: "compiler", Reason: "must not be empty"}
	}
	if s.Arch == "" {
		return &ConfigurationError{Field: "arch", Reason: "must not be empty"}
	}
	return nil
}

// IsWindows reports whether the target is a Windows-class platform.
func (s Settings) IsWindows() bool {
	return s.OS == OSWindows
}

// IsDebug reports whether the build variant is a debug-class variant.
func (s Settings) IsDebug() bool {
	return s.BuildType == BuildTypeDebug
}

// Map returns the settings as plain key/value pairs.
func (s Settings) Map() map[string]string {
	return map[string]string{
		"os":         s.OS,
		"compiler":   s.Compiler,
		"build_type": s.BuildType,
		"arch":       s.Arch,
	}
}

func (s Settings) String() string {
	return fmt.Sprintf("os=%s compiler=%s build_type=%s arch=%s", s.OS, s.Compiler, s.BuildType, s.Arch)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
