package build

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/recipe"
	"github.com/pixiretro/pxpack/util"
)

// CMake drives a CMake configure/build cycle. Re-running configure on an
// existing build directory refreshes the cache without corrupting prior
// state, so the invoker is idempotent.
type CMake struct {
	// Generator optionally selects a CMake generator (-G).
	Generator string
}

// ConfigureArgs translates settings and options into CMake cache arguments.
// It is a pure function of its inputs. Reading an option that the option
// resolver removed for this platform is a ConfigurationError.
func ConfigureArgs(settings recipe.Settings, options *recipe.Options) ([]string, error) {
	args := []string{
		fmt.Sprintf("-DCMAKE_BUILD_TYPE=%s", settings.BuildType),
	}

	shared, err := options.GetBool(recipe.OptionShared)
	if err != nil {
		return nil, err
	}
	args = append(args, fmt.Sprintf("-DBUILD_SHARED_LIBS=%s", onOff(shared)))

	// fPIC exists only on platforms where it has meaning; the option
	// resolver removes it elsewhere.
	if !settings.IsWindows() {
		fpic, err := options.GetBool(recipe.OptionFPIC)
		if err != nil {
			return nil, err
		}
		args = append(args, fmt.Sprintf("-DCMAKE_POSITION_INDEPENDENT_CODE=%s", onOff(fpic)))
	}

	return args, nil
}

// Configure runs the CMake configure phase for the given source tree.
func (c CMake) Configure(settings recipe.Settings, options *recipe.Options, sourceDir, buildDir string) error {
	if err := util.MkdirAll(buildDir); err != nil {
		return &BuildError{Phase: PhaseConfigure, Settings: settings, Err: err}
	}

	args, err := ConfigureArgs(settings, options)
	if err != nil {
		return err
	}
	args = append(args, "-S", sourceDir, "-B", buildDir)
	if c.Generator != "" {
		args = append(args, "-G", c.Generator)
	}

	if err := runCMake(buildDir, args); err != nil {
		return &BuildError{Phase: PhaseConfigure, Settings: settings, Err: err}
	}
	return nil
}

// Build runs the CMake build phase on a configured build directory.
func (c CMake) Build(buildDir string) error {
	args := []string{"--build", buildDir}
	if err := runCMake(buildDir, args); err != nil {
		return &BuildError{Phase: PhaseBuild, Err: err}
	}
	return nil
}

func runCMake(dir string, args []string) error {
	log.Debug("Running cmake command: 'cmake %v'\n", args)
	cmakeCmd := exec.Command("cmake", args...)
	cmakeCmd.Dir = dir
	cmakeCmd.Stderr = os.Stderr
	if log.Verbose {
		cmakeCmd.Stdout = os.Stdout
	} else {
		log.Spinner.Start()
		defer log.Spinner.Stop()
	}
	return cmakeCmd.Run()
}

func onOff(value bool) string {
	if value {
		return "ON"
	}
	return "OFF"
}
