package build

import (
	"fmt"

	"github.com/pixiretro/pxpack/recipe"
)

// Configure/build phase names used in error reports.
const (
	PhaseConfigure = "configure"
	PhaseBuild     = "build"
)

// Tool drives an external build system through a configure/build cycle.
// Configure translates settings and options into the tool's own
// configuration inside buildDir; Build produces binary outputs there.
// Both phases must be safe to re-run on an already populated buildDir.
type Tool interface {
	Configure(settings recipe.Settings, options *recipe.Options, sourceDir, buildDir string) error
	Build(buildDir string) error
}

// BuildError reports a failed configure or build phase. It is fatal to the
// pipeline; no packaging is attempted after it.
type BuildError struct {
	Phase    string
	Settings recipe.Settings
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed during %s (%s): %s", e.Phase, e.Settings, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
