package cmd

import (
	"path"
	"strings"

	"github.com/pixiretro/pxpack/config"
	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/recipe"
	"github.com/pixiretro/pxpack/util"
)

var settingsKeys = map[string]bool{
	"os":         true,
	"compiler":   true,
	"build_type": true,
	"arch":       true,
}

func getWorkspaceRoot() string {
	workspaceRoot, err := util.GetWorkspaceRoot()
	if err != nil {
		log.Fatal("%s.\n", err)
	}
	return workspaceRoot
}

func readRecipe(workspaceRoot string) recipe.Recipe {
	rec, err := recipe.ReadRecipeFile(workspaceRoot)
	if err != nil {
		log.Fatal("Failed to read recipe: %s.\n", err)
	}
	return rec
}

// parseRunArgs merges the configured profile with `key=value` command
// arguments (arguments win) and splits the result into settings and option
// overrides. Any failure aborts: bad settings and options are user input
// errors with no sensible recovery.
func parseRunArgs(rec recipe.Recipe, args []string) (recipe.Settings, *recipe.Options) {
	merged := map[string]string{}
	for key, value := range config.GetConfig().Profile {
		merged[key] = value
	}
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			log.Fatal("Argument '%s' is not of the form key=value.\n", arg)
		}
		merged[parts[0]] = parts[1]
	}

	settingsValues := map[string]string{}
	optionValues := map[string]string{}
	for key, value := range merged {
		if settingsKeys[key] {
			settingsValues[key] = value
		} else {
			optionValues[key] = value
		}
	}

	settings, err := recipe.NewSettings(settingsValues)
	if err != nil {
		log.Fatal("%s.\n", err)
	}

	options, err := recipe.NewOptions(rec.Options)
	if err != nil {
		log.Fatal("%s.\n", err)
	}
	for _, name := range util.OrderedKeys(optionValues) {
		if err := options.Set(name, optionValues[name]); err != nil {
			log.Fatal("%s.\n", err)
		}
	}

	return settings, options
}

// sourceDir returns the directory the recipe sources live in: the scm
// subfolder for fetched sources, the workspace root for in-tree sources.
func sourceDir(workspaceRoot string, rec recipe.Recipe) string {
	if rec.SCM == nil {
		return workspaceRoot
	}
	subfolder := rec.SCM.Subfolder
	if subfolder == "" {
		subfolder = util.SourceDirName
	}
	return path.Join(workspaceRoot, subfolder)
}

func buildDir(workspaceRoot string) string {
	return path.Join(workspaceRoot, util.BuildDirName)
}

func depsDir(workspaceRoot string) string {
	return path.Join(workspaceRoot, util.DepsDirName)
}

func packageDir(workspaceRoot string) string {
	return path.Join(workspaceRoot, util.PackageDirName)
}
