package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/packaging"
	"github.com/pixiretro/pxpack/recipe"
)

var infoCmd = &cobra.Command{
	Use:   "info [settings/options key=value]",
	Short: "Prints the package descriptor",
	Long: `Computes the package descriptor for the given settings and options and
prints it as JSON. No build is required; the descriptor is a pure function of
the recipe, settings and options.`,
	Run:                   runInfo,
	DisableFlagsInUseLine: true,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	workspaceRoot := getWorkspaceRoot()
	rec := readRecipe(workspaceRoot)
	settings, options := parseRunArgs(rec, args)

	if err := recipe.ResolveOptions(settings, options); err != nil {
		log.Fatal("%s\n", err)
	}
	options.Freeze()

	log.Log("%s/%s (%s)\n", rec.Name, rec.Version, rec.License)
	if rec.Description != "" {
		log.Log("%s\n", rec.Description)
	}

	desc, err := packaging.Describe(rec.Name, settings, options)
	if err != nil {
		log.Fatal("%s\n", err)
	}

	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		log.Fatal("Failed to serialize descriptor: %s.\n", err)
	}
	fmt.Println(string(data))
}
