package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pixiretro/pxpack/recipe"
	"github.com/pixiretro/pxpack/util"
)

var depsCmd = &cobra.Command{
	Use:   "deps [settings key=value]",
	Short: "Prints the resolved requirement list",
	Long: `Prints the ordered requirement list of the recipe for the given settings,
with the version pin and scope of each requirement.`,
	Run:                   runDeps,
	DisableFlagsInUseLine: true,
}

func init() {
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) {
	workspaceRoot := getWorkspaceRoot()
	rec := readRecipe(workspaceRoot)
	settings, _ := parseRunArgs(rec, args)

	lines := util.MappedSlice(recipe.ResolveRequirements(settings, rec), recipe.Requirement.String)
	for _, line := range lines {
		fmt.Println(line)
	}
}
