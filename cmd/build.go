package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pixiretro/pxpack/build"
	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/recipe"
)

var buildCmd = &cobra.Command{
	Use:   "build [settings/options key=value]",
	Short: "Configures and builds without packaging",
	Long: `Runs the configure and build phases of the external build tool without
collecting any artifacts.`,
	Run:                   runBuildCmd,
	DisableFlagsInUseLine: true,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&cmakeGenerator, "generator", "G", "", "CMake generator to use")
}

func runBuildCmd(cmd *cobra.Command, args []string) {
	workspaceRoot := getWorkspaceRoot()
	rec := readRecipe(workspaceRoot)
	settings, options := parseRunArgs(rec, args)

	if err := recipe.ResolveOptions(settings, options); err != nil {
		log.Fatal("%s\n", err)
	}
	options.Freeze()

	tool := build.CMake{Generator: cmakeGenerator}
	outDir := buildDir(workspaceRoot)
	log.Log("Configuring build in '%s'.\n", outDir)
	if err := tool.Configure(settings, options, sourceDir(workspaceRoot, rec), outDir); err != nil {
		log.Fatal("%s\n", err)
	}
	log.Log("Building.\n")
	if err := tool.Build(outDir); err != nil {
		log.Fatal("%s\n", err)
	}
	log.Success("Build finished.\n")
}
