package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pixiretro/pxpack/build"
	"github.com/pixiretro/pxpack/config"
	"github.com/pixiretro/pxpack/fetch"
	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/pipeline"
)

var createCmd = &cobra.Command{
	Use:   "create [settings/options key=value]",
	Short: "Runs the full packaging pipeline",
	Long: `Runs the full packaging pipeline: fetches the recipe sources, resolves
options and requirements, builds, and assembles the package tree.`,
	Run:                   runCreate,
	DisableFlagsInUseLine: true,
}

var cmakeGenerator string

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&cmakeGenerator, "generator", "G", "", "CMake generator to use")
}

func runCreate(cmd *cobra.Command, args []string) {
	workspaceRoot := getWorkspaceRoot()
	log.Log("Current workspace is '%s'.\n", workspaceRoot)

	rec := readRecipe(workspaceRoot)
	settings, options := parseRunArgs(rec, args)

	srcDir := sourceDir(workspaceRoot, rec)
	if err := fetch.FetchSource(rec.SCM, srcDir); err != nil {
		log.Fatal("Failed to fetch sources: %s.\n", err)
	}

	p := &pipeline.Pipeline{
		Recipe:     rec,
		Settings:   settings,
		Options:    options,
		Tool:       build.CMake{Generator: cmakeGenerator},
		Fetcher:    fetch.NewRemoteFetcher(config.GetConfig().Remotes),
		SourceDir:  srcDir,
		BuildDir:   buildDir(workspaceRoot),
		DepsDir:    depsDir(workspaceRoot),
		PackageDir: packageDir(workspaceRoot),
	}
	if _, err := p.Run(); err != nil {
		log.Fatal("%s\n", err)
	}
}
