package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pixiretro/pxpack/config"
	"github.com/pixiretro/pxpack/fetch"
	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/recipe"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [settings key=value]",
	Short: "Fetches all pinned requirements into the local cache",
	Long: `Fetches all pinned requirements of the recipe into the DEPS/ cache of the
workspace. Requirements that are already present are not fetched again.`,
	Run:                   runFetch,
	DisableFlagsInUseLine: true,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) {
	workspaceRoot := getWorkspaceRoot()
	rec := readRecipe(workspaceRoot)
	settings, _ := parseRunArgs(rec, args)

	fetcher := fetch.NewRemoteFetcher(config.GetConfig().Remotes)
	reqs := recipe.ResolveRequirements(settings, rec)
	log.Log("Recipe has %d requirements.\n", len(reqs))

	for idx, req := range reqs {
		log.IndentationLevel = 1
		log.Log("%d) %s\n", idx+1, req)
		log.IndentationLevel = 2
		depDir, err := fetcher.Fetch(req, depsDir(workspaceRoot))
		if err != nil {
			log.IndentationLevel = 0
			log.Fatal("%s\n", err)
		}
		log.Debug("Requirement available in '%s'.\n", depDir)
	}

	log.IndentationLevel = 0
	log.Success("Done.\n")
}
