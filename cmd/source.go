package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pixiretro/pxpack/fetch"
	"github.com/pixiretro/pxpack/log"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Args:  cobra.NoArgs,
	Short: "Fetches the recipe sources",
	Long:  `Fetches the recipe sources into the source directory per the recipe's scm section.`,
	Run:   runSource,
}

func init() {
	rootCmd.AddCommand(sourceCmd)
}

func runSource(cmd *cobra.Command, args []string) {
	workspaceRoot := getWorkspaceRoot()
	rec := readRecipe(workspaceRoot)

	if rec.SCM == nil {
		log.Log("Recipe has no scm section. Sources are used from the working tree.\n")
		return
	}

	srcDir := sourceDir(workspaceRoot, rec)
	if err := fetch.FetchSource(rec.SCM, srcDir); err != nil {
		log.Fatal("Failed to fetch sources: %s.\n", err)
	}
	log.Success("Sources are checked out in '%s'.\n", srcDir)
}
