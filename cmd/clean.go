package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/util"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Args:  cobra.NoArgs,
	Short: "Removes all build and package outputs",
	Long:  `Removes all build and package outputs.`,
	Run:   runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) {
	workspaceRoot := getWorkspaceRoot()

	for _, dir := range []string{buildDir(workspaceRoot), packageDir(workspaceRoot)} {
		log.Debug("Removing directory '%s'.\n", dir)
		if err := util.RemoveDir(dir); err != nil {
			log.Fatal("Failed to remove '%s': %s.\n", dir, err)
		}
	}
}
