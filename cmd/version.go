package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pixiretro/pxpack/util"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Args:  cobra.NoArgs,
	Short: "Prints the version of pxpack",
	Long:  `Prints the version of pxpack.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(util.PxpackVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
