package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pixiretro/pxpack/log"
)

var rootCmd = &cobra.Command{
	Use:   "pxpack",
	Short: "The PixiRetro packaging tool (pxpack)",
	Long: `The PixiRetro packaging tool (pxpack) executes package recipes: it resolves
platform settings and options, fetches pinned requirements, drives an external
CMake build, and assembles the build outputs into a redistributable package.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", false, "Print debug output")
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
