package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/packaging"
	"github.com/pixiretro/pxpack/recipe"
)

var packageCmd = &cobra.Command{
	Use:   "package [settings/options key=value]",
	Short: "Collects build outputs into the package tree",
	Long: `Collects the outputs of an existing build into the package tree and writes
the package metadata. The build must have been run first.`,
	Run:                   runPackage,
	DisableFlagsInUseLine: true,
}

func init() {
	rootCmd.AddCommand(packageCmd)
}

func runPackage(cmd *cobra.Command, args []string) {
	workspaceRoot := getWorkspaceRoot()
	rec := readRecipe(workspaceRoot)
	settings, options := parseRunArgs(rec, args)

	if err := recipe.ResolveOptions(settings, options); err != nil {
		log.Fatal("%s\n", err)
	}
	options.Freeze()

	outDir := buildDir(workspaceRoot)
	pkgDir := packageDir(workspaceRoot)

	rules := rec.Artifacts
	if len(rules) == 0 {
		rules = packaging.DefaultArtifactRules(settings)
	}
	log.Log("Collecting artifacts into '%s'.\n", pkgDir)
	if err := packaging.Collect(outDir, pkgDir, rules); err != nil {
		log.Fatal("%s\n", err)
	}

	desc, err := packaging.Describe(rec.Name, settings, options)
	if err != nil {
		log.Fatal("%s\n", err)
	}
	info := packaging.PackageInfo{
		Name:       rec.Name,
		Version:    rec.Version,
		Settings:   settings.Map(),
		Options:    options.Map(),
		Descriptor: desc,
	}
	if err := packaging.WritePackageInfo(pkgDir, info); err != nil {
		log.Fatal("Failed to write package info: %s.\n", err)
	}
	log.Success("Package '%s/%s' is complete.\n", rec.Name, rec.Version)
}
