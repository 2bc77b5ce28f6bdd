// Package pipeline runs one packaging invocation end to end: option
// resolution, requirement resolution and fetch, the external build, artifact
// collection and descriptor emission. The phases are strictly sequential and
// any failure aborts the run before the package tree is marked complete.
package pipeline

import (
	"github.com/pixiretro/pxpack/build"
	"github.com/pixiretro/pxpack/fetch"
	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/packaging"
	"github.com/pixiretro/pxpack/recipe"
)

// Pipeline holds everything one packaging run needs. All directories are
// explicit; two runs with disjoint directories never share mutable state and
// may execute concurrently.
type Pipeline struct {
	Recipe   recipe.Recipe
	Settings recipe.Settings
	Options  *recipe.Options

	Tool build.Tool

	// Fetcher materializes resolved requirements into DepsDir before the
	// build. A nil Fetcher skips fetching (requirements are assumed to be
	// provided by the environment).
	Fetcher fetch.Fetcher

	SourceDir  string
	BuildDir   string
	DepsDir    string
	PackageDir string
}

// Run executes the pipeline. On success the package tree under PackageDir
// carries the PKGINFO completeness marker; on any failure the marker is
// absent and no descriptor is emitted.
func (p *Pipeline) Run() (packaging.PackageDescriptor, error) {
	var desc packaging.PackageDescriptor

	log.Log("Resolving options for %s.\n", p.Settings)
	if err := recipe.ResolveOptions(p.Settings, p.Options); err != nil {
		return desc, err
	}
	p.Options.Freeze()

	reqs := recipe.ResolveRequirements(p.Settings, p.Recipe)
	log.Log("Recipe has %d requirements.\n", len(reqs))
	if p.Fetcher != nil {
		for idx, req := range reqs {
			log.IndentationLevel = 1
			log.Log("%d) %s\n", idx+1, req)
			if _, err := p.Fetcher.Fetch(req, p.DepsDir); err != nil {
				log.IndentationLevel = 0
				return desc, err
			}
		}
		log.IndentationLevel = 0
	}

	log.Log("Configuring build in '%s'.\n", p.BuildDir)
	if err := p.Tool.Configure(p.Settings, p.Options, p.SourceDir, p.BuildDir); err != nil {
		return desc, err
	}
	log.Log("Building.\n")
	if err := p.Tool.Build(p.BuildDir); err != nil {
		return desc, err
	}

	rules := p.Recipe.Artifacts
	if len(rules) == 0 {
		rules = packaging.DefaultArtifactRules(p.Settings)
	}
	log.Log("Collecting artifacts into '%s'.\n", p.PackageDir)
	if err := packaging.Collect(p.BuildDir, p.PackageDir, rules); err != nil {
		return desc, err
	}

	desc, err := packaging.Describe(p.Recipe.Name, p.Settings, p.Options)
	if err != nil {
		return desc, err
	}

	info := packaging.PackageInfo{
		Name:       p.Recipe.Name,
		Version:    p.Recipe.Version,
		Settings:   p.Settings.Map(),
		Options:    p.Options.Map(),
		Descriptor: desc,
	}
	if err := packaging.WritePackageInfo(p.PackageDir, info); err != nil {
		return desc, err
	}

	log.Success("Package '%s/%s' is complete.\n", p.Recipe.Name, p.Recipe.Version)
	return desc, nil
}
