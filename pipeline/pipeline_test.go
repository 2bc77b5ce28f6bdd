package pipeline

import (
	"errors"
	"path"
	"testing"

	"github.com/pixiretro/pxpack/packaging"
	"github.com/pixiretro/pxpack/recipe"
	"github.com/pixiretro/pxpack/util"
)

// fakeTool records phase invocations and writes a minimal build tree on
// success, standing in for the external build system.
type fakeTool struct {
	failConfigure bool
	failBuild     bool
	configured    bool
	built         bool
}

func (f *fakeTool) Configure(settings recipe.Settings, options *recipe.Options, sourceDir, buildDir string) error {
	if f.failConfigure {
		return errors.New("configure blew up")
	}
	f.configured = true
	return util.MkdirAll(buildDir)
}

func (f *fakeTool) Build(buildDir string) error {
	if f.failBuild {
		return errors.New("build blew up")
	}
	f.built = true
	if err := util.WriteFile(path.Join(buildDir, "libPixiRetro.a"), []byte("ar")); err != nil {
		return err
	}
	return util.WriteFile(path.Join(buildDir, "pxr_gfx.h"), []byte("// gfx"))
}

type fakeFetcher struct {
	fetched []string
}

func (f *fakeFetcher) Fetch(req recipe.Requirement, depsDir string) (string, error) {
	f.fetched = append(f.fetched, req.Ref())
	return path.Join(depsDir, req.Name), nil
}

func testRecipe() recipe.Recipe {
	return recipe.Recipe{
		Schema:  4,
		Name:    "PixiRetro",
		Version: "0.9.0",
		Options: recipe.DefaultOptionDecls(),
		Requires: []recipe.Requirement{
			{Name: "tinyxml2", Version: "9.0.0", Scope: recipe.ScopeLink},
			{Name: "sdl", Version: "2.0.20", Scope: recipe.ScopeLink},
		},
	}
}

func testPipeline(t *testing.T, tool *fakeTool) *Pipeline {
	t.Helper()
	options, err := recipe.NewOptions(recipe.DefaultOptionDecls())
	if err != nil {
		t.Fatal(err)
	}
	root := t.TempDir()
	return &Pipeline{
		Recipe:     testRecipe(),
		Settings:   recipe.Settings{OS: recipe.OSLinux, Compiler: "gcc", BuildType: recipe.BuildTypeRelease, Arch: "x86_64"},
		Options:    options,
		Tool:       tool,
		SourceDir:  path.Join(root, util.SourceDirName),
		BuildDir:   path.Join(root, util.BuildDirName),
		DepsDir:    path.Join(root, util.DepsDirName),
		PackageDir: path.Join(root, util.PackageDirName),
	}
}

func TestPipelineSuccessMarksPackageComplete(t *testing.T) {
	tool := &fakeTool{}
	p := testPipeline(t, tool)
	fetcher := &fakeFetcher{}
	p.Fetcher = fetcher

	desc, err := p.Run()
	if err != nil {
		t.Fatalf("pipeline failed: %s", err)
	}

	if !tool.configured || !tool.built {
		t.Fatal("tool phases not invoked")
	}
	if len(fetcher.fetched) != 2 || fetcher.fetched[0] != "tinyxml2/9.0.0" || fetcher.fetched[1] != "sdl/2.0.20" {
		t.Fatalf("requirements not fetched in order: %v", fetcher.fetched)
	}
	if !packaging.IsComplete(p.PackageDir) {
		t.Fatal("package root must carry the completeness marker")
	}
	if len(desc.Libs) != 1 || desc.Libs[0] != "PixiRetro.a" {
		t.Fatalf("unexpected descriptor: %+v", desc)
	}
	if !util.FileExists(path.Join(p.PackageDir, "lib", "libPixiRetro.a")) {
		t.Fatal("artifact not collected into lib/")
	}
	if !p.Options.Frozen() {
		t.Fatal("options must be frozen after the run")
	}
}

func TestPipelineAbortsOnBuildFailure(t *testing.T) {
	tool := &fakeTool{failBuild: true}
	p := testPipeline(t, tool)

	_, err := p.Run()
	if err == nil {
		t.Fatal("pipeline must fail when the build fails")
	}

	if packaging.IsComplete(p.PackageDir) {
		t.Fatal("failed pipeline must not mark the package complete")
	}
	if util.DirExists(path.Join(p.PackageDir, "lib")) {
		t.Fatal("failed pipeline must not collect artifacts")
	}
}

func TestPipelineAbortsOnConfigureFailure(t *testing.T) {
	tool := &fakeTool{failConfigure: true}
	p := testPipeline(t, tool)

	_, err := p.Run()
	if err == nil {
		t.Fatal("pipeline must fail when configure fails")
	}
	if tool.built {
		t.Fatal("build must not run after a failed configure")
	}
	if packaging.IsComplete(p.PackageDir) {
		t.Fatal("failed pipeline must not mark the package complete")
	}
}

func TestPipelineWindowsRunNeverSeesFPIC(t *testing.T) {
	tool := &fakeTool{}
	p := testPipeline(t, tool)
	p.Settings = recipe.Settings{OS: recipe.OSWindows, Compiler: "msvc", BuildType: recipe.BuildTypeRelease, Arch: "x86_64"}

	if _, err := p.Run(); err != nil {
		t.Fatalf("pipeline failed: %s", err)
	}
	if p.Options.Has(recipe.OptionFPIC) {
		t.Fatal("fPIC must be removed on Windows before the build starts")
	}
}
