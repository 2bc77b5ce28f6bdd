package packaging

import (
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/pixiretro/pxpack/recipe"
	"github.com/pixiretro/pxpack/util"
)

func writeTestFile(t *testing.T, file, content string) {
	t.Helper()
	if err := util.WriteFile(file, []byte(content)); err != nil {
		t.Fatalf("failed to create test file %s: %s", file, err)
	}
}

func makeBuildTree(t *testing.T) string {
	t.Helper()
	buildDir := t.TempDir()
	writeTestFile(t, path.Join(buildDir, "include", "pxr_gfx.h"), "// gfx")
	writeTestFile(t, path.Join(buildDir, "include", "pxr_sfx.h"), "// sfx")
	writeTestFile(t, path.Join(buildDir, "out", "libPixiRetro.a"), "ar")
	writeTestFile(t, path.Join(buildDir, "out", "sub", "libhelper.a"), "ar")
	return buildDir
}

func TestCollectCopiesMatches(t *testing.T) {
	buildDir := makeBuildTree(t)
	packageRoot := t.TempDir()

	rules := []recipe.ArtifactRule{
		{Pattern: "*.h", Dst: "include"},
		{Pattern: "*.a", Dst: "lib", Flatten: true},
	}
	if err := Collect(buildDir, packageRoot, rules); err != nil {
		t.Fatalf("collect failed: %s", err)
	}

	for _, expected := range []string{
		"include/include/pxr_gfx.h",
		"include/include/pxr_sfx.h",
		"lib/libPixiRetro.a",
		"lib/libhelper.a",
	} {
		if !util.FileExists(path.Join(packageRoot, expected)) {
			t.Fatalf("expected collected file %s", expected)
		}
	}
}

func TestCollectFlattenDiscardsDirectories(t *testing.T) {
	buildDir := makeBuildTree(t)
	packageRoot := t.TempDir()

	rules := []recipe.ArtifactRule{{Pattern: "*.a", Dst: "lib", Flatten: true}}
	if err := Collect(buildDir, packageRoot, rules); err != nil {
		t.Fatalf("collect failed: %s", err)
	}

	if util.DirExists(path.Join(packageRoot, "lib", "out")) {
		t.Fatal("flattened rule preserved directory structure")
	}
	if !util.FileExists(path.Join(packageRoot, "lib", "libhelper.a")) {
		t.Fatal("nested file not flattened into lib/")
	}
}

func TestCollectPathPatternsMatchFullRelativePath(t *testing.T) {
	buildDir := makeBuildTree(t)
	packageRoot := t.TempDir()

	rules := []recipe.ArtifactRule{{Pattern: "out/*.a", Dst: "lib", Flatten: true}}
	if err := Collect(buildDir, packageRoot, rules); err != nil {
		t.Fatalf("collect failed: %s", err)
	}

	if !util.FileExists(path.Join(packageRoot, "lib", "libPixiRetro.a")) {
		t.Fatal("direct match missing")
	}
	// out/sub/libhelper.a does not match the single-level path pattern.
	if util.FileExists(path.Join(packageRoot, "lib", "libhelper.a")) {
		t.Fatal("path pattern unexpectedly matched a nested file")
	}
}

func TestCollectEmptyOptionalMatchIsNotAnError(t *testing.T) {
	buildDir := makeBuildTree(t)
	packageRoot := t.TempDir()

	// No debug symbol files exist on a release build tree.
	rules := []recipe.ArtifactRule{{Pattern: "*.pdb", Dst: "bin", Flatten: true}}
	if err := Collect(buildDir, packageRoot, rules); err != nil {
		t.Fatalf("optional empty match must not fail: %s", err)
	}

	entries, err := os.ReadDir(packageRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("empty match created package content: %v", entries)
	}
}

func TestCollectRequiredEmptyMatchFails(t *testing.T) {
	buildDir := makeBuildTree(t)
	packageRoot := t.TempDir()

	rules := []recipe.ArtifactRule{{Pattern: "*.so", Dst: "lib", Required: true}}
	err := Collect(buildDir, packageRoot, rules)
	if err == nil {
		t.Fatal("required empty match must fail")
	}
	if _, ok := err.(*CollectionError); !ok {
		t.Fatalf("expected a CollectionError, got %T", err)
	}
}

func TestCollectLaterRulesOverwrite(t *testing.T) {
	buildDir := t.TempDir()
	packageRoot := t.TempDir()
	writeTestFile(t, path.Join(buildDir, "a", "conf.h"), "first")
	writeTestFile(t, path.Join(buildDir, "b", "conf.h"), "second")

	rules := []recipe.ArtifactRule{
		{Pattern: "a/conf.h", Dst: "include", Flatten: true},
		{Pattern: "b/conf.h", Dst: "include", Flatten: true},
	}
	if err := Collect(buildDir, packageRoot, rules); err != nil {
		t.Fatalf("collect failed: %s", err)
	}

	data, err := os.ReadFile(filepath.Join(packageRoot, "include", "conf.h"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Fatalf("later rule did not overwrite: %s", data)
	}
}

func TestDefaultArtifactRulesPerPlatform(t *testing.T) {
	linux := DefaultArtifactRules(recipe.Settings{OS: recipe.OSLinux, Compiler: "gcc", BuildType: recipe.BuildTypeRelease, Arch: "x86_64"})
	windows := DefaultArtifactRules(recipe.Settings{OS: recipe.OSWindows, Compiler: "msvc", BuildType: recipe.BuildTypeRelease, Arch: "x86_64"})

	hasPattern := func(rules []recipe.ArtifactRule, pattern string) bool {
		for _, r := range rules {
			if r.Pattern == pattern {
				return true
			}
		}
		return false
	}

	if !hasPattern(linux, "*.so") || hasPattern(linux, "*.dll") {
		t.Fatalf("unexpected linux rules: %v", linux)
	}
	if !hasPattern(windows, "*.dll") || hasPattern(windows, "*.so") {
		t.Fatalf("unexpected windows rules: %v", windows)
	}
}

func TestPackageInfoMarker(t *testing.T) {
	packageRoot := t.TempDir()
	if IsComplete(packageRoot) {
		t.Fatal("fresh package root must not be complete")
	}

	info := PackageInfo{
		Name:     "PixiRetro",
		Version:  "0.9.0",
		Settings: map[string]string{"os": "Linux"},
		Options:  map[string]string{"shared": "false"},
		Descriptor: PackageDescriptor{
			Libs:        []string{"PixiRetro.a"},
			LibDirs:     []string{"lib"},
			BinDirs:     []string{"bin"},
			IncludeDirs: []string{"include"},
		},
	}
	if err := WritePackageInfo(packageRoot, info); err != nil {
		t.Fatalf("failed to write package info: %s", err)
	}
	if !IsComplete(packageRoot) {
		t.Fatal("package root must be complete after the marker is written")
	}

	read, err := ReadPackageInfo(packageRoot)
	if err != nil {
		t.Fatalf("failed to read package info: %s", err)
	}
	if read.Name != info.Name || read.Version != info.Version {
		t.Fatalf("marker round trip lost metadata: %+v", read)
	}
	if len(read.Descriptor.Libs) != 1 || read.Descriptor.Libs[0] != "PixiRetro.a" {
		t.Fatalf("marker round trip lost descriptor: %+v", read.Descriptor)
	}
}
