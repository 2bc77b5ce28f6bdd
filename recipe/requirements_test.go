package recipe

import (
	"reflect"
	"testing"
)

func TestParseRef(t *testing.T) {
	req, err := ParseRef("sdl/2.0.20", ScopeLink)
	if err != nil {
		t.Fatalf("failed to parse ref: %s", err)
	}
	expected := Requirement{Name: "sdl", Version: "2.0.20", Scope: ScopeLink}
	if req != expected {
		t.Fatalf("unexpected requirement: %+v", req)
	}
}

func TestParseRefWithChannel(t *testing.T) {
	req, err := ParseRef("sdl_image/2.0.5@pixiretro/stable", ScopeBuild)
	if err != nil {
		t.Fatalf("failed to parse ref: %s", err)
	}
	expected := Requirement{Name: "sdl_image", Version: "2.0.5", Channel: "pixiretro/stable", Scope: ScopeBuild}
	if req != expected {
		t.Fatalf("unexpected requirement: %+v", req)
	}
	if req.Ref() != "sdl_image/2.0.5@pixiretro/stable" {
		t.Fatalf("unexpected ref string: %s", req.Ref())
	}
}

func TestParseRefRejectsInexactVersions(t *testing.T) {
	for _, ref := range []string{"sdl/latest", "sdl/2.x", "sdl/>=2.0", "sdl/", "sdl", "sdl/2.0.20@stable"} {
		if _, err := ParseRef(ref, ScopeLink); err == nil {
			t.Fatalf("ref '%s' should have been rejected", ref)
		}
	}
}

func TestResolveRequirementsIsDeterministic(t *testing.T) {
	rec := Recipe{
		Requires: []Requirement{
			{Name: "tinyxml2", Version: "9.0.0", Scope: ScopeLink},
			{Name: "sdl", Version: "2.0.20", Scope: ScopeLink},
			{Name: "sdl_image", Version: "2.0.5", Scope: ScopeLink},
			{Name: "cmake", Version: "3.22.0", Scope: ScopeBuild},
		},
	}
	s := Settings{OS: OSLinux, Compiler: "gcc", BuildType: BuildTypeRelease, Arch: "x86_64"}

	first := ResolveRequirements(s, rec)
	for i := 0; i < 10; i++ {
		again := ResolveRequirements(s, rec)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("resolution %d differs from the first one", i)
		}
	}

	// Declared order is the link order consumers rely on.
	if first[0].Name != "tinyxml2" || first[1].Name != "sdl" || first[2].Name != "sdl_image" {
		t.Fatalf("declared order not preserved: %v", first)
	}
}

func TestResolveRequirementsReturnsACopy(t *testing.T) {
	rec := Recipe{Requires: []Requirement{{Name: "sdl", Version: "2.0.20", Scope: ScopeLink}}}
	s := Settings{OS: OSLinux, Compiler: "gcc", BuildType: BuildTypeRelease, Arch: "x86_64"}

	reqs := ResolveRequirements(s, rec)
	reqs[0].Name = "mutated"
	if rec.Requires[0].Name != "sdl" {
		t.Fatal("resolution must not alias the recipe")
	}
}

func TestScopeFilters(t *testing.T) {
	reqs := []Requirement{
		{Name: "sdl", Version: "2.0.20", Scope: ScopeLink},
		{Name: "cmake", Version: "3.22.0", Scope: ScopeBuild},
		{Name: "tinyxml2", Version: "9.0.0", Scope: ScopeLink},
	}

	link := LinkRequirements(reqs)
	if len(link) != 2 || link[0].Name != "sdl" || link[1].Name != "tinyxml2" {
		t.Fatalf("unexpected link requirements: %v", link)
	}

	build := BuildRequirements(reqs)
	if len(build) != 1 || build[0].Name != "cmake" {
		t.Fatalf("unexpected build requirements: %v", build)
	}
}
