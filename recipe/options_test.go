package recipe

import (
	"testing"
)

func defaultOptions(t *testing.T) *Options {
	t.Helper()
	o, err := NewOptions(DefaultOptionDecls())
	if err != nil {
		t.Fatalf("failed to build default options: %s", err)
	}
	return o
}

func TestResolveOptionsRemovesFPICOnWindows(t *testing.T) {
	for _, buildType := range []string{BuildTypeDebug, BuildTypeRelease} {
		o := defaultOptions(t)
		s := Settings{OS: OSWindows, Compiler: "msvc", BuildType: buildType, Arch: "x86_64"}

		if err := ResolveOptions(s, o); err != nil {
			t.Fatalf("option resolution failed: %s", err)
		}
		if o.Has(OptionFPIC) {
			t.Fatalf("fPIC still present after resolution for build_type %s", buildType)
		}
		if !o.Has(OptionShared) {
			t.Fatal("shared option removed unexpectedly")
		}
	}
}

func TestResolveOptionsKeepsFPICOnLinux(t *testing.T) {
	o := defaultOptions(t)
	s := Settings{OS: OSLinux, Compiler: "gcc", BuildType: BuildTypeRelease, Arch: "x86_64"}

	if err := ResolveOptions(s, o); err != nil {
		t.Fatalf("option resolution failed: %s", err)
	}
	fpic, err := o.GetBool(OptionFPIC)
	if err != nil {
		t.Fatalf("failed to read fPIC: %s", err)
	}
	if !fpic {
		t.Fatal("fPIC should default to true")
	}
}

func TestRemovedOptionReadIsAnError(t *testing.T) {
	o := defaultOptions(t)
	s := Settings{OS: OSWindows, Compiler: "msvc", BuildType: BuildTypeRelease, Arch: "x86_64"}

	if err := ResolveOptions(s, o); err != nil {
		t.Fatalf("option resolution failed: %s", err)
	}
	_, err := o.Get(OptionFPIC)
	if err == nil {
		t.Fatal("reading a removed option should fail")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Fatalf("expected a ConfigurationError, got %T", err)
	}
}

func TestFrozenOptionsRejectMutation(t *testing.T) {
	o := defaultOptions(t)
	o.Freeze()

	if err := o.Set(OptionShared, "true"); err == nil {
		t.Fatal("setting a frozen option should fail")
	}
	if err := o.Remove(OptionFPIC); err == nil {
		t.Fatal("removing a frozen option should fail")
	}
	if !o.Has(OptionFPIC) {
		t.Fatal("failed removal must not alter the set")
	}
}

func TestSetValidatesValues(t *testing.T) {
	o := defaultOptions(t)

	if err := o.Set(OptionShared, "true"); err != nil {
		t.Fatalf("setting an allowed value failed: %s", err)
	}
	shared, err := o.GetBool(OptionShared)
	if err != nil {
		t.Fatalf("failed to read shared: %s", err)
	}
	if !shared {
		t.Fatal("override did not take effect")
	}

	if err := o.Set(OptionShared, "maybe"); err == nil {
		t.Fatal("setting an unallowed value should fail")
	}
	if err := o.Set("lto", "true"); err == nil {
		t.Fatal("setting an undeclared option should fail")
	}
}

func TestOptionDeclValidation(t *testing.T) {
	_, err := NewOptions([]OptionDecl{
		{Name: "shared", Values: []string{"true", "false"}, Default: "false"},
		{Name: "shared", Values: []string{"true", "false"}, Default: "true"},
	})
	if err == nil {
		t.Fatal("duplicate declaration should fail")
	}

	_, err = NewOptions([]OptionDecl{
		{Name: "mode", Values: []string{"fast", "small"}, Default: "tiny"},
	})
	if err == nil {
		t.Fatal("default outside allowed values should fail")
	}
}

func TestOptionNamesAreDeterministic(t *testing.T) {
	o := defaultOptions(t)
	names := o.Names()
	expected := []string{OptionFPIC, OptionShared}
	if len(names) != len(expected) {
		t.Fatal("unexpected number of options")
	}
	for i := range names {
		if names[i] != expected[i] {
			t.Fatalf("unexpected option at index %d: %s", i, names[i])
		}
	}
}
