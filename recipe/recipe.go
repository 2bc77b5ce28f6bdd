package recipe

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v2"

	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/util"
)

// currentSchema is the newest RECIPE file revision understood by this tool.
const currentSchema = 4

// SCM describes where the sources of the packaged library come from.
type SCM struct {
	Type      string
	URL       string
	Revision  string
	Subfolder string
}

// ArtifactRule is a copy instruction moving matched build outputs into the
// package layout. Pattern is a glob relative to the build output directory,
// Dst a subdirectory of the package root. Flatten discards intermediate
// directories and keeps only file names. A rule marked Required must match
// at least one file.
type ArtifactRule struct {
	Pattern  string
	Dst      string
	Flatten  bool
	Required bool
}

// Recipe is the normalized, current-schema form of a package recipe. All
// older RECIPE file revisions are converted into this form when read.
type Recipe struct {
	Schema      uint
	Name        string
	Version     string
	License     string
	Author      string
	URL         string
	Description string
	Topics      []string

	Options   []OptionDecl
	Requires  []Requirement
	Artifacts []ArtifactRule
	SCM       *SCM
}

type recipeFileSchema struct {
	Schema uint
}

type recipeMeta struct {
	Name        string
	Version     string
	License     string
	Author      string
	Url         string
	Description string
	Topics      []string
}

// RECIPE file schema 4 (current)

type v4OptionEntry struct {
	Values  []string
	Default string
}

type v4RequireEntry struct {
	Ref   string
	Scope string
}

type v4ArtifactEntry struct {
	Pattern  string
	Dst      string
	Flatten  bool
	Required bool
}

type v4ScmEntry struct {
	Type      string
	Url       string
	Revision  string
	Subfolder string
}

type v4RecipeFile struct {
	Schema      uint
	Name        string
	Version     string
	License     string
	Author      string
	Url         string
	Description string
	Topics      []string
	Options     map[string]v4OptionEntry
	Requires    []v4RequireEntry
	Artifacts   []v4ArtifactEntry
	Scm         *v4ScmEntry
}

// RECIPE file schema 3: explicit option declarations, requirements split
// into `requires` and `build_requires` lists.

type v3RecipeFile struct {
	Schema        uint
	Name          string
	Version       string
	License       string
	Author        string
	Url           string
	Description   string
	Topics        []string
	Options       map[string]v4OptionEntry
	Requires      []string
	BuildRequires []string `yaml:"build_requires"`
}

// RECIPE file schema 2: requirement pins may carry an @user/channel
// qualifier. Options are still the implicit default set.

type v2RecipeFile struct {
	Schema      uint
	Name        string
	Version     string
	License     string
	Author      string
	Url         string
	Description string
	Topics      []string
	Requires    []string
}

// RECIPE file schema 1: plain name/version pins, implicit options.

type v1RecipeFile struct {
	Name        string
	Version     string
	License     string
	Author      string
	Url         string
	Description string
	Topics      []string
	Requires    []string
}

// ParseRecipe parses and normalizes a RECIPE file in any supported schema
// revision.
func ParseRecipe(data []byte) (Recipe, error) {
	var schema recipeFileSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return Recipe{}, &ConfigurationError{Field: util.RecipeFileName, Reason: err.Error()}
	}

	switch schema.Schema {
	case 0, 1:
		return parseV1Recipe(data)
	case 2:
		return parseV2Recipe(data)
	case 3:
		return parseV3Recipe(data)
	case currentSchema:
		return parseV4Recipe(data)
	default:
		return Recipe{}, &ConfigurationError{
			Field:  "schema",
			Value:  fmt.Sprintf("%d", schema.Schema),
			Reason: "requires a newer version of pxpack",
		}
	}
}

// ReadRecipeFile reads and normalizes the RECIPE file of a workspace.
func ReadRecipeFile(workspaceRoot string) (Recipe, error) {
	recipeFilePath := path.Join(workspaceRoot, util.RecipeFileName)
	data, err := os.ReadFile(recipeFilePath)
	if err != nil {
		return Recipe{}, &ConfigurationError{Field: util.RecipeFileName, Reason: err.Error()}
	}
	rec, err := ParseRecipe(data)
	if err != nil {
		return rec, err
	}
	log.Debug("Read recipe '%s/%s' (schema %d).\n", rec.Name, rec.Version, rec.Schema)
	return rec, nil
}

func (r *Recipe) applyMeta(m recipeMeta) error {
	if m.Name == "" {
		return &ConfigurationError{Field: "name", Reason: "must not be empty"}
	}
	if !refNameRegexp.MatchString(m.Name) {
		return &ConfigurationError{Field: "name", Value: m.Name, Reason: "contains unallowed characters"}
	}
	if !refVersionRegexp.MatchString(m.Version) {
		return &ConfigurationError{Field: "version", Value: m.Version, Reason: "must be an exact version"}
	}
	r.Name = m.Name
	r.Version = m.Version
	r.License = m.License
	r.Author = m.Author
	r.URL = m.Url
	r.Description = m.Description
	r.Topics = m.Topics
	return nil
}

func parseRefList(refs []string, scope Scope) ([]Requirement, error) {
	reqs := []Requirement{}
	for _, ref := range refs {
		req, err := ParseRef(ref, scope)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// parseOptionDecls converts the YAML option map into declarations. YAML maps
// carry no order, so declarations are ordered by name to keep the normalized
// recipe deterministic.
func parseOptionDecls(entries map[string]v4OptionEntry) []OptionDecl {
	decls := []OptionDecl{}
	for _, name := range util.OrderedKeys(entries) {
		entry := entries[name]
		decls = append(decls, OptionDecl{Name: name, Values: entry.Values, Default: entry.Default})
	}
	return decls
}

func parseV1Recipe(data []byte) (Recipe, error) {
	var file v1RecipeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Recipe{}, &ConfigurationError{Field: util.RecipeFileName, Reason: err.Error()}
	}

	rec := Recipe{Schema: currentSchema, Options: DefaultOptionDecls()}
	if err := rec.applyMeta(recipeMeta{file.Name, file.Version, file.License, file.Author, file.Url, file.Description, file.Topics}); err != nil {
		return rec, err
	}

	reqs, err := parseRefList(file.Requires, ScopeLink)
	if err != nil {
		return rec, err
	}
	// Schema 1 predates channel qualifiers.
	for _, req := range reqs {
		if req.Channel != "" {
			return rec, &ConfigurationError{Field: "requires", Value: req.Ref(), Reason: "channel qualifiers require schema 2 or newer"}
		}
	}
	rec.Requires = reqs
	return rec, nil
}

func parseV2Recipe(data []byte) (Recipe, error) {
	var file v2RecipeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Recipe{}, &ConfigurationError{Field: util.RecipeFileName, Reason: err.Error()}
	}

	rec := Recipe{Schema: currentSchema, Options: DefaultOptionDecls()}
	if err := rec.applyMeta(recipeMeta{file.Name, file.Version, file.License, file.Author, file.Url, file.Description, file.Topics}); err != nil {
		return rec, err
	}

	reqs, err := parseRefList(file.Requires, ScopeLink)
	if err != nil {
		return rec, err
	}
	rec.Requires = reqs
	return rec, nil
}

func parseV3Recipe(data []byte) (Recipe, error) {
	var file v3RecipeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Recipe{}, &ConfigurationError{Field: util.RecipeFileName, Reason: err.Error()}
	}

	rec := Recipe{Schema: currentSchema}
	if err := rec.applyMeta(recipeMeta{file.Name, file.Version, file.License, file.Author, file.Url, file.Description, file.Topics}); err != nil {
		return rec, err
	}

	if len(file.Options) > 0 {
		rec.Options = parseOptionDecls(file.Options)
	} else {
		rec.Options = DefaultOptionDecls()
	}

	linkReqs, err := parseRefList(file.Requires, ScopeLink)
	if err != nil {
		return rec, err
	}
	buildReqs, err := parseRefList(file.BuildRequires, ScopeBuild)
	if err != nil {
		return rec, err
	}
	rec.Requires = append(linkReqs, buildReqs...)
	return rec, nil
}

func parseV4Recipe(data []byte) (Recipe, error) {
	var file v4RecipeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Recipe{}, &ConfigurationError{Field: util.RecipeFileName, Reason: err.Error()}
	}

	rec := Recipe{Schema: currentSchema}
	if err := rec.applyMeta(recipeMeta{file.Name, file.Version, file.License, file.Author, file.Url, file.Description, file.Topics}); err != nil {
		return rec, err
	}

	if len(file.Options) > 0 {
		rec.Options = parseOptionDecls(file.Options)
	} else {
		rec.Options = DefaultOptionDecls()
	}

	for _, entry := range file.Requires {
		scope := ScopeLink
		switch entry.Scope {
		case "", string(ScopeLink):
		case string(ScopeBuild):
			scope = ScopeBuild
		default:
			return rec, &ConfigurationError{Field: "requires", Value: entry.Scope, Reason: "scope must be 'link' or 'build'"}
		}
		req, err := ParseRef(entry.Ref, scope)
		if err != nil {
			return rec, err
		}
		rec.Requires = append(rec.Requires, req)
	}

	for _, entry := range file.Artifacts {
		if entry.Pattern == "" || entry.Dst == "" {
			return rec, &ConfigurationError{Field: "artifacts", Reason: "pattern and dst must not be empty"}
		}
		rec.Artifacts = append(rec.Artifacts, ArtifactRule(entry))
	}

	if file.Scm != nil {
		if file.Scm.Type != "git" {
			return rec, &ConfigurationError{Field: "scm", Value: file.Scm.Type, Reason: "only git sources are supported"}
		}
		rec.SCM = &SCM{
			Type:      file.Scm.Type,
			URL:       file.Scm.Url,
			Revision:  file.Scm.Revision,
			Subfolder: file.Scm.Subfolder,
		}
	}

	return rec, nil
}
