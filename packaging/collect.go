package packaging

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/recipe"
	"github.com/pixiretro/pxpack/util"
)

// CollectionError reports an artifact rule marked required that matched no
// build outputs.
type CollectionError struct {
	Rule recipe.ArtifactRule
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("required artifact rule '%s' -> '%s/' matched no files", e.Rule.Pattern, e.Rule.Dst)
}

// Collect copies build outputs matching each rule's glob into
// `<packageRoot>/<rule.Dst>`. Rules are applied in listed order; later rules
// may overwrite files placed by earlier ones. Destination directories are
// created on demand. A rule matching no files is valid unless the rule is
// marked required.
func Collect(buildDir, packageRoot string, rules []recipe.ArtifactRule) error {
	for _, rule := range rules {
		matches, err := matchRule(buildDir, rule)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			if rule.Required {
				return &CollectionError{Rule: rule}
			}
			log.Debug("Artifact rule '%s' matched no files.\n", rule.Pattern)
			continue
		}

		for _, relPath := range matches {
			dstPath := relPath
			if rule.Flatten {
				dstPath = path.Base(relPath)
			}
			dst := path.Join(packageRoot, rule.Dst, dstPath)
			log.Debug("Collecting '%s' -> '%s'.\n", relPath, dst)
			if err := util.CopyFile(path.Join(buildDir, relPath), dst); err != nil {
				return err
			}
		}
	}
	return nil
}

// matchRule walks the build output tree and returns the slash-separated
// relative paths of all files matching the rule's pattern. Patterns without
// a path separator match file names anywhere in the tree; patterns with
// separators match the full relative path. Walk order is lexical, so the
// result is deterministic.
func matchRule(buildDir string, rule recipe.ArtifactRule) ([]string, error) {
	matches := []string{}
	nameOnly := !strings.ContainsRune(rule.Pattern, '/')

	err := filepath.WalkDir(buildDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(buildDir, p)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		target := relPath
		if nameOnly {
			target = path.Base(relPath)
		}
		matched, err := path.Match(rule.Pattern, target)
		if err != nil {
			return fmt.Errorf("invalid artifact pattern '%s': %s", rule.Pattern, err)
		}
		if matched {
			matches = append(matches, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// DefaultArtifactRules returns the artifact rules assumed by recipes that do
// not declare any: headers keep their directory structure under include/,
// link libraries are flattened into lib/, runtime libraries into bin/ or
// lib/ per platform convention.
func DefaultArtifactRules(settings recipe.Settings) []recipe.ArtifactRule {
	rules := []recipe.ArtifactRule{
		{Pattern: "*.h", Dst: IncludeDirName},
		{Pattern: "*.hpp", Dst: IncludeDirName},
	}
	switch settings.OS {
	case recipe.OSWindows:
		rules = append(rules,
			recipe.ArtifactRule{Pattern: "*.lib", Dst: LibDirName, Flatten: true},
			recipe.ArtifactRule{Pattern: "*.dll", Dst: BinDirName, Flatten: true},
			recipe.ArtifactRule{Pattern: "*.pdb", Dst: BinDirName, Flatten: true},
		)
	case recipe.OSMacos:
		rules = append(rules,
			recipe.ArtifactRule{Pattern: "*.a", Dst: LibDirName, Flatten: true},
			recipe.ArtifactRule{Pattern: "*.dylib", Dst: LibDirName, Flatten: true},
		)
	default:
		rules = append(rules,
			recipe.ArtifactRule{Pattern: "*.a", Dst: LibDirName, Flatten: true},
			recipe.ArtifactRule{Pattern: "*.so", Dst: LibDirName, Flatten: true},
		)
	}
	return rules
}
