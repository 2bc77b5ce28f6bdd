package packaging

import (
	"github.com/pixiretro/pxpack/recipe"
)

// Conventional package layout directory names.
const (
	IncludeDirName = "include"
	LibDirName     = "lib"
	BinDirName     = "bin"
)

// debugSuffix is appended to every library file name of debug-class builds.
const debugSuffix = "d"

// importLibPrefix marks the static import companion of a Windows DLL. The
// prefix keeps the companion's name distinct from the dynamic file.
const importLibPrefix = "imp_"

// PackageDescriptor is the consumer-facing metadata of a produced package:
// the library file names to link against and the conventional directory
// names to find headers, link libraries and runtime binaries in.
type PackageDescriptor struct {
	Libs        []string `json:"libs" yaml:"libs"`
	LibDirs     []string `json:"libdirs" yaml:"libdirs"`
	BinDirs     []string `json:"bindirs" yaml:"bindirs"`
	IncludeDirs []string `json:"includedirs" yaml:"includedirs"`
}

// Describe computes the package descriptor for the given library base name,
// settings and frozen option set. It is a pure function: it never touches
// the filesystem and is recomputed on every invocation.
func Describe(baseName string, settings recipe.Settings, options *recipe.Options) (PackageDescriptor, error) {
	desc := PackageDescriptor{
		LibDirs:     []string{LibDirName},
		BinDirs:     []string{BinDirName},
		IncludeDirs: []string{IncludeDirName},
	}

	name := baseName
	if settings.IsDebug() {
		name += debugSuffix
	}

	shared, err := options.GetBool(recipe.OptionShared)
	if err != nil {
		return desc, err
	}

	switch settings.OS {
	case recipe.OSWindows:
		if shared {
			// The import companion is what consumers pass to the linker;
			// the DLL itself is the runtime artifact.
			desc.Libs = []string{importLibPrefix + name + ".lib", name + ".dll"}
		} else {
			desc.Libs = []string{name + ".lib"}
		}
	case recipe.OSMacos:
		if shared {
			desc.Libs = []string{name + ".dylib"}
		} else {
			desc.Libs = []string{name + ".a"}
		}
	default:
		if shared {
			desc.Libs = []string{name + ".so"}
		} else {
			desc.Libs = []string{name + ".a"}
		}
	}

	desc.Libs = uniqueStrings(desc.Libs)
	return desc, nil
}

// uniqueStrings drops duplicate entries, keeping first occurrences in order.
func uniqueStrings(values []string) []string {
	seen := map[string]bool{}
	result := []string{}
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}
