package packaging

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"

	"github.com/pixiretro/pxpack/util"
)

// PackageInfoFileName is the terminal marker file of a package tree. Its
// absence marks the package as incomplete: it is written only after every
// pipeline phase has succeeded.
const PackageInfoFileName = "PKGINFO"

// PackageInfo records what a package tree was built from, alongside the
// descriptor consumers link against.
type PackageInfo struct {
	Name       string
	Version    string
	Settings   map[string]string
	Options    map[string]string
	Descriptor PackageDescriptor
}

// WritePackageInfo writes the PKGINFO marker into the package root.
func WritePackageInfo(packageRoot string, info PackageInfo) error {
	data, err := yaml.Marshal(info)
	if err != nil {
		return err
	}
	return util.WriteFile(path.Join(packageRoot, PackageInfoFileName), data)
}

// ReadPackageInfo reads the PKGINFO marker of a package root.
func ReadPackageInfo(packageRoot string) (PackageInfo, error) {
	var info PackageInfo
	data, err := os.ReadFile(path.Join(packageRoot, PackageInfoFileName))
	if err != nil {
		return info, err
	}
	err = yaml.Unmarshal(data, &info)
	return info, err
}

// IsComplete reports whether the package root carries the completeness marker.
func IsComplete(packageRoot string) bool {
	return util.FileExists(path.Join(packageRoot, PackageInfoFileName))
}
