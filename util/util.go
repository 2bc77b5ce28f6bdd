package util

import (
	"fmt"
	"io"
	"os"
	"path"
)

// FileMode is the default FileMode used when creating files.
const FileMode = 0664

// DirMode is the default FileMode used when creating directories.
const DirMode = 0775

// RecipeFileName is the name of the file describing a package recipe.
const RecipeFileName = "RECIPE"

// DepsDirName is the directory that fetched requirements are stored in.
const DepsDirName = "DEPS"

// SourceDirName is the directory that recipe sources are checked out into.
const SourceDirName = "SOURCE"

// BuildDirName is the directory that raw build outputs are written to.
const BuildDirName = "BUILD"

// PackageDirName is the directory that the assembled package tree is written to.
const PackageDirName = "PACKAGE"

// FileExists checks whether some file exists.
func FileExists(file string) bool {
	stat, err := os.Stat(file)
	return err == nil && !stat.IsDir()
}

// DirExists checks whether some directory exists.
func DirExists(dir string) bool {
	stat, err := os.Stat(dir)
	return err == nil && stat.IsDir()
}

// MkdirAll creates the directory `dir` and all missing parents.
func MkdirAll(dir string) error {
	return os.MkdirAll(dir, DirMode)
}

// WriteFile writes `data` to `file`, creating any missing parent directories.
func WriteFile(file string, data []byte) error {
	if err := MkdirAll(path.Dir(file)); err != nil {
		return err
	}
	return os.WriteFile(file, data, FileMode)
}

// CopyFile copies a single file from `src` to `dst`, creating any missing
// parent directories of `dst`. An existing file at `dst` is overwritten.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := MkdirAll(path.Dir(dst)); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FileMode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// RemoveDir removes the directory `dir` and all of its content.
func RemoveDir(dir string) error {
	return os.RemoveAll(dir)
}

func getWorkspaceRoot(p string) (string, error) {
	for {
		recipeFilePath := path.Join(p, RecipeFileName)
		if FileExists(recipeFilePath) {
			return p, nil
		}
		if p == "/" {
			return "", fmt.Errorf("not inside a package workspace (no %s file found)", RecipeFileName)
		}
		p = path.Dir(p)
	}
}

// GetWorkspaceRoot returns the root directory of the current workspace
// (i.e., the closest parent directory containing a RECIPE file).
func GetWorkspaceRoot() (string, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return getWorkspaceRoot(workingDir)
}
