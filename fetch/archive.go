package fetch

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v2"

	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/netrc"
	"github.com/pixiretro/pxpack/util"
)

const archiveMetadataFileName = ".metadata"

type archiveMetadata struct {
	URL    string
	Sha256 string
}

func getRoot(p string) string {
	firstSlash := strings.IndexByte(p, '/')
	if firstSlash == -1 {
		return p
	}
	return p[0:firstSlash]
}

// This leaves a leading /, but this is fine because the result paths are
// relative to the destination directory.
func stripRoot(p string) string {
	root := getRoot(p)
	if p == root {
		return "/"
	}
	return p[len(root):]
}

// fetchArchive downloads and extracts a .tar.gz or .tar.xz archive into
// `dir`, stripping the archive's root directory. The download url and the
// archive's sha256 are recorded in a ".metadata" file inside the directory.
func fetchArchive(url, dir string) error {
	log.Log("Downloading '%s'.\n", url)
	log.Spinner.Start()
	defer log.Spinner.Stop()

	request, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to download archive: %s", err)
	}
	if auth := netrc.GetAuthForUrl(url); auth != nil {
		request.SetBasicAuth(auth.User, auth.Password)
	}
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return fmt.Errorf("failed to download archive: %s", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download archive: %s", response.Status)
	}

	hasher := sha256.New()
	body := io.TeeReader(response.Body, hasher)

	var tarReader io.Reader
	if strings.HasSuffix(url, ".tar.xz") {
		tarReader, err = xz.NewReader(body)
	} else {
		tarReader, err = gzip.NewReader(body)
	}
	if err != nil {
		return fmt.Errorf("failed to decompress archive: %s", err)
	}

	if err := extractTar(tarReader, dir); err != nil {
		return err
	}

	metadata := archiveMetadata{
		URL:    url,
		Sha256: hex.EncodeToString(hasher.Sum(nil)),
	}
	data, err := yaml.Marshal(metadata)
	if err != nil {
		return err
	}
	return util.WriteFile(path.Join(dir, archiveMetadataFileName), data)
}

// entryPath resolves an archive entry name to a path inside `dir`. Entries
// whose cleaned path would land outside `dir` are rejected.
func entryPath(dir, name string) (string, error) {
	p := path.Join(dir, stripRoot(name))
	if p != dir && !strings.HasPrefix(p, dir+"/") {
		return "", fmt.Errorf("archive entry '%s' escapes the destination directory", name)
	}
	return p, nil
}

// extractTar unpacks a tar stream into `dir`, stripping the common root
// directory of all archive entries.
func extractTar(reader io.Reader, dir string) error {
	tarFile := tar.NewReader(reader)
	for {
		header, err := tarFile.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %s", err)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			dirPath, err := entryPath(dir, header.Name)
			if err != nil {
				return err
			}
			if err := util.MkdirAll(dirPath); err != nil {
				return fmt.Errorf("failed to create directory '%s': %s", dirPath, err)
			}

		case tar.TypeReg:
			filePath, err := entryPath(dir, header.Name)
			if err != nil {
				return err
			}
			if err := util.MkdirAll(path.Dir(filePath)); err != nil {
				return fmt.Errorf("failed to create directory '%s': %s", path.Dir(filePath), err)
			}
			out, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("failed to create file '%s': %s", filePath, err)
			}
			if _, err := io.Copy(out, tarFile); err != nil {
				out.Close()
				return fmt.Errorf("failed to extract file '%s': %s", filePath, err)
			}
			out.Close()

		case tar.TypeSymlink:
			filePath, err := entryPath(dir, header.Name)
			if err != nil {
				return err
			}
			if err := util.MkdirAll(path.Dir(filePath)); err != nil {
				return fmt.Errorf("failed to create directory '%s': %s", path.Dir(filePath), err)
			}
			if err := os.Symlink(header.Linkname, filePath); err != nil {
				return fmt.Errorf("failed to create symlink '%s': %s", filePath, err)
			}

		default:
			log.Debug("Ignoring archive entry '%s' of type %d.\n", header.Name, header.Typeflag)
		}
	}
}
