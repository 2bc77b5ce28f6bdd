package fetch

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/recipe"
	"github.com/pixiretro/pxpack/util"
)

// ResolutionError reports a pinned requirement version that cannot be
// located on any configured remote. It is never downgraded to a
// fallback-to-latest.
type ResolutionError struct {
	Ref    string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve requirement '%s': %s", e.Ref, e.Reason)
}

// Fetcher materializes a requirement into a local directory. The dependency
// resolver only produces requirement lists; a Fetcher is the runtime that
// turns them into checked-out libraries.
type Fetcher interface {
	Fetch(req recipe.Requirement, depsDir string) (string, error)
}

// RemoteFetcher fetches requirements from configured remotes. Each remote is
// a URL template; `{name}`, `{version}` and `{channel}` are substituted from
// the requirement. Remotes are tried in deterministic (name) order.
type RemoteFetcher struct {
	remotes map[string]string
}

// NewRemoteFetcher builds a fetcher over the configured remote templates.
func NewRemoteFetcher(remotes map[string]string) *RemoteFetcher {
	return &RemoteFetcher{remotes: remotes}
}

// ExpandRemote substitutes the requirement's fields into a remote URL
// template.
func ExpandRemote(template string, req recipe.Requirement) string {
	url := strings.ReplaceAll(template, "{name}", req.Name)
	url = strings.ReplaceAll(url, "{version}", req.Version)
	url = strings.ReplaceAll(url, "{channel}", req.Channel)
	return url
}

// Fetch materializes the requirement into `<depsDir>/<name>-<version>` and
// returns that directory. An already fetched requirement is reused without
// touching the network.
func (f *RemoteFetcher) Fetch(req recipe.Requirement, depsDir string) (string, error) {
	depDir := path.Join(depsDir, fmt.Sprintf("%s-%s", req.Name, req.Version))
	if util.DirExists(depDir) {
		log.Debug("Requirement '%s' already present in '%s'.\n", req.Ref(), depDir)
		return depDir, nil
	}

	if len(f.remotes) == 0 {
		return "", &ResolutionError{Ref: req.Ref(), Reason: "no remotes configured"}
	}

	var lastErr error
	for _, name := range util.OrderedKeys(f.remotes) {
		url := ExpandRemote(f.remotes[name], req)
		log.Debug("Trying remote '%s': %s\n", name, url)

		var err error
		switch {
		case strings.HasSuffix(url, ".git"):
			err = fetchGit(url, req.Version, depDir)
		case strings.HasSuffix(url, ".tar.gz"), strings.HasSuffix(url, ".tar.xz"):
			err = fetchArchive(url, depDir)
		default:
			err = fmt.Errorf("remote '%s' has an unsupported url format", name)
		}
		if err == nil {
			log.Success("Fetched '%s' from remote '%s'.\n", req.Ref(), name)
			return depDir, nil
		}

		os.RemoveAll(depDir)
		log.Debug("Remote '%s' failed: %s\n", name, err)
		lastErr = err
	}

	return "", &ResolutionError{Ref: req.Ref(), Reason: lastErr.Error()}
}
