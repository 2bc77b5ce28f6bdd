package fetch

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/pixiretro/pxpack/log"
	"github.com/pixiretro/pxpack/netrc"
	"github.com/pixiretro/pxpack/recipe"
)

// gitAuth returns the user's netrc credentials for the url, if any.
func gitAuth(url string) transport.AuthMethod {
	auth := netrc.GetAuthForUrl(url)
	if auth == nil {
		return nil
	}
	return &githttp.BasicAuth{Username: auth.User, Password: auth.Password}
}

// fetchGit clones the repository and checks out the tag matching the pinned
// version. Both `<version>` and `v<version>` tag names are accepted. A
// missing tag means the pinned version cannot be located.
func fetchGit(url, version, dir string) error {
	log.Log("Cloning '%s'.\n", url)
	log.Spinner.Start()
	defer log.Spinner.Stop()

	repo, err := git.PlainClone(dir, false, &git.CloneOptions{URL: url, Auth: gitAuth(url)})
	if err != nil {
		return fmt.Errorf("failed to clone '%s': %s", url, err)
	}

	var ref *plumbing.Reference
	for _, tagName := range []string{version, "v" + version} {
		ref, err = repo.Tag(tagName)
		if err == nil {
			break
		}
	}
	if ref == nil {
		return fmt.Errorf("no tag for pinned version '%s' in '%s'", version, url)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %s", err)
	}
	err = worktree.Checkout(&git.CheckoutOptions{Hash: ref.Hash()})
	if err != nil {
		return fmt.Errorf("failed to check out '%s': %s", ref.Name().Short(), err)
	}
	return nil
}

// FetchSource checks out the recipe's sources into `sourceDir` per its scm
// section. A nil scm means the sources live in the working tree and nothing
// needs to be fetched. Re-running on an existing checkout only moves it to
// the pinned revision.
func FetchSource(scm *recipe.SCM, sourceDir string) error {
	if scm == nil {
		log.Debug("Recipe has no scm section. Using in-tree sources.\n")
		return nil
	}

	repo, err := git.PlainOpen(sourceDir)
	if err == git.ErrRepositoryNotExists {
		log.Log("Cloning sources from '%s'.\n", scm.URL)
		log.Spinner.Start()
		repo, err = git.PlainClone(sourceDir, false, &git.CloneOptions{URL: scm.URL, Auth: gitAuth(scm.URL)})
		log.Spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("failed to open source checkout: %s", err)
	}

	if scm.Revision == "" {
		return nil
	}

	hash, err := resolveRevision(repo, scm.Revision)
	if err != nil {
		return err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get source worktree: %s", err)
	}
	err = worktree.Checkout(&git.CheckoutOptions{Hash: hash})
	if err != nil {
		return fmt.Errorf("failed to check out source revision '%s': %s", scm.Revision, err)
	}
	return nil
}

func resolveRevision(repo *git.Repository, revision string) (plumbing.Hash, error) {
	if ref, err := repo.Tag(revision); err == nil {
		return ref.Hash(), nil
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("cannot resolve source revision '%s': %s", revision, err)
	}
	return *hash, nil
}
