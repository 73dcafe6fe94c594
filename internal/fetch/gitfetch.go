package fetch

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/hfg-gmuend/zoomaker/internal/manifest"
	"github.com/hfg-gmuend/zoomaker/pkg/logger"
)

// repoNameFrom derives the working directory name from a git URL: strip a
// trailing .git, else take the basename.
func repoNameFrom(src string) string {
	base := path.Base(strings.TrimSuffix(src, "/"))
	return strings.TrimSuffix(base, ".git")
}

// installGit brings install_to/<repo-name> to the requested state: clone it
// when absent, otherwise fetch and either check out the pinned revision or
// pull the default branch. Submodules are updated recursively after every
// transition.
func (ins *Installer) installGit(ctx context.Context, res manifest.Resource, installTo string) error {
	if res.RenameTo != "" {
		ins.Reporter.Warn("rename_to is not supported for git repos, ignoring",
			logger.String("rename_to", res.RenameTo))
	}

	repoPath := filepath.Join(installTo, repoNameFrom(res.Src))
	gitErr := func(err error) error {
		return &GitError{Resource: res.Name, Src: res.Src, Revision: res.Revision, Err: err}
	}

	if exists(repoPath) {
		repo, err := git.PlainOpen(repoPath)
		if err != nil {
			return gitErr(fmt.Errorf("open %s: %w", repoPath, err))
		}
		if err := fetchOrigin(ctx, repo); err != nil {
			return gitErr(fmt.Errorf("fetch origin: %w", err))
		}
		if res.Revision != "" {
			if err := checkoutRevision(repo, res.Revision); err != nil {
				return gitErr(err)
			}
			if err := updateSubmodules(repo); err != nil {
				return gitErr(fmt.Errorf("update submodules: %w", err))
			}
			return ins.reportHead(repo, "checked out revision")
		}
		if err := pullOrigin(ctx, repo); err != nil {
			return gitErr(fmt.Errorf("pull origin: %w", err))
		}
		if err := updateSubmodules(repo); err != nil {
			return gitErr(fmt.Errorf("update submodules: %w", err))
		}
		return ins.reportHead(repo, "pulled latest")
	}

	repo, err := git.PlainCloneContext(ctx, repoPath, false, &git.CloneOptions{
		URL:               res.Src,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
		Tags:              git.AllTags,
	})
	if err != nil {
		return gitErr(fmt.Errorf("clone %s: %w", res.Src, err))
	}

	if res.Revision != "" {
		if err := checkoutRevision(repo, res.Revision); err != nil {
			return gitErr(err)
		}
		// The recursive clone resolved submodules for the default branch;
		// the pinned revision may point them elsewhere.
		if err := updateSubmodules(repo); err != nil {
			return gitErr(fmt.Errorf("update submodules: %w", err))
		}
		return ins.reportHead(repo, "checked out revision")
	}

	if err := pullOrigin(ctx, repo); err != nil {
		return gitErr(fmt.Errorf("pull origin: %w", err))
	}
	if err := updateSubmodules(repo); err != nil {
		return gitErr(fmt.Errorf("update submodules: %w", err))
	}
	return ins.reportHead(repo, "cloned")
}

func (ins *Installer) reportHead(repo *git.Repository, action string) error {
	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("read HEAD: %w", err)
	}
	ins.Reporter.Info(action, logger.String("commit", head.Hash().String()))
	return nil
}

func fetchOrigin(ctx context.Context, repo *git.Repository) error {
	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		Tags:       git.AllTags,
		Force:      true,
	})
	if err == nil || errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

func pullOrigin(ctx context.Context, repo *git.Repository) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}
	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	if err == nil || errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

// checkoutRevision resolves a branch, tag or commit hash and checks out the
// resulting commit.
func checkoutRevision(repo *git.Repository, revision string) error {
	hash, err := resolveRevision(repo, revision)
	if err != nil {
		return err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: hash, Force: true}); err != nil {
		return fmt.Errorf("checkout %s: %w", revision, err)
	}
	return nil
}

func resolveRevision(repo *git.Repository, revision string) (plumbing.Hash, error) {
	if hash, err := repo.ResolveRevision(plumbing.Revision(revision)); err == nil {
		return *hash, nil
	}

	// Try refs/heads, refs/tags, refs/remotes
	candidates := []plumbing.ReferenceName{
		plumbing.ReferenceName(revision),
		plumbing.NewBranchReferenceName(revision),
		plumbing.NewRemoteReferenceName("origin", revision),
		plumbing.NewTagReferenceName(revision),
	}
	for _, candidate := range candidates {
		if reference, err := repo.Reference(candidate, true); err == nil {
			return reference.Hash(), nil
		}
	}

	// Treat as raw commit hash (40 hex chars)
	if len(revision) == 40 && isHex(revision) {
		return plumbing.NewHash(revision), nil
	}

	return plumbing.ZeroHash, fmt.Errorf("revision %s not found", revision)
}

func updateSubmodules(repo *git.Repository) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}
	submodules, err := worktree.Submodules()
	if err != nil {
		return err
	}
	if len(submodules) == 0 {
		return nil
	}
	return submodules.Update(&git.SubmoduleUpdateOptions{
		Init:              true,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
}

func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') && (r < 'A' || r > 'F') {
			return false
		}
	}
	return true
}
