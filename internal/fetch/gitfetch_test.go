package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/hfg-gmuend/zoomaker/internal/manifest"
)

func gitResource(src, installTo string) manifest.Resource {
	return manifest.Resource{
		Name:      "controlnet",
		Src:       src,
		Type:      manifest.TypeGit,
		InstallTo: installTo,
	}
}

func headHash(t *testing.T, repoPath string) string {
	t.Helper()
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		t.Fatalf("open %s: %v", repoPath, err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("head of %s: %v", repoPath, err)
	}
	return head.Hash().String()
}

func TestGitCloneFresh(t *testing.T) {
	upstream, commits := initUpstreamRepo(t)
	installTo := t.TempDir()
	ins, reporter := newTestInstaller(nil, nil)

	src := fmt.Sprintf("file://%s", upstream)
	if err := ins.installGit(context.Background(), gitResource(src, installTo), installTo); err != nil {
		t.Fatalf("installGit failed: %v", err)
	}

	repoPath := filepath.Join(installTo, filepath.Base(upstream))
	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err != nil {
		t.Fatalf("expected cloned repo: %v", err)
	}
	if got := headHash(t, repoPath); got != commits[len(commits)-1] {
		t.Errorf("head = %s, want upstream tip %s", got, commits[len(commits)-1])
	}
	if !reporter.contains(commits[len(commits)-1]) {
		t.Error("resulting commit hash should be reported")
	}
}

func TestGitCloneWithPinnedRevision(t *testing.T) {
	upstream, commits := initUpstreamRepo(t)
	installTo := t.TempDir()
	ins, _ := newTestInstaller(nil, nil)

	res := gitResource(fmt.Sprintf("file://%s", upstream), installTo)
	res.Revision = commits[0]

	if err := ins.installGit(context.Background(), res, installTo); err != nil {
		t.Fatalf("installGit failed: %v", err)
	}
	repoPath := filepath.Join(installTo, filepath.Base(upstream))
	if got := headHash(t, repoPath); got != commits[0] {
		t.Errorf("head = %s, want pinned %s", got, commits[0])
	}
	// The pinned commit predates config.json.
	if _, err := os.Stat(filepath.Join(repoPath, "config.json")); !os.IsNotExist(err) {
		t.Error("worktree should reflect the pinned revision")
	}
}

func TestGitExistingRepoPullsLatest(t *testing.T) {
	upstream, _ := initUpstreamRepo(t)
	installTo := t.TempDir()
	ins, _ := newTestInstaller(nil, nil)

	src := fmt.Sprintf("file://%s", upstream)
	res := gitResource(src, installTo)
	if err := ins.installGit(context.Background(), res, installTo); err != nil {
		t.Fatalf("initial clone failed: %v", err)
	}

	// Upstream moves on.
	upstreamRepo, err := git.PlainOpen(upstream)
	if err != nil {
		t.Fatal(err)
	}
	newTip := commitFile(t, upstreamRepo, upstream, "extra.txt", "more", "third commit")

	if err := ins.installGit(context.Background(), res, installTo); err != nil {
		t.Fatalf("re-install failed: %v", err)
	}
	repoPath := filepath.Join(installTo, filepath.Base(upstream))
	if got := headHash(t, repoPath); got != newTip {
		t.Errorf("head = %s, want pulled tip %s", got, newTip)
	}
}

func TestGitExistingRepoCheckoutRevision(t *testing.T) {
	upstream, commits := initUpstreamRepo(t)
	installTo := t.TempDir()
	ins, _ := newTestInstaller(nil, nil)

	src := fmt.Sprintf("file://%s", upstream)
	res := gitResource(src, installTo)
	if err := ins.installGit(context.Background(), res, installTo); err != nil {
		t.Fatalf("initial clone failed: %v", err)
	}

	res.Revision = commits[0]
	if err := ins.installGit(context.Background(), res, installTo); err != nil {
		t.Fatalf("checkout run failed: %v", err)
	}
	repoPath := filepath.Join(installTo, filepath.Base(upstream))
	if got := headHash(t, repoPath); got != commits[0] {
		t.Errorf("head = %s, want %s", got, commits[0])
	}
}

func TestGitRenameToWarnsAndIgnores(t *testing.T) {
	upstream, _ := initUpstreamRepo(t)
	installTo := t.TempDir()
	ins, reporter := newTestInstaller(nil, nil)

	res := gitResource(fmt.Sprintf("file://%s", upstream), installTo)
	res.RenameTo = "renamed-repo"

	if err := ins.installGit(context.Background(), res, installTo); err != nil {
		t.Fatalf("installGit failed: %v", err)
	}
	if !reporter.contains("rename_to is not supported") {
		t.Error("expected a warning about rename_to")
	}
	// The clone still lands under the source-derived name.
	if _, err := os.Stat(filepath.Join(installTo, filepath.Base(upstream))); err != nil {
		t.Errorf("repo missing under derived name: %v", err)
	}
	if _, err := os.Stat(filepath.Join(installTo, "renamed-repo")); !os.IsNotExist(err) {
		t.Error("rename_to must be ignored for git resources")
	}
}

func TestGitUnknownRevision(t *testing.T) {
	upstream, _ := initUpstreamRepo(t)
	installTo := t.TempDir()
	ins, _ := newTestInstaller(nil, nil)

	res := gitResource(fmt.Sprintf("file://%s", upstream), installTo)
	res.Revision = "does-not-exist"

	err := ins.installGit(context.Background(), res, installTo)
	var gitErr *GitError
	if !errors.As(err, &gitErr) {
		t.Fatalf("expected *GitError, got %v", err)
	}
}

func TestGitBadRemote(t *testing.T) {
	installTo := t.TempDir()
	ins, _ := newTestInstaller(nil, nil)

	res := gitResource("file:///nonexistent/upstream/repo.git", installTo)
	err := ins.installGit(context.Background(), res, installTo)
	var gitErr *GitError
	if !errors.As(err, &gitErr) {
		t.Fatalf("expected *GitError, got %v", err)
	}
}
