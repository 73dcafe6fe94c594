// Package fetch implements the resource fetch strategies and the install
// orchestrator that walks a manifest and drives them.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hfg-gmuend/zoomaker/internal/hub"
	"github.com/hfg-gmuend/zoomaker/pkg/logger"
)

// Reporter receives install progress and warnings. The orchestrator never
// writes to a global logger; output formatting is the caller's concern.
type Reporter interface {
	Info(message string, fields ...logger.Field)
	Warn(message string, fields ...logger.Field)
	Error(message string, fields ...logger.Field)
}

// Options tunes one install run.
type Options struct {
	// NoSymlinks forces full copies out of the hub cache instead of symlinks.
	NoSymlinks bool
	// Jobs bounds parallel installation across destination directories.
	// 0 or 1 means strictly sequential, in manifest order.
	Jobs int
}

// Summary is the outcome of an install run.
type Summary struct {
	// Installed counts resources successfully placed.
	Installed int
	// Halted is set when a download failure stopped the run early.
	// Resources after the failure were not attempted.
	Halted bool
}

// Installer carries the collaborators every strategy needs. Construct it
// once per run; it holds no per-resource state.
type Installer struct {
	Hub         *hub.Client
	HTTPClient  *http.Client
	UserAgent   string
	Reporter    Reporter
	ProgressOut io.Writer
	Options     Options
}

// HubError is a failed hub fetch. It propagates and aborts the run.
type HubError struct {
	Resource string
	Src      string
	Err      error
}

func (e *HubError) Error() string {
	return fmt.Sprintf("hub fetch failed for %q (src %s): %v", e.Resource, e.Src, e.Err)
}

func (e *HubError) Unwrap() error { return e.Err }

// GitError is a failed clone, fetch, checkout or pull. It propagates and
// aborts the run.
type GitError struct {
	Resource string
	Src      string
	Revision string
	Err      error
}

func (e *GitError) Error() string {
	if e.Revision != "" {
		return fmt.Sprintf("git operation failed for %q (src %s, revision %s): %v", e.Resource, e.Src, e.Revision, e.Err)
	}
	return fmt.Sprintf("git operation failed for %q (src %s): %v", e.Resource, e.Src, e.Err)
}

func (e *GitError) Unwrap() error { return e.Err }

// DownloadError is a failed generic download. Unlike hub and git failures it
// is handled inside the strategy: the orchestrator logs it and halts further
// processing instead of propagating.
type DownloadError struct {
	Resource string
	Src      string
	Reason   string
	Err      error
}

func (e *DownloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("download failed for %q (src %s): %s: %v", e.Resource, e.Src, e.Reason, e.Err)
	}
	return fmt.Sprintf("download failed for %q (src %s): %s", e.Resource, e.Src, e.Reason)
}

func (e *DownloadError) Unwrap() error { return e.Err }

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// humanBytes renders a byte count the way progress output does, with 1024
// divisors.
func humanBytes(size int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case size >= gb:
		return fmt.Sprintf("%.2f GB", float64(size)/gb)
	case size >= mb:
		return fmt.Sprintf("%.2f MB", float64(size)/mb)
	case size >= kb:
		return fmt.Sprintf("%.2f KB", float64(size)/kb)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
