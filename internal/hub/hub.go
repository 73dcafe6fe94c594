// Package hub downloads single files from a model hub addressed by
// owner/repo/path triples. Fetched blobs land in a local cache under the
// zoomaker home; placement into the target directory is a symlink by default
// or a full copy when the caller disables linking.
package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hfg-gmuend/zoomaker/internal/progress"
	"github.com/hfg-gmuend/zoomaker/pkg/config"
	"github.com/hfg-gmuend/zoomaker/pkg/safeio"
)

// DefaultRevision is used when a resource pins no revision.
const DefaultRevision = "main"

// Client fetches files from a hub endpoint speaking the resolve protocol
// (GET <endpoint>/<repo_id>/resolve/<revision>/<path>).
type Client struct {
	Endpoint    string
	Token       string
	CacheDir    string
	HTTPClient  *http.Client
	ProgressOut io.Writer
}

// NewClient builds a hub client from tool configuration. The cache lives
// under <zoomaker home>/cache/hub.
func NewClient(cfg config.HubConfig) (*Client, error) {
	home, err := config.EnsureZoomakerHome()
	if err != nil {
		return nil, err
	}
	return &Client{
		Endpoint:    strings.TrimSuffix(cfg.Endpoint, "/"),
		Token:       cfg.Token,
		CacheDir:    filepath.Join(home, "cache", "hub"),
		HTTPClient:  &http.Client{Timeout: 0}, // large model files; no overall deadline
		ProgressOut: os.Stderr,
	}, nil
}

// CachePath returns where a fetched file lives in the local cache.
func (c *Client) CachePath(repoID, filePath, revision string) string {
	if revision == "" {
		revision = DefaultRevision
	}
	return filepath.Join(c.CacheDir,
		strings.ReplaceAll(repoID, "/", "--"),
		strings.ReplaceAll(revision, "/", "--"),
		filepath.FromSlash(filePath))
}

// Fetch downloads repoID/filePath at revision into the cache and returns the
// cached file path. A cache hit returns immediately without touching the
// network. Errors propagate to the caller; the hub strategy does not retry.
func (c *Client) Fetch(ctx context.Context, repoID, filePath, revision string) (string, error) {
	if revision == "" {
		revision = DefaultRevision
	}
	cachePath := c.CachePath(repoID, filePath, revision)
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	url := fmt.Sprintf("%s/%s/resolve/%s/%s", c.Endpoint, repoID, revision, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("hub request for %s: %w", url, err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("hub fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("hub fetch %s: unexpected status %s", url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(cachePath), 0o750); err != nil {
		return "", fmt.Errorf("hub cache dir: %w", err)
	}

	// Stream to a partial file and rename on success so an interrupted
	// transfer never shows up as a cache hit.
	partial := cachePath + ".part"
	out, err := os.OpenFile(partial, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) // #nosec G304
	if err != nil {
		return "", fmt.Errorf("hub cache write: %w", err)
	}

	bar := progress.Bytes(c.ProgressOut, resp.ContentLength, filepath.Base(filePath))
	_, err = io.Copy(io.MultiWriter(out, bar), resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(partial)
		return "", fmt.Errorf("hub fetch %s: %w", url, err)
	}

	if err := os.Rename(partial, cachePath); err != nil {
		_ = os.Remove(partial)
		return "", fmt.Errorf("hub cache store: %w", err)
	}
	return cachePath, nil
}

// Place links or copies a cached file to dest. copyMode forces a full copy
// (--no-symlinks); otherwise a symlink to the cache is attempted first, with
// copy as the fallback for filesystems that refuse links.
func (c *Client) Place(cachePath, dest string, copyMode bool) error {
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("remove existing %s: %w", dest, err)
		}
	}
	if !copyMode {
		if err := os.Symlink(cachePath, dest); err == nil {
			return nil
		}
	}
	return safeio.CopyFile(cachePath, dest)
}
