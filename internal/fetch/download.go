package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hfg-gmuend/zoomaker/internal/manifest"
	"github.com/hfg-gmuend/zoomaker/internal/progress"
	"github.com/hfg-gmuend/zoomaker/pkg/filename"
	"github.com/hfg-gmuend/zoomaker/pkg/logger"
	"github.com/hfg-gmuend/zoomaker/pkg/safeio"
)

// downloadBaseName derives the fallback filename from the source URL path.
func downloadBaseName(src string) string {
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(src)
}

// installDownload streams src to install_to. Unlike the hub and git
// strategies every failure is degraded into a *DownloadError so the
// orchestrator can halt gracefully instead of aborting the process.
func (ins *Installer) installDownload(ctx context.Context, res manifest.Resource, installTo string) error {
	if res.Revision != "" {
		ins.Reporter.Warn("revision is not supported for downloads, ignoring",
			logger.String("revision", res.Revision))
	}

	slugged := filename.Slugify(downloadBaseName(res.Src))
	destination := filepath.Join(installTo, slugged)
	var destinationRenamed string
	if res.RenameTo != "" {
		destinationRenamed = filepath.Join(installTo, res.RenameTo)
	}

	if exists(destination) || (destinationRenamed != "" && exists(destinationRenamed)) {
		ins.Reporter.Info("skipping download: already exists",
			logger.String("file", slugged))
		return nil
	}

	dlErr := func(reason string, err error) error {
		return &DownloadError{Resource: res.Name, Src: res.Src, Reason: reason, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.Src, nil)
	if err != nil {
		return dlErr("invalid source URL", err)
	}
	req.Header.Set("User-Agent", ins.UserAgent)
	if res.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+res.APIKey)
	}

	httpClient := ins.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return dlErr("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return dlErr("unexpected status "+resp.Status, nil)
	}

	// An HTML body is the classic symptom of a gated download: the server
	// served its login or landing page instead of the file.
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(contentType, "text/html") || strings.Contains(contentType, "application/xhtml+xml") {
		return dlErr("received an HTML document instead of a file; if the source requires authentication, add api_key to the resource", nil)
	}

	finalName := slugged
	if declared, ok := filename.FromHeaders(resp.Header); ok {
		finalName = declared
	}
	filePath := filepath.Join(installTo, finalName)

	partial := filePath + ".part"
	out, err := os.OpenFile(partial, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) // #nosec G304
	if err != nil {
		return dlErr("cannot write destination", err)
	}
	bar := progress.Bytes(ins.ProgressOut, resp.ContentLength, finalName)
	_, err = io.Copy(io.MultiWriter(out, bar), resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(partial)
		return dlErr("write failed", err)
	}
	if err := os.Rename(partial, filePath); err != nil {
		_ = os.Remove(partial)
		return dlErr("cannot place file", err)
	}

	if size, err := safeio.FileSize(filePath); err == nil {
		ins.Reporter.Info("size: " + humanBytes(size))
	}
	ins.Reporter.Info("downloaded to: " + filePath)

	if destinationRenamed != "" {
		if err := safeio.MoveFile(filePath, destinationRenamed); err != nil {
			return dlErr("rename failed", err)
		}
		ins.Reporter.Info("renamed to: " + destinationRenamed)
	}
	return nil
}
