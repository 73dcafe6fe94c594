package fetch

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/hfg-gmuend/zoomaker/internal/manifest"
	"github.com/hfg-gmuend/zoomaker/pkg/logger"
	"github.com/hfg-gmuend/zoomaker/pkg/safeio"
)

// installHub fetches a single file from the model hub. src has the form
// owner/repo/relative/path; the first two segments address the repository,
// the remainder is the file within it.
func (ins *Installer) installHub(ctx context.Context, res manifest.Resource, installTo string) error {
	parts := strings.Split(strings.Trim(res.Src, "/"), "/")
	if len(parts) < 3 {
		return &HubError{
			Resource: res.Name,
			Src:      res.Src,
			Err:      fmt.Errorf("src must have the form owner/repo/path/to/file"),
		}
	}
	repoID := parts[0] + "/" + parts[1]
	repoFilepath := path.Join(parts[2:]...)
	repoFilename := path.Base(repoFilepath)

	destination := filepath.Join(installTo, repoFilename)
	var destinationRenamed string
	if res.RenameTo != "" {
		destinationRenamed = filepath.Join(installTo, res.RenameTo)
	}

	// With a rename target already in place the fetch is a no-op: no
	// network call at all.
	if destinationRenamed != "" && exists(destinationRenamed) {
		ins.Reporter.Info("skipping download: already exists",
			logger.String("file", res.RenameTo))
		return nil
	}

	cachePath, err := ins.Hub.Fetch(ctx, repoID, repoFilepath, res.Revision)
	if err != nil {
		return &HubError{Resource: res.Name, Src: res.Src, Err: err}
	}

	target := destination
	if destinationRenamed != "" {
		target = destinationRenamed
	}
	if err := ins.Hub.Place(cachePath, target, ins.Options.NoSymlinks); err != nil {
		return &HubError{Resource: res.Name, Src: res.Src, Err: err}
	}

	if size, err := safeio.FileSize(cachePath); err == nil {
		ins.Reporter.Info("size: " + humanBytes(size))
	}
	ins.Reporter.Info("downloaded to: " + target)
	return nil
}
