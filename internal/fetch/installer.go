package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/hfg-gmuend/zoomaker/internal/manifest"
	"github.com/hfg-gmuend/zoomaker/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Install walks the manifest in declaration order and dispatches every
// resource to its strategy. Hub and git failures abort the run and surface to
// the caller; a download failure halts further processing but returns a
// partial summary without error. The asymmetry is deliberate: generic
// downloads degrade gracefully, the other strategies are load-bearing.
func (ins *Installer) Install(ctx context.Context, m *manifest.Manifest) (Summary, error) {
	if ins.Options.Jobs > 1 {
		return ins.installParallel(ctx, m)
	}
	return ins.installSequential(ctx, m)
}

func (ins *Installer) installSequential(ctx context.Context, m *manifest.Manifest) (Summary, error) {
	var summary Summary
	counter := 0
	for _, group := range m.Resources {
		ins.Reporter.Info(group.Name + ":")
		for _, res := range group.Resources {
			counter++
			installTo, err := ins.prepareDestination(res, counter)
			if err != nil {
				return summary, err
			}

			err = ins.installResource(ctx, res, installTo)
			var dlErr *DownloadError
			if errors.As(err, &dlErr) {
				ins.Reporter.Error(dlErr.Error())
				summary.Halted = true
				return summary, nil
			}
			if err != nil {
				return summary, err
			}
			summary.Installed++
		}
	}
	ins.Reporter.Info(fmt.Sprintf("%d resources installed", summary.Installed))
	return summary, nil
}

// installParallel runs partitions of resources concurrently. Resources
// sharing a destination directory stay in one partition and run in manifest
// order, so the per-resource check-then-fetch-then-place sequence never races
// against a sibling targeting the same path.
func (ins *Installer) installParallel(ctx context.Context, m *manifest.Manifest) (Summary, error) {
	type partition struct {
		resources []manifest.Resource
	}
	order := make([]string, 0)
	parts := make(map[string]*partition)
	for _, group := range m.Resources {
		for _, res := range group.Resources {
			key, err := filepath.Abs(res.InstallTo)
			if err != nil {
				return Summary{}, fmt.Errorf("resolve install_to %s: %w", res.InstallTo, err)
			}
			p, ok := parts[key]
			if !ok {
				p = &partition{}
				parts[key] = p
				order = append(order, key)
			}
			p.resources = append(p.resources, res)
		}
	}

	var installed atomic.Int64
	var halted atomic.Bool
	var counter atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ins.Options.Jobs)
	for _, key := range order {
		part := parts[key]
		g.Go(func() error {
			for _, res := range part.resources {
				if halted.Load() || gctx.Err() != nil {
					return nil
				}
				n := int(counter.Add(1))
				installTo, err := ins.prepareDestination(res, n)
				if err != nil {
					return err
				}
				err = ins.installResource(gctx, res, installTo)
				var dlErr *DownloadError
				if errors.As(err, &dlErr) {
					ins.Reporter.Error(dlErr.Error())
					halted.Store(true)
					return nil
				}
				if err != nil {
					return err
				}
				installed.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{Installed: int(installed.Load())}, err
	}

	summary := Summary{Installed: int(installed.Load()), Halted: halted.Load()}
	if !summary.Halted {
		ins.Reporter.Info(fmt.Sprintf("%d resources installed", summary.Installed))
	}
	return summary, nil
}

// prepareDestination resolves install_to to an absolute path and creates it.
func (ins *Installer) prepareDestination(res manifest.Resource, counter int) (string, error) {
	installTo, err := filepath.Abs(res.InstallTo)
	if err != nil {
		return "", fmt.Errorf("resolve install_to %s: %w", res.InstallTo, err)
	}
	if err := os.MkdirAll(installTo, 0o750); err != nil {
		return "", fmt.Errorf("create install_to %s: %w", installTo, err)
	}
	ins.Reporter.Info(fmt.Sprintf("%d. %s", counter, res.Name),
		logger.String("install_to", installTo))
	return installTo, nil
}

// installResource dispatches on the resource type. The switch is exhaustive
// over the closed type set; validation rejected everything else already.
func (ins *Installer) installResource(ctx context.Context, res manifest.Resource, installTo string) error {
	switch res.Type {
	case manifest.TypeHuggingFace:
		return ins.installHub(ctx, res, installTo)
	case manifest.TypeGit:
		return ins.installGit(ctx, res, installTo)
	case manifest.TypeDownload:
		return ins.installDownload(ctx, res, installTo)
	default:
		return fmt.Errorf("unvalidated resource type %q", res.Type)
	}
}
