package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hfg-gmuend/zoomaker/internal/fetch"
	"github.com/hfg-gmuend/zoomaker/internal/hub"
	"github.com/hfg-gmuend/zoomaker/internal/manifest"
	"github.com/hfg-gmuend/zoomaker/pkg/config"
	"github.com/hfg-gmuend/zoomaker/pkg/logger"
	"github.com/spf13/cobra"
)

// installCmd fetches every resource the manifest declares
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install all resources declared in the manifest",
	Long: `Install walks the manifest's resource groups in declaration order and
fetches each resource with the strategy its type selects: hub files, git
repositories or direct downloads. Already-present resources are skipped.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringP("file", "f", "", "The manifest file to use (default zoo.yaml)")
	installCmd.Flags().Bool("no-symlinks", false, "Copy hub files instead of symlinking into the cache")
	installCmd.Flags().Int("jobs", 0, "Install up to N destination directories in parallel")
}

func runInstall(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	manifestFile, m, err := loadManifest(cmd, cfg)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}

	noSymlinks, _ := cmd.Flags().GetBool("no-symlinks")
	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs == 0 {
		jobs = cfg.Install.Jobs
	}
	if !cmd.Flags().Changed("no-symlinks") {
		noSymlinks = cfg.Install.NoSymlinks
	}

	hubClient, err := hub.NewClient(cfg.Hub)
	if err != nil {
		return err
	}

	installer := &fetch.Installer{
		Hub:         hubClient,
		UserAgent:   cfg.Download.UserAgent,
		Reporter:    logger.Default(),
		ProgressOut: os.Stderr,
		Options: fetch.Options{
			NoSymlinks: noSymlinks,
			Jobs:       jobs,
		},
	}

	logger.Info(fmt.Sprintf("===> %s <===", manifestFile))
	logger.Info("name: " + m.Name)
	if m.Version != "" {
		logger.Info("version: " + m.Version)
	}
	logger.Info("installing resources ...")

	summary, err := installer.Install(cmd.Context(), m)
	if err != nil {
		return err
	}
	if summary.Halted {
		logger.Warn(fmt.Sprintf("install halted after a download failure; %d resources installed", summary.Installed))
	}
	return nil
}

// loadManifest resolves the manifest path from the --file flag or config and
// loads it.
func loadManifest(cmd *cobra.Command, cfg *config.Config) (string, *manifest.Manifest, error) {
	manifestFile, _ := cmd.Flags().GetString("file")
	if manifestFile == "" {
		manifestFile = cfg.Manifest.File
	}
	manifestFile = filepath.Clean(manifestFile)
	m, err := manifest.Load(manifestFile)
	if err != nil {
		return "", nil, err
	}
	return manifestFile, m, nil
}
