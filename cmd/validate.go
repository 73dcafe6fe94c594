package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hfg-gmuend/zoomaker/internal/manifest"
	"github.com/hfg-gmuend/zoomaker/pkg/config"
	"github.com/spf13/cobra"
)

// validateCmd checks a manifest without fetching anything
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the manifest against the schema",
	Long: `Validate checks the manifest twice: against the embedded JSON Schema for
shape violations with field paths, and against the semantic rules the
installer enforces. Nothing is fetched.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringP("file", "f", "", "The manifest file to use (default zoo.yaml)")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	manifestFile, _ := cmd.Flags().GetString("file")
	if manifestFile == "" {
		manifestFile = cfg.Manifest.File
	}
	manifestFile = filepath.Clean(manifestFile)

	data, err := os.ReadFile(manifestFile) // #nosec G304 -- the manifest path is the user's own input
	if err != nil {
		return fmt.Errorf("failed to read manifest %s: %w", manifestFile, err)
	}

	out := cmd.OutOrStdout()

	result, err := manifest.ValidateSchema(data)
	if err != nil {
		return err
	}
	if !result.Valid {
		fmt.Fprintf(out, "%s: schema validation failed\n", manifestFile)
		for _, issue := range result.Issues {
			fmt.Fprintf(out, "  %s: %s\n", issue.Path, issue.Message)
		}
		return &manifest.ValidationError{Message: fmt.Sprintf("%s does not match the manifest schema", manifestFile)}
	}

	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s is valid (%d resources in %d groups, %d scripts)\n",
		manifestFile, m.ResourceCount(), len(m.Resources), len(m.Scripts))
	return nil
}
