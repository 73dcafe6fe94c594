package cmd

import (
	"github.com/hfg-gmuend/zoomaker/internal/script"
	"github.com/hfg-gmuend/zoomaker/pkg/config"
	"github.com/spf13/cobra"
)

// runCmd executes a named script from the manifest's scripts section
var runCmd = &cobra.Command{
	Use:   "run <script-name>",
	Short: "Run a script declared in the manifest",
	Long: `Run executes the shell command registered under the given name in the
manifest's scripts section, forwarding its exit code. An unknown name lists
the available scripts instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	runCmd.Flags().StringP("file", "f", "", "The manifest file to use (default zoo.yaml)")
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	_, m, err := loadManifest(cmd, cfg)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	return script.Run(cmd.Context(), m, args[0], script.StdIO())
}
