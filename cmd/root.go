package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/hfg-gmuend/zoomaker/internal/fetch"
	"github.com/hfg-gmuend/zoomaker/internal/manifest"
	"github.com/hfg-gmuend/zoomaker/internal/script"
	"github.com/hfg-gmuend/zoomaker/pkg/buildinfo"
	"github.com/hfg-gmuend/zoomaker/pkg/exitcode"
	"github.com/hfg-gmuend/zoomaker/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zoomaker",
		Short: "Provision models, embeddings and git repos from a zoo.yaml manifest",
		Long: `Zoomaker installs the resources declared in a zoo.yaml manifest:
model files from a hub, git repositories and direct downloads, idempotently
and in declaration order.

Examples:
   zoomaker install              # Install everything zoo.yaml declares
   zoomaker install -f my.yaml   # Use a different manifest
   zoomaker run start            # Run a script from the manifest
   zoomaker validate             # Check the manifest against the schema`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Accept snake_case spellings of the global flags too
	cmd.PersistentFlags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.Version = buildinfo.BinaryVersion
	// Predefining the flag gives --version the -v shorthand cobra's
	// auto-generated flag lacks.
	cmd.Flags().BoolP("version", "v", false, "Print the version and exit")
	cmd.SetVersionTemplate("zoomaker {{.Version}}\n")

	return cmd
}

// initializeLogger configures the default logger from the global flags.
func initializeLogger(cmd *cobra.Command) {
	levelName, _ := cmd.Flags().GetString("log-level")
	jsonOut, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logger.Initialize(logger.Config{
		Level:    logger.ParseLevel(levelName),
		UseColor: !noColor,
		JSON:     jsonOut,
	})
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(installCmd)
	cmd.AddCommand(runCmd)
	cmd.AddCommand(validateCmd)
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the CLI and translates errors into process exit codes.
// This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	// A manifest script's own exit status passes through unchanged.
	if code, ok := script.ExitStatus(err); ok {
		os.Exit(code)
	}

	var verr *manifest.ValidationError
	if errors.As(err, &verr) {
		logger.Error("Manifest validation failed", logger.Err(err))
		os.Exit(exitcode.ManifestError)
	}

	var hubErr *fetch.HubError
	var gitErr *fetch.GitError
	if errors.As(err, &hubErr) || errors.As(err, &gitErr) {
		logger.Error("Install aborted", logger.Err(err))
		os.Exit(exitcode.FetchError)
	}

	logger.Error("Command execution failed", logger.Err(err))
	os.Exit(exitcode.GeneralError)
}

func init() {
	// Register all subcommands with the production rootCmd
	registerSubcommands(rootCmd)
}
