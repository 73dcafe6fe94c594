package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/hfg-gmuend/zoomaker/pkg/buildinfo"
	"github.com/spf13/cobra"
)

// versionCmd prints the tool version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the zoomaker version",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("extended", false, "Show build details")
	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")
}

type versionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Module    string `json:"module_version,omitempty"`
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	info := versionInfo{Version: buildinfo.BinaryVersion}
	if extended {
		info.GoVersion = runtime.Version()
		info.Platform = runtime.GOOS + "/" + runtime.GOARCH
		info.Module = buildinfo.ModuleVersion()
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "zoomaker %s\n", info.Version)
	if extended {
		fmt.Fprintf(out, "  go:       %s\n", info.GoVersion)
		fmt.Fprintf(out, "  platform: %s\n", info.Platform)
		if info.Module != "" {
			fmt.Fprintf(out, "  module:   %s\n", info.Module)
		}
	}
	return nil
}
