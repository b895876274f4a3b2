package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fabricsync",
	Short: "fabricsync - network model synchronization adapter",
	Long: `fabricsync mirrors an orchestration platform's network model
(tenants, networks, segments, instances, ports and bindings) into an
external network controller's region-scoped resource model over a
JSON API.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"fabricsync version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("config", "/etc/fabricsync/config.yaml", "Path to config file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(regionCmd)
	rootCmd.AddCommand(tenantsCmd)
}
