// Package cli implements the jokebox command-line interface using Cobra.
// Every subcommand opens a session, runs one engine operation and prints
// the result. While 'jokebox serve' runs, sessions go through its bridge.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tutu-network/jokebox/internal/daemon"
)

var rootCmd = &cobra.Command{
	Use:   "jokebox",
	Short: "jokebox: a joke a day, kept local",
	Long: `jokebox fetches jokes from a public endpoint and keeps your reading
streak, favorites and achievements in a local SQLite store.

Run 'jokebox serve' to expose the same engine to a UI on localhost.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openDaemon loads config and wires the services in-process. Only serve
// needs this; other commands use openSession.
func openDaemon() (*daemon.Daemon, error) {
	return daemon.New()
}
