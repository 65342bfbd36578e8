package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutu-network/jokebox/internal/daemon"
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to listen on (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveMetrics, "metrics", false, "Expose /metrics (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var (
	serveHost    string
	servePort    int
	serveMetrics bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP bridge",
	Long:  `Start the local HTTP bridge for a jokebox UI at 127.0.0.1:11435.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if errors.Is(err, daemon.ErrLocked) {
		return fmt.Errorf("%w; is another 'jokebox serve' running?", err)
	}
	if err != nil {
		return err
	}
	defer d.Close()

	// Override config from flags
	if serveHost != "" {
		d.Config.API.Host = serveHost
	}
	if servePort > 0 {
		d.Config.API.Port = servePort
	}
	if serveMetrics {
		d.Config.Telemetry.Prometheus = true
		d.Server.EnableMetrics()
	}

	return d.Serve(cmd.Context())
}
