package main

import (
	"fmt"
	"net"

	"github.com/aretw0/orxa/internal/cli"
	httpAdapter "github.com/aretw0/orxa/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the governance HTTP server",
	Long:  `Serves policy evaluation, drift checks and delegations as a JSON API, with Prometheus metrics at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		logger := newLogger(cmd, "info")

		opts := runtimeOptions(cmd)
		opts.Metrics = true
		rt, err := cli.NewRuntime(opts, logger)
		if err != nil {
			return fmt.Errorf("error initializing orxa: %w", err)
		}
		defer rt.Close()

		ln, err := net.Listen("tcp", ":"+port)
		if err != nil {
			return err
		}

		handler := httpAdapter.NewHandler(rt.Governor,
			httpAdapter.WithMetricsHandler(rt.Metrics.Handler()),
			httpAdapter.WithLogger(logger),
		)

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if err := cli.Serve(ctx, ln, handler, logger); err != nil {
			return err
		}
		logger.Info("Governance server stopped", "signal", ctx.Signal())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	runtimeFlags(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
