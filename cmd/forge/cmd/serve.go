package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/api"
	"github.com/PerryB-GIT/support-forge-app-sub000/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the setup engine over HTTP",
	Long: `Expose the catalog, prerequisite checks and installs as a JSON API so
other tools can drive forge. Credentials are passed in the install request;
nothing is prompted for.

Endpoints:
  GET  /api/health
  GET  /api/modules, /api/bundles, /api/skills
  GET  /api/prerequisites
  POST /api/install
  GET  /metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = d.settings.LogLevel
		}
		console, err := logging.NewConsole(level)
		if err != nil {
			return err
		}
		defer func() { _ = console.Sync() }()
		d.log = zap.New(zapcore.NewTee(d.log.Core(), console.Core()))

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		origins, _ := cmd.Flags().GetStringSlice("allow-origin")
		srv := api.NewServer(d.engine(), api.Options{
			Logger:         d.log,
			AllowedOrigins: origins,
			Registry:       reg,
		})

		addr, _ := cmd.Flags().GetString("addr")
		fmt.Fprintf(cmd.OutOrStdout(), "forge API listening on http://%s (config: %s)\n", addr, d.configPath)
		return srv.ListenAndServe(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:7878", "Address to listen on")
	serveCmd.Flags().StringSlice("allow-origin", nil, "CORS origins allowed to call the API (default: localhost)")
	rootCmd.AddCommand(serveCmd)
}
