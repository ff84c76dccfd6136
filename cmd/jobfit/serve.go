package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/jobfit/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing locate, fit and fields endpoints. Located job
descriptions are stored when database_url is configured.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.DatabaseURL != "" {
		if err := a.openStore(cmd.Context()); err != nil {
			return err
		}
	} else {
		a.logger.Warn("database_url not set; job descriptions will not be stored")
	}

	port := a.cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	srv := server.New(server.Config{
		Port:      port,
		Ingestion: a.ingestion(false),
		Scorer:    a.scorer(),
		Logger:    a.logger,
	})
	return srv.Start(cmd.Context())
}
