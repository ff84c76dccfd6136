// Package main provides the jobfit command line: locating job descriptions on
// pages, scoring résumé fit, planning application-form autofill and serving the
// same operations over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	logJSON    bool
	logDebug   bool
)

var rootCmd = &cobra.Command{
	Use:           "jobfit",
	Short:         "Job description locator and résumé fit scorer",
	Long:          "jobfit finds the job description on a job page, scores how well a résumé fits it and plans values for application-form fields.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default ./jobfit.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print human-readable breakdowns to stderr")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&logDebug, "debug", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
