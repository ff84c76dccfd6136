package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobfit/internal/config"
	"github.com/jonathan/jobfit/internal/db"
	"github.com/jonathan/jobfit/internal/ingestion"
	"github.com/jonathan/jobfit/internal/locator"
	"github.com/jonathan/jobfit/internal/logging"
	"github.com/jonathan/jobfit/internal/matching"
	"github.com/jonathan/jobfit/internal/observability"
)

// app bundles what every command needs once flags and config are resolved.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *db.DB
	out     io.Writer
	printer *observability.Printer
}

// setup loads configuration, builds the logger and, when a database is
// configured and needStore is set, opens and migrates the store.
func setup(cmd *cobra.Command, needStore bool) (*app, error) {
	v := config.NewViper()
	if f := cmd.Flags().Lookup("log-json"); f != nil && f.Changed {
		v.Set("log.json", logJSON)
	}
	if f := cmd.Flags().Lookup("debug"); f != nil && f.Changed {
		v.Set("log.debug", logDebug)
	}

	cfg, err := config.Load(v, configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, out: cmd.OutOrStdout()}
	if verbose {
		a.printer = observability.NewPrinter(cmd.ErrOrStderr())
	}

	if needStore {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database_url must be configured (set JOBFIT_DATABASE_URL)")
		}
		if err := a.openStore(cmd.Context()); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	store, err := db.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	a.store = store
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}

// ingestion builds an ingestion service from the config. useBrowser forces the
// headless-browser fallback on regardless of fetch.use_browser.
func (a *app) ingestion(useBrowser bool) *ingestion.Service {
	opts := ingestion.Options{
		Fetch:       a.cfg.FetchOptions(),
		Browser:     a.cfg.BrowserOptions(),
		UseBrowser:  useBrowser || a.cfg.Fetch.UseBrowser,
		Viewport:    a.cfg.ViewportSize(),
		Locator:     locator.New(locator.Options{MinConfidence: a.cfg.Locator.MinConfidence, Logger: a.logger}),
		Logger:      a.logger,
		Concurrency: a.cfg.Ingestion.Concurrency,
	}
	if a.store != nil {
		opts.Store = a.store
	}
	return ingestion.NewService(opts)
}

func (a *app) scorer() *matching.Scorer {
	return matching.NewScorer(matching.ScorerOptions{Logger: a.logger})
}

// writeJSON prints v as indented JSON on the command's output.
func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func readFile(path, what string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", what, err)
	}
	return data, nil
}
