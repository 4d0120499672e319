package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pacfix/pacfix/pkg/config"
	"github.com/pacfix/pacfix/pkg/engine"
	"github.com/pacfix/pacfix/pkg/pacman"
	"github.com/pacfix/pacfix/pkg/report"
	"github.com/pacfix/pacfix/pkg/stores"
	"github.com/pacfix/pacfix/pkg/telemetry"
)

// runResolve wires the engine for one resolution run and drives it to
// convergence.
func runResolve(ctx context.Context, target string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := telemetry.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	ctx = logger.WithContext(ctx)

	metrics, err := telemetry.NewMetrics(cfg.Metrics)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}
	if metrics.Enabled() && cfg.Metrics.ListenAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.ListenAddress, mux); err != nil {
				logger.WithError(err).Warn("metrics listener stopped")
			}
		}()
	}

	var (
		recorder engine.Recorder
		runID    string
	)
	if cfg.HistoryDB != "" {
		store, err := stores.NewSQLiteStore(cfg.HistoryDB)
		if err != nil {
			return err
		}
		if err := store.Init(ctx); err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		rec := stores.NewRecorder(store)
		recorder = rec
		runID = rec.RunID()
	}

	runner := &pacman.LockedRunner{
		Inner: &engine.ShellRunner{},
		Waiter: &pacman.LockWaiter{
			Path:    cfg.LockPath,
			Timeout: cfg.LockTimeout.Std(),
		},
	}

	eng, err := engine.New(engine.Options{
		Runner:      runner,
		Diagnostics: pacman.NewDiagnostics(),
		Commands: pacman.Commands{
			Binary: cfg.PackageManager,
			NoSudo: cfg.NoSudo,
		},
		Logger:   logger,
		Metrics:  metrics,
		Recorder: recorder,
		Report: &report.Writer{
			Path:  cfg.LogFile,
			RunID: runID,
		},
		RemoveAttempts: cfg.RemoveAttempts,
	})
	if err != nil {
		return err
	}

	status, err := eng.Run(ctx, target)
	if err != nil {
		// Log through the configured logger so the failure shows up in
		// the same format and sink as the rest of the run.
		logger.WithError(err).Error("resolution failed")
		return err
	}
	logger.WithField("status", string(status)).Info("resolution finished")
	return nil
}
