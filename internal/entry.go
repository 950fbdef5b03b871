// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/apiops/internal/artifact"
	"github.com/starford/apiops/internal/codec"
	"github.com/starford/apiops/internal/extract"
	"github.com/starford/apiops/internal/index"
	"github.com/starford/apiops/internal/provider"
	"github.com/starford/apiops/internal/storage"
	"github.com/starford/apiops/internal/verify"
)

// ErrIssuesFound is returned by Verify when any artifact fails verification.
var ErrIssuesFound = errors.New("artifact tree has issues")

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logger == nil {
		// Initialize structured JSON logger.
		app.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
		slog.SetDefault(app.logger)
	}
	app.logger = app.logger.With(slog.String("service", app.config.Service.Name))
	return app, nil
}

// Run extracts the configured service into the artifact tree.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger

	logger.Info("Configuration loaded",
		slog.String("output_path", cfg.Output.Path),
		slog.String("storage_backend", cfg.Storage.Backend),
		slog.String("index_path", cfg.Index.Path),
		slog.Int("concurrency", cfg.Extraction.Concurrency),
		slog.String("log_level", cfg.App.LogLevel.String()))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.openStore()
	if err != nil {
		return err
	}
	service := artifact.NewServiceDirectory(store.Root().String())
	client, err := app.openClient()
	if err != nil {
		return err
	}
	defaultSpec, err := cfg.Extraction.Specification.DefaultFormat()
	if err != nil {
		return fmt.Errorf("default specification: %w", err)
	}

	pipelineOpts := []extract.Option{
		extract.WithLogger(logger),
		extract.WithConcurrency(cfg.Extraction.Concurrency),
		extract.WithDefaultSpecification(defaultSpec),
	}
	if cfg.Index.Enabled() {
		db, err := index.Open(ctx, cfg.Index.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		pipelineOpts = append(pipelineOpts, extract.WithIndex(db))
	}

	report, err := extract.New(client, store, service, pipelineOpts...).Run(ctx)
	if err != nil {
		return err
	}
	for _, p := range report.Stale {
		logger.Warn("Stale artifact", slog.String("path", p))
	}
	return nil
}

// Verify checks the artifact tree, once or, with WithWatch, on every change
// until ctx ends.
func Verify(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger

	store, err := app.openStore()
	if err != nil {
		return err
	}
	service := artifact.NewServiceDirectory(store.Root().String())
	vopts := verify.Options{
		Strict:      app.strict || cfg.Extraction.StrictDecode,
		Concurrency: cfg.Extraction.Concurrency,
		Logger:      logger,
	}

	if !app.watch {
		res, err := verify.Tree(ctx, store, service, vopts)
		if err != nil {
			return err
		}
		if cfg.Index.Enabled() {
			if err := syncIndex(ctx, cfg, store, service, logger); err != nil {
				return err
			}
		}
		logger.Info("Verification finished", slog.Int("checked", res.Checked), slog.Int("issues", len(res.Issues)))
		if !res.OK() {
			return fmt.Errorf("%w: %d of %d files", ErrIssuesFound, len(res.Issues), res.Checked)
		}
		return nil
	}

	if _, ok := store.(*storage.FS); !ok {
		return fmt.Errorf("watch needs the %q storage backend", StorageBackendFS)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return verify.Watch(gCtx, store, service, store.Root().String(), vopts, func(res *verify.Result, err error) {
			if err != nil {
				logger.Error("Verification failed", slog.String("error", err.Error()))
				return
			}
			logger.Info("Verification finished", slog.Int("checked", res.Checked), slog.Int("issues", len(res.Issues)))
		})
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			return context.Canceled
		case <-gCtx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Watcher stopped")
	return nil
}

func syncIndex(ctx context.Context, cfg *Config, store storage.Provider, service artifact.ServiceDirectory, logger *slog.Logger) error {
	db, err := index.Open(ctx, cfg.Index.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	return index.Sync(ctx, db, store, service, logger)
}

func (a *application) openStore() (storage.Provider, error) {
	if a.store != nil {
		return a.store, nil
	}
	cfg := a.config
	switch cfg.Storage.Backend {
	case StorageBackendS3:
		s3 := cfg.Storage.S3
		store, err := storage.NewS3(storage.S3Config{
			Endpoint:  s3.Endpoint,
			Region:    s3.Region,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
			Bucket:    s3.Bucket,
			Prefix:    s3.Prefix,
			UseSSL:    s3.UseSSL,
		}, artifact.NewPath(cfg.Output.Path))
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		// Ensure output directory exists.
		if err := os.MkdirAll(cfg.Output.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
		store, err := storage.NewFS(cfg.Output.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

func (a *application) openClient() (provider.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	return provider.LoadSnapshot(a.config.Provider.SnapshotPath, codec.WithStrict(a.config.Extraction.StrictDecode))
}
