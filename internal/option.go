package internal

import (
	"log/slog"

	"github.com/starford/apiops/internal/provider"
	"github.com/starford/apiops/internal/storage"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	client provider.Client
	store  storage.Provider
	logger *slog.Logger
	strict bool
	watch  bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithClient replaces the snapshot-backed provider client.
func WithClient(c provider.Client) Option {
	return func(a *application) {
		a.client = c
	}
}

// WithStore replaces the configured storage backend.
func WithStore(s storage.Provider) Option {
	return func(a *application) {
		a.store = s
	}
}

// WithLogger replaces the JSON stdout logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *application) {
		a.logger = l
	}
}

// WithStrict makes verification reject unknown keys.
func WithStrict(strict bool) Option {
	return func(a *application) {
		a.strict = strict
	}
}

// WithWatch keeps verification running until the context ends.
func WithWatch(watch bool) Option {
	return func(a *application) {
		a.watch = watch
	}
}
