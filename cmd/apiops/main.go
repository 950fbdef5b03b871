package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/apiops/internal"
	pkgconfig "github.com/starford/apiops/pkg/config"
)

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	load := pkgconfig.Load[internal.Config]
	if !cmd.IsSet("config") {
		load = pkgconfig.LoadOptional[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("output") {
		cfg.Output.Path = cmd.String("output")
	}
	if cmd.IsSet("concurrency") {
		cfg.Extraction.Concurrency = int(cmd.Int("concurrency"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func extract(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	return nil
}

func verify(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithStrict(cmd.Bool("strict")),
		internal.WithWatch(cmd.Bool("watch")),
	}
	if err := internal.Verify(ctx, opts...); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "apiops",
		Usage:  "Extract API management configuration into a version-controllable artifact tree",
		Action: extract,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APIOPS_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Root directory of the artifact tree (overrides output.path)",
				Sources: cli.EnvVars("APIOPS_OUTPUT_PATH"),
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Resources processed in parallel per kind (overrides extraction.concurrency)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "Extract every API and version set (the default)",
				Action: extract,
			},
			{
				Name:   "verify",
				Usage:  "Check that every artifact decodes and is canonical",
				Action: verify,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Reject keys the codecs do not know",
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Re-verify whenever the tree changes",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
