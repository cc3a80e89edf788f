// Package commands holds the packcfg subcommands.
package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vormadev/packcfg/internal/config"
)

type (
	configKey struct{}
	loggerKey struct{}
)

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg, nil
	}
	return nil, errors.New("no configuration loaded")
}

func getLogger(cmd *cobra.Command) *slog.Logger {
	if log, ok := cmd.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return log
	}
	return slog.New(slog.DiscardHandler)
}
