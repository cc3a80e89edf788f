package commands

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/vormadev/packcfg/internal/assemble"
	"github.com/vormadev/packcfg/internal/config"
	"github.com/vormadev/packcfg/internal/watch"
	"github.com/vormadev/packcfg/kit/grace"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the webpack config when asset files come and go",
		Long: `Write the webpack config, then rewrite it whenever a matching JS or CSS file
is added, removed or renamed, or the config file changes. Editing an asset
does not change the config and is ignored.

Patterns are read once at startup; restart watch after changing them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			log := getLogger(cmd)

			if _, err := generate(cmd, cfg); err != nil {
				return err
			}

			ctx, stop := grace.NotifyContext(cmd.Context(), log)
			defer stop()

			opts := watchOptions(cfg)
			opts.Logger = log
			opts.OnChange = func(_ context.Context, events []fsnotify.Event) error {
				if cfg.File != "" && touches(events, cfg.File) {
					next, err := config.Load(config.LoadOptions{File: cfg.File, Flags: cmd.Root().PersistentFlags()})
					if err != nil {
						return fmt.Errorf("reload config: %w", err)
					}
					cfg = next
				}
				_, err := generate(cmd, cfg)
				return err
			}

			log.Info("watching", "dir", opts.Root)
			return watch.Run(ctx, opts)
		},
	}
}

func watchOptions(cfg *config.Config) watch.Options {
	o := watch.Options{Root: cfg.SourceRoot()}
	if cfg.File != "" {
		o.Files = []string{cfg.File}
	}
	if out := cfg.OutputPath(); out != config.Stdout {
		o.Exclude = []string{out}
	}
	if cfg.Mode == config.ModeReactified {
		// Only the config file feeds a reactified config.
		o.Root = cfg.Root
		o.Sets = []watch.FileSet{{Ignore: []string{"**"}}}
		return o
	}

	js, css := cfg.Vanilla.JS, cfg.Vanilla.CSS
	o.Sets = []watch.FileSet{
		{Patterns: orDefault(js.Patterns, assemble.DefaultJSPatterns), Ignore: js.Ignore},
		{Patterns: orDefault(css.Patterns, assemble.DefaultCSSPatterns), Ignore: css.Ignore},
	}
	return o
}

func orDefault(patterns []string, def func() []string) []string {
	if patterns == nil {
		return def()
	}
	return patterns
}

func touches(events []fsnotify.Event, path string) bool {
	for _, e := range events {
		if e.Name == path {
			return true
		}
	}
	return false
}
