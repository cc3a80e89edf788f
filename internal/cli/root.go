// Package cli provides the packcfg command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vormadev/packcfg/internal/cli/commands"
	"github.com/vormadev/packcfg/internal/config"
	"github.com/vormadev/packcfg/kit/colorlog"
)

// Version is set at build time.
var Version = "dev"

// skipsConfig lists commands that run without loading packcfg.yaml.
var skipsConfig = map[string]bool{
	"help":       true,
	"completion": true,
	"__complete": true,
	"init":       true,
	"version":    true,
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	level := new(slog.LevelVar)

	rootCmd := &cobra.Command{
		Use:   "packcfg",
		Short: "Generate webpack configs for plain and React asset bundles",
		Long: `packcfg writes webpack configuration for two kinds of projects.

vanilla:    every JS and CSS file matched by glob patterns becomes its own
            bundle, with minified and unminified builds.
reactified: one library bundle exposed on a global, with React and
            WordPress packages left external.

Settings come from packcfg.yaml, PACKCFG_* environment variables and flags,
in increasing order of precedence.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log := colorlog.New("packcfg", colorlog.Options{Output: cmd.ErrOrStderr(), Level: level})
			ctx := commands.WithLogger(cmd.Context(), log)
			cmd.SetContext(ctx)

			if skipsConfig[cmd.Name()] {
				return nil
			}

			cfg, err := config.Load(config.LoadOptions{File: cfgFile, Flags: cmd.Root().PersistentFlags()})
			if err != nil {
				return err
			}
			if cfg.Verbose {
				level.Set(slog.LevelDebug)
			}
			if cfg.File != "" {
				log.Debug("using config file", "path", cfg.File)
			}
			cmd.SetContext(commands.WithConfig(ctx, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("packcfg {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./packcfg.yaml)")
	flags.String("mode", "", "config mode (vanilla|reactified)")
	flags.StringP("output", "o", "", `output file, "-" for stdout`)
	flags.StringP("format", "f", "", "output format (js|json)")
	flags.BoolP("production", "p", false, "production build: no source maps")
	flags.BoolP("verbose", "v", false, "verbose logging")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.FormatJS, config.FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.ModeVanilla, config.ModeReactified}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewBuildCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
