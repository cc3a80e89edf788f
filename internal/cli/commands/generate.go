package commands

import (
	"bytes"

	"github.com/spf13/cobra"
	"github.com/vormadev/packcfg/internal/config"
	"github.com/vormadev/packcfg/kit/fsutil"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Write the webpack config",
		Long: `Assemble the webpack configs for the configured mode and write them to the
output file, as a CommonJS module webpack loads directly or as JSON.`,
		Example: `  # Write webpack.config.js next to packcfg.yaml
  packcfg generate

  # Print production configs as JSON
  packcfg generate --production --format json --output -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			_, err = generate(cmd, cfg)
			return err
		},
	}
}

// generate writes the configs for cfg and returns how many it wrote.
func generate(cmd *cobra.Command, cfg *config.Config) (int, error) {
	log := getLogger(cmd)

	cfgs, err := cfg.Assemble(log)
	if err != nil {
		return 0, err
	}
	if len(cfgs) == 0 {
		log.Warn("no asset files matched", "dir", cfg.SourceRoot())
	}

	var buf bytes.Buffer
	if err := cfg.Write(&buf, cfgs); err != nil {
		return 0, err
	}

	out := cfg.OutputPath()
	if out == config.Stdout {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return len(cfgs), err
	}
	if err := fsutil.WriteFileAtomic(out, buf.Bytes()); err != nil {
		return 0, err
	}
	log.Info("wrote webpack config", "path", out, "mode", cfg.Mode, "configs", len(cfgs))
	return len(cfgs), nil
}
