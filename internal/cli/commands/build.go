package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/vormadev/packcfg/internal/esbuildcfg"
)

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the assets with esbuild",
		Long: `Build every generated config with esbuild instead of webpack.

Configs esbuild cannot reproduce, such as those compiling SASS, are skipped
and reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			log := getLogger(cmd)

			cfgs, err := cfg.Assemble(log)
			if err != nil {
				return err
			}
			root := cfg.SourceRoot()
			reports, err := esbuildcfg.Build(cmd.Context(), cfgs, esbuildcfg.BuildOptions{
				WorkingDir:  root,
				Concurrency: concurrency,
				Logger:      log,
			})
			if reports != nil {
				renderReports(cmd.OutOrStdout(), root, reports)
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "parallel builds (default: GOMAXPROCS)")
	return cmd
}

func renderReports(w io.Writer, root string, reports []esbuildcfg.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(tableStyle())
	t.AppendHeader(table.Row{"Entry", "Status", "Outputs"})

	built := 0
	for _, r := range reports {
		status := "built"
		switch {
		case r.Skipped != nil:
			status = "skipped: " + r.Skipped.Error()
		case r.Outputs == nil:
			status = "-"
		default:
			built++
		}
		outs := make([]string, len(r.Outputs))
		for i, o := range r.Outputs {
			if rel, err := filepath.Rel(root, o); err == nil {
				o = rel
			}
			outs[i] = filepath.ToSlash(o)
		}
		t.AppendRow(table.Row{strings.Join(r.Entries, ", "), status, strings.Join(outs, "\n")})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d of %d built)\n", built, len(reports))
}
