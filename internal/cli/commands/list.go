package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/vormadev/packcfg/webpack"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configs that would be generated",
		Long:  `Show one row per generated webpack config: its entry, output and build settings.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			cfgs, err := cfg.Assemble(getLogger(cmd))
			if err != nil {
				return err
			}
			renderConfigs(cmd.OutOrStdout(), cfgs)
			return nil
		},
	}
}

func renderConfigs(w io.Writer, cfgs []webpack.Config) {
	if len(cfgs) == 0 {
		_, _ = fmt.Fprintln(w, "(no configs)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(tableStyle())
	t.AppendHeader(table.Row{"#", "Entry", "Sources", "Output", "Minify", "Devtool"})
	for i, c := range cfgs {
		for j, name := range c.Entry.Names() {
			row := table.Row{"", name, strings.Join(c.Entry[name], ", "), "", "", ""}
			if j == 0 {
				row[0] = i + 1
				row[3] = c.Output.Path + "/" + c.Output.Filename
				row[4] = c.Optimization.Minimize
				row[5] = devtool(c.Devtool)
			}
			t.AppendRow(row)
		}
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d configs)\n", len(cfgs))
}

func devtool(d webpack.Devtool) string {
	if d == "" {
		return "-"
	}
	return string(d)
}

// tableStyle is StyleLight with headers left as written.
func tableStyle() table.Style {
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	return style
}
