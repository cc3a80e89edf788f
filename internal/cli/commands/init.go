package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vormadev/packcfg/internal/config"
	"github.com/vormadev/packcfg/kit/fsutil"
	"gopkg.in/yaml.v3"
)

type starterFile struct {
	Mode       string             `yaml:"mode"`
	Output     string             `yaml:"output"`
	Format     string             `yaml:"format"`
	Production bool               `yaml:"production"`
	Vanilla    *starterVanilla    `yaml:"vanilla,omitempty"`
	Reactified *starterReactified `yaml:"reactified,omitempty"`
}

type starterVanilla struct {
	WorkingDir string       `yaml:"working_dir"`
	JS         starterAsset `yaml:"js"`
	CSS        starterAsset `yaml:"css"`
}

type starterAsset struct {
	Patterns []string `yaml:"patterns"`
	Ignore   []string `yaml:"ignore"`
	BuildDir string   `yaml:"build_dir"`
}

type starterReactified struct {
	EntryPoints         map[string][]string `yaml:"entry_points"`
	OutputPath          string              `yaml:"output_path"`
	LibraryName         string              `yaml:"library_name"`
	WPDependencies      []string            `yaml:"wp_dependencies"`
	AdditionalExternals map[string]string   `yaml:"additional_externals"`
	SassLoadPaths       []string            `yaml:"sass_load_paths"`
}

const starterHeader = `# packcfg configuration.
# Every key can be overridden with a PACKCFG_ environment variable, using a
# double underscore between nested keys (PACKCFG_VANILLA__JS__BUILD_DIR).
`

func starter(mode, libraryName string) starterFile {
	f := starterFile{
		Mode:   mode,
		Output: "webpack.config.js",
		Format: config.FormatJS,
	}
	if mode == config.ModeReactified {
		f.Reactified = &starterReactified{
			EntryPoints:         map[string][]string{"index": {"./js/src/index.js"}},
			OutputPath:          ".",
			LibraryName:         libraryName,
			WPDependencies:      []string{"element", "components", "i18n"},
			AdditionalExternals: map[string]string{},
			SassLoadPaths:       []string{},
		}
		return f
	}
	f.Vanilla = &starterVanilla{
		WorkingDir: ".",
		JS: starterAsset{
			Patterns: []string{"**/*.js"},
			Ignore:   []string{"node_modules/**", "js/build/**", "webpack.config.js"},
			BuildDir: "js/build",
		},
		CSS: starterAsset{
			Patterns: []string{"**/*.css"},
			Ignore:   []string{"node_modules/**", "css/build/**"},
			BuildDir: "css/build",
		},
	}
	return f
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter packcfg.yaml",
		Long: `Write a packcfg.yaml for the mode given with --mode (vanilla by default).
The reactified starter names its library after the directory.`,
		Example: `  # Vanilla project in the current directory
  packcfg init

  # React library bundle
  packcfg init --mode reactified plugins/blocks`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			mode, _ := cmd.Flags().GetString("mode")
			if mode == "" {
				mode = config.ModeVanilla
			}
			if mode != config.ModeVanilla && mode != config.ModeReactified {
				return fmt.Errorf("unknown mode %q (want %s or %s)", mode, config.ModeVanilla, config.ModeReactified)
			}
			path, err := runInit(dir, mode, force)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing packcfg.yaml")
	return cmd
}

func runInit(dir, mode string, force bool) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	path := filepath.Join(abs, config.FileNames[0])
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists, use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString(starterHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(starter(mode, filepath.Base(abs))); err != nil {
		return "", fmt.Errorf("encode starter config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	if err := fsutil.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}
