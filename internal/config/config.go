// Package config loads packcfg.yaml and turns it into assembler options.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/vormadev/packcfg/internal/assemble"
	"github.com/vormadev/packcfg/kit/globutil"
	"github.com/vormadev/packcfg/webpack"
)

const (
	ModeVanilla    = "vanilla"
	ModeReactified = "reactified"

	FormatJS   = "js"
	FormatJSON = "json"

	// Stdout as the output path writes the configs to standard output.
	Stdout = "-"
)

// ErrNoConfig is returned when an explicitly named config file does not exist.
var ErrNoConfig = errors.New("config file not found")

type Config struct {
	Mode       string           `koanf:"mode"`
	Output     string           `koanf:"output"`
	Format     string           `koanf:"format"`
	Production bool             `koanf:"production"`
	Verbose    bool             `koanf:"verbose"`
	Vanilla    VanillaConfig    `koanf:"vanilla"`
	Reactified ReactifiedConfig `koanf:"reactified"`

	// Root is the directory relative paths are resolved against: the
	// config file's directory, or the working directory without one.
	Root string `koanf:"-"`
	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

type VanillaConfig struct {
	WorkingDir string    `koanf:"working_dir"`
	JS         AssetKind `koanf:"js"`
	CSS        AssetKind `koanf:"css"`
}

type AssetKind struct {
	Patterns []string `koanf:"patterns"`
	Ignore   []string `koanf:"ignore"`
	BuildDir string   `koanf:"build_dir"`
}

type ReactifiedConfig struct {
	EntryPoints         map[string][]string `koanf:"entry_points"`
	OutputPath          string              `koanf:"output_path"`
	LibraryName         string              `koanf:"library_name"`
	WPDependencies      []string            `koanf:"wp_dependencies"`
	// AdditionalExternals maps an import specifier to a global name
	// ("lodash") or to a property path on this ([wp, blocks]).
	AdditionalExternals map[string]any      `koanf:"additional_externals"`
	SassLoadPaths       []string            `koanf:"sass_load_paths"`
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeVanilla, ModeReactified:
	case "":
		return errors.New("config: mode is required")
	default:
		return fmt.Errorf("config: unknown mode %q (want %s or %s)", c.Mode, ModeVanilla, ModeReactified)
	}
	switch c.Format {
	case FormatJS, FormatJSON:
	default:
		return fmt.Errorf("config: unknown format %q (want %s or %s)", c.Format, FormatJS, FormatJSON)
	}
	if c.Output == "" {
		return errors.New("config: output is required")
	}

	if c.Mode == ModeVanilla {
		if c.Vanilla.JS.BuildDir == "" {
			return errors.New("config: vanilla.js.build_dir is required")
		}
		if c.Vanilla.CSS.BuildDir == "" {
			return errors.New("config: vanilla.css.build_dir is required")
		}
		return nil
	}

	r := c.Reactified
	if len(r.EntryPoints) == 0 {
		return errors.New("config: reactified.entry_points is required")
	}
	for name, sources := range r.EntryPoints {
		if len(sources) == 0 {
			return fmt.Errorf("config: reactified.entry_points.%s has no sources", name)
		}
	}
	if r.LibraryName == "" {
		return errors.New("config: reactified.library_name is required")
	}
	if _, err := r.externals(); err != nil {
		return err
	}
	return nil
}

func (r ReactifiedConfig) externals() (webpack.Externals, error) {
	if len(r.AdditionalExternals) == 0 {
		return nil, nil
	}
	ext := make(webpack.Externals, len(r.AdditionalExternals))
	for k, v := range r.AdditionalExternals {
		switch v := v.(type) {
		case string:
			if v == "" {
				return nil, fmt.Errorf("config: reactified.additional_externals.%s is empty", k)
			}
			ext[k] = webpack.GlobalExternal(v)
		case []string:
			if len(v) == 0 {
				return nil, fmt.Errorf("config: reactified.additional_externals.%s is empty", k)
			}
			ext[k] = webpack.ThisExternal(v...)
		case []any:
			if len(v) == 0 {
				return nil, fmt.Errorf("config: reactified.additional_externals.%s is empty", k)
			}
			path := make([]string, len(v))
			for i, el := range v {
				s, ok := el.(string)
				if !ok || s == "" {
					return nil, fmt.Errorf("config: reactified.additional_externals.%s[%d] must be a name", k, i)
				}
				path[i] = s
			}
			ext[k] = webpack.ThisExternal(path...)
		default:
			return nil, fmt.Errorf("config: reactified.additional_externals.%s must be a name or a list of names, got %T", k, v)
		}
	}
	return ext, nil
}

// resolve joins p onto base unless p is already absolute. An empty p is
// base itself.
func resolve(base, p string) string {
	switch {
	case p == "":
		return base
	case filepath.IsAbs(p):
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// VanillaOptions maps the vanilla section to assembler options with every
// directory made absolute.
func (c *Config) VanillaOptions(glob globutil.Func, log *slog.Logger) assemble.VanillaOptions {
	wd := resolve(c.Root, c.Vanilla.WorkingDir)
	return assemble.VanillaOptions{
		WorkingDirectory:  wd,
		JSPatterns:        c.Vanilla.JS.Patterns,
		JSIgnorePatterns:  c.Vanilla.JS.Ignore,
		CSSPatterns:       c.Vanilla.CSS.Patterns,
		CSSIgnorePatterns: c.Vanilla.CSS.Ignore,
		JSBuildDirectory:  resolve(wd, c.Vanilla.JS.BuildDir),
		CSSBuildDirectory: resolve(wd, c.Vanilla.CSS.BuildDir),
		IsProduction:      c.Production,
		Glob:              glob,
		Logger:            log,
	}
}

func (c *Config) ReactifiedOptions() (assemble.ReactifiedOptions, error) {
	r := c.Reactified
	entry := make(webpack.Entry, len(r.EntryPoints))
	for name, sources := range r.EntryPoints {
		entry[name] = append(webpack.EntryPoint(nil), sources...)
	}
	ext, err := r.externals()
	if err != nil {
		return assemble.ReactifiedOptions{}, err
	}
	return assemble.ReactifiedOptions{
		EntryPoints:         entry,
		OutputPath:          resolve(c.Root, r.OutputPath),
		LibraryName:         r.LibraryName,
		IsProduction:        c.Production,
		WPDependencies:      r.WPDependencies,
		AdditionalExternals: ext,
		SassLoadPaths:       r.SassLoadPaths,
	}, nil
}

// Assemble builds the configs for the selected mode.
func (c *Config) Assemble(log *slog.Logger) ([]webpack.Config, error) {
	if c.Mode == ModeReactified {
		o, err := c.ReactifiedOptions()
		if err != nil {
			return nil, err
		}
		pair, err := assemble.GetReactifiedConfig(o)
		if err != nil {
			return nil, err
		}
		return pair.All(), nil
	}
	return assemble.GetVanillaConfig(c.VanillaOptions(nil, log))
}

// Write renders cfgs in the configured format.
func (c *Config) Write(w io.Writer, cfgs []webpack.Config) error {
	if c.Format == FormatJSON {
		return webpack.WriteJSON(w, cfgs)
	}
	return webpack.WriteModule(w, cfgs)
}

// OutputPath is the absolute output file, or Stdout.
func (c *Config) OutputPath() string {
	if c.Output == Stdout {
		return Stdout
	}
	return resolve(c.Root, c.Output)
}

// SourceRoot is the directory entry sources are relative to.
func (c *Config) SourceRoot() string {
	if c.Mode == ModeReactified {
		return c.Root
	}
	return resolve(c.Root, c.Vanilla.WorkingDir)
}
