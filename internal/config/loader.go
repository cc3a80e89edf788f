package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Key delimiter. Import specifiers contain dots and slashes, so neither
// can separate keys.
const delim = "::"

// EnvPrefix marks environment variables that override config keys.
// Nested keys are separated by a double underscore:
// PACKCFG_VANILLA__JS__BUILD_DIR sets vanilla.js.build_dir.
const EnvPrefix = "PACKCFG_"

// FileNames are searched, in order, when no config file is named.
var FileNames = []string{"packcfg.yaml", "packcfg.yml"}

// Defaults are the lowest layer of every load.
func Defaults() map[string]any {
	return map[string]any{
		"mode":       ModeVanilla,
		"output":     "webpack.config.js",
		"format":     FormatJS,
		"production": false,
		"verbose":    false,
		"vanilla": map[string]any{
			"working_dir": ".",
			"js": map[string]any{
				"patterns":  []string{"**/*.js"},
				"ignore":    []string{},
				"build_dir": "js/build",
			},
			"css": map[string]any{
				"patterns":  []string{"**/*.css"},
				"ignore":    []string{},
				"build_dir": "css/build",
			},
		},
		"reactified": map[string]any{
			"output_path": ".",
		},
	}
}

// LoadOptions locate the config. All fields are optional.
type LoadOptions struct {
	// File names the config file explicitly. It must exist.
	File string
	// Dir is searched for FileNames and .env when File is empty. Defaults
	// to the working directory.
	Dir string
	// Flags are applied last. Only flags set on the command line count.
	Flags *pflag.FlagSet
}

// Load layers, lowest first: Defaults, the config file, NODE_ENV,
// PACKCFG_* variables, then changed flags. A .env file next to the config
// fills in environment variables that are not already set.
func Load(o LoadOptions) (*Config, error) {
	root, path, err := locate(o)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(delim)
	if err := k.Load(confmap.Provider(Defaults(), delim), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if os.Getenv("NODE_ENV") == "production" {
		if err := k.Load(confmap.Provider(map[string]any{"production": true}, delim), nil); err != nil {
			return nil, fmt.Errorf("load NODE_ENV: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, delim, envKey), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if o.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(o.Flags, delim, k, flagKey(o.Flags)), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Root = root
	cfg.File = path

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// locate returns the project root and the config file, which is empty when
// none was named or found.
func locate(o LoadOptions) (root, path string, err error) {
	if o.File != "" {
		abs, err := filepath.Abs(o.File)
		if err != nil {
			return "", "", fmt.Errorf("resolve config path: %w", err)
		}
		if _, err := os.Stat(abs); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", "", fmt.Errorf("%w: %s", ErrNoConfig, o.File)
			}
			return "", "", fmt.Errorf("stat config file: %w", err)
		}
		return filepath.Dir(abs), abs, nil
	}

	dir := o.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return "", "", fmt.Errorf("get working directory: %w", err)
		}
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return "", "", fmt.Errorf("resolve directory: %w", err)
	}
	for _, name := range FileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return dir, candidate, nil
		}
	}
	return dir, "", nil
}

// envKey maps PACKCFG_VANILLA__WORKING_DIR to vanilla::working_dir.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", delim)
}

// flagKey keeps only flags that were set and maps kebab-case names to
// config keys. The config flag itself is not a key.
func flagKey(flags *pflag.FlagSet) func(*pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		if !f.Changed || f.Name == "config" {
			return "", nil
		}
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
	}
}
