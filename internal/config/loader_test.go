package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vormadev/packcfg/webpack"
)

// cleanEnv clears every variable Load reads, restoring them after the test.
func cleanEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range append([]string{"NODE_ENV"}, keys...) {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const reactifiedYAML = `
mode: reactified
format: json
reactified:
  entry_points:
    blocks: ./js/src/blocks/index.js
    admin:
      - ./js/src/admin/index.js
      - ./js/src/admin/extra.js
  output_path: build
  library_name: polylang
  wp_dependencies: [blocks, block-editor]
  additional_externals:
    lodash.debounce: debounce
    "@polylang/data": [polylang, data]
  sass_load_paths: [scss]
`

func TestLoadDefaults(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()

	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, ModeVanilla, cfg.Mode)
	assert.Equal(t, FormatJS, cfg.Format)
	assert.False(t, cfg.Production)
	assert.Empty(t, cfg.File)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, filepath.Join(dir, "webpack.config.js"), cfg.OutputPath())
	assert.Equal(t, VanillaConfig{
		WorkingDir: ".",
		JS:         AssetKind{Patterns: []string{"**/*.js"}, Ignore: []string{}, BuildDir: "js/build"},
		CSS:        AssetKind{Patterns: []string{"**/*.css"}, Ignore: []string{}, BuildDir: "css/build"},
	}, cfg.Vanilla)
}

func TestLoadFile(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "packcfg.yaml", reactifiedYAML)

	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, ModeReactified, cfg.Mode)
	assert.Equal(t, FormatJSON, cfg.Format)

	o, err := cfg.ReactifiedOptions()
	require.NoError(t, err)
	assert.Equal(t, webpack.Entry{
		"blocks": {"./js/src/blocks/index.js"},
		"admin":  {"./js/src/admin/index.js", "./js/src/admin/extra.js"},
	}, o.EntryPoints)
	assert.Equal(t, filepath.Join(dir, "build"), o.OutputPath)
	assert.Equal(t, "polylang", o.LibraryName)
	assert.Equal(t, []string{"blocks", "block-editor"}, o.WPDependencies)
	assert.Equal(t, webpack.Externals{
		"lodash.debounce": webpack.GlobalExternal("debounce"),
		"@polylang/data":  webpack.ThisExternal("polylang", "data"),
	}, o.AdditionalExternals)
	assert.Equal(t, []string{"scss"}, o.SassLoadPaths)
	assert.False(t, o.IsProduction)
}

func TestLoadExplicitFile(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "conf"), 0o755))
	path := writeFile(t, filepath.Join(dir, "conf"), "site.yml", "output: out.js\n")

	cfg, err := Load(LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "conf"), cfg.Root)
	assert.Equal(t, filepath.Join(dir, "conf", "out.js"), cfg.OutputPath())

	_, err = Load(LoadOptions{File: filepath.Join(dir, "missing.yaml")})
	require.ErrorIs(t, err, ErrNoConfig)
}

func TestLoadEnv(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "packcfg.yaml", "vanilla:\n  js:\n    build_dir: assets/js\n")

	t.Setenv("PACKCFG_FORMAT", "json")
	t.Setenv("PACKCFG_VANILLA__JS__BUILD_DIR", "dist/js")

	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, "dist/js", cfg.Vanilla.JS.BuildDir)
	assert.Equal(t, "css/build", cfg.Vanilla.CSS.BuildDir)
}

func TestLoadNodeEnv(t *testing.T) {
	cleanEnv(t, "PACKCFG_PRODUCTION")
	dir := t.TempDir()

	t.Setenv("NODE_ENV", "production")
	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.True(t, cfg.Production)

	t.Setenv("PACKCFG_PRODUCTION", "false")
	cfg, err = Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.False(t, cfg.Production)
}

func TestLoadDotEnv(t *testing.T) {
	cleanEnv(t, "PACKCFG_OUTPUT")
	dir := t.TempDir()
	writeFile(t, dir, ".env", "PACKCFG_OUTPUT=from-dotenv.js\n")

	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.js", cfg.Output)

	t.Setenv("PACKCFG_OUTPUT", "from-env.js")
	cfg, err = Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "from-env.js", cfg.Output)
}

func TestLoadFlags(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "packcfg.yaml", "format: json\noutput: file.js\n")

	flags := pflag.NewFlagSet("packcfg", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("format", "", "")
	flags.String("output", "", "")
	flags.Bool("production", false, "")
	require.NoError(t, flags.Parse([]string{"--output=-", "--production"}))

	cfg, err := Load(LoadOptions{Dir: dir, Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, Stdout, cfg.OutputPath())
	assert.True(t, cfg.Production)
	assert.Equal(t, FormatJSON, cfg.Format, "unset flags keep the file value")
}

const reactifiedBase = "mode: reactified\nreactified:\n  entry_points: {a: ./a.js}\n  library_name: x\n"

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown mode", "mode: hybrid\n", `unknown mode "hybrid"`},
		{"unknown format", "format: ts\n", `unknown format "ts"`},
		{"empty output", "output: \"\"\n", "output is required"},
		{"no entry points", "mode: reactified\nreactified:\n  library_name: x\n", "entry_points is required"},
		{"no library", "mode: reactified\nreactified:\n  entry_points: {a: ./a.js}\n", "library_name is required"},
		{"no build dir", "vanilla:\n  css:\n    build_dir: \"\"\n", "vanilla.css.build_dir is required"},
		{"empty external path", reactifiedBase + "  additional_externals: {lib: []}\n", "additional_externals.lib is empty"},
		{"external path not names", reactifiedBase + "  additional_externals: {lib: [wp, 3]}\n", "additional_externals.lib[1] must be a name"},
		{"external object", reactifiedBase + "  additional_externals: {lib: {root: x}}\n", "must be a name or a list of names"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			dir := t.TempDir()
			writeFile(t, dir, "packcfg.yaml", tt.yaml)

			_, err := Load(LoadOptions{Dir: dir})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadBadYAML(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "packcfg.yaml", "mode: [unclosed\n")

	_, err := Load(LoadOptions{Dir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
