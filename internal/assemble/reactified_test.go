package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vormadev/packcfg/webpack"
)

func reactifiedOptions() ReactifiedOptions {
	return ReactifiedOptions{
		EntryPoints:    webpack.Entry{"blocks": {"./js/src/blocks/index.js"}},
		OutputPath:     "/plugin",
		LibraryName:    "polylang",
		WPDependencies: []string{"blocks", "block-editor"},
	}
}

func TestGetReactifiedConfig(t *testing.T) {
	got, err := GetReactifiedConfig(reactifiedOptions())
	require.NoError(t, err)

	wantExternals := webpack.Externals{
		"react":                   webpack.GlobalExternal("React"),
		"@wordpress/blocks":       webpack.ThisExternal("wp", "blocks"),
		"@wordpress/block-editor": webpack.ThisExternal("wp", "blockEditor"),
	}

	tests := []struct {
		name       string
		cfg        webpack.Config
		filename   string
		stylesheet string
		minimize   bool
	}{
		{"minified", got.Minified, "./js/build/[name].min.js", "./css/build/style.min.css", true},
		{"unminified", got.Unminified, "./js/build/[name].js", "./css/build/style.css", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			assert.Equal(t, webpack.Entry{"blocks": {"./js/src/blocks/index.js"}}, cfg.Entry)
			assert.Equal(t, webpack.Output{
				Filename:      tt.filename,
				Path:          "/plugin",
				Library:       []string{"polylang"},
				LibraryTarget: "this",
			}, cfg.Output)
			assert.Equal(t, wantExternals, cfg.Externals)
			assert.Equal(t, &webpack.Resolve{Modules: []string{"/plugin", "node_modules"}}, cfg.Resolve)
			assert.Equal(t, webpack.SourceMap, cfg.Devtool)

			require.NotNil(t, cfg.Module)
			require.Len(t, cfg.Module.Rules, 1)
			babel := cfg.Module.Rules[0]
			assert.Equal(t, `/\.js$/`, babel.Test.String())
			require.NotNil(t, babel.Exclude)
			assert.Equal(t, "/node_modules/", babel.Exclude.String())
			assert.Equal(t, webpack.Use{webpack.BabelLoader()}, babel.Use)

			require.Len(t, cfg.Plugins, 1)
			assert.Equal(t, webpack.MiniCssExtractPlugin, cfg.Plugins[0].Name)
			assert.Equal(t, tt.stylesheet, cfg.Plugins[0].Option("filename"))

			assert.Equal(t, tt.minimize, cfg.Optimization.Minimize)
			if tt.minimize {
				assert.Equal(t, []webpack.Plugin{webpack.NewTerser(true)}, cfg.Optimization.Minimizer)
			} else {
				assert.Nil(t, cfg.Optimization.Minimizer)
			}
		})
	}

	assert.Equal(t, []webpack.Config{got.Minified, got.Unminified}, got.All())
}

func TestGetReactifiedConfigProduction(t *testing.T) {
	o := reactifiedOptions()
	o.IsProduction = true
	o.SassLoadPaths = []string{"node_modules", "scss"}

	got, err := GetReactifiedConfig(o)
	require.NoError(t, err)

	for _, tc := range []struct {
		cfg   webpack.Config
		style string
	}{
		{got.Minified, webpack.SassCompressed},
		{got.Unminified, webpack.SassExpanded},
	} {
		assert.Equal(t, webpack.NoDevtool, tc.cfg.Devtool)
		require.Len(t, tc.cfg.Module.Rules, 2)
		sass := tc.cfg.Module.Rules[1]
		assert.Equal(t, `/\.s?css$/`, sass.Test.String())
		require.Len(t, sass.Use, 3)
		assert.Equal(t, webpack.ExtractLoader(), sass.Use[0])
		assert.Equal(t, webpack.CSSLoader(), sass.Use[1])
		assert.Equal(t, webpack.SassLoader(map[string]any{
			"loadPaths":   []string{"node_modules", "scss"},
			"outputStyle": tc.style,
			"sourceMap":   false,
		}), sass.Use[2])
	}
}

func TestGetReactifiedConfigIndependentValues(t *testing.T) {
	o := reactifiedOptions()
	o.AdditionalExternals = webpack.Externals{"lodash": webpack.GlobalExternal("lodash")}
	got, err := GetReactifiedConfig(o)
	require.NoError(t, err)

	got.Minified.Externals["lodash"] = webpack.GlobalExternal("_")
	got.Minified.Entry["blocks"][0] = "changed"

	assert.Equal(t, webpack.GlobalExternal("lodash"), got.Unminified.Externals["lodash"])
	assert.Equal(t, webpack.GlobalExternal("lodash"), o.AdditionalExternals["lodash"])
	assert.Equal(t, "./js/src/blocks/index.js", got.Unminified.Entry["blocks"][0])
	assert.Equal(t, "./js/src/blocks/index.js", o.EntryPoints["blocks"][0])
}

func TestExternals(t *testing.T) {
	tests := []struct {
		name       string
		additional webpack.Externals
		deps       []string
		want       webpack.Externals
	}{
		{
			name: "react only",
			want: webpack.Externals{"react": webpack.GlobalExternal("React")},
		},
		{
			name:       "additional overrides react",
			additional: webpack.Externals{"react": webpack.GlobalExternal("Preact"), "jquery": webpack.GlobalExternal("jQuery")},
			want: webpack.Externals{
				"react":  webpack.GlobalExternal("Preact"),
				"jquery": webpack.GlobalExternal("jQuery"),
			},
		},
		{
			name:       "wordpress dependency wins",
			additional: webpack.Externals{"@wordpress/i18n": webpack.GlobalExternal("i18n")},
			deps:       []string{"i18n", "html-entities"},
			want: webpack.Externals{
				"react":                    webpack.GlobalExternal("React"),
				"@wordpress/i18n":          webpack.ThisExternal("wp", "i18n"),
				"@wordpress/html-entities": webpack.ThisExternal("wp", "htmlEntities"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Externals(tt.additional, tt.deps))
		})
	}
}

func TestGetReactifiedConfigRepeatable(t *testing.T) {
	o := reactifiedOptions()
	o.AdditionalExternals = webpack.Externals{
		"lodash":         webpack.GlobalExternal("lodash"),
		"@polylang/data": webpack.ThisExternal("polylang", "data"),
	}
	o.SassLoadPaths = []string{"scss"}

	first, err := GetReactifiedConfig(o)
	require.NoError(t, err)
	second, err := GetReactifiedConfig(o)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	firstSrc, err := webpack.RenderModule(first.All())
	require.NoError(t, err)
	secondSrc, err := webpack.RenderModule(second.All())
	require.NoError(t, err)
	assert.Equal(t, string(firstSrc), string(secondSrc))
}
