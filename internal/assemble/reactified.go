package assemble

import (
	"fmt"

	"github.com/vormadev/packcfg/kit/pathname"
	"github.com/vormadev/packcfg/webpack"
)

// WordPressScope prefixes the import specifier of every WordPress package.
const WordPressScope = "@wordpress/"

type ReactifiedOptions struct {
	// EntryPoints is used as-is in both configs.
	EntryPoints webpack.Entry
	// OutputPath is the output directory and the first module search path.
	OutputPath  string
	LibraryName string
	// IsProduction turns source maps off.
	IsProduction bool
	// WPDependencies are WordPress package short names ("block-editor")
	// resolved from the wp global at runtime instead of being bundled.
	WPDependencies []string
	// AdditionalExternals are merged over the React external.
	AdditionalExternals webpack.Externals
	// SassLoadPaths enables the SASS rule when non-empty.
	SassLoadPaths []string
}

// ReactifiedConfigs is the pair GetReactifiedConfig returns.
type ReactifiedConfigs struct {
	Minified   webpack.Config
	Unminified webpack.Config
}

// All returns the configs minified first, the order webpack receives them.
func (r ReactifiedConfigs) All() []webpack.Config {
	return []webpack.Config{r.Minified, r.Unminified}
}

// GetReactifiedConfig builds the minified and unminified configs of a
// library bundle exposed as this[LibraryName].
func GetReactifiedConfig(o ReactifiedOptions) (ReactifiedConfigs, error) {
	minified, err := reactifiedConfig(o, webpack.Minified)
	if err != nil {
		return ReactifiedConfigs{}, fmt.Errorf("%s config: %w", webpack.Minified, err)
	}
	unminified, err := reactifiedConfig(o, webpack.Unminified)
	if err != nil {
		return ReactifiedConfigs{}, fmt.Errorf("%s config: %w", webpack.Unminified, err)
	}
	return ReactifiedConfigs{Minified: minified, Unminified: unminified}, nil
}

// Externals returns React, then additional, then one external per
// WordPress dependency. Later entries replace earlier ones with the same
// key, so a WordPress dependency always wins.
func Externals(additional webpack.Externals, wpDependencies []string) webpack.Externals {
	ext := webpack.Externals{"react": webpack.GlobalExternal("React")}
	for k, v := range additional.Clone() {
		ext[k] = v
	}
	for _, dep := range wpDependencies {
		ext[WordPressScope+dep] = webpack.ThisExternal("wp", pathname.CamelCaseDash(dep))
	}
	return ext
}

func reactifiedConfig(o ReactifiedOptions, v webpack.Variant) (webpack.Config, error) {
	rules := []webpack.Rule{transpilationRule()}
	if len(o.SassLoadPaths) > 0 {
		rule, err := SassRule(o.SassLoadPaths, v.SassOutputStyle(), !o.IsProduction)
		if err != nil {
			return webpack.Config{}, err
		}
		rules = append(rules, rule)
	}

	optimization := webpack.Optimization{Minimize: false}
	if v.Minify() {
		optimization = webpack.Optimization{
			Minimize:  true,
			Minimizer: []webpack.Plugin{webpack.NewTerser(true)},
		}
	}

	return webpack.Config{
		Entry: o.EntryPoints.Clone(),
		Output: webpack.Output{
			Filename:      "./js/build/[name]" + v.Suffix() + ".js",
			Path:          o.OutputPath,
			Library:       []string{o.LibraryName},
			LibraryTarget: "this",
		},
		Externals: Externals(o.AdditionalExternals, o.WPDependencies),
		Resolve:   &webpack.Resolve{Modules: []string{o.OutputPath, "node_modules"}},
		Module:    &webpack.Module{Rules: rules},
		Plugins: []webpack.Plugin{
			webpack.NewMiniCssExtract("./css/build/style" + v.Suffix() + ".css"),
		},
		Devtool:      webpack.DevtoolFor(o.IsProduction),
		Optimization: optimization,
	}, nil
}

// transpilationRule runs first-party JS through Babel.
func transpilationRule() webpack.Rule {
	deps := webpack.Regexp("node_modules", "")
	return webpack.Rule{
		Test:    webpack.Regexp(`\.js$`, ""),
		Exclude: &deps,
		Use:     webpack.Use{webpack.BabelLoader()},
	}
}
