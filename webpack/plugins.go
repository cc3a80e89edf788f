package webpack

// Peer plugins. These are resolved from the consuming project's
// node_modules, so packcfg only names them.
const (
	MiniCssExtractPlugin = "MiniCssExtractPlugin"
	CssMinimizerPlugin   = "CssMinimizerPlugin"
	CleanWebpackPlugin   = "CleanWebpackPlugin"
	CopyPlugin           = "CopyPlugin"
	TerserPlugin         = "TerserPlugin"
)

// Loader package names.
const (
	CSSLoaderName   = "css-loader"
	SassLoaderName  = "sass-loader"
	BabelLoaderName = "babel-loader"
)

type peer struct {
	pkg string
	// named peers are a property of the package export, not the export itself
	named bool
}

func peerOf(name string) (peer, bool) {
	switch name {
	case MiniCssExtractPlugin:
		return peer{pkg: "mini-css-extract-plugin"}, true
	case CssMinimizerPlugin:
		return peer{pkg: "css-minimizer-webpack-plugin"}, true
	case CleanWebpackPlugin:
		return peer{pkg: "clean-webpack-plugin", named: true}, true
	case CopyPlugin:
		return peer{pkg: "copy-webpack-plugin"}, true
	case TerserPlugin:
		return peer{pkg: "terser-webpack-plugin"}, true
	}
	return peer{}, false
}

// NewMiniCssExtract extracts imported CSS into filename.
func NewMiniCssExtract(filename string) Plugin {
	return Plugin{
		Name:    MiniCssExtractPlugin,
		Options: map[string]any{"filename": filename},
	}
}

// NewCssMinimizer minimizes emitted CSS, limited to files matching test
// when it is non-nil.
func NewCssMinimizer(test *Pattern) Plugin {
	p := Plugin{Name: CssMinimizerPlugin}
	if test != nil {
		p.Options = map[string]any{"test": *test}
	}
	return p
}

// NewCleanAfterBuild removes files matching patterns after every build and
// nothing before it.
func NewCleanAfterBuild(patterns ...string) Plugin {
	return Plugin{
		Name: CleanWebpackPlugin,
		Options: map[string]any{
			"dry":                          false,
			"verbose":                      false,
			"cleanOnceBeforeBuildPatterns": []string{},
			"cleanAfterEveryBuildPatterns": append([]string{}, patterns...),
		},
	}
}

// NewCopy copies from verbatim into the to directory.
func NewCopy(from, to string) Plugin {
	return Plugin{
		Name: CopyPlugin,
		Options: map[string]any{
			"patterns": []any{
				map[string]any{"from": from, "to": to},
			},
		},
	}
}

// NewTerser minifies JS without writing *.LICENSE.txt files. When
// stripComments is set, comments are dropped from the output too.
func NewTerser(stripComments bool) Plugin {
	opts := map[string]any{"extractComments": false}
	if stripComments {
		opts["terserOptions"] = map[string]any{
			"format": map[string]any{"comments": false},
		}
	}
	return Plugin{Name: TerserPlugin, Options: opts}
}

// ExtractLoader is MiniCssExtractPlugin.loader.
func ExtractLoader() Loader {
	return Loader{Plugin: MiniCssExtractPlugin}
}

func CSSLoader() Loader {
	return Loader{Name: CSSLoaderName}
}

func BabelLoader() Loader {
	return Loader{Name: BabelLoaderName}
}

// SassLoader configures sass-loader with the given sassOptions.
func SassLoader(sassOptions map[string]any) Loader {
	return Loader{
		Name:    SassLoaderName,
		Options: map[string]any{"sassOptions": sassOptions},
	}
}

// Bool returns a pointer to b, for optional flags such as Output.IIFE.
func Bool(b bool) *bool {
	return &b
}
