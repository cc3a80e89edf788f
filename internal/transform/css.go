package transform

import (
	"os"
	"path/filepath"

	"github.com/vormadev/packcfg/kit/pathname"
	"github.com/vormadev/packcfg/webpack"
)

// webpack always emits a JS chunk per entry. For stylesheet entries that
// chunk is written with this extension and removed after the build.
const WorkExt = ".work"

const (
	cssWorkFilename = "[name]" + WorkExt
	cssMinFilename  = "[name].min.css"
)

type cssOptions struct {
	cleanRoot string
	noCopy    bool
}

type CSSOption func(*cssOptions)

// WithCleanRoot sets the directory whose *.work files are removed after
// each build. It defaults to the working directory at the time CSS is
// called.
func WithCleanRoot(dir string) CSSOption {
	return func(o *cssOptions) { o.cleanRoot = dir }
}

// WithoutSourceCopy drops the step copying the unprocessed stylesheet next
// to the minified one.
func WithoutSourceCopy() CSSOption {
	return func(o *cssOptions) { o.noCopy = true }
}

// CSS returns a Func that builds one stylesheet into destination as
// <name>.min.css and copies the source there unchanged. Source maps are
// written outside production.
func CSS(destination string, isProduction bool, opts ...CSSOption) Func {
	var o cssOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.cleanRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			o.cleanRoot = wd
		}
	}
	cleanPattern := filepath.ToSlash(filepath.Join(o.cleanRoot, "**/*"+WorkExt))

	return func(source string) webpack.Config {
		name := pathname.BaseName(source)
		minOnly := webpack.Regexp(`\.min\.css$`, "i")

		plugins := []webpack.Plugin{
			webpack.NewMiniCssExtract(cssMinFilename),
			webpack.NewCleanAfterBuild(cleanPattern),
		}
		if !o.noCopy {
			plugins = append(plugins, webpack.NewCopy(source, destination))
		}

		return webpack.Config{
			Entry: webpack.Entry{name: {source}},
			Output: webpack.Output{
				Filename: cssWorkFilename,
				Path:     destination,
			},
			Plugins: plugins,
			Module: &webpack.Module{
				Rules: []webpack.Rule{{
					Test: webpack.Regexp(`\.css$`, "i"),
					Use:  webpack.Use{webpack.ExtractLoader(), webpack.CSSLoader()},
				}},
			},
			Devtool: webpack.DevtoolFor(isProduction),
			Optimization: webpack.Optimization{
				Minimize:  true,
				Minimizer: []webpack.Plugin{webpack.NewCssMinimizer(&minOnly)},
			},
		}
	}
}
