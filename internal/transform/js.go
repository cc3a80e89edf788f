package transform

import (
	"github.com/vormadev/packcfg/kit/pathname"
	"github.com/vormadev/packcfg/webpack"
)

// JS returns a Func that builds one plain script into destination as
// <name>.js, or <name>.min.js for the minified variant. Output is not
// wrapped in a closure: these files are loaded as ordinary scripts and
// share the page's global scope.
func JS(destination string, v webpack.Variant) Func {
	return func(source string) webpack.Config {
		name := pathname.BaseName(source)

		minimizer := []webpack.Plugin{}
		if v.Minify() {
			minimizer = append(minimizer, webpack.NewTerser(false))
		}

		return webpack.Config{
			Entry: webpack.Entry{name: {source}},
			Output: webpack.Output{
				Filename: name + v.Suffix() + ".js",
				Path:     destination,
				IIFE:     webpack.Bool(false),
			},
			Optimization: webpack.Optimization{
				Minimize:  v.Minify(),
				Minimizer: minimizer,
			},
		}
	}
}
