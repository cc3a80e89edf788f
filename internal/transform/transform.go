// Package transform turns a single source file into a webpack config that
// builds it on its own.
package transform

import "github.com/vormadev/packcfg/webpack"

// Func builds the config for one source path.
type Func func(source string) webpack.Config

// Map applies f to every source, in order.
func (f Func) Map(sources []string) []webpack.Config {
	out := make([]webpack.Config, 0, len(sources))
	for _, src := range sources {
		out = append(out, f(src))
	}
	return out
}
