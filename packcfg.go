// Package packcfg generates webpack configs for two kinds of projects:
// plain scripts and stylesheets discovered by glob, each bundled on its
// own, and a React library bundle built as a minified and unminified
// pair.
package packcfg

import (
	"github.com/vormadev/packcfg/internal/assemble"
	"github.com/vormadev/packcfg/internal/transform"
	"github.com/vormadev/packcfg/webpack"
)

type (
	VanillaOptions    = assemble.VanillaOptions
	ReactifiedOptions = assemble.ReactifiedOptions
	ReactifiedConfigs = assemble.ReactifiedConfigs
	Config            = webpack.Config
	Variant           = webpack.Variant
	Transformer       = transform.Func
	CSSOption         = transform.CSSOption
)

const (
	Unminified = webpack.Unminified
	Minified   = webpack.Minified
)

var (
	ErrInvalidArgument = assemble.ErrInvalidArgument
	WithCleanRoot      = transform.WithCleanRoot
	WithoutSourceCopy  = transform.WithoutSourceCopy
	WriteModule        = webpack.WriteModule
	WriteJSON          = webpack.WriteJSON
)

// GetVanillaConfig returns an unminified and a minified config for every
// matched script, then one config per matched stylesheet.
func GetVanillaConfig(o VanillaOptions) ([]Config, error) {
	return assemble.GetVanillaConfig(o)
}

// GetReactifiedConfig returns the minified and unminified library configs.
func GetReactifiedConfig(o ReactifiedOptions) (ReactifiedConfigs, error) {
	return assemble.GetReactifiedConfig(o)
}

// JSTransformer builds one script into destination.
func JSTransformer(destination string, v Variant) Transformer {
	return transform.JS(destination, v)
}

// CSSTransformer builds one stylesheet into destination.
func CSSTransformer(destination string, isProduction bool, opts ...CSSOption) Transformer {
	return transform.CSS(destination, isProduction, opts...)
}
