// Package assemble builds complete webpack config sets: one config per
// discovered file for vanilla assets, or a minified/unminified pair for a
// React library bundle.
package assemble

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/vormadev/packcfg/internal/transform"
	"github.com/vormadev/packcfg/kit/globutil"
	"github.com/vormadev/packcfg/webpack"
)

// DefaultJSPatterns is used when VanillaOptions.JSPatterns is nil.
func DefaultJSPatterns() []string { return []string{"**/*.js"} }

// DefaultCSSPatterns is used when VanillaOptions.CSSPatterns is nil.
func DefaultCSSPatterns() []string { return []string{"**/*.css"} }

type VanillaOptions struct {
	// WorkingDirectory is where patterns are resolved. Empty means the
	// process working directory.
	WorkingDirectory string

	// A nil pattern list means the default; an empty one matches nothing.
	JSPatterns        []string
	JSIgnorePatterns  []string
	CSSPatterns       []string
	CSSIgnorePatterns []string

	JSBuildDirectory  string
	CSSBuildDirectory string
	IsProduction      bool

	// Glob replaces globutil.Glob, mainly for tests.
	Glob   globutil.Func
	Logger *slog.Logger
}

// GetVanillaConfig discovers JS and CSS files and returns, in order: an
// unminified config per JS file, a minified config per JS file, and a
// config per CSS file. Files matched by more than one pattern are built
// once per match.
func GetVanillaConfig(o VanillaOptions) ([]webpack.Config, error) {
	log := loggerOrDiscard(o.Logger)

	jsPatterns := o.JSPatterns
	if jsPatterns == nil {
		jsPatterns = DefaultJSPatterns()
	}
	cssPatterns := o.CSSPatterns
	if cssPatterns == nil {
		cssPatterns = DefaultCSSPatterns()
	}

	jsFiles, err := discover(o.Glob, o.WorkingDirectory, jsPatterns, o.JSIgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("discover js files: %w", err)
	}
	cssFiles, err := discover(o.Glob, o.WorkingDirectory, cssPatterns, o.CSSIgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("discover css files: %w", err)
	}

	cfgs := make([]webpack.Config, 0, 2*len(jsFiles)+len(cssFiles))
	for _, v := range webpack.Variants() {
		cfgs = append(cfgs, transform.JS(o.JSBuildDirectory, v).Map(jsFiles)...)
	}

	var cssOpts []transform.CSSOption
	if o.WorkingDirectory != "" {
		root, err := filepath.Abs(o.WorkingDirectory)
		if err != nil {
			root = o.WorkingDirectory
		}
		cssOpts = append(cssOpts, transform.WithCleanRoot(root))
	}
	cfgs = append(cfgs, transform.CSS(o.CSSBuildDirectory, o.IsProduction, cssOpts...).Map(cssFiles)...)

	log.Debug("assembled vanilla configs",
		"js_files", len(jsFiles),
		"css_files", len(cssFiles),
		"configs", len(cfgs),
	)
	return cfgs, nil
}

// discover resolves every pattern in order and prefixes each match with
// "./" so webpack treats it as a relative module request.
func discover(glob globutil.Func, dir string, patterns, ignore []string) ([]string, error) {
	if glob == nil {
		glob = globutil.Glob
	}
	var files []string
	for _, pattern := range patterns {
		matches, err := glob(pattern, globutil.Options{BaseDir: dir, Ignore: ignore})
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			files = append(files, "./"+m)
		}
	}
	return files, nil
}

func loggerOrDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return log
}
