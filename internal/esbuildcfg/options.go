// Package esbuildcfg runs webpack configs through esbuild. It covers the
// configs packcfg generates except those that need sass-loader or entries
// with more than one source.
package esbuildcfg

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/vormadev/packcfg/webpack"
)

// ErrUnsupported is returned for configs esbuild cannot reproduce.
var ErrUnsupported = errors.New("not supported by esbuild")

// Options translates cfg into esbuild build options. Relative paths in cfg
// are resolved against workingDir, which must be absolute.
func Options(cfg webpack.Config, workingDir string) (esbuild.BuildOptions, error) {
	if err := supported(cfg); err != nil {
		return esbuild.BuildOptions{}, err
	}

	entries := make([]esbuild.EntryPoint, 0, len(cfg.Entry))
	for _, name := range cfg.Entry.Names() {
		entries = append(entries, esbuild.EntryPoint{
			InputPath:  cfg.Entry[name][0],
			OutputPath: name,
		})
	}

	opts := esbuild.BuildOptions{
		EntryPointsAdvanced: entries,
		EntryNames:          entryNames(outputFilename(cfg)),
		Outdir:              abs(workingDir, cfg.Output.Path),
		AbsWorkingDir:       workingDir,
		Bundle:              true,
		Platform:            esbuild.PlatformBrowser,
		Write:               true,
		Metafile:            true,
		LogLevel:            esbuild.LogLevelSilent,
	}

	plain := len(cfg.Output.Library) == 0 && cfg.Output.IIFE != nil && !*cfg.Output.IIFE
	if cfg.Optimization.Minimize && len(cfg.Optimization.Minimizer) > 0 {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = !plain
		opts.MinifySyntax = true
	}
	if stripsComments(cfg.Optimization.Minimizer) {
		opts.LegalComments = esbuild.LegalCommentsNone
	}
	if cfg.Devtool == webpack.SourceMap {
		opts.Sourcemap = esbuild.SourceMapLinked
	}

	switch {
	case len(cfg.Output.Library) > 0:
		opts.Format = esbuild.FormatIIFE
		opts.GlobalName = strings.Join(cfg.Output.Library, ".")
	case plain:
		// Imports are inlined; top-level declarations stay global and
		// keep their names.
		opts.Format = esbuild.FormatESModule
		opts.TreeShaking = esbuild.TreeShakingFalse
	}

	if cfg.Module != nil {
		for _, rule := range cfg.Module.Rules {
			if uses(rule, webpack.BabelLoaderName) {
				opts.Loader = map[string]esbuild.Loader{".js": esbuild.LoaderJSX}
			}
		}
	}

	if len(cfg.Externals) > 0 {
		opts.Plugins = append(opts.Plugins, globalsPlugin(cfg.Externals))
	}
	return opts, nil
}

func supported(cfg webpack.Config) error {
	if len(cfg.Entry) == 0 {
		return fmt.Errorf("%w: config has no entries", ErrUnsupported)
	}
	for _, name := range cfg.Entry.Names() {
		if n := len(cfg.Entry[name]); n != 1 {
			return fmt.Errorf("%w: entry %q has %d sources", ErrUnsupported, name, n)
		}
	}
	if cfg.Module != nil {
		for _, rule := range cfg.Module.Rules {
			if uses(rule, webpack.SassLoaderName) {
				return fmt.Errorf("%w: rule %s uses %s", ErrUnsupported, rule.Test, webpack.SassLoaderName)
			}
		}
	}
	return nil
}

func uses(rule webpack.Rule, loader string) bool {
	for _, l := range rule.Use {
		if l.Name == loader {
			return true
		}
	}
	return false
}

// outputFilename is the name of the file that matters: the extracted
// stylesheet for stylesheet entries, the bundle otherwise.
func outputFilename(cfg webpack.Config) string {
	for _, p := range cfg.Plugins {
		if p.Name != webpack.MiniCssExtractPlugin || !stylesheetsOnly(cfg.Entry) {
			continue
		}
		if name, ok := p.Option("filename").(string); ok {
			return name
		}
	}
	return cfg.Output.Filename
}

func stylesheetsOnly(e webpack.Entry) bool {
	for _, sources := range e {
		for _, s := range sources {
			if !strings.EqualFold(filepath.Ext(s), ".css") {
				return false
			}
		}
	}
	return true
}

// entryNames turns a webpack filename template into an esbuild one, which
// has no extension.
func entryNames(filename string) string {
	filename = strings.TrimPrefix(filename, "./")
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func stripsComments(minimizers []webpack.Plugin) bool {
	for _, p := range minimizers {
		if p.Name == webpack.TerserPlugin && p.Option("terserOptions") != nil {
			return true
		}
	}
	return false
}

func abs(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

const globalsNamespace = "packcfg-global"

// globalsPlugin resolves each external to a module re-exporting the runtime
// global webpack would bind it to.
func globalsPlugin(ext webpack.Externals) esbuild.Plugin {
	keys := make([]string, 0, len(ext))
	for k := range ext {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	filter := "^(?:" + strings.Join(keys, "|") + ")$"

	return esbuild.Plugin{
		Name: "packcfg-externals",
		Setup: func(build esbuild.PluginBuild) {
			build.OnResolve(esbuild.OnResolveOptions{Filter: filter},
				func(args esbuild.OnResolveArgs) (esbuild.OnResolveResult, error) {
					return esbuild.OnResolveResult{Path: args.Path, Namespace: globalsNamespace}, nil
				})
			build.OnLoad(esbuild.OnLoadOptions{Filter: ".*", Namespace: globalsNamespace},
				func(args esbuild.OnLoadArgs) (esbuild.OnLoadResult, error) {
					x, ok := ext[args.Path]
					if !ok {
						return esbuild.OnLoadResult{}, fmt.Errorf("no external %q", args.Path)
					}
					contents := "module.exports = " + globalExpr(x) + ";"
					return esbuild.OnLoadResult{Contents: &contents, Loader: esbuild.LoaderJS}, nil
				})
		},
	}
}

// globalExpr is the JavaScript expression reading x from the global scope.
func globalExpr(x webpack.External) string {
	path := x.This
	if path == nil {
		path = []string{x.Global}
	}
	var b strings.Builder
	b.WriteString("globalThis")
	for _, p := range path {
		q, _ := json.Marshal(p)
		b.WriteString("[")
		b.Write(q)
		b.WriteString("]")
	}
	return b.String()
}
