// Package webpack models the configuration objects packcfg hands to webpack.
// Values are plain data: every transformer builds them fresh, and nothing in
// this package keeps state between calls.
package webpack

import (
	"regexp"
	"sort"
	"strings"
)

// Config is one webpack configuration object. webpack accepts an array of
// these and runs one compilation per element.
type Config struct {
	Entry        Entry        `json:"entry"`
	Output       Output       `json:"output"`
	Externals    Externals    `json:"externals,omitempty"`
	Resolve      *Resolve     `json:"resolve,omitempty"`
	Module       *Module      `json:"module,omitempty"`
	Plugins      []Plugin     `json:"plugins,omitempty"`
	Devtool      Devtool      `json:"devtool,omitempty"`
	Optimization Optimization `json:"optimization"`
}

// Entry maps an output bundle name to the sources it starts from.
type Entry map[string]EntryPoint

// EntryPoint is one or more source paths. A single path is written as a
// plain string, more than one as an array.
type EntryPoint []string

// Names returns the entry names in lexical order.
func (e Entry) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy that shares no slices with e.
func (e Entry) Clone() Entry {
	if e == nil {
		return nil
	}
	out := make(Entry, len(e))
	for name, ep := range e {
		out[name] = append(EntryPoint(nil), ep...)
	}
	return out
}

type Output struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	// IIFE set to false stops webpack wrapping the bundle in a closure.
	IIFE          *bool    `json:"iife,omitempty"`
	Library       []string `json:"library,omitempty"`
	LibraryTarget string   `json:"libraryTarget,omitempty"`
}

type Resolve struct {
	Modules []string `json:"modules"`
}

type Module struct {
	Rules []Rule `json:"rules"`
}

// Rule applies a loader chain to files matching Test.
type Rule struct {
	Test    Pattern  `json:"test"`
	Exclude *Pattern `json:"exclude,omitempty"`
	Use     Use      `json:"use"`
}

// Use is a loader chain. webpack applies it last to first.
type Use []Loader

// Loader references a webpack loader by package name, or the loader exposed
// by a plugin (MiniCssExtractPlugin.loader) when Plugin is set.
type Loader struct {
	Name    string
	Plugin  string
	Options map[string]any
}

// plain reports whether the loader can be written as a bare string.
func (l Loader) plain() bool {
	return l.Plugin == "" && l.Options == nil
}

// Ref is the loader as written in a config: the package name or
// the plugin's loader property.
func (l Loader) Ref() string {
	if l.Plugin != "" {
		return l.Plugin + ".loader"
	}
	return l.Name
}

// Plugin is an invocation of a webpack plugin constructor with literal
// options. Name must be one of the plugin constants in this package.
type Plugin struct {
	Name    string
	Options map[string]any
}

// Option returns the named option, or nil.
func (p Plugin) Option(key string) any {
	if p.Options == nil {
		return nil
	}
	return p.Options[key]
}

type Optimization struct {
	Minimize  bool     `json:"minimize"`
	Minimizer []Plugin `json:"minimizer,omitempty"`
}

// Externals maps an import specifier to the runtime global that provides it.
type Externals map[string]External

// Clone returns a copy that shares no slices with x.
func (x Externals) Clone() Externals {
	if x == nil {
		return nil
	}
	out := make(Externals, len(x))
	for k, v := range x {
		out[k] = External{Global: v.Global, This: append([]string(nil), v.This...)}
	}
	return out
}

// External is either a global variable name or a property path looked up
// on `this` at runtime.
type External struct {
	Global string
	This   []string
}

func GlobalExternal(name string) External {
	return External{Global: name}
}

func ThisExternal(path ...string) External {
	return External{This: path}
}

// Devtool selects webpack's source map mode. The zero value leaves the
// field out of the config entirely.
type Devtool string

const (
	SourceMap Devtool = "source-map"
	// NoDevtool is written as a literal false.
	NoDevtool Devtool = "false"
)

// DevtoolFor returns source maps outside production.
func DevtoolFor(isProduction bool) Devtool {
	if isProduction {
		return NoDevtool
	}
	return SourceMap
}

// Pattern is a JavaScript regular expression literal.
type Pattern struct {
	Source string
	Flags  string
}

func Regexp(source, flags string) Pattern {
	return Pattern{Source: source, Flags: flags}
}

func (p Pattern) String() string {
	return "/" + p.Source + "/" + p.Flags
}

// Match reports whether s matches the pattern. Only the i flag changes
// matching; the patterns packcfg emits are valid RE2.
func (p Pattern) Match(s string) bool {
	src := p.Source
	if strings.Contains(p.Flags, "i") {
		src = "(?i)" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}
