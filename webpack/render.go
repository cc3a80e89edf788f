package webpack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

const moduleHeader = "// Code generated by packcfg. DO NOT EDIT.\n"

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// WriteModule writes cfgs as a CommonJS module webpack can load as its
// config file.
func WriteModule(w io.Writer, cfgs []Config) error {
	src, err := RenderModule(cfgs)
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return err
}

// RenderModule returns the module source. The source is parsed before it is
// returned; output that is not valid JavaScript is an error.
func RenderModule(cfgs []Config) ([]byte, error) {
	r := &renderer{}
	r.buf.WriteString(moduleHeader)

	names := usedPlugins(cfgs)
	if len(names) > 0 {
		r.buf.WriteString("\n")
	}
	for _, name := range names {
		p, ok := peerOf(name)
		if !ok {
			return nil, fmt.Errorf("webpack: unknown plugin %q", name)
		}
		if p.named {
			fmt.Fprintf(&r.buf, "const { %s } = require( %s );\n", name, quote(p.pkg))
		} else {
			fmt.Fprintf(&r.buf, "const %s = require( %s );\n", name, quote(p.pkg))
		}
	}

	list := make(array, len(cfgs))
	for i, c := range cfgs {
		list[i] = c.jsValue()
	}
	r.buf.WriteString("\nmodule.exports = ")
	r.value(list, 0)
	r.buf.WriteString(";\n")

	if _, err := js.Parse(parse.NewInputBytes(r.buf.Bytes()), js.Options{}); err != nil {
		return nil, fmt.Errorf("webpack: rendered module does not parse: %w", err)
	}
	return r.buf.Bytes(), nil
}

// usedPlugins returns every plugin constructor referenced by cfgs, sorted.
func usedPlugins(cfgs []Config) []string {
	seen := map[string]struct{}{}
	for _, c := range cfgs {
		for _, p := range c.Plugins {
			seen[p.Name] = struct{}{}
		}
		for _, p := range c.Optimization.Minimizer {
			seen[p.Name] = struct{}{}
		}
		if c.Module == nil {
			continue
		}
		for _, rule := range c.Module.Rules {
			for _, l := range rule.Use {
				if l.Plugin != "" {
					seen[l.Plugin] = struct{}{}
				}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type (
	field struct {
		key string
		val any
	}
	object []field
	array  []any
	// raw is written verbatim.
	raw       string
	construct struct {
		name string
		opts map[string]any
	}
)

func (c Config) jsValue() object {
	o := object{
		{"entry", entryValue(c.Entry)},
		{"output", c.Output.jsValue()},
	}
	if c.Externals != nil {
		ext := make(object, 0, len(c.Externals))
		for _, k := range sortedKeys(c.Externals) {
			x := c.Externals[k]
			if x.This != nil {
				ext = append(ext, field{k, object{{"this", x.This}}})
			} else {
				ext = append(ext, field{k, x.Global})
			}
		}
		o = append(o, field{"externals", ext})
	}
	if c.Resolve != nil {
		o = append(o, field{"resolve", object{{"modules", c.Resolve.Modules}}})
	}
	if c.Module != nil {
		rules := make(array, len(c.Module.Rules))
		for i, rule := range c.Module.Rules {
			rules[i] = rule.jsValue()
		}
		o = append(o, field{"module", object{{"rules", rules}}})
	}
	if c.Plugins != nil {
		o = append(o, field{"plugins", pluginsValue(c.Plugins)})
	}
	if c.Devtool != "" {
		if c.Devtool == NoDevtool {
			o = append(o, field{"devtool", raw("false")})
		} else {
			o = append(o, field{"devtool", string(c.Devtool)})
		}
	}
	opt := object{{"minimize", c.Optimization.Minimize}}
	if c.Optimization.Minimizer != nil {
		opt = append(opt, field{"minimizer", pluginsValue(c.Optimization.Minimizer)})
	}
	return append(o, field{"optimization", opt})
}

func entryValue(e Entry) object {
	o := make(object, 0, len(e))
	for _, name := range e.Names() {
		ep := e[name]
		if len(ep) == 1 {
			o = append(o, field{name, ep[0]})
		} else {
			o = append(o, field{name, []string(ep)})
		}
	}
	return o
}

func (out Output) jsValue() object {
	o := object{
		{"filename", out.Filename},
		{"path", out.Path},
	}
	if out.IIFE != nil {
		o = append(o, field{"iife", *out.IIFE})
	}
	if out.Library != nil {
		o = append(o, field{"library", out.Library})
	}
	if out.LibraryTarget != "" {
		o = append(o, field{"libraryTarget", out.LibraryTarget})
	}
	return o
}

func (rule Rule) jsValue() object {
	o := object{{"test", raw(rule.Test.String())}}
	if rule.Exclude != nil {
		o = append(o, field{"exclude", raw(rule.Exclude.String())})
	}
	if len(rule.Use) == 1 && rule.Use[0].plain() {
		return append(o, field{"use", rule.Use[0].Name})
	}
	use := make(array, len(rule.Use))
	for i, l := range rule.Use {
		switch {
		case l.Options != nil:
			use[i] = object{{"loader", l.Name}, {"options", l.Options}}
		case l.Plugin != "":
			use[i] = raw(l.Ref())
		default:
			use[i] = l.Name
		}
	}
	return append(o, field{"use", use})
}

func pluginsValue(ps []Plugin) array {
	a := make(array, len(ps))
	for i, p := range ps {
		a[i] = construct{name: p.Name, opts: p.Options}
	}
	return a
}

type renderer struct {
	buf bytes.Buffer
}

func (r *renderer) indent(depth int) {
	r.buf.WriteString(strings.Repeat("\t", depth))
}

func (r *renderer) value(v any, depth int) {
	switch v := v.(type) {
	case nil:
		r.buf.WriteString("null")
	case raw:
		r.buf.WriteString(string(v))
	case string:
		r.buf.WriteString(quote(v))
	case bool:
		r.buf.WriteString(strconv.FormatBool(v))
	case int:
		r.buf.WriteString(strconv.Itoa(v))
	case float64:
		r.buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case Pattern:
		r.buf.WriteString(v.String())
	case *Pattern:
		r.buf.WriteString(v.String())
	case construct:
		r.buf.WriteString("new " + v.name + "(")
		if v.opts != nil {
			r.buf.WriteString(" ")
			r.value(v.opts, depth)
			r.buf.WriteString(" ")
		}
		r.buf.WriteString(")")
	case []string:
		a := make(array, len(v))
		for i, s := range v {
			a[i] = s
		}
		r.value(a, depth)
	case []any:
		r.value(array(v), depth)
	case map[string]any:
		o := make(object, 0, len(v))
		for _, k := range sortedKeys(v) {
			o = append(o, field{k, v[k]})
		}
		r.value(o, depth)
	case array:
		if len(v) == 0 {
			r.buf.WriteString("[]")
			return
		}
		r.buf.WriteString("[\n")
		for _, el := range v {
			r.indent(depth + 1)
			r.value(el, depth+1)
			r.buf.WriteString(",\n")
		}
		r.indent(depth)
		r.buf.WriteString("]")
	case object:
		if len(v) == 0 {
			r.buf.WriteString("{}")
			return
		}
		r.buf.WriteString("{\n")
		for _, f := range v {
			r.indent(depth + 1)
			r.buf.WriteString(key(f.key))
			r.buf.WriteString(": ")
			r.value(f.val, depth+1)
			r.buf.WriteString(",\n")
		}
		r.indent(depth)
		r.buf.WriteString("}")
	default:
		// Anything else reached through plugin options is plain data.
		b, err := json.Marshal(v)
		if err != nil {
			r.buf.WriteString("undefined")
			return
		}
		r.buf.Write(b)
	}
}

func key(k string) string {
	if identRe.MatchString(k) {
		return k
	}
	return quote(k)
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
