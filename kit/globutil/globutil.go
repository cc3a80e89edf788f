// Package globutil resolves doublestar glob patterns against a base
// directory, returning slash-separated paths relative to it.
package globutil

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options controls a single Glob call.
type Options struct {
	// BaseDir is the directory patterns are resolved in. Empty means ".".
	BaseDir string
	// Ignore drops matches, and everything beneath a matching directory.
	Ignore []string
	// Dot lets wildcards match files and directories whose name starts
	// with a dot.
	Dot bool
}

// Func is the signature of Glob, for callers that want to substitute it.
type Func func(pattern string, opts Options) ([]string, error)

// Glob returns the regular files under opts.BaseDir matching pattern, in
// lexical order. A base directory that does not exist yields no
// matches; a malformed pattern is an error.
func Glob(pattern string, opts Options) ([]string, error) {
	base := opts.BaseDir
	if base == "" {
		base = "."
	}
	pattern = normalize(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("globutil: invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	for _, ig := range opts.Ignore {
		if !doublestar.ValidatePattern(normalize(ig)) {
			return nil, fmt.Errorf("globutil: invalid ignore pattern %q: %w", ig, doublestar.ErrBadPattern)
		}
	}

	matches, err := doublestar.Glob(os.DirFS(base), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("globutil: glob %q in %s: %w", pattern, base, err)
	}

	out := matches[:0]
	for _, m := range matches {
		if !opts.Dot && hidden(m) && !explicitDot(pattern) {
			continue
		}
		if Ignored(m, opts.Ignore) {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// Ignored reports whether p, or any directory above it, matches one of
// the ignore patterns.
func Ignored(p string, ignore []string) bool {
	if len(ignore) == 0 {
		return false
	}
	for candidate := p; candidate != "." && candidate != "/" && candidate != ""; candidate = path.Dir(candidate) {
		for _, ig := range ignore {
			if ok, _ := doublestar.Match(normalize(ig), candidate); ok {
				return true
			}
		}
	}
	return false
}

// normalize strips a leading "./", which fs.FS paths never carry.
func normalize(pattern string) string {
	for strings.HasPrefix(pattern, "./") {
		pattern = pattern[2:]
	}
	return pattern
}

func hidden(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// explicitDot reports whether the pattern names a dot segment itself, in
// which case its matches are wanted.
func explicitDot(pattern string) bool {
	return strings.HasPrefix(pattern, ".") || strings.Contains(pattern, "/.")
}
