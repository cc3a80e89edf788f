// Package pathname derives bundle and global names from file paths and
// package names.
package pathname

import (
	"path"
	"strings"
)

// BaseName returns the last element of p without its extension, so
// "./admin/settings.js" becomes "settings". Both slash styles separate
// elements. Only the final extension is removed: "style.min.css" gives
// "style.min".
func BaseName(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	base := path.Base(p)
	if base == "/" || base == "." {
		return ""
	}
	ext := path.Ext(base)
	if ext == base {
		// dotfiles such as ".eslintrc" have no extension
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// CamelCaseDash removes each dash followed by a lowercase ASCII letter and
// uppercases that letter: "block-editor" becomes "blockEditor". Any other
// dash is kept ("a-1b" is unchanged), and a letter after a digit is never
// uppercased ("html5-entities" becomes "html5Entities", "api2go" stays).
func CamelCaseDash(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' && i+1 < len(s) && isLower(s[i+1]) {
			b.WriteByte(s[i+1] - 'a' + 'A')
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}
