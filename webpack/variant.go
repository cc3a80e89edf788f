package webpack

// Variant selects between the minified and unminified build of the same
// sources. It is decided once per call and asked for every setting that
// differs between the two.
type Variant uint8

const (
	Unminified Variant = iota
	Minified
)

// Variants lists both variants in the order the assemblers emit them.
func Variants() [2]Variant {
	return [2]Variant{Unminified, Minified}
}

// VariantOf maps a minify flag to its variant.
func VariantOf(minify bool) Variant {
	if minify {
		return Minified
	}
	return Unminified
}

func (v Variant) Minify() bool { return v == Minified }

// Suffix is inserted between a file's stem and its extension.
func (v Variant) Suffix() string {
	if v == Minified {
		return ".min"
	}
	return ""
}

// SassOutputStyle is the sass compiler style matching the variant.
func (v Variant) SassOutputStyle() string {
	if v == Minified {
		return SassCompressed
	}
	return SassExpanded
}

func (v Variant) String() string {
	if v == Minified {
		return "minified"
	}
	return "unminified"
}

// Sass output styles accepted by sass-loader.
const (
	SassCompressed = "compressed"
	SassExpanded   = "expanded"
)
