package assemble

import (
	"errors"
	"fmt"

	"github.com/vormadev/packcfg/webpack"
)

// ErrInvalidArgument is returned for option values outside their domain.
var ErrInvalidArgument = errors.New("invalid argument")

// SassRule compiles .scss and .css imports through sass-loader with the
// given load paths, then extracts the result into the bundle's stylesheet.
// outputStyle must be webpack.SassCompressed or webpack.SassExpanded.
func SassRule(loadPaths []string, outputStyle string, sourceMap bool) (webpack.Rule, error) {
	switch outputStyle {
	case webpack.SassCompressed, webpack.SassExpanded:
	default:
		return webpack.Rule{}, fmt.Errorf("%w: sass output style %q, want %q or %q",
			ErrInvalidArgument, outputStyle, webpack.SassCompressed, webpack.SassExpanded)
	}

	return webpack.Rule{
		Test: webpack.Regexp(`\.s?css$`, ""),
		Use: webpack.Use{
			webpack.ExtractLoader(),
			webpack.CSSLoader(),
			webpack.SassLoader(map[string]any{
				"loadPaths":   append([]string{}, loadPaths...),
				"outputStyle": outputStyle,
				"sourceMap":   sourceMap,
			}),
		},
	}, nil
}
