package webpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		p    Pattern
		s    string
		want bool
	}{
		{Regexp(`\.css$`, "i"), "style.css", true},
		{Regexp(`\.css$`, "i"), "STYLE.CSS", true},
		{Regexp(`\.css$`, ""), "STYLE.CSS", false},
		{Regexp(`\.min\.css$`, "i"), "style.css", false},
		{Regexp(`\.s?css$`, ""), "editor.scss", true},
		{Regexp(`(`, ""), "(", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.p.Match(tt.s), "%s against %q", tt.p, tt.s)
	}
	assert.Equal(t, `/\.min\.css$/i`, Regexp(`\.min\.css$`, "i").String())
}

func TestEntry(t *testing.T) {
	e := Entry{"b": {"./b.js"}, "a": {"./a.js", "./a2.js"}}
	assert.Equal(t, []string{"a", "b"}, e.Names())

	c := e.Clone()
	c["a"][0] = "changed"
	c["c"] = EntryPoint{"./c.js"}
	assert.Equal(t, "./a.js", e["a"][0])
	assert.NotContains(t, e, "c")

	assert.Nil(t, Entry(nil).Clone())
}

func TestExternalsClone(t *testing.T) {
	x := Externals{"@wordpress/blocks": ThisExternal("wp", "blocks")}
	c := x.Clone()
	c["@wordpress/blocks"].This[1] = "changed"
	assert.Equal(t, []string{"wp", "blocks"}, x["@wordpress/blocks"].This)
	assert.Nil(t, Externals(nil).Clone())
}

func TestDevtoolFor(t *testing.T) {
	assert.Equal(t, NoDevtool, DevtoolFor(true))
	assert.Equal(t, SourceMap, DevtoolFor(false))
}

func TestLoaderRef(t *testing.T) {
	assert.Equal(t, "MiniCssExtractPlugin.loader", ExtractLoader().Ref())
	assert.Equal(t, "css-loader", CSSLoader().Ref())
}

func TestPluginOption(t *testing.T) {
	assert.Nil(t, Plugin{Name: TerserPlugin}.Option("extractComments"))
	assert.Equal(t, false, NewTerser(false).Option("extractComments"))
	assert.Nil(t, NewTerser(false).Option("terserOptions"))
	assert.Equal(t,
		map[string]any{"format": map[string]any{"comments": false}},
		NewTerser(true).Option("terserOptions"),
	)
}
