package packcfg

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vormadev/packcfg/webpack"
)

func TestGetVanillaConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.js"), nil, 0o644))

	cfgs, err := GetVanillaConfig(VanillaOptions{
		WorkingDirectory:  root,
		CSSPatterns:       []string{},
		JSBuildDirectory:  "/out/js",
		CSSBuildDirectory: "/out/css",
	})
	require.NoError(t, err)
	require.Len(t, cfgs, 2)
	assert.Equal(t, "app.js", cfgs[0].Output.Filename)
	assert.Equal(t, "app.min.js", cfgs[1].Output.Filename)

	var buf bytes.Buffer
	require.NoError(t, WriteModule(&buf, cfgs))
	assert.Contains(t, buf.String(), `app: "./app.js",`)
}

func TestGetReactifiedConfig(t *testing.T) {
	pair, err := GetReactifiedConfig(ReactifiedOptions{
		EntryPoints: webpack.Entry{"index": {"./src/index.js"}},
		OutputPath:  "/project",
		LibraryName: "blocks",
	})
	require.NoError(t, err)
	assert.True(t, pair.Minified.Optimization.Minimize)
	assert.False(t, pair.Unminified.Optimization.Minimize)
}

func TestTransformers(t *testing.T) {
	js := JSTransformer("/out", Minified)("./a/b.js")
	assert.Equal(t, "b.min.js", js.Output.Filename)

	css := CSSTransformer("/out", true, WithoutSourceCopy(), WithCleanRoot("/p"))("./c.css")
	assert.Len(t, css.Plugins, 2)
}
