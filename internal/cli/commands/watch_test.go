package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vormadev/packcfg/internal/config"
	"github.com/vormadev/packcfg/internal/watch"
)

func TestWatchOptions(t *testing.T) {
	cfg := &config.Config{
		Mode:   config.ModeVanilla,
		Output: "webpack.config.js",
		Root:   "/p",
		File:   "/p/packcfg.yaml",
		Vanilla: config.VanillaConfig{
			WorkingDir: "theme",
			JS:         config.AssetKind{Ignore: []string{"js/build/**"}},
			CSS:        config.AssetKind{Patterns: []string{"css/*.css"}},
		},
	}

	o := watchOptions(cfg)
	assert.Equal(t, "/p/theme", o.Root)
	assert.Equal(t, []string{"/p/packcfg.yaml"}, o.Files)
	assert.Equal(t, []string{"/p/webpack.config.js"}, o.Exclude)
	assert.Equal(t, []watch.FileSet{
		{Patterns: []string{"**/*.js"}, Ignore: []string{"js/build/**"}},
		{Patterns: []string{"css/*.css"}},
	}, o.Sets)

	cfg.Mode = config.ModeReactified
	cfg.Output = config.Stdout
	o = watchOptions(cfg)
	assert.Equal(t, "/p", o.Root)
	assert.Nil(t, o.Exclude)
	assert.Equal(t, []watch.FileSet{{Ignore: []string{"**"}}}, o.Sets)
}
