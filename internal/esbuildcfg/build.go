package esbuildcfg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/vormadev/packcfg/kit/fsutil"
	"github.com/vormadev/packcfg/webpack"
	"golang.org/x/sync/errgroup"
)

type BuildOptions struct {
	// WorkingDir resolves entry sources and relative output paths.
	// Defaults to the process working directory.
	WorkingDir string
	// Concurrency caps parallel builds. Defaults to GOMAXPROCS.
	Concurrency int
	Logger      *slog.Logger
}

// Report describes what happened to one config.
type Report struct {
	Entries []string
	// Outputs are the files written, absolute.
	Outputs []string
	// Skipped is set, wrapping ErrUnsupported, when the config was not
	// built.
	Skipped error
}

// Build runs every config through esbuild. Unsupported configs are skipped
// and reported, not failed. Reports are in config order, and are returned
// alongside an error for the configs that did run.
func Build(ctx context.Context, cfgs []webpack.Config, o BuildOptions) ([]Report, error) {
	wd := o.WorkingDir
	if wd == "" {
		var err error
		if wd, err = filepath.Abs("."); err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
	}
	limit := o.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	reports := make([]Report, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, cfg := range cfgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := buildOne(cfg, wd)
			reports[i] = r
			switch {
			case r.Skipped != nil:
				log.Warn("skipped config", "entries", strings.Join(r.Entries, ","), "reason", r.Skipped)
			case err != nil:
				return fmt.Errorf("build %s: %w", strings.Join(r.Entries, ","), err)
			default:
				log.Debug("built config", "entries", strings.Join(r.Entries, ","), "outputs", len(r.Outputs))
			}
			return nil
		})
	}
	return reports, g.Wait()
}

func buildOne(cfg webpack.Config, wd string) (Report, error) {
	r := Report{Entries: cfg.Entry.Names()}
	opts, err := Options(cfg, wd)
	if errors.Is(err, ErrUnsupported) {
		r.Skipped = err
		return r, nil
	}
	if err != nil {
		return r, err
	}

	result := esbuild.Build(opts)
	if err := collectErrors(result.Errors); err != nil {
		return r, err
	}
	if r.Outputs, err = outputs(result.Metafile, wd); err != nil {
		return r, err
	}

	copied, err := runCopies(cfg.Plugins, wd)
	r.Outputs = append(r.Outputs, copied...)
	return r, err
}

func collectErrors(msgs []esbuild.Message) error {
	errs := make([]error, 0, len(msgs))
	for _, m := range msgs {
		if m.Location == nil {
			errs = append(errs, errors.New(m.Text))
			continue
		}
		errs = append(errs, fmt.Errorf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text))
	}
	return errors.Join(errs...)
}

type metafile struct {
	Outputs map[string]json.RawMessage `json:"outputs"`
}

func outputs(raw, wd string) ([]string, error) {
	var m metafile
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("parse metafile: %w", err)
	}
	files := make([]string, 0, len(m.Outputs))
	for p := range m.Outputs {
		files = append(files, abs(wd, filepath.FromSlash(p)))
	}
	sort.Strings(files)
	return files, nil
}

// runCopies performs the copies CopyPlugin would.
func runCopies(plugins []webpack.Plugin, wd string) ([]string, error) {
	var copied []string
	for _, p := range plugins {
		if p.Name != webpack.CopyPlugin {
			continue
		}
		patterns, _ := p.Option("patterns").([]any)
		for _, pat := range patterns {
			m, _ := pat.(map[string]any)
			from, _ := m["from"].(string)
			to, _ := m["to"].(string)
			if from == "" || to == "" {
				return copied, fmt.Errorf("copy pattern %v: from and to are required", pat)
			}
			dest, err := fsutil.CopyInto(abs(wd, from), abs(wd, to))
			if err != nil {
				return copied, err
			}
			copied = append(copied, dest)
		}
	}
	return copied, nil
}
