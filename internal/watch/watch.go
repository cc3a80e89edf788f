// Package watch regenerates output when the set of asset files changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/vormadev/packcfg/kit/globutil"
	"golang.org/x/sync/errgroup"
)

const DefaultDebounce = 50 * time.Millisecond

// Directories never watched, wherever they appear.
var skippedDirs = []string{"**/.git", "**/node_modules"}

// FileSet selects files relative to the watch root.
type FileSet struct {
	Patterns []string
	// Ignore excludes files, and whole directories, from the set.
	Ignore []string
}

func (s FileSet) match(rel string) bool {
	if globutil.Ignored(rel, s.Ignore) {
		return false
	}
	for _, pattern := range s.Patterns {
		if ok, _ := doublestar.Match(strings.TrimPrefix(pattern, "./"), rel); ok {
			return true
		}
	}
	return false
}

type Options struct {
	// Root is watched recursively.
	Root string
	// Sets select the files whose creation, removal or renaming triggers
	// OnChange. A directory ignored by every set is not watched.
	Sets []FileSet
	// Files trigger OnChange on any change. Typically the config file.
	Files []string
	// Exclude never triggers, even when matched by Patterns. Typically the
	// generated output.
	Exclude []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// OnChange receives each debounced batch of relevant events. Its errors
	// are logged and watching continues.
	OnChange func(ctx context.Context, events []fsnotify.Event) error
	// Ready, when set, is called once the initial watches are in place.
	Ready  func()
	Logger *slog.Logger
}

// Run watches until ctx is done, then returns nil.
func Run(ctx context.Context, o Options) error {
	if o.OnChange == nil {
		return errors.New("watch: OnChange is required")
	}
	root, err := filepath.Abs(o.Root)
	if err != nil {
		return fmt.Errorf("watch: resolve root: %w", err)
	}
	o.Root = root
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	w := &watcher{opts: o, fs: fw, log: log}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", root, err)
	}
	for _, f := range o.Files {
		if dir := filepath.Dir(f); w.rel(dir) == "" && dir != root {
			if err := fw.Add(dir); err != nil {
				fw.Close()
				return fmt.Errorf("watch %s: %w", f, err)
			}
		}
	}
	if o.Ready != nil {
		o.Ready()
	}

	g, ctx := errgroup.WithContext(ctx)
	debouncer := NewDebouncer(o.Debounce, func(events []fsnotify.Event) {
		if err := o.OnChange(ctx, events); err != nil {
			log.Error("regenerate failed", "err", err)
		}
	})
	defer debouncer.Stop()

	g.Go(func() error {
		<-ctx.Done()
		return fw.Close()
	})
	g.Go(func() error {
		for {
			select {
			case evt, ok := <-fw.Events:
				if !ok {
					return nil
				}
				if w.relevant(evt) {
					log.Debug("change", "op", evt.Op.String(), "path", evt.Name)
					debouncer.Add(evt)
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return nil
				}
				log.Error("watcher error", "err", err)
			case <-ctx.Done():
				return nil
			}
		}
	})
	return g.Wait()
}

type watcher struct {
	opts Options
	fs   *fsnotify.Watcher
	log  *slog.Logger
}

// rel returns p relative to the root with forward slashes, or "" when p is
// outside it.
func (w *watcher) rel(p string) string {
	r, err := filepath.Rel(w.opts.Root, p)
	if err != nil || r == "." || strings.HasPrefix(r, "..") {
		return ""
	}
	return filepath.ToSlash(r)
}

func (w *watcher) skipDir(p string) bool {
	r := w.rel(p)
	if r == "" {
		return false
	}
	for _, pattern := range skippedDirs {
		if ok, _ := doublestar.Match(pattern, r); ok {
			return true
		}
	}
	if len(w.opts.Sets) == 0 {
		return false
	}
	for _, set := range w.opts.Sets {
		if !globutil.Ignored(r, set.Ignore) {
			return false
		}
	}
	return true
}

func (w *watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories can vanish mid-walk.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.skipDir(p) {
			return filepath.SkipDir
		}
		return w.fs.Add(p)
	})
}

func (w *watcher) relevant(evt fsnotify.Event) bool {
	name := filepath.Clean(evt.Name)
	for _, f := range w.opts.Files {
		if samePath(f, name) {
			return evt.Op != fsnotify.Chmod
		}
	}
	for _, f := range w.opts.Exclude {
		if samePath(f, name) {
			return false
		}
	}
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}

	if evt.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if w.skipDir(name) {
				return false
			}
			if err := w.addTree(name); err != nil {
				w.log.Error("watch new directory", "path", name, "err", err)
			}
			return true
		}
	}

	if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
		return false
	}
	r := w.rel(name)
	if r == "" {
		return false
	}
	for _, set := range w.opts.Sets {
		if set.match(r) {
			return true
		}
	}
	return false
}

func samePath(a, b string) bool {
	if a == "" {
		return false
	}
	abs, err := filepath.Abs(a)
	if err != nil {
		return false
	}
	return abs == b
}
