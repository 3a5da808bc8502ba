// Package watch re-runs exhaustiveness checks when declaration files change.
// File events come from fsnotify and are coalesced with a debouncer so that
// an editor's write bursts trigger a single run.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/reoring/adtmatch"
	"github.com/reoring/adtmatch/source"
)

// DefaultDelay is the debounce window used when none is configured.
const DefaultDelay = 200 * time.Millisecond

// Runner loads, compiles and checks a fixed list of files.
type Runner struct {
	Files []string
	// Load reads the files; nil means source.LoadFiles.
	Load   func(paths ...string) (adtmatch.Declarations, error)
	Cache  *Cache
	Logger zerolog.Logger
	// OnResult is called after every run whose diagnostics changed.
	OnResult func(Result)
}

// RunOnce performs a single check run and records it in the cache.
func (r *Runner) RunOnce() Result {
	res := Result{Files: r.Files, At: time.Now()}
	load := r.Load
	if load == nil {
		load = source.LoadFiles
	}
	decls, err := load(r.Files...)
	if err == nil {
		var prog *adtmatch.Program
		prog, err = decls.Compile()
		if err == nil {
			res.Reports = prog.CheckAll()
		}
	}
	res.Err = err

	changed := true
	if r.Cache != nil {
		changed = r.Cache.Put(res)
	}
	ev := r.Logger.Debug()
	if !res.OK() {
		ev = r.Logger.Info()
	}
	ev.Bool("changed", changed).Int("statements", len(res.Reports)).Err(res.Err).Msg("check run")
	if changed && r.OnResult != nil {
		r.OnResult(res)
	}
	return res
}

// Watcher drives a Runner from file system events.
type Watcher struct {
	runner   *Runner
	fs       *fsnotify.Watcher
	debounce func(func())
	watched  map[string]struct{}
}

// New watches the directories holding runner's files. Directories rather
// than files are watched because editors often replace a file on save.
func New(runner *Runner, delay time.Duration) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{runner: runner, fs: fw, debounce: debounce.New(delay), watched: map[string]struct{}{}}
	dirs := map[string]struct{}{}
	for _, f := range runner.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run performs an initial check, then re-checks after every relevant change
// until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	log := w.runner.Logger
	w.runner.RunOnce()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("change")
			w.debounce(func() { w.runner.RunOnce() })
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.watched[abs]
	return ok
}

func (w *Watcher) Close() error { return w.fs.Close() }
