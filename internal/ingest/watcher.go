package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatchConfig struct {
	Roots    []string      // directories (watched recursively) or single PDF files
	Debounce time.Duration // quiet period that closes a burst of events
	Logger   *slog.Logger
}

// StartWatcher watches the roots recursively and emits, once per burst of
// events, the sorted PDF paths that were created, written or renamed. New
// subdirectories are watched as they appear. A root that is a single PDF is
// watched through its directory and only that file is reported. Both
// channels close when ctx ends.
func StartWatcher(ctx context.Context, cfg WatchConfig) (<-chan []string, <-chan error, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		logger.Error("watcher start failed: no roots provided")
		return nil, nil, errors.New("no roots provided")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}
	st := &watchState{
		w:        w,
		logger:   logger,
		trees:    map[string]struct{}{},
		files:    map[string]struct{}{},
		fileDirs: map[string]struct{}{},
		pending:  map[string]struct{}{},
	}
	for _, r := range cfg.Roots {
		if err := st.addRoot(r); err != nil {
			logger.Error("failed to add root", "root", r, "error", err)
			_ = w.Close()
			return nil, nil, err
		}
	}

	evCh := make(chan []string, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("watcher close failed", "error", err)
			}
		}()

		var timer *time.Timer
		var fire <-chan time.Time

		flush := func() {
			if len(st.pending) == 0 {
				return
			}
			batch := make([]string, 0, len(st.pending))
			for p := range st.pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			st.pending = map[string]struct{}{}
			select {
			case evCh <- batch:
			case <-ctx.Done():
			}
		}

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if !st.relevant(e) {
					continue
				}
				logger.Debug("ingest.watch.event", "path", e.Name, "op", e.Op.String())
				if cfg.Debounce <= 0 {
					flush()
					continue
				}
				if timer == nil {
					timer = time.NewTimer(cfg.Debounce)
				} else {
					timer.Reset(cfg.Debounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				flush()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

type watchState struct {
	w      *fsnotify.Watcher
	logger *slog.Logger

	trees    map[string]struct{} // directories watched recursively
	files    map[string]struct{} // single-file roots
	fileDirs map[string]struct{} // parents watched only for a file root
	pending  map[string]struct{}
}

func (s *watchState) addRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if info.IsDir() {
		_, err := addTree(s.w, root, s.trees)
		return err
	}
	if !AllowedExt(filepath.Ext(root)) {
		return fmt.Errorf("%s: not a pdf file", root)
	}
	dir := filepath.Dir(root)
	if err := s.w.Add(dir); err != nil {
		return err
	}
	s.files[filepath.Clean(root)] = struct{}{}
	s.fileDirs[filepath.Clean(dir)] = struct{}{}
	return nil
}

// relevant records the PDF paths touched by e in pending. A created
// directory is watched and its PDFs are recorded as well.
func (s *watchState) relevant(e fsnotify.Event) bool {
	if !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) && !e.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(e.Name)
	dir := filepath.Dir(name)
	if _, ok := s.fileDirs[dir]; ok {
		if _, tree := s.trees[dir]; !tree {
			if _, ok := s.files[name]; !ok {
				return false
			}
			s.pending[name] = struct{}{}
			return true
		}
	}
	if e.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			found, err := addTree(s.w, name, s.trees)
			if err != nil {
				s.logger.Warn("failed to add new directory to watcher", "path", name, "error", err)
			}
			for _, p := range found {
				s.pending[p] = struct{}{}
			}
			return len(found) > 0
		}
	}
	if IsHidden(name) || !AllowedExt(filepath.Ext(name)) {
		return false
	}
	s.pending[name] = struct{}{}
	return true
}

// addTree watches every directory under root, records it in dirs and
// returns the PDFs already there.
func addTree(w *fsnotify.Watcher, root string, dirs map[string]struct{}) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			dirs[filepath.Clean(path)] = struct{}{}
			return w.Add(path)
		}
		if AllowedExt(filepath.Ext(path)) {
			found = append(found, path)
		}
		return nil
	})
	return found, err
}
