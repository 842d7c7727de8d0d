package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store holds the active catalog and swaps it atomically on reload, so
// analyses in flight keep the tables they started with.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store serving c, or the defaults when c is nil.
func NewStore(c *Catalog) *Store {
	if c == nil {
		c = Default()
	}
	s := &Store{}
	s.current.Store(c)
	return s
}

// Get returns the active catalog.
func (s *Store) Get() *Catalog {
	return s.current.Load()
}

// Set replaces the active catalog.
func (s *Store) Set(c *Catalog) {
	if c != nil {
		s.current.Store(c)
	}
}

// Reload loads path and makes it active. On error the previous catalog stays.
func (s *Store) Reload(path string) error {
	c, err := LoadFile(path)
	if err != nil {
		return err
	}
	s.current.Store(c)
	return nil
}

// Watch reloads the catalog whenever path is written or replaced. It
// blocks until ctx is cancelled. The parent directory is watched so that
// editors which save via rename are picked up.
func (s *Store) Watch(ctx context.Context, path string, logger *zap.Logger) (err error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch catalog directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(target); err != nil {
				logger.Warn("catalog reload failed, keeping previous tables",
					zap.String("path", target), zap.Error(err))
				continue
			}
			logger.Info("catalog reloaded", zap.String("path", target))
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog watcher error", zap.Error(werr))
		}
	}
}
