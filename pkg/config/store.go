package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

// Store holds the live configuration and serves credentials per request,
// implementing dost.CredentialSource. Reload swaps credentials without
// restarting the client.
type Store struct {
	path   string
	logger *zap.Logger

	mu  sync.RWMutex
	cfg Config
}

// NewStore creates a store over a loaded configuration.
func NewStore(path string, cfg Config, logger *zap.Logger) *Store {
	return &Store{path: path, cfg: cfg, logger: logger}
}

// Config returns the current configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Credentials returns the current query service credentials.
func (s *Store) Credentials() dost.Credentials {
	return s.Config().Credentials()
}

// Reload re-reads the config file and swaps in its credentials and presets.
func (s *Store) Reload() error {
	cfg, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.logger.Info("configuration reloaded", zap.String("path", s.path))
	return nil
}

// Watch reloads the configuration whenever the file changes, until ctx is
// done. Editors replace files on save, so the parent directory is watched.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("config reload failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}
