package config

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the global configuration whenever the config file changes.
// It blocks until the context is cancelled. Editors that replace the file
// (rename+create) are handled by watching the containing directory.
func Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	configFile := Get().ConfigFilePath()
	if err := watcher.Add(filepath.Dir(configFile)); err != nil {
		return err
	}

	// Debounce: editors fire several events per save.
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != configFile {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(250 * time.Millisecond)

		case <-pending:
			pending = nil
			if err := Reload(); err != nil {
				log.Printf("config reload failed: %v", err)
				continue
			}
			log.Printf("config reloaded from %s", configFile)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("config watch error: %v", err)
		}
	}
}
