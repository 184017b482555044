// BYZRA ⸻ internal/daemon/watcher.go
// file system monitoring for the daemon

package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"exifdrop/internal/export"
	"exifdrop/internal/formats"
	"exifdrop/internal/session"
)

// processes a detected file
type FileHandler func(path string) error

// configures the watcher behavior
type WatchOptions struct {
	// extensions to monitor; empty means every supported image format
	Extensions []string

	// directories to exclude
	ExcludeDirs []string

	// min file age before processing (avoid processing incomplete files)
	MinFileAge time.Duration

	// wait after an event before the handler runs
	SettleDelay time.Duration

	// process files recursively in subdirectories?
	Recursive bool
}

// monitors directories for file changes
type Watcher struct {
	watcher     *fsnotify.Watcher
	dirs        []string
	options     WatchOptions
	handler     FileHandler
	logger      session.Logger
	processed   map[string]time.Time
	inFlight    map[string]bool
	processLock sync.Mutex
	stop        chan struct{}
	wg          sync.WaitGroup
	running     bool
}

// new file system watcher
func NewWatcher(dirs []string, options WatchOptions, handler FileHandler, logger session.Logger) (*Watcher, error) {
	var validDirs []string
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			logger.Warning(fmt.Sprintf("Skipping invalid directory %s: %v", dir, err))
			continue
		}

		if !info.IsDir() {
			logger.Warning(fmt.Sprintf("Skipping non-directory path %s", dir))
			continue
		}

		validDirs = append(validDirs, dir)
	}

	if len(validDirs) == 0 {
		return nil, fmt.Errorf("no valid directories to watch")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:   fsWatcher,
		dirs:      validDirs,
		options:   options,
		handler:   handler,
		logger:    logger,
		processed: make(map[string]time.Time),
		inFlight:  make(map[string]bool),
		stop:      make(chan struct{}),
	}, nil
}

// begins watching the configured directories
func (w *Watcher) Start() error {
	if w.running {
		return fmt.Errorf("watcher already running")
	}

	for _, dir := range w.dirs {
		if !w.options.Recursive {
			w.watchDir(dir)
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				w.logger.Warning(fmt.Sprintf("Error accessing path %s: %v", path, err))
				return nil // continue walking
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && w.excluded(path) {
				return filepath.SkipDir
			}
			w.watchDir(path)
			return nil
		})
		if err != nil {
			w.logger.Error(fmt.Sprintf("Error walking directory %s: %v", dir, err))
		}
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.periodicCleanup()

	w.running = true
	w.logger.Info("File watcher started")

	return nil
}

// terminates the watcher and waits for in-flight files
func (w *Watcher) Stop() error {
	if !w.running {
		return nil
	}
	w.running = false

	close(w.stop)
	err := w.watcher.Close()
	w.wg.Wait()
	w.logger.Info("File watcher stopped")

	return err
}

func (w *Watcher) watchDir(path string) {
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warning(fmt.Sprintf("[!] Failed to watch directory %s: %v", path, err))
		return
	}
	w.logger.Debug(fmt.Sprintf("Watching directory: %s", path))
}

func (w *Watcher) excluded(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	return slices.Contains(w.options.ExcludeDirs, base)
}

// checks if a file should be processed based on options
func (w *Watcher) shouldProcessFile(path string) bool {
	base := filepath.Base(path)

	// hidden files include in-progress atomic writes
	if strings.HasPrefix(base, ".") || export.IsOutputName(base) {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	if len(w.options.Extensions) > 0 {
		if !slices.ContainsFunc(w.options.Extensions, func(allowed string) bool {
			return strings.EqualFold(ext, allowed)
		}) {
			return false
		}
	} else if !formats.IsSupported(ext) {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	// is file old enough?
	if w.options.MinFileAge > 0 && time.Since(info.ModTime()) < w.options.MinFileAge {
		return false
	}

	w.processLock.Lock()
	defer w.processLock.Unlock()

	if w.inFlight[path] {
		return false
	}
	if lastProcessed, exists := w.processed[path]; exists {
		if time.Since(lastProcessed) < time.Minute {
			return false
		}
	}

	w.inFlight[path] = true
	return true
}

func (w *Watcher) markProcessed(path string) {
	w.processLock.Lock()
	defer w.processLock.Unlock()

	delete(w.inFlight, path)
	w.processed[path] = time.Now()
}

// file system events
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return // watcher was closed
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			path := event.Name

			// if a new directory was created and we're in recursive mode, watch it
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				if w.options.Recursive && !w.excluded(path) {
					w.watchDir(path)
				}
				continue
			}

			if w.shouldProcessFile(path) {
				w.wg.Add(1)
				go w.process(path)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return // watcher closed
			}
			w.logger.Error(fmt.Sprintf("[X] Watcher error: %v", err))
		}
	}
}

func (w *Watcher) process(path string) {
	defer w.wg.Done()
	defer w.markProcessed(path)

	// let the writer finish
	if w.options.SettleDelay > 0 {
		select {
		case <-time.After(w.options.SettleDelay):
		case <-w.stop:
			return
		}
	}

	w.logger.Debug(fmt.Sprintf("Processing file: %s", path))

	if err := w.handler(path); err != nil {
		w.logger.Error(fmt.Sprintf("[X] Failed to process file %s: %v", path, err))
	}
}

// periodically cleans the processed files map
func (w *Watcher) periodicCleanup() {
	defer w.wg.Done()

	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return

		case <-ticker.C:
			w.processLock.Lock()

			// clean entries older than 1 hour
			cutoff := time.Now().Add(-1 * time.Hour)
			for path, processed := range w.processed {
				if processed.Before(cutoff) {
					delete(w.processed, path)
				}
			}

			w.processLock.Unlock()

			w.logger.Debug("Cleaned processed files cache")
		}
	}
}
