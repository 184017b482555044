// BYZRA ⸻ internal/daemon/daemon.go
// daemon management for background processing

package daemon

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"exifdrop/internal/analyse"
	"exifdrop/internal/config"
	"exifdrop/internal/export"
	"exifdrop/internal/wipe"
)

// background service that strips images dropped into watched folders
type Daemon struct {
	config  *config.Config
	logger  *Logger
	watcher *Watcher
	mu      sync.Mutex
	running bool

	processed atomic.Int64
	skipped   atomic.Int64
	errors    atomic.Int64
	started   time.Time
}

// current state of the daemon
type DaemonStatus struct {
	Running        bool
	WatchedDirs    []string
	FileTypes      []string
	ProcessedFiles int
	SkippedFiles   int
	ErrorCount     int
	StartTime      time.Time
}

// new daemon instance; the daemon owns logger from here on
func NewDaemon(cfg *config.Config, logger *Logger) (*Daemon, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		l, err := NewLogger(cfg.Log.Path, ParseLevel(cfg.Log.Level))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
	}

	return &Daemon{
		config: cfg,
		logger: logger,
	}, nil
}

func (d *Daemon) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("daemon already running")
	}

	d.logger.Info("Starting daemon")

	options := WatchOptions{
		Extensions:  d.config.Daemon.Filter.Extensions,
		ExcludeDirs: []string{".git", "node_modules", ".venv"},
		MinFileAge:  d.config.Daemon.MinFileAge.Duration,
		SettleDelay: 500 * time.Millisecond,
		Recursive:   d.config.Daemon.Recursive,
	}

	// create and start watcher
	watcher, err := NewWatcher(d.config.Daemon.Watch.Paths, options, d.handleFile, d.logger)
	if err != nil {
		d.logger.Error(fmt.Sprintf("[X] Failed to create watcher: %v", err))
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Start(); err != nil {
		d.logger.Error(fmt.Sprintf("[X] Failed to start watcher: %v", err))
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	d.watcher = watcher
	d.running = true
	d.started = time.Now()
	d.logger.Info("Daemon started successfully")

	return nil
}

// analyses a file and writes a stripped copy beside it when it carries metadata
func (d *Daemon) handleFile(path string) error {
	report, err := analyse.Analyze(path, nil, d.logger)
	if err != nil {
		d.errors.Add(1)
		d.logger.Warning(fmt.Sprintf("[!] Analysis failed for %s: %v", path, err))
		return err
	}

	// nothing to strip
	if report.Views.All.Count == 0 && len(report.SensitiveFields) == 0 {
		d.skipped.Add(1)
		d.logger.Debug(fmt.Sprintf("No metadata in %s, skipping", path))
		return nil
	}

	d.logger.Info(fmt.Sprintf("Found %d metadata fields (%d identifying) in %s, stripping",
		report.Views.All.Count, len(report.SensitiveFields), path))

	options := &wipe.WipeOptions{
		OutputDir: d.config.Export.OutputDir,
		Export: export.Options{
			Quality:    d.config.Export.Quality,
			AutoOrient: d.config.Export.AutoOrient,
		},
		Logger: d.logger,
	}

	result, err := wipe.WipeFile(path, options)
	if err != nil {
		d.errors.Add(1)
		d.logger.Error(fmt.Sprintf("[X] Wipe failed for %s: %v", path, err))
		return err
	}

	d.processed.Add(1)
	if result.Success {
		d.logger.Info(fmt.Sprintf("Successfully processed %s → %s", path, result.OutputPath))
	} else {
		d.logger.Warning(fmt.Sprintf("[!] Wipe completed with issues for %s: %v",
			path, result.WipeErrors))
	}

	return nil
}

// halts the daemon
func (d *Daemon) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}

	d.logger.Info("Stopping daemon")

	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			d.logger.Warning(fmt.Sprintf("[!] Error stopping watcher: %v", err))
		}
	}

	d.logger.Info(fmt.Sprintf("Daemon stopped: %d processed, %d skipped, %d errors",
		d.processed.Load(), d.skipped.Load(), d.errors.Load()))

	d.running = false
	if err := d.logger.Close(); err != nil {
		return fmt.Errorf("error closing logger: %w", err)
	}
	return nil
}

// current daemon status
func (d *Daemon) Status() *DaemonStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := &DaemonStatus{
		Running:        d.running,
		ProcessedFiles: int(d.processed.Load()),
		SkippedFiles:   int(d.skipped.Load()),
		ErrorCount:     int(d.errors.Load()),
	}
	if d.running {
		status.WatchedDirs = d.config.Daemon.Watch.Paths
		status.FileTypes = d.config.Daemon.Filter.Extensions
		status.StartTime = d.started
	}
	return status
}

// is daemon currently running?
func (d *Daemon) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}
