package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DynamicConfig holds the settings that can change at runtime without a
// restart.
type DynamicConfig struct {
	LogLevel string   `yaml:"logLevel"`
	Limits   Limits   `yaml:"limits"`
	Features Features `yaml:"features"`
}

// Limits holds runtime-tunable operational limits.
type Limits struct {
	// MaxCascadeEdges caps how many edges a single cascade cleanup may
	// remove before the delete is refused.
	MaxCascadeEdges int `yaml:"maxCascadeEdges"`
	// MaxPolicySizeBytes caps the accepted policy definition size.
	MaxPolicySizeBytes int `yaml:"maxPolicySizeBytes"`
}

// Features holds runtime feature flags.
type Features struct {
	PublishEvents bool `yaml:"publishEvents"`
}

// defaultDynamicConfig is used when no overrides file is configured.
func defaultDynamicConfig() *DynamicConfig {
	return &DynamicConfig{
		LogLevel: "info",
		Limits: Limits{
			MaxCascadeEdges:    10000,
			MaxPolicySizeBytes: 256 * 1024,
		},
		Features: Features{PublishEvents: true},
	}
}

// Watcher watches the YAML overrides file and swaps in validated updates.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	current  *DynamicConfig
	onChange []func(*DynamicConfig)
}

// NewWatcher loads the initial overrides and starts tracking the file. The
// parent directory is watched too so atomic renames are picked up.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	current, err := loadDynamicConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		logger.Warn("failed to watch config directory", zap.Error(err))
	}

	return &Watcher{
		path:    path,
		watcher: fw,
		logger:  logger,
		stopCh:  make(chan struct{}),
		current: current,
	}, nil
}

// Start begins watching for changes.
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("configuration watcher started", zap.String("path", w.path))
}

// Stop stops watching.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
}

// Current returns the active dynamic configuration.
func (w *Watcher) Current() *DynamicConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked after each successful reload.
func (w *Watcher) OnChange(handler func(*DynamicConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

func (w *Watcher) watchLoop() {
	var debounce *time.Timer
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	updated, err := loadDynamicConfig(w.path)
	if err != nil {
		w.logger.Error("failed to reload configuration, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = updated
	handlers := append([]func(*DynamicConfig){}, w.onChange...)
	w.mu.Unlock()

	w.logger.Info("configuration reloaded",
		zap.String("log_level", updated.LogLevel),
		zap.Int("max_cascade_edges", updated.Limits.MaxCascadeEdges),
	)
	for _, handler := range handlers {
		go handler(updated)
	}
}

func loadDynamicConfig(path string) (*DynamicConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaultDynamicConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := validateDynamicConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateDynamicConfig(cfg *DynamicConfig) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	if cfg.Limits.MaxCascadeEdges <= 0 {
		return fmt.Errorf("maxCascadeEdges must be positive")
	}
	if cfg.Limits.MaxPolicySizeBytes <= 0 {
		return fmt.Errorf("maxPolicySizeBytes must be positive")
	}
	return nil
}
