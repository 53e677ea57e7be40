// Package config loads the treeflow settings file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ha1tch/treeflow/pkg/diagram"
	"github.com/ha1tch/treeflow/pkg/geom"
	"github.com/ha1tch/treeflow/pkg/snapshot"
)

// Config holds treeflow configuration.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Store  StoreConfig  `toml:"store"`
	Export ExportConfig `toml:"export"`
	Log    LogConfig    `toml:"log"`
}

// EditorConfig sizes the canvas and controls zoom.
type EditorConfig struct {
	NodeWidth    float64 `toml:"node_width"`
	NodeHeight   float64 `toml:"node_height"`
	CanvasWidth  float64 `toml:"canvas_width"`
	CanvasHeight float64 `toml:"canvas_height"`
	MinScale     float64 `toml:"min_scale"`
	ScaleStep    float64 `toml:"scale_step"`
}

// StoreConfig says where the diagram is persisted.
type StoreConfig struct {
	Dir    string `toml:"dir"`    // "" uses the data directory
	Key    string `toml:"key"`    // record name
	Format string `toml:"format"` // "json" or "toml"
}

// ExportConfig holds renderer defaults for the CLI.
type ExportConfig struct {
	Format string `toml:"format"` // "svg", "png" or "dot"
	Width  int    `toml:"width"`  // 0 fits the content
	Height int    `toml:"height"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	File  string `toml:"file"`  // "" disables the editor log
	Level string `toml:"level"` // "debug", "info", "warn" or "error"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			NodeWidth:    120,
			NodeHeight:   30,
			CanvasWidth:  2000,
			CanvasHeight: 2000,
			MinScale:     0.5,
			ScaleStep:    0.1,
		},
		Store:  StoreConfig{Key: "diagram", Format: string(snapshot.FormatJSON)},
		Export: ExportConfig{Format: "svg"},
		Log:    LogConfig{Level: "info"},
	}
}

// Dir returns the treeflow config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "treeflow")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the directory used when Store.Dir is empty.
func DataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "treeflow")
}

// Load reads path over the defaults. A missing file yields the defaults;
// a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate rejects settings the editor cannot run with.
func (c *Config) Validate() error {
	e := c.Editor
	switch {
	case e.NodeWidth <= 0 || e.NodeHeight <= 0:
		return fmt.Errorf("editor: node size must be positive")
	case e.CanvasWidth <= 0 || e.CanvasHeight <= 0:
		return fmt.Errorf("editor: canvas size must be positive")
	case e.MinScale <= 0 || e.MinScale >= 1:
		return fmt.Errorf("editor: min_scale must be in (0, 1)")
	case e.ScaleStep <= 0:
		return fmt.Errorf("editor: scale_step must be positive")
	}
	if _, err := snapshot.ParseFormat(c.Store.Format); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// EditorOptions converts the editor section into diagram options. The
// caller still supplies the surface, hook and logger.
func (c *Config) EditorOptions() diagram.Options {
	opts := diagram.DefaultOptions()
	e := c.Editor
	opts.NodeSize = geom.Size{W: e.NodeWidth, H: e.NodeHeight}
	opts.CanvasSize = geom.Size{W: e.CanvasWidth, H: e.CanvasHeight}
	opts.MinScale = e.MinScale
	opts.ScaleStep = e.ScaleStep
	return opts
}

// StoreDir returns the configured store directory or the data directory.
func (c *Config) StoreDir() string {
	if c.Store.Dir != "" {
		return c.Store.Dir
	}
	return DataDir()
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}
