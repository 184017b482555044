// BYZRA ⸻ internal/config/config.go
// config loading & management

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const FileName = "exifdrop.toml"

// Duration decodes TOML strings like "30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Server struct {
		Addr        string   `toml:"addr"`
		MaxUploadMB int64    `toml:"max_upload_mb"`
		SessionIdle Duration `toml:"session_idle"`
	} `toml:"server"`

	Export struct {
		Quality    int    `toml:"quality"`
		AutoOrient bool   `toml:"auto_orient"`
		OutputDir  string `toml:"output_dir"`
	} `toml:"export"`

	Daemon struct {
		Watch struct {
			Paths []string `toml:"paths"`
		} `toml:"watch"`
		Filter struct {
			Extensions []string `toml:"extensions"`
		} `toml:"filter"`
		MinFileAge Duration `toml:"min_file_age"`
		Recursive  bool     `toml:"recursive"`
	} `toml:"daemon"`

	Log struct {
		Level string `toml:"level"`
		Path  string `toml:"path"`
	} `toml:"log"`

	// file the config was read from; empty for defaults
	Source string `toml:"-"`
}

// search common locations
func SearchPaths() []string {
	return []string{
		"./" + FileName,
		filepath.Join("config", FileName),
		filepath.Join(HomeDir(), "config", FileName),
	}
}

// ~/.exifdrop
func HomeDir() string {
	return filepath.Join(os.Getenv("HOME"), ".exifdrop")
}

// loads the first config found, or the defaults when there is none
func Load() (*Config, error) {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return LoadFrom(path)
		}
	}
	return Default(), nil
}

// decodes path over the defaults
func LoadFrom(path string) (*Config, error) {
	config := Default()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// filter out commented paths
	var activePaths []string
	for _, p := range config.Daemon.Watch.Paths {
		if len(p) > 0 && p[0] != '#' {
			activePaths = append(activePaths, expandHome(p))
		}
	}
	config.Daemon.Watch.Paths = activePaths

	for i, ext := range config.Daemon.Filter.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		config.Daemon.Filter.Extensions[i] = ext
	}

	if config.Export.Quality < 1 || config.Export.Quality > 100 {
		return nil, fmt.Errorf("export.quality must be 1-100, got %d", config.Export.Quality)
	}
	config.Export.OutputDir = expandHome(config.Export.OutputDir)
	config.Log.Path = expandHome(config.Log.Path)
	config.Source = path

	return config, nil
}

// returns default config values
func Default() *Config {
	config := &Config{}
	config.Server.Addr = "127.0.0.1:8080"
	config.Server.MaxUploadMB = 50
	config.Server.SessionIdle = Duration{30 * time.Minute}

	config.Export.Quality = 95

	config.Daemon.Watch.Paths = []string{
		filepath.Join(os.Getenv("HOME"), "Pictures", "exifdrop"),
	}
	config.Daemon.Filter.Extensions = []string{
		".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff",
	}
	config.Daemon.MinFileAge = Duration{2 * time.Second}

	config.Log.Level = "info"
	config.Log.Path = filepath.Join(HomeDir(), "logs", "exifdrop.log")
	return config
}

// saves the current configuration to a file
func Save(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(config)
}

// config directory exists
func SetupConfigDir() (string, error) {
	configDir := filepath.Join(HomeDir(), "config")
	err := os.MkdirAll(configDir, 0755)
	return configDir, err
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		return filepath.Join(os.Getenv("HOME"), strings.TrimPrefix(p, "~"))
	}
	return p
}
