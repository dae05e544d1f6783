package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "rekordscratch"

// Defaults applied to unset keys.
const (
	DefaultCratesRoot     = "Crates"
	DefaultUnsortedDir    = "Unsorted"
	DefaultUnknownGenre   = "Unknown Genre"
	DefaultReviewFile     = "NotMatched.txt"
	DefaultPollIntervalMS = 100
	DefaultLogLevel       = "info"
)

// DefaultMarkers are the directories a Rekordbox export volume carries at
// its root.
var DefaultMarkers = []string{"Contents", "PIONEER"}

type Config struct {
	PlaylistsPath string `koanf:"playlists_path"` // playlist export folder
	SourceRoot    string `koanf:"source_root"`    // skips drive detection when set
	DesktopPath   string `koanf:"desktop_path"`   // overrides the XDG desktop dir

	CratesRoot   string `koanf:"crates_root"`   // folder created on the desktop
	UnsortedDir  string `koanf:"unsorted_dir"`  // fallback folder inside the crates root
	UnknownGenre string `koanf:"unknown_genre"` // bucket for tracks without a genre
	ReviewFile   string `koanf:"review_file"`   // list of unmatched tracks

	Markers        []string `koanf:"markers"`
	PollIntervalMS int      `koanf:"poll_interval_ms"`

	LogFile  string `koanf:"log_file"`
	LogLevel string `koanf:"log_level"` // debug, info, warn, error
}

// Load reads the config files in order of priority. A non-empty explicit
// path is loaded last and must exist.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	if explicit != "" {
		path := expandPath(explicit)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.PlaylistsPath = expandPath(c.PlaylistsPath)
	c.SourceRoot = expandPath(c.SourceRoot)
	c.DesktopPath = expandPath(c.DesktopPath)
	c.ReviewFile = expandPath(c.ReviewFile)
	c.LogFile = expandPath(c.LogFile)

	if c.CratesRoot == "" {
		c.CratesRoot = DefaultCratesRoot
	}
	if c.UnsortedDir == "" {
		c.UnsortedDir = DefaultUnsortedDir
	}
	if c.UnknownGenre == "" {
		c.UnknownGenre = DefaultUnknownGenre
	}
	if c.ReviewFile == "" {
		c.ReviewFile = DefaultReviewFile
	}
	if len(c.Markers) == 0 {
		c.Markers = append([]string(nil), DefaultMarkers...)
	}
	if c.PollIntervalMS <= 0 {
		c.PollIntervalMS = DefaultPollIntervalMS
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// PollInterval returns the observer poll cadence.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// LogPath returns the log file path, defaulting to a file in the XDG state
// directory. The parent directory is created.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.LogFile), 0o755); err != nil {
			return "", err
		}
		return c.LogFile, nil
	}
	path, err := xdg.StateFile(filepath.Join(appName, appName+".log"))
	if err != nil {
		return "", fmt.Errorf("log file location: %w", err)
	}
	return path, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/rekordscratch/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
