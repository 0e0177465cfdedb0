// Package config loads and persists the application's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type CoreHours struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

type Config struct {
	Timezone  string    `yaml:"timezone"`
	CoreHours CoreHours `yaml:"core_hours"`

	// ServerPath is the calendar tool server binary started as a child
	// process. ServerArgs are passed through verbatim.
	ServerPath string   `yaml:"server_path"`
	ServerArgs []string `yaml:"server_args,omitempty"`

	// RecommendCommand is the assistant command for schedule triage;
	// a %s in an argument receives the path of the event JSON file.
	RecommendCommand        []string `yaml:"recommend_command,omitempty"`
	RecommendTimeoutSeconds int      `yaml:"recommend_timeout_seconds"`

	JournalPath string `yaml:"journal_path"`

	// TaskLinkHint marks focus-time events as tasks when their
	// description contains it.
	TaskLinkHint string `yaml:"task_link_hint"`
}

func DefaultConfig() Config {
	return Config{
		CoreHours:               CoreHours{Start: 9, End: 17},
		ServerPath:              "calendar-server",
		RecommendCommand:        []string{"claude", "/recommend", "Analyze the events in %s and provide recommendations"},
		RecommendTimeoutSeconds: 120,
		TaskLinkHint:            "issues.",
	}
}

// DefaultPath is the config file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "caltui", "config.yaml"), nil
}

// Load reads the config at path, writing the defaults there first when no
// file exists yet.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize fills in anything a hand-edited file left out of range.
func (c *Config) Normalize() {
	if c.CoreHours.Start < 0 || c.CoreHours.Start > 23 {
		c.CoreHours.Start = 9
	}
	if c.CoreHours.End <= c.CoreHours.Start || c.CoreHours.End > 24 {
		c.CoreHours = CoreHours{Start: 9, End: 17}
	}
	if c.RecommendTimeoutSeconds <= 0 {
		c.RecommendTimeoutSeconds = 120
	}
	if c.ServerPath == "" {
		c.ServerPath = "calendar-server"
	}
}

// Save writes the config atomically via a temp file rename.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: creating %s: %w", filepath.Dir(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
