package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name.
const FileName = "categorizer.yaml"

// Environment variables that override file settings.
const (
	EnvRulesSource = "CATEGORIZER_RULES_SOURCE"
	EnvAddr        = "CATEGORIZER_ADDR"
	EnvLogLevel    = "CATEGORIZER_LOG_LEVEL"
)

// Config represents the top-level categorizer.yaml configuration.
type Config struct {
	Rules  RulesConfig  `yaml:"rules"`
	Server ServerConfig `yaml:"server"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
	RunLog RunLogConfig `yaml:"runlog"`
	Git    GitConfig    `yaml:"git"`
}

// RulesConfig locates the master categorization table.
type RulesConfig struct {
	Source  string        `yaml:"source"`          // path, http(s) URL, gs:// or sqlite://
	Sheet   string        `yaml:"sheet,omitempty"` // workbook sheet; empty = first
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig controls the HTTP front end.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
	PreviewRows int    `yaml:"preview_rows"`
}

// OutputConfig controls the categorized download.
type OutputConfig struct {
	FileName string `yaml:"file_name"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// RunLogConfig controls the run history file.
type RunLogConfig struct {
	Path string `yaml:"path"` // empty disables the run log
}

// GitConfig sets the identity used for project commits.
type GitConfig struct {
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a categorizer.yaml file from disk. Missing keys keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// ResolvePaths makes relative local paths absolute against dir, the
// directory holding the config file. URLs and other schemes are untouched.
func (c *Config) ResolvePaths(dir string) {
	c.Rules.Source = resolve(dir, c.Rules.Source)
	c.RunLog.Path = resolve(dir, c.RunLog.Path)
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(dir, p)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Rules: RulesConfig{
			Source:  "Master_Categorization_File.xlsx",
			Timeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 10,
			PreviewRows: 5,
		},
		Output: OutputConfig{
			FileName: "Categorized_Statement.xlsx",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		RunLog: RunLogConfig{
			Path: "logs/run-log.csv",
		},
		Git: GitConfig{
			AuthorName:  "Categorizer",
			AuthorEmail: "categorizer@localhost",
		},
	}
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvRulesSource); v != "" {
		c.Rules.Source = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Rules.Source == "":
		return errors.New("rules.source is required")
	case c.Rules.Timeout < 0:
		return errors.New("rules.timeout must not be negative")
	case c.Server.MaxUploadMB <= 0:
		return errors.New("server.max_upload_mb must be positive")
	case c.Server.PreviewRows <= 0:
		return errors.New("server.preview_rows must be positive")
	case c.Output.FileName == "":
		return errors.New("output.file_name is required")
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}
