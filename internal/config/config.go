package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Missing input policies
const (
	MissingInputFail = "fail"
	MissingInputWarn = "warn"
)

type Config struct {
	ClipLength   int    `yaml:"clipLength"`
	OutputDir    string `yaml:"outputDir"`
	Reencode     bool   `yaml:"reencode"`
	Overwrite    bool   `yaml:"overwrite"`
	FFmpegBin    string `yaml:"ffmpegBin"`
	FFprobeBin   string `yaml:"ffprobeBin"`
	MissingInput string `yaml:"missingInput"`
	DryRun       bool   `yaml:"dryRun"`
	LogFile      string `yaml:"logFile"`

	// Watch mode
	WatchDirs      []string `yaml:"watchDirs"`
	Extensions     []string `yaml:"extensions"`
	Keywords       []string `yaml:"keywords"`
	IgnoreKeywords []string `yaml:"ignoreKeywords"`
	SettleSeconds  int      `yaml:"settleSeconds"`
	Notify         bool     `yaml:"notify"`
}

func NewDefault() *Config {
	return &Config{
		FFmpegBin:     "ffmpeg",
		FFprobeBin:    "ffprobe",
		MissingInput:  MissingInputFail,
		Extensions:    []string{"mp4", "mov", "m4v", "mkv", "avi"},
		SettleSeconds: 2,
		Notify:        true,
	}
}

// DefaultPath returns ~/.config/badgerclips/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "badgerclips", "config.yaml"), nil
}

// Load reads the config file at path, or the default location when path is empty.
// A missing or empty file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := NewDefault()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil // no home directory, run on defaults
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	// An empty file decodes to io.EOF and leaves the defaults untouched.
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings the split command depends on.
func (c *Config) Validate() error {
	if c.ClipLength <= 0 {
		return fmt.Errorf("clip length (--length) must be a positive number of seconds, got %d", c.ClipLength)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory (--output) is required")
	}
	switch c.MissingInput {
	case MissingInputFail, MissingInputWarn:
	default:
		return fmt.Errorf("missingInput must be %q or %q, got %q", MissingInputFail, MissingInputWarn, c.MissingInput)
	}
	return nil
}
