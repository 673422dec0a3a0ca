package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	if cfg.MissingInput != MissingInputFail {
		t.Errorf("expected missingInput default %q, got %q", MissingInputFail, cfg.MissingInput)
	}
	if cfg.FFmpegBin != "ffmpeg" || cfg.FFprobeBin != "ffprobe" {
		t.Errorf("unexpected default binaries: %q %q", cfg.FFmpegBin, cfg.FFprobeBin)
	}
	if cfg.Reencode {
		t.Error("expected reencode default false")
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SettleSeconds != 2 {
		t.Errorf("expected default settleSeconds 2, got %d", cfg.SettleSeconds)
	}
}

func TestLoad_WithFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)

	configDir := filepath.Join(tempDir, ".config", "badgerclips")
	os.MkdirAll(configDir, 0755)

	yamlContent := `
clipLength: 30
outputDir: /tmp/clips
reencode: true
missingInput: warn
keywords:
  - match
`
	os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(yamlContent), 0644)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ClipLength != 30 {
		t.Errorf("expected clipLength 30, got %d", cfg.ClipLength)
	}
	if cfg.OutputDir != "/tmp/clips" {
		t.Errorf("expected outputDir /tmp/clips, got %s", cfg.OutputDir)
	}
	if !cfg.Reencode {
		t.Error("expected reencode true")
	}
	if cfg.MissingInput != MissingInputWarn {
		t.Errorf("expected missingInput warn, got %s", cfg.MissingInput)
	}
	if len(cfg.Keywords) != 1 || cfg.Keywords[0] != "match" {
		t.Errorf("expected keywords [match], got %v", cfg.Keywords)
	}
	// untouched keys keep their defaults
	if cfg.FFmpegBin != "ffmpeg" {
		t.Errorf("expected ffmpegBin default, got %s", cfg.FFmpegBin)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	os.WriteFile(path, []byte("clipLength: 45\n"), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ClipLength != 45 {
		t.Errorf("expected clipLength 45, got %d", cfg.ClipLength)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	os.WriteFile(path, nil, 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FFmpegBin != "ffmpeg" || cfg.MissingInput != MissingInputFail {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	os.WriteFile(path, []byte("clipLength: [\n"), 0644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero length", func(c *Config) { c.ClipLength = 0 }, true},
		{"negative length", func(c *Config) { c.ClipLength = -5 }, true},
		{"no output", func(c *Config) { c.OutputDir = "" }, true},
		{"warn policy", func(c *Config) { c.MissingInput = MissingInputWarn }, false},
		{"unknown policy", func(c *Config) { c.MissingInput = "ignore" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			cfg.ClipLength = 60
			cfg.OutputDir = "out"
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
