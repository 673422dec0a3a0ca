package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mt4110/badgerclips/internal/config"
	"github.com/mt4110/badgerclips/internal/deps"
	"github.com/mt4110/badgerclips/internal/logger"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Checks the environment",
	Long:  `Checks that ffmpeg and ffprobe are installed, that the log directory is writable and that the config file is usable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("🏥 running checks...")
		hasError := false

		// 1. ffmpeg / ffprobe
		for _, bin := range []string{cfg.FFmpegBin, cfg.FFprobeBin} {
			path, err := deps.Check(bin)
			if err != nil {
				log.Printf("❌ %v", err)
				hasError = true
				continue
			}
			log.Printf("✅ %s found: %s", bin, path)
			if v, err := deps.Version(path); err == nil {
				log.Printf("   Version: %s", v)
			}
		}

		// 2. Log directory
		logPath := cfg.LogFile
		if logPath == "" {
			logPath = logger.DefaultPath()
		}
		if err := checkWritable(filepath.Dir(logPath)); err != nil {
			log.Printf("❌ log directory is not writable: %v", err)
			hasError = true
		} else {
			log.Printf("✅ log directory OK: %s", filepath.Dir(logPath))
		}

		// 3. Config
		path := cfgFile
		if path == "" {
			path, _ = config.DefaultPath()
		}
		if _, err := os.Stat(path); err != nil {
			log.Printf("ℹ️ no config file at %s (defaults in use)", path)
		} else {
			log.Printf("✅ config file: %s", path)
		}
		if cfg.ClipLength > 0 {
			log.Printf("   clipLength: %ds, outputDir: %q, reencode: %v", cfg.ClipLength, cfg.OutputDir, cfg.Reencode)
		}
		if cfg.MissingInput != config.MissingInputFail && cfg.MissingInput != config.MissingInputWarn {
			log.Printf("❌ missingInput must be %q or %q, got %q", config.MissingInputFail, config.MissingInputWarn, cfg.MissingInput)
			hasError = true
		}

		if hasError {
			return fmt.Errorf("some checks failed")
		}
		log.Println("✅ all checks passed")
		return nil
	},
}

// checkWritable creates dir if needed and writes a probe file into it.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "badgerclips-write-test-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
