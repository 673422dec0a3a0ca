package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/natefinch/lumberjack.v2"
)

var rotator *lumberjack.Logger

// DefaultPath is ~/Library/Logs/badgerclips.log on macOS and
// ~/.local/state/badgerclips/badgerclips.log elsewhere.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "badgerclips.log"
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "badgerclips.log")
	}
	return filepath.Join(home, ".local", "state", "badgerclips", "badgerclips.log")
}

// Setup sends the standard logger to stdout and a rotated log file.
func Setup(logFilePath string) {
	if logFilePath == "" {
		logFilePath = DefaultPath()
	}

	// Lumberjack logger for rotation
	rotator = &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     7,    // days
		Compress:   true, // gzip
	}

	mw := io.MultiWriter(os.Stdout, rotator)

	log.SetOutput(mw)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

// MuteStdout keeps logging to the file only, for full-screen output.
func MuteStdout() {
	if rotator != nil {
		log.SetOutput(rotator)
	}
}

// Close flushes and closes the log file.
func Close() error {
	if rotator == nil {
		return nil
	}
	return rotator.Close()
}
