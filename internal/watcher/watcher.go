package watcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mt4110/badgerclips/internal/config"
	"github.com/mt4110/badgerclips/internal/inputs"
	"github.com/mt4110/badgerclips/internal/split"
)

// Watcher splits every new video that appears in the watched directories.
// Files are split one at a time in arrival order.
type Watcher struct {
	Cfg       *config.Config
	Splitter  *split.Splitter
	EventChan chan<- interface{} // Optional: Send events for TUI

	queue  chan string
	settle time.Duration

	mu         sync.Mutex
	processing map[string]bool
}

func New(cfg *config.Config, s *split.Splitter) *Watcher {
	return &Watcher{
		Cfg:        cfg,
		Splitter:   s,
		queue:      make(chan string, 64),
		settle:     time.Duration(cfg.SettleSeconds) * time.Second,
		processing: make(map[string]bool),
	}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.Cfg.WatchDirs) == 0 {
		return errors.New("no directories to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	added := 0
	for _, dir := range w.Cfg.WatchDirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			log.Printf("⚠️ could not resolve %s (skipped): %v", dir, err)
			continue
		}
		if err := fw.Add(absDir); err != nil {
			log.Printf("⚠️ cannot watch %s (skipped): %v", absDir, err)
			continue
		}
		added++
		log.Printf("👀 watching %s", absDir)
	}
	if added == 0 {
		return errors.New("none of the watch directories could be added")
	}

	go w.worker(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Println("watch error:", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !w.shouldHandle(event) {
		return
	}

	path, err := filepath.Abs(event.Name)
	if err != nil {
		log.Printf("could not resolve %s: %v", event.Name, err)
		return
	}

	w.mu.Lock()
	if w.processing[path] {
		w.mu.Unlock()
		return
	}
	w.processing[path] = true
	w.mu.Unlock()

	log.Printf("new file detected: %s", path)
	w.emit(FileFoundEvent{Path: path, Name: filepath.Base(path)})

	go func() {
		// let the writer finish
		select {
		case <-ctx.Done():
			w.release(path)
			return
		case <-time.After(w.settle):
		}

		if _, err := os.Stat(path); err != nil {
			log.Printf("file disappeared before splitting: %s", path)
			w.emit(FailureEvent{Path: path, Err: err})
			w.release(path)
			return
		}

		select {
		case w.queue <- path:
		case <-ctx.Done():
			w.release(path)
		}
	}()
}

// shouldHandle filters fsnotify events down to new, visible video files
// outside the output directory. A file moved into a watched directory
// arrives as Create; Rename only ever names the old path.
func (w *Watcher) shouldHandle(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) {
		return false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if !inputs.IsVideo(name, w.Cfg.Extensions) {
		return false
	}
	if w.inOutputDir(event.Name) {
		return false
	}
	if !inputs.Match(name, w.Cfg.Keywords, w.Cfg.IgnoreKeywords) {
		log.Printf("⏭ skipped by keyword filter: %s", name)
		return false
	}
	return true
}

func (w *Watcher) inOutputDir(path string) bool {
	out, err := filepath.Abs(w.Cfg.OutputDir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(out, abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.queue:
			w.processFile(ctx, path)
		}
	}
}

// processFile splits path into <outputDir>/<stem>/.
func (w *Watcher) processFile(ctx context.Context, path string) {
	defer w.release(path)

	name := filepath.Base(path)
	outDir := filepath.Join(w.Cfg.OutputDir, split.Stem(path))

	log.Printf("✂️ splitting %s -> %s", path, outDir)
	w.emit(StartSplitEvent{Path: path})

	report, err := w.Splitter.Run(ctx, split.Request{
		Input:      path,
		OutputDir:  outDir,
		ClipLength: w.Cfg.ClipLength,
		Reencode:   w.Cfg.Reencode,
	})
	if err != nil {
		log.Printf("❌ split failed: %v", err)
		w.emit(FailureEvent{Path: path, Err: err})
		if w.Cfg.Notify {
			SendNotification("Split failed", fmt.Sprintf("Could not split %s.", name), "")
		}
		return
	}

	log.Printf("✅ split complete: %s (%d clips)", path, len(report.Clips))
	w.emit(SuccessEvent{Path: path, OutDir: outDir, Clips: len(report.Clips)})
	if w.Cfg.Notify {
		SendNotification("Split complete", fmt.Sprintf("%s -> %d clips", name, len(report.Clips)), outDir)
	}
}

func (w *Watcher) release(path string) {
	w.mu.Lock()
	delete(w.processing, path)
	w.mu.Unlock()
}

func (w *Watcher) emit(ev interface{}) {
	if w.EventChan != nil {
		w.EventChan <- ev
	}
}

// Events
type FileFoundEvent struct {
	Path string
	Name string
}
type StartSplitEvent struct {
	Path string
}
type SuccessEvent struct {
	Path   string
	OutDir string
	Clips  int
}
type FailureEvent struct {
	Path string
	Err  error
}
