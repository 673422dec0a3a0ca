package split

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mt4110/badgerclips/internal/config"
	"github.com/mt4110/badgerclips/internal/probe"
	"github.com/mt4110/badgerclips/internal/runner"
)

// Prober reports the streams of a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (*probe.Result, error)
}

// Request describes one input to split.
type Request struct {
	Input      string
	OutputDir  string
	ClipLength int
	Reencode   bool
}

// Report is the outcome of a split run. Warnings holds the recoverable
// failures that were skipped over.
type Report struct {
	Input     string
	OutputDir string
	Duration  float64
	Estimate  int
	Clips     []string
	Warnings  []error
	Elapsed   time.Duration
}

// Splitter cuts a video into fixed-length clips, one ffmpeg run per clip.
type Splitter struct {
	FFmpegBin    string
	Prober       Prober
	Runner       runner.Runner
	Overwrite    bool
	DryRun       bool
	MissingInput string
	Out          io.Writer // progress lines
}

func New(cfg *config.Config) *Splitter {
	ffmpegBin := cfg.FFmpegBin
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	return &Splitter{
		FFmpegBin:    ffmpegBin,
		Prober:       probe.New(cfg.FFprobeBin, runner.Exec{}),
		Runner:       runner.Exec{},
		Overwrite:    cfg.Overwrite,
		DryRun:       cfg.DryRun,
		MissingInput: cfg.MissingInput,
		Out:          os.Stdout,
	}
}

// Run splits req.Input into req.OutputDir. Clips are produced strictly one
// after another; the first failed ffmpeg run ends the whole run.
func (s *Splitter) Run(ctx context.Context, req Request) (*Report, error) {
	started := time.Now()
	report := &Report{Input: req.Input, OutputDir: req.OutputDir}

	if req.ClipLength <= 0 {
		return report, fatal("validate request", fmt.Errorf("clip length must be positive, got %d", req.ClipLength))
	}

	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return report, fatal("create output directory", err)
	}

	if _, err := os.Stat(req.Input); err != nil {
		if s.MissingInput != config.MissingInputWarn {
			return report, fatal("validate input", err)
		}
		s.warn(report, recoverable("validate input", err))
	}

	duration, err := s.duration(ctx, req.Input)
	if err != nil {
		if IsFatal(err) {
			return report, err
		}
		s.warn(report, err)
	}
	report.Duration = duration
	report.Estimate = EstimateCount(duration, req.ClipLength)

	log.Printf("⏱ %s: %.2fs -> %d clips of %ds", filepath.Base(req.Input), duration, report.Estimate, req.ClipLength)

	stem := Stem(req.Input)
	for _, b := range Plan(duration, req.ClipLength) {
		fmt.Fprintf(s.out(), "Processing clip %d of %d\n", b.Index, report.Estimate)

		outPath := filepath.Join(req.OutputDir, FileName(stem, b))
		args := Args(req.Input, b, outPath, req.Reencode, s.Overwrite)

		if s.DryRun {
			log.Printf("[DryRun] Command: %s", runner.CommandLine(s.FFmpegBin, args))
		} else if _, err := s.Runner.Run(ctx, s.FFmpegBin, args...); err != nil {
			report.Elapsed = time.Since(started)
			return report, fatal(fmt.Sprintf("transcode clip %d", b.Index), err)
		}

		report.Clips = append(report.Clips, outPath)
		fmt.Fprintln(s.out(), outPath)
	}

	report.Elapsed = time.Since(started)
	logResult(report, req)
	return report, nil
}

// duration probes input. A file without streams is fatal; any other probe
// failure is recoverable and leaves the duration at 0.
func (s *Splitter) duration(ctx context.Context, input string) (float64, error) {
	res, err := s.Prober.Probe(ctx, input)
	if err != nil {
		return 0, recoverable("probe input", err)
	}
	d, err := res.Duration()
	if errors.Is(err, probe.ErrNoStreams) {
		return 0, fatal("probe input", err)
	}
	if err != nil {
		return 0, recoverable("probe input", err)
	}
	return d, nil
}

func (s *Splitter) warn(report *Report, err error) {
	report.Warnings = append(report.Warnings, err)
	log.Printf("⚠️ %v (continuing)", err)
}

func (s *Splitter) out() io.Writer {
	if s.Out == nil {
		return io.Discard
	}
	return s.Out
}

// ResultType tags the JSON line written after each completed input.
const ResultType = "split_result"

// ResultEntry is the JSON line the stats command aggregates.
type ResultEntry struct {
	Type       string  `json:"type"`
	Input      string  `json:"input"`
	OutputDir  string  `json:"output_dir"`
	Clips      int     `json:"clips"`
	MediaSec   float64 `json:"media_sec"`
	ElapsedSec float64 `json:"elapsed_sec"`
	ClipLength int     `json:"clip_length"`
	Reencode   bool    `json:"reencode"`
	Warnings   int     `json:"warnings"`
	Timestamp  string  `json:"timestamp"`
}

func logResult(report *Report, req Request) {
	entry := ResultEntry{
		Type:       ResultType,
		Input:      report.Input,
		OutputDir:  report.OutputDir,
		Clips:      len(report.Clips),
		MediaSec:   report.Duration,
		ElapsedSec: report.Elapsed.Seconds(),
		ClipLength: req.ClipLength,
		Reencode:   req.Reencode,
		Warnings:   len(report.Warnings),
		Timestamp:  time.Now().Format(time.RFC3339),
	}
	// std log prefixes the line; stats looks for the first '{'
	if b, err := json.Marshal(entry); err == nil {
		log.Println(string(b))
	}
}
