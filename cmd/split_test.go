package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mt4110/badgerclips/internal/config"
	"github.com/mt4110/badgerclips/internal/deps"
	"github.com/mt4110/badgerclips/internal/logger"
	"github.com/mt4110/badgerclips/internal/probe"
	"github.com/mt4110/badgerclips/internal/split"
)

type fixedProber struct{ res *probe.Result }

func (p fixedProber) Probe(ctx context.Context, path string) (*probe.Result, error) {
	return p.res, nil
}

type recordingRunner struct{ calls [][]string }

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, args)
	return nil, nil
}

func streamsWithDuration(d string) *probe.Result {
	return &probe.Result{Streams: []probe.Stream{{Index: 0, CodecType: "video", Duration: d}}}
}

// useFakeSplitter routes the split command through a fake prober and runner.
func useFakeSplitter(t *testing.T, res *probe.Result) *recordingRunner {
	t.Helper()
	r := &recordingRunner{}
	orig := newSplitter
	newSplitter = func(c *config.Config, stderr io.Writer) *split.Splitter {
		return &split.Splitter{
			FFmpegBin:    c.FFmpegBin,
			Prober:       fixedProber{res: res},
			Runner:       r,
			Overwrite:    c.Overwrite,
			DryRun:       c.DryRun,
			MissingInput: c.MissingInput,
		}
	}
	t.Cleanup(func() { newSplitter = orig })
	return r
}

func resetFlags(cmds ...*cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	for _, c := range cmds {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
}

// runCLI executes the root command with args plus a throwaway log file.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "badgerclips.log")

	origLookPath := deps.LookPath
	deps.LookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	origOut, origFlags := log.Writer(), log.Flags()
	t.Cleanup(func() {
		deps.LookPath = origLookPath
		logger.Close()
		log.SetOutput(origOut)
		log.SetFlags(origFlags)
	})

	resetFlags(rootCmd, splitCmd, versionCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--log-file", logPath))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTestConfig(t *testing.T, yamlContent string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeVideo(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func hasCopy(args []string) bool {
	return strings.Contains(strings.Join(args, " "), "-c copy")
}

func TestSplitCommand_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeVideo(t, dir, "match.mp4")
	flagOut := filepath.Join(dir, "flag-out")
	cfgPath := writeTestConfig(t, "clipLength: 30\noutputDir: "+filepath.Join(dir, "config-out")+"\nreencode: true\n")

	r := useFakeSplitter(t, streamsWithDuration("125"))
	out, err := runCLI(t, "split", "--config", cfgPath, "--length", "60", "--output", flagOut, input)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}

	if cfg.ClipLength != 60 || cfg.OutputDir != flagOut {
		t.Errorf("flags did not override config: length=%d output=%s", cfg.ClipLength, cfg.OutputDir)
	}
	if !cfg.Reencode {
		t.Error("reencode from config was lost")
	}
	if len(r.calls) != 3 {
		t.Fatalf("expected 3 ffmpeg runs, got %d", len(r.calls))
	}
	for _, args := range r.calls {
		if hasCopy(args) {
			t.Errorf("reencode run used stream copy: %v", args)
		}
		if !strings.HasPrefix(args[len(args)-1], flagOut) {
			t.Errorf("clip written outside %s: %v", flagOut, args)
		}
	}
	if !strings.Contains(out, "Processing clip 3 of 3") {
		t.Errorf("missing progress output:\n%s", out)
	}
}

func TestSplitCommand_ConfigOnly(t *testing.T) {
	dir := t.TempDir()
	input := writeVideo(t, dir, "match.mp4")
	cfgOut := filepath.Join(dir, "config-out")
	cfgPath := writeTestConfig(t, "clipLength: 30\noutputDir: "+cfgOut+"\n")

	r := useFakeSplitter(t, streamsWithDuration("125"))
	if _, err := runCLI(t, "split", "--config", cfgPath, input); err != nil {
		t.Fatalf("split failed: %v", err)
	}

	if len(r.calls) != 5 {
		t.Fatalf("expected 5 clips of 30s, got %d", len(r.calls))
	}
	last := r.calls[4]
	if want := filepath.Join(cfgOut, "match_120.00_125.00.mp4"); last[len(last)-1] != want {
		t.Errorf("last clip = %s, want %s", last[len(last)-1], want)
	}
	if !hasCopy(last) {
		t.Errorf("expected stream copy by default: %v", last)
	}
}

func TestSplitCommand_ShortFlags(t *testing.T) {
	dir := t.TempDir()
	input := writeVideo(t, dir, "match.mp4")
	out := filepath.Join(dir, "short")

	r := useFakeSplitter(t, streamsWithDuration("59.9"))
	if _, err := runCLI(t, "split", "--config", writeTestConfig(t, ""), "-l", "60", "-o", out, "-r", input); err != nil {
		t.Fatalf("split failed: %v", err)
	}

	if cfg.ClipLength != 60 || cfg.OutputDir != out || !cfg.Reencode {
		t.Errorf("short flags not bound: %+v", cfg)
	}
	if len(r.calls) != 1 || hasCopy(r.calls[0]) {
		t.Fatalf("expected one re-encoded clip, got %v", r.calls)
	}
	if got := r.calls[0][len(r.calls[0])-1]; got != filepath.Join(out, "match_0.00_59.90.mp4") {
		t.Errorf("unexpected output %s", got)
	}
}

func TestSplitCommand_ZeroStreamsIsFatal(t *testing.T) {
	dir := t.TempDir()
	input := writeVideo(t, dir, "broken.mp4")

	r := useFakeSplitter(t, &probe.Result{})
	_, err := runCLI(t, "split", "--config", writeTestConfig(t, ""), "-l", "60", "-o", filepath.Join(dir, "out"), input)

	if !errors.Is(err, probe.ErrNoStreams) {
		t.Fatalf("expected ErrNoStreams, got %v", err)
	}
	if !split.IsFatal(err) {
		t.Error("expected fatal classification")
	}
	if len(r.calls) != 0 {
		t.Errorf("expected no ffmpeg runs, got %d", len(r.calls))
	}
}

func TestSplitCommand_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	input := writeVideo(t, dir, "match.mp4")
	empty := writeTestConfig(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{"zero length", []string{"split", "--config", empty, "-l", "0", "-o", filepath.Join(dir, "out"), input}},
		{"missing output", []string{"split", "--config", empty, "-l", "60", input}},
		{"missing length", []string{"split", "--config", empty, "-o", filepath.Join(dir, "out"), input}},
		{"missing input", []string{"split", "--config", empty, "-l", "60", "-o", filepath.Join(dir, "out")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := useFakeSplitter(t, streamsWithDuration("60"))
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Fatal("expected error")
			}
			if len(r.calls) != 0 {
				t.Errorf("expected no ffmpeg runs, got %d", len(r.calls))
			}
		})
	}
}

func TestSplitCommand_KeywordFilter(t *testing.T) {
	dir := t.TempDir()
	keep := writeVideo(t, dir, "match_day1.mp4")
	skip := writeVideo(t, dir, "training.mp4")
	cfgPath := writeTestConfig(t, "clipLength: 60\noutputDir: "+filepath.Join(dir, "out")+"\nkeywords: [match]\n")

	r := useFakeSplitter(t, streamsWithDuration("60"))
	if _, err := runCLI(t, "split", "--config", cfgPath, keep, skip); err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("expected only the matching file to be split, got %v", r.calls)
	}
	if got := filepath.Base(r.calls[0][len(r.calls[0])-1]); got != "match_day1_0.00_60.00.mp4" {
		t.Errorf("unexpected clip %s", got)
	}

	r = useFakeSplitter(t, streamsWithDuration("60"))
	_, err := runCLI(t, "split", "--config", cfgPath, skip)
	if err == nil || !strings.Contains(err.Error(), "no input videos") {
		t.Fatalf("expected no input videos error, got %v", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("expected no ffmpeg runs, got %d", len(r.calls))
	}
}
