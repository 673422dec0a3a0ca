package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mt4110/badgerclips/internal/runner"
)

// ErrNoStreams is returned when ffprobe reports a file without media streams.
var ErrNoStreams = errors.New("zero streams found in file")

type Stream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Duration  string `json:"duration,omitempty"`
}

// Result is the subset of `ffprobe -print_format json` output we read.
type Result struct {
	Streams []Stream `json:"streams"`
}

// Duration returns the first stream's duration in seconds.
// A stream without a duration field yields 0; the container duration is
// not consulted.
func (r *Result) Duration() (float64, error) {
	if len(r.Streams) == 0 {
		return 0, ErrNoStreams
	}
	raw := strings.TrimSpace(r.Streams[0].Duration)
	if raw == "" || raw == "N/A" {
		return 0, nil
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", raw)
	}
	return d, nil
}

type Prober struct {
	Bin    string
	Runner runner.Runner
}

func New(bin string, r runner.Runner) *Prober {
	if bin == "" {
		bin = "ffprobe"
	}
	if r == nil {
		r = runner.Exec{}
	}
	return &Prober{Bin: bin, Runner: r}
}

// Probe runs ffprobe on path and decodes its stream metadata.
func (p *Prober) Probe(ctx context.Context, path string) (*Result, error) {
	out, err := p.Runner.Run(ctx, p.Bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		path,
	)
	if err != nil {
		return nil, err
	}

	var res Result
	if err := json.Unmarshal(out, &res); err != nil {
		return nil, fmt.Errorf("decode ffprobe output: %w", err)
	}
	return &res, nil
}
