package split

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Boundary is one clip's time range in seconds. Index starts at 1.
type Boundary struct {
	Index int
	Start float64
	End   float64
}

// EstimateCount is the number of clips of length seconds needed to cover duration.
func EstimateCount(duration float64, length int) int {
	if duration <= 0 || length <= 0 {
		return 0
	}
	return int(math.Ceil(duration / float64(length)))
}

// Plan slices [0, duration] into contiguous clips of at most length seconds.
// Boundaries are i*length so rounding does not accumulate; the last clip ends
// exactly at duration.
func Plan(duration float64, length int) []Boundary {
	if duration <= 0 || length <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil
	}

	l := float64(length)
	var plan []Boundary
	for i := 0; ; i++ {
		start := float64(i) * l
		if start >= duration {
			break
		}
		end := math.Min(float64(i+1)*l, duration)
		plan = append(plan, Boundary{Index: i + 1, Start: start, End: end})
	}
	return plan
}

// Stem is the input file name without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}

// FileName renders <stem>_<start>_<end>.mp4 with two decimal places.
func FileName(stem string, b Boundary) string {
	return fmt.Sprintf("%s_%.2f_%.2f.mp4", stem, b.Start, b.End)
}

// Args builds the ffmpeg arguments for one clip. Without reencode the streams
// are copied, which is fast but cuts on the nearest keyframe.
func Args(input string, b Boundary, output string, reencode, overwrite bool) []string {
	var args []string
	if overwrite {
		args = append(args, "-y")
	}
	args = append(args,
		"-i", input,
		"-ss", formatSeconds(b.Start),
		"-to", formatSeconds(b.End),
	)
	if !reencode {
		args = append(args, "-c", "copy")
	}
	return append(args, output)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
