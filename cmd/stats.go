package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mt4110/badgerclips/internal/logger"
	"github.com/mt4110/badgerclips/internal/split"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Shows split statistics",
	Long:  `Aggregates the split history recorded in the log file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logPath := logger.DefaultPath()
		if cfg != nil && cfg.LogFile != "" {
			logPath = cfg.LogFile
		}

		f, err := os.Open(logPath)
		if err != nil {
			return fmt.Errorf("could not open log file: %w", err)
		}
		defer f.Close()

		sum, err := summarize(f)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), sum)
		return nil
	},
}

type summary struct {
	Inputs      int
	Clips       int
	Reencoded   int
	Warnings    int
	MediaSec    float64
	ElapsedSec  float64
	ClipLengths map[int]int
}

// summarize reads split_result entries from log lines. Lines start with the
// std log prefix, so the JSON begins at the first '{'.
func summarize(r io.Reader) (summary, error) {
	sum := summary{ClipLengths: make(map[int]int)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, "{")
		if idx == -1 {
			continue
		}

		var entry split.ResultEntry
		if err := json.Unmarshal([]byte(line[idx:]), &entry); err != nil {
			continue
		}
		if entry.Type != split.ResultType {
			continue
		}

		sum.Inputs++
		sum.Clips += entry.Clips
		sum.MediaSec += entry.MediaSec
		sum.ElapsedSec += entry.ElapsedSec
		sum.Warnings += entry.Warnings
		sum.ClipLengths[entry.ClipLength]++
		if entry.Reencode {
			sum.Reencoded++
		}
	}
	return sum, scanner.Err()
}

func printSummary(w io.Writer, sum summary) {
	const separator = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "📊 badgerclips stats\n")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Videos split:    %d (%d re-encoded)\n", sum.Inputs, sum.Reencoded)
	fmt.Fprintf(w, "Clips written:   %d\n", sum.Clips)
	fmt.Fprintf(w, "Footage split:   %s\n", formatDuration(sum.MediaSec))
	fmt.Fprintf(w, "Processing time: %s\n", formatDuration(sum.ElapsedSec))
	if sum.Inputs > 0 {
		fmt.Fprintf(w, "Clips per video: %.1f\n", float64(sum.Clips)/float64(sum.Inputs))
	}
	if sum.Warnings > 0 {
		fmt.Fprintf(w, "Warnings:        %d\n", sum.Warnings)
	}
	fmt.Fprintln(w, separator)
}

func formatDuration(sec float64) string {
	d := time.Duration(sec * float64(time.Second))
	return d.Round(time.Second).String()
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
