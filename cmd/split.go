package cmd

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/mt4110/badgerclips/internal/config"
	"github.com/mt4110/badgerclips/internal/inputs"
	"github.com/mt4110/badgerclips/internal/runner"
	"github.com/mt4110/badgerclips/internal/split"
)

var splitCmd = &cobra.Command{
	Use:   "split --length <seconds> --output <dir> [--reencode] <input>...",
	Short: "Splits a single video into multiple clips of a specified length",
	Long: `Splits each input video into clips of --length seconds, written to --output as
<name>_<start>_<end>.mp4. Inputs may be files, directories or glob patterns.
Streams are copied unless --reencode is set, which is slower but cuts exactly.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		updateConfigFromFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		checkTools()

		files, err := inputs.Expand(args, cfg.Extensions)
		if err != nil {
			return err
		}
		files = inputs.Filter(files, cfg.Keywords, cfg.IgnoreKeywords)
		if len(files) == 0 {
			return fmt.Errorf("no input videos matched %v", args)
		}

		s := newSplitter(cfg, cmd.ErrOrStderr())
		s.Out = cmd.OutOrStdout()

		for _, f := range files {
			report, err := s.Run(cmd.Context(), split.Request{
				Input:      f,
				OutputDir:  cfg.OutputDir,
				ClipLength: cfg.ClipLength,
				Reencode:   cfg.Reencode,
			})
			if err != nil {
				return err
			}
			log.Printf("✅ %s: %d clips in %s", f, len(report.Clips), report.Elapsed.Round(time.Millisecond))
		}
		return nil
	},
}

// newSplitter streams ffmpeg's stderr to the terminal like a direct run would.
var newSplitter = func(c *config.Config, stderr io.Writer) *split.Splitter {
	s := split.New(c)
	s.Runner = runner.Exec{Stderr: stderr}
	return s
}

// Flags shared by split, watch and tui
var (
	flagLength       int
	flagOutput       string
	flagReencode     bool
	flagOverwrite    bool
	flagDryRun       bool
	flagMissingInput string
	flagFFmpegBin    string
	flagFFprobeBin   string
)

func addSplitFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&flagLength, "length", "l", 0, "The desired length of each new clip in seconds")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "The directory to save the split clips")
	cmd.Flags().BoolVarP(&flagReencode, "reencode", "r", false, "Re-encode each clip; slower, but avoids missing video at cut points")
	cmd.Flags().BoolVar(&flagOverwrite, "overwrite", false, "Overwrite existing clips")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the ffmpeg commands without running them")
	cmd.Flags().StringVar(&flagMissingInput, "missing-input", config.MissingInputFail, "What to do when an input file is missing: fail or warn")
	cmd.Flags().StringVar(&flagFFmpegBin, "ffmpeg-bin", "", "Path to the ffmpeg binary")
	cmd.Flags().StringVar(&flagFFprobeBin, "ffprobe-bin", "", "Path to the ffprobe binary")
}

// updateConfigFromFlags overrides config file values with flags the user set.
func updateConfigFromFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("length") {
		c.ClipLength = flagLength
	}
	if flags.Changed("output") {
		c.OutputDir = flagOutput
	}
	if flags.Changed("reencode") {
		c.Reencode = flagReencode
	}
	if flags.Changed("overwrite") {
		c.Overwrite = flagOverwrite
	}
	if flags.Changed("dry-run") {
		c.DryRun = flagDryRun
	}
	if flags.Changed("missing-input") {
		c.MissingInput = flagMissingInput
	}
	if flags.Changed("ffmpeg-bin") {
		c.FFmpegBin = flagFFmpegBin
	}
	if flags.Changed("ffprobe-bin") {
		c.FFprobeBin = flagFFprobeBin
	}
}

func init() {
	addSplitFlags(splitCmd)
	rootCmd.AddCommand(splitCmd)
}
