package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mt4110/badgerclips/internal/config"
	"github.com/mt4110/badgerclips/internal/deps"
	"github.com/mt4110/badgerclips/internal/logger"
)

var (
	cfgFile     string
	flagLogFile string
	cfg         *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "badgerclips",
	Short:         "Utilities for dealing with video clips",
	Long:          `badgerclips cuts videos into fixed-length clips with ffmpeg, either on demand or by watching a directory.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadedCfg, err := config.Load(cfgFile)
		if err != nil {
			if cfgFile != "" {
				return err
			}
			log.Printf("could not read config file, using defaults: %v", err)
			loadedCfg = config.NewDefault()
		}
		cfg = loadedCfg

		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = flagLogFile
		}
		logger.Setup(cfg.LogFile)
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// checkTools warns about missing ffmpeg/ffprobe before work that needs them.
func checkTools() {
	deps.Warn(cfg.FFmpegBin, cfg.FFprobeBin)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/badgerclips/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "log file path")
}
