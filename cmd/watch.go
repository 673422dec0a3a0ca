package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/mt4110/badgerclips/internal/split"
	"github.com/mt4110/badgerclips/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Watches directories and splits every new video",
	Long: `Watches the given directories (or watchDirs from the config file) and splits each
new video into <output>/<name>/. Videos are split one at a time.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := prepareWatch(cmd, args); err != nil {
			return err
		}

		w := watcher.New(cfg, split.New(cfg))
		log.Println("👀 watch mode started (Ctrl+C to stop)")
		return w.Run(cmd.Context())
	},
}

// prepareWatch merges flags and args into the config for watch and tui.
func prepareWatch(cmd *cobra.Command, args []string) error {
	updateConfigFromFlags(cmd, cfg)
	if len(args) > 0 {
		cfg.WatchDirs = args
	}
	if len(cfg.WatchDirs) == 0 {
		cfg.WatchDirs = []string{"."}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	checkTools()
	return nil
}

func init() {
	addSplitFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
