package cmd

import (
	"context"
	"errors"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mt4110/badgerclips/internal/logger"
	"github.com/mt4110/badgerclips/internal/split"
	"github.com/mt4110/badgerclips/internal/tui"
	"github.com/mt4110/badgerclips/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [dirs...]",
	Short: "Watch mode with an interactive dashboard",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := prepareWatch(cmd, args); err != nil {
			return err
		}

		// Mute stdout logging to prevent TUI corruption
		logger.MuteStdout()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		s := split.New(cfg)
		s.Out = io.Discard
		eventChan := make(chan interface{}, 100)

		w := watcher.New(cfg, s)
		w.EventChan = eventChan

		go func() {
			if err := w.Run(ctx); err != nil {
				log.Printf("watcher stopped: %v", err)
			}
		}()

		p := tea.NewProgram(tui.NewModel(cfg, eventChan), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	},
}

func init() {
	addSplitFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}
