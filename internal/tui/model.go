package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mt4110/badgerclips/internal/config"
	"github.com/mt4110/badgerclips/internal/watcher"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F4C156"))
)

const maxHistory = 20

type tickMsg time.Time

type Model struct {
	cfg *config.Config

	queue   []string
	paths   []string // parallel to queue
	active  string
	since   time.Time
	history []string
	outDirs []string // parallel to history, empty when nothing to open

	cursor int // Cursor position in history

	now time.Time
	sub chan interface{} // Subscription to watcher events
}

func NewModel(cfg *config.Config, sub chan interface{}) Model {
	return Model{
		cfg: cfg,
		sub: sub,
		now: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		waitForActivity(m.sub),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.history)-1 {
				m.cursor++
			}
		case "enter", "o":
			if m.cursor < len(m.outDirs) && m.outDirs[m.cursor] != "" {
				return m, tea.ExecProcess(openCommand(m.outDirs[m.cursor]), func(err error) tea.Msg {
					return nil
				})
			}
		}
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()

	// Watcher Events
	case watcher.FileFoundEvent:
		m.queue = append(m.queue, msg.Name)
		m.paths = append(m.paths, msg.Path)
		return m, waitForActivity(m.sub)

	case watcher.StartSplitEvent:
		m.dequeue(msg.Path)
		m.active = msg.Path
		m.since = m.now
		return m, waitForActivity(m.sub)

	case watcher.SuccessEvent:
		m.finish(msg.Path, fmt.Sprintf("✅ %s -> %d clips", msg.Path, msg.Clips), msg.OutDir)
		return m, waitForActivity(m.sub)

	case watcher.FailureEvent:
		m.finish(msg.Path, fmt.Sprintf("❌ %s: %v", msg.Path, msg.Err), "")
		return m, waitForActivity(m.sub)
	}
	return m, nil
}

func (m *Model) dequeue(path string) {
	for i, p := range m.paths {
		if p == path {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			m.paths = append(m.paths[:i], m.paths[i+1:]...)
			return
		}
	}
}

func (m *Model) finish(path, line, outDir string) {
	m.dequeue(path)
	if m.active == path {
		m.active = ""
	}
	m.history = append([]string{line}, m.history...)
	m.outDirs = append([]string{outDir}, m.outDirs...)
	if len(m.history) > maxHistory {
		m.history = m.history[:maxHistory]
		m.outDirs = m.outDirs[:maxHistory]
	}
	m.cursor = 0
}

func (m Model) View() string {
	s := titleStyle.Render("✂️ badgerclips") + "\n\n"

	s += "Watching: " + fmt.Sprintf("%v", m.cfg.WatchDirs) + "\n"
	s += statusStyle.Render(fmt.Sprintf("Clip length: %ds  Re-encode: %v  Output: %s", m.cfg.ClipLength, m.cfg.Reencode, m.cfg.OutputDir)) + "\n\n"

	if m.active != "" {
		s += activeStyle.Render(fmt.Sprintf("Splitting: %s (%s)", m.active, m.now.Sub(m.since).Truncate(time.Second))) + "\n\n"
	}

	s += "Queue:\n"
	if len(m.queue) == 0 {
		s += statusStyle.Render("  (empty)") + "\n"
	}
	for _, q := range m.queue {
		s += fmt.Sprintf("  %s\n", q)
	}

	s += "\nRecent:\n"
	if len(m.history) == 0 {
		s += statusStyle.Render("  (nothing yet)") + "\n"
	}
	for i, h := range m.history {
		cursor := "  "
		if m.cursor == i {
			cursor = "> "
		}
		s += fmt.Sprintf("%s%s\n", cursor, h)
	}

	s += "\nKeys: [q] quit  [↑/↓] select  [enter] open clip folder\n"
	return s
}

func openCommand(dir string) *exec.Cmd {
	if runtime.GOOS == "darwin" {
		return exec.Command("open", dir)
	}
	return exec.Command("xdg-open", dir)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForActivity(sub chan interface{}) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}
