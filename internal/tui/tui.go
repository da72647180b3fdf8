// Package tui provides a Bubble Tea terminal user interface for
// portatune.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"portatune/internal/engine"
	"portatune/internal/syncer"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7FB4CA")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98BB6C"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#98BB6C")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateSyncing
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   syncer.Level
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	logs      []LogEntry
	summary   *engine.Summary
	err       error

	// Sync context
	ctx    context.Context
	cancel context.CancelFunc

	// Manager reference; events arrive on the channel from its
	// callback goroutine.
	manager *syncer.Manager
	events  chan syncer.Event

	// Options
	randomFill bool
	playlist   bool
	verbose    bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	ti := textinput.New()
	ti.Placeholder = "/media/player"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB4CA"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// EventMsg carries one progress event from the manager.
	EventMsg struct {
		Event syncer.Event
	}

	// InitDoneMsg is sent when the catalog and documents are loaded.
	InitDoneMsg struct {
		Manager *syncer.Manager
		Tracks  int
		Err     error
	}

	// SyncDoneMsg is sent when the run finishes.
	SyncDoneMsg struct {
		Summary *engine.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateSyncing || m.state == StateInitializing {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateInitializing
				return m, tea.Batch(m.initialize(), m.spinner.Tick)
			}

		case "f":
			if m.state == StateInput {
				m.randomFill = !m.randomFill
			}

		case "p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for another run
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.summary = nil
				m.manager = nil
				m.events = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case EventMsg:
		if msg.Event.Level == syncer.LevelVerbose && !m.verbose {
			return m, m.waitForEvent()
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		// Keep only last 10 logs
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}
		cmds = append(cmds, m.waitForEvent())

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.manager = msg.Manager
			m.state = StateSyncing
			cmds = append(cmds, m.startSync(), m.waitForEvent(), m.tickProgress())
		}

	case SyncDoneMsg:
		m.summary = msg.Summary
		switch {
		case msg.Err != nil && m.ctx.Err() == nil:
			m.state = StateError
			m.err = msg.Err
		case m.ctx.Err() != nil || (msg.Summary != nil && msg.Summary.Cancelled):
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateSyncing {
			copied, pending, _ := m.manager.Progress()

			var percent float64
			if pending > 0 {
				percent = float64(copied) / float64(pending)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent blocks on the event channel and delivers the next
// progress event as a message.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return EventMsg{Event: e}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("portatune"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Sync your library to a portable player"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateSyncing:
		b.WriteString(m.viewSyncing())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter destination path:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// Options
	fillCheck := "[ ]"
	if m.randomFill {
		fillCheck = "[x]"
	}
	playlistCheck := "[ ]"
	if m.playlist {
		playlistCheck = "[x]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Random fill (f)\n", fillCheck))
	b.WriteString(fmt.Sprintf("  %s Write playlist (p)\n", playlistCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Library path and filters come from the destination's settings"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Opening library..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewSyncing() string {
	var b strings.Builder

	copied, pending, bytes := int32(0), int32(0), int64(0)
	if m.manager != nil {
		copied, pending, bytes = m.manager.Progress()
	}

	var percent float64
	if pending > 0 {
		percent = float64(copied) / float64(pending)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Tracks: %d/%d | Copied: %.2f MB",
		copied,
		pending,
		float64(bytes)/1024/1024,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	copied, deleted, failed := 0, 0, 0
	var bytes int64
	if m.summary != nil {
		copied = m.summary.Copied
		deleted = m.summary.Deleted
		failed = m.summary.Failed
		bytes = m.summary.CopiedBytes
	}

	box := boxStyle.Render(fmt.Sprintf(
		"Sync complete\n\n"+
			"Copied: %d (%.2f MB)\n"+
			"Removed: %d\n"+
			"Failed: %d",
		copied,
		float64(bytes)/1024/1024,
		deleted,
		failed,
	))
	b.WriteString(box)

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case syncer.LevelError:
			style = errorStyle
			prefix = "✗"
		case syncer.LevelWarning:
			style = warningStyle
			prefix = "!"
		case syncer.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case syncer.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: sync • f: random fill • p: playlist • v: verbose • esc: quit"
	case StateInitializing, StateSyncing:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new sync • q: quit"
	}
	return ""
}

// initialize loads the destination's settings, catalog and documents.
func (m *Model) initialize() tea.Cmd {
	dest := m.textInput.Value()
	events := make(chan syncer.Event, 64)
	m.events = events

	randomFill := m.randomFill
	playlist := m.playlist

	return func() tea.Msg {
		manager, err := syncer.NewManager(dest, func(e syncer.Event) {
			select {
			case events <- e:
			default: // never block the engine on a slow UI
			}
		})
		if err != nil {
			return InitDoneMsg{Err: err}
		}

		if randomFill {
			manager.Settings().RandomFill = true
		}
		if playlist {
			manager.Settings().CreatePlaylist = true
		}

		if err := manager.Initialize(); err != nil {
			return InitDoneMsg{Err: err}
		}

		return InitDoneMsg{
			Manager: manager,
			Tracks:  len(manager.Catalog().Tracks()),
		}
	}
}

// startSync runs the sync on a background goroutine.
func (m *Model) startSync() tea.Cmd {
	return func() tea.Msg {
		if m.manager == nil {
			return SyncDoneMsg{Err: fmt.Errorf("no manager")}
		}

		sum, err := m.manager.Sync(m.ctx)
		return SyncDoneMsg{Summary: sum, Err: err}
	}
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
