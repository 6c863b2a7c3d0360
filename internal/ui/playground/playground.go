// Package playground provides an interactive monitor over a live editor
// session: current signal values on top, a tailing log pane below. It is a
// development tool for poking signals through the headless engine.
package playground

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/glyph/internal/engine/headless"
	"github.com/zjrosen/glyph/internal/log"
	"github.com/zjrosen/glyph/internal/model"
	"github.com/zjrosen/glyph/internal/pubsub"
	"github.com/zjrosen/glyph/internal/signals"
)

const maxLogLines = 200

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	signalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// modes cycled by the "m" key.
var modes = []string{"handles", "connectors", "channels", "altchannels"}

// Model is the playground's Bubble Tea model.
type Model struct {
	ctx     context.Context
	session *model.Model

	signalListener *pubsub.ContinuousListener[headless.SignalChange]
	logListener    *log.LogListener

	logPane  viewport.Model
	logLines []string
	modeIdx  int
	width    int
	height   int
	ready    bool
}

// New creates a playground over the session. The engine's event broker feeds
// the signal pane; the log broker feeds the log pane.
func New(ctx context.Context, session *model.Model, eng *headless.Engine) Model {
	return Model{
		ctx:            ctx,
		session:        session,
		signalListener: pubsub.NewContinuousListener(ctx, eng.Events()),
		logListener:    log.NewListener(ctx),
	}
}

// Init starts the event listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.signalListener.Listen()}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		logHeight := m.height - 12
		if logHeight < 3 {
			logHeight = 3
		}
		if !m.ready {
			m.logPane = viewport.New(m.width-4, logHeight)
			m.ready = true
		} else {
			m.logPane.Width = m.width - 4
			m.logPane.Height = logHeight
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "u":
			m.session.Update()
			return m, nil
		case "m":
			m.modeIdx = (m.modeIdx + 1) % len(modes)
			m.session.SetSignal(signals.Mode, modes[m.modeIdx])
			return m, nil
		}
		var cmd tea.Cmd
		m.logPane, cmd = m.logPane.Update(msg)
		return m, cmd

	case pubsub.Event[headless.SignalChange]:
		// Signal pane re-reads the store on render; just keep listening.
		return m, m.signalListener.Listen()

	case log.LogEvent:
		m.logLines = append(m.logLines, strings.TrimRight(msg.Payload, "\n"))
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		if m.ready {
			m.logPane.SetContent(strings.Join(m.logLines, "\n"))
			m.logPane.GotoBottom()
		}
		if m.logListener != nil {
			return m, m.logListener.Listen()
		}
		return m, nil
	}

	return m, nil
}

// View renders the monitor.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("glyph playground"))
	sb.WriteString("\n\n")
	sb.WriteString(m.renderSignals())
	sb.WriteString("\n")
	sb.WriteString(paneStyle.Render(m.logPane.View()))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("m: cycle mode • u: update view • q: quit"))
	return sb.String()
}

func (m Model) renderSignals() string {
	names := m.session.Store().Names()
	sort.Strings(names)

	rows := make([]string, 0, len(names))
	for _, name := range names {
		value, _ := m.session.Signal(name)
		rows = append(rows, fmt.Sprintf("%s = %v", signalStyle.Render(name), value))
	}
	return paneStyle.Render(strings.Join(rows, "\n"))
}
