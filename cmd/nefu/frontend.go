package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	nruntime "github.com/gosuda/nefu/runtime"
)

type model struct {
	cfg     appConfig
	input   textinput.Model
	ready   bool
	width   int
	height  int
	status  string
	running bool
	events  <-chan tea.Msg
	cancel  context.CancelFunc
	pending *pendingInput
	choice  *pendingChoice
	history []string
	tail    string
	stream  []nruntime.Output
	scroll  int
	vars    map[string]string
	err     error
}

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func newModel(cfg appConfig) model {
	ti := textinput.New()
	ti.Prompt = cfg.cursor
	ti.CharLimit = 4096
	return model{
		cfg:    cfg,
		input:  ti,
		status: "starting",
	}
}

func waitVMEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case msg, ok := <-events:
			if !ok {
				return nil
			}
			return msg
		case <-time.After(20 * time.Millisecond):
			return vmPollMsg{}
		}
	}
}

func sendInputResp(ch chan vmInputResp, resp vmInputResp) {
	select {
	case ch <- resp:
	default:
	}
}

func sendChoiceResp(ch chan vmChoiceResp, resp vmChoiceResp) {
	select {
	case ch <- resp:
	default:
	}
}

func (m model) Init() tea.Cmd {
	return startVM(m.cfg)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 1)
		m.ready = true
		return m, nil

	case vmStartedMsg:
		m.events = msg.events
		m.cancel = msg.cancel
		m.running = true
		m.status = "running"
		return m, waitVMEvent(m.events)

	case vmOutputMsg:
		m.appendOutput(msg.out)
		return m, waitVMEvent(m.events)

	case vmPollMsg:
		if m.running && m.pending == nil && m.choice == nil {
			return m, waitVMEvent(m.events)
		}
		return m, nil

	case vmPromptMsg:
		m.pending = &pendingInput{req: msg.req, resp: msg.resp}
		m.input.Prompt = m.cfg.cursor
		if msg.req.Inline {
			m.input.Prompt = msg.req.Prompt
		}
		m.input.Placeholder = ""
		if msg.req.HasDefault {
			m.input.Placeholder = msg.req.Default
		}
		m.input.SetValue("")
		m.status = "input: " + msg.req.Variable
		cmd := m.input.Focus()
		return m, cmd

	case vmChoiceMsg:
		m.choice = &pendingChoice{menu: newChoiceMenu(msg.req, m.cfg.cursor), resp: msg.resp}
		m.status = "choice"
		return m, nil

	case vmDoneMsg:
		m.running = false
		m.pending = nil
		m.choice = nil
		m.cancel = nil
		m.input.Blur()
		m.vars = msg.vars
		m.err = msg.err
		switch {
		case msg.err == nil:
			m.status = "done"
		case errors.Is(msg.err, context.Canceled):
			m.status = "stopped"
		default:
			m.status = "failed"
			for _, line := range formatDiagnostic(msg.err) {
				m.appendOutput(nruntime.Output{Text: errStyle.Render(line), NewLine: true})
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.stop()
		return m, tea.Quit
	}

	if m.choice != nil {
		if m.choice.menu.handleKey(msg) {
			sendChoiceResp(m.choice.resp, vmChoiceResp{index: m.choice.menu.selected})
			m.appendOutput(nruntime.Output{Text: m.cfg.cursor + m.choice.menu.options[m.choice.menu.selected], NewLine: true})
			m.choice = nil
			m.status = "running"
			return m, waitVMEvent(m.events)
		}
		return m, nil
	}

	if m.pending != nil {
		if msg.String() == "enter" {
			val := m.input.Value()
			echo := val
			if m.pending.req.Inline {
				echo = m.pending.req.Prompt + val
			}
			m.appendOutput(nruntime.Output{Text: echo, NewLine: true})
			sendInputResp(m.pending.resp, vmInputResp{value: val})
			m.pending = nil
			m.input.Blur()
			m.input.SetValue("")
			m.status = "running"
			return m, waitVMEvent(m.events)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.stop()
		return m, tea.Quit
	case "r":
		if m.running {
			return m, nil
		}
		m.clearForRestart()
		m.status = "restarting"
		return m, startVM(m.cfg)
	case "pgup", "k", "up":
		m.scrollBy(m.bodyHeight() / 2)
	case "pgdown", "j", "down":
		m.scrollBy(-m.bodyHeight() / 2)
	case "home", "g":
		m.scroll = len(m.lines())
		m.scrollBy(0)
	case "end", "G":
		m.scroll = 0
	}
	return m, nil
}

// stop cancels a running script; its final error becomes context.Canceled.
func (m *model) stop() {
	if !m.running {
		return
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.err = context.Canceled
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}
	footer := m.footer()
	body := m.lines()
	h := max(m.height-len(footer), 1)
	end := len(body) - m.scroll
	start := max(end-h, 0)
	parts := append([]string{}, body[start:end]...)
	for len(parts) < h {
		parts = append(parts, "")
	}
	parts = append(parts, footer...)
	return strings.Join(parts, "\n")
}

func (m model) footer() []string {
	var out []string
	switch {
	case m.choice != nil:
		out = strings.Split(strings.TrimSuffix(m.choice.menu.view(), "\n"), "\n")
	case m.pending != nil:
		out = []string{inputStyle.Render(m.input.View())}
	}
	hint := "ctrl+c quit"
	if !m.running {
		hint = "r restart · q quit · pgup/pgdown scroll"
	}
	return append(out, statusStyle.Render("["+m.status+"] "+hint))
}

func (m model) bodyHeight() int {
	return max(m.height-len(m.footer()), 1)
}

func (m *model) scrollBy(delta int) {
	limit := max(len(m.lines())-m.bodyHeight(), 0)
	m.scroll = min(max(m.scroll+delta, 0), limit)
}

func (m *model) appendOutput(out nruntime.Output) {
	if out.Clear {
		m.stream = nil
	} else {
		m.stream = append(m.stream, out)
	}
	m.rebuildContent()
}

func (m *model) rebuildContent() {
	m.history = m.history[:0]
	m.tail = ""
	for _, out := range m.stream {
		if out.NewLine {
			m.history = append(m.history, m.tail+out.Text)
			m.tail = ""
		} else {
			m.tail += out.Text
		}
	}
	m.scroll = 0
}

func (m model) lines() []string {
	if m.tail == "" {
		return m.history
	}
	return append(append([]string{}, m.history...), m.tail)
}

func (m *model) clearForRestart() {
	m.history = nil
	m.tail = ""
	m.stream = nil
	m.scroll = 0
	m.pending = nil
	m.choice = nil
	m.vars = nil
	m.err = nil
	m.input.Blur()
	m.input.SetValue("")
}
