package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	nruntime "github.com/gosuda/nefu/runtime"
)

var errChoiceAborted = fmt.Errorf("choice aborted: %w", context.Canceled)

var (
	choiceTitleStyle    = lipgloss.NewStyle().Bold(true)
	choiceSelectedStyle = lipgloss.NewStyle().Reverse(true)
)

// choiceMenu is the selection state shared by the standalone menu and the
// TUI. Moving past either end wraps around.
type choiceMenu struct {
	title    string
	options  []string
	selected int
	cursor   string
}

func newChoiceMenu(req nruntime.ChoiceRequest, cursor string) choiceMenu {
	if cursor == "" {
		cursor = "> "
	}
	return choiceMenu{title: req.Title, options: req.Options, cursor: cursor}
}

func (c *choiceMenu) move(delta int) {
	n := len(c.options)
	if n == 0 {
		return
	}
	c.selected = ((c.selected+delta)%n + n) % n
}

// handleKey applies one key press and reports whether the selection was
// confirmed.
func (c *choiceMenu) handleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "k":
		c.move(-1)
	case "down", "j", "tab":
		c.move(1)
	case "enter":
		return true
	}
	return false
}

func (c choiceMenu) view() string {
	b := strings.Builder{}
	b.WriteString(choiceTitleStyle.Render(":" + c.title))
	b.WriteString("\n")
	pad := strings.Repeat(" ", lipgloss.Width(c.cursor))
	for i, opt := range c.options {
		if i == c.selected {
			b.WriteString(choiceSelectedStyle.Render(c.cursor + opt))
		} else {
			b.WriteString(pad + opt)
		}
		b.WriteString("\n")
	}
	return b.String()
}

type choiceModel struct {
	menu    choiceMenu
	done    bool
	aborted bool
}

func (m choiceModel) Init() tea.Cmd {
	return nil
}

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "ctrl+c" {
		m.aborted = true
		return m, tea.Quit
	}
	if m.menu.handleKey(key) {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m choiceModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return m.menu.view()
}

func runChoiceMenu(req nruntime.ChoiceRequest, cursor string) (int, error) {
	p := tea.NewProgram(choiceModel{menu: newChoiceMenu(req, cursor)}, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("choice menu: %w", err)
	}
	m := final.(choiceModel)
	if m.aborted {
		return 0, errChoiceAborted
	}
	return m.menu.selected, nil
}

// promptNumberedChoice is the menu for input that is not a terminal: options
// are listed with 1-based numbers and the reply is read as one of them.
func promptNumberedChoice(req nruntime.ChoiceRequest, readLine func(string) (string, error), w io.Writer) (int, error) {
	fmt.Fprintf(w, ":%s\n", req.Title)
	for i, opt := range req.Options {
		fmt.Fprintf(w, "  %d) %s\n", i+1, opt)
	}
	for {
		line, err := readLine("> ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= len(req.Options) {
			return n - 1, nil
		}
		fmt.Fprintf(w, "enter a number between 1 and %d\n", len(req.Options))
	}
}
