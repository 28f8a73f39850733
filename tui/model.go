// Package tui implements an interactive outline browser for one file.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.lsp.dev/protocol"
)

// Run opens the outline browser over an extracted symbol forest.
func Run(path string, symbols []protocol.DocumentSymbol) error {
	model := NewModel(path, symbols)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Model implements the Bubble Tea model for the symbol tree view.
type Model struct {
	path    string
	symbols []protocol.DocumentSymbol

	rows      []row
	collapsed map[string]bool
	cursor    int

	view   viewport.Model
	width  int
	height int
	ready  bool
}

// row is one visible line of the flattened tree.
type row struct {
	sym      *protocol.DocumentSymbol
	depth    int
	key      string
	children bool
}

// NewModel builds the browser model.
func NewModel(path string, symbols []protocol.DocumentSymbol) *Model {
	m := &Model{
		path:      path,
		symbols:   symbols,
		collapsed: make(map[string]bool),
	}
	m.reflow()
	return m
}

// reflow rebuilds the visible rows honoring collapsed subtrees.
func (m *Model) reflow() {
	m.rows = m.rows[:0]
	var walk func(syms []protocol.DocumentSymbol, depth int, prefix string)
	walk = func(syms []protocol.DocumentSymbol, depth int, prefix string) {
		for i := range syms {
			sym := &syms[i]
			key := fmt.Sprintf("%s/%d", prefix, i)
			m.rows = append(m.rows, row{
				sym:      sym,
				depth:    depth,
				key:      key,
				children: len(sym.Children) > 0,
			})
			if !m.collapsed[key] {
				walk(sym.Children, depth+1, key)
			}
		}
	}
	walk(m.symbols, 0, "")
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chrome := 3 // header + status bar + padding
		if !m.ready {
			m.view = viewport.New(msg.Width, msg.Height-chrome)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = msg.Height - chrome
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = len(m.rows) - 1
		case "enter", " ":
			if m.cursor < len(m.rows) && m.rows[m.cursor].children {
				key := m.rows[m.cursor].key
				m.collapsed[key] = !m.collapsed[key]
				m.reflow()
			}
		}
	}
	m.syncViewport()
	return m, nil
}

// syncViewport keeps the cursor line inside the visible window.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.view.SetContent(m.renderRows())
	if m.cursor < m.view.YOffset {
		m.view.SetYOffset(m.cursor)
	} else if m.cursor >= m.view.YOffset+m.view.Height {
		m.view.SetYOffset(m.cursor - m.view.Height + 1)
	}
}
