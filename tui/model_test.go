package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func sampleSymbols() []protocol.DocumentSymbol {
	return []protocol.DocumentSymbol{
		{
			Name: "Widget",
			Kind: protocol.SymbolKindClass,
			Children: []protocol.DocumentSymbol{
				{Name: "size", Kind: protocol.SymbolKindProperty},
				{Name: "resize(to:)", Kind: protocol.SymbolKindMethod},
			},
		},
		{Name: "helper()", Kind: protocol.SymbolKindFunction},
	}
}

func TestReflowFlattensTree(t *testing.T) {
	m := NewModel("widget.swift", sampleSymbols())
	require.Len(t, m.rows, 4)
	assert.Equal(t, "Widget", m.rows[0].sym.Name)
	assert.Equal(t, 0, m.rows[0].depth)
	assert.True(t, m.rows[0].children)
	assert.Equal(t, "size", m.rows[1].sym.Name)
	assert.Equal(t, 1, m.rows[1].depth)
	assert.Equal(t, "helper()", m.rows[3].sym.Name)
	assert.Equal(t, 0, m.rows[3].depth)
}

func TestCollapseHidesChildren(t *testing.T) {
	m := NewModel("widget.swift", sampleSymbols())
	m.collapsed[m.rows[0].key] = true
	m.reflow()
	require.Len(t, m.rows, 2)
	assert.Equal(t, "Widget", m.rows[0].sym.Name)
	assert.Equal(t, "helper()", m.rows[1].sym.Name)
}

func TestCursorMovement(t *testing.T) {
	m := NewModel("widget.swift", sampleSymbols())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, m.cursor)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, m.cursor)

	// Cursor clamps at the edges.
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, m.cursor)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	assert.Equal(t, 3, m.cursor)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 3, m.cursor)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	assert.Equal(t, 0, m.cursor)
}

func TestToggleFoldWithEnter(t *testing.T) {
	m := NewModel("widget.swift", sampleSymbols())
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.rows, 2)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.rows, 4)
}

func TestCursorClampAfterCollapse(t *testing.T) {
	m := NewModel("widget.swift", sampleSymbols())
	m.cursor = 3
	m.collapsed[m.rows[0].key] = true
	m.reflow()
	assert.Equal(t, 1, m.cursor)
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		m := NewModel("widget.swift", sampleSymbols())
		_, cmd := m.Update(key)
		require.NotNil(t, cmd, key.String())
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestViewAfterResize(t *testing.T) {
	m := NewModel("widget.swift", sampleSymbols())
	assert.Equal(t, "loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	view := m.View()
	assert.Contains(t, view, "widget.swift")
	assert.Contains(t, view, "Widget")
	assert.Contains(t, view, "resize(to:)")

	rendered := m.renderRows()
	assert.True(t, strings.Contains(rendered, "▾"), "expanded parent shows fold marker")
}
