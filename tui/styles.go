package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.lsp.dev/protocol"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("236"))

	positionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	typeGlyph     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render
	funcGlyph     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Render
	valueGlyph    = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Render
	fallbackGlyph = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render
)

// kindGlyph returns a colored single-character badge for a symbol kind.
func kindGlyph(kind protocol.SymbolKind) string {
	switch kind {
	case protocol.SymbolKindClass:
		return typeGlyph("C")
	case protocol.SymbolKindStruct:
		return typeGlyph("S")
	case protocol.SymbolKindEnum:
		return typeGlyph("E")
	case protocol.SymbolKindInterface:
		return typeGlyph("P")
	case protocol.SymbolKindNamespace:
		return typeGlyph("X")
	case protocol.SymbolKindTypeParameter:
		return typeGlyph("T")
	case protocol.SymbolKindFunction:
		return funcGlyph("f")
	case protocol.SymbolKindMethod:
		return funcGlyph("m")
	case protocol.SymbolKindConstructor:
		return funcGlyph("i")
	case protocol.SymbolKindOperator:
		return funcGlyph("o")
	case protocol.SymbolKindProperty:
		return valueGlyph("p")
	case protocol.SymbolKindVariable:
		return valueGlyph("v")
	case protocol.SymbolKindEnumMember:
		return valueGlyph("c")
	default:
		return fallbackGlyph("·")
	}
}
