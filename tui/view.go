package tui

import (
	"fmt"
	"strings"
)

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	header := headerStyle.Render(fmt.Sprintf(" %s · %d symbols", m.path, len(m.rows)))
	status := statusStyle.Render(" ↑/↓ move · enter fold · q quit ")
	return header + "\n" + m.view.View() + "\n" + status
}

// renderRows paints the flattened tree with cursor and fold markers.
func (m *Model) renderRows() string {
	var b strings.Builder
	for i, r := range m.rows {
		marker := "  "
		if r.children {
			if m.collapsed[r.key] {
				marker = "▸ "
			} else {
				marker = "▾ "
			}
		}
		line := fmt.Sprintf("%s%s%s %s %s",
			strings.Repeat("  ", r.depth),
			marker,
			kindGlyph(r.sym.Kind),
			r.sym.Name,
			positionStyle.Render(fmt.Sprintf("%d:%d", r.sym.Range.Start.Line+1, r.sym.Range.Start.Character+1)),
		)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
