package textdoc

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"
)

// LineTable maps byte offsets in a snapshot to LSP positions (zero-based
// line, UTF-16 column). Built once per snapshot; safe for concurrent use.
type LineTable struct {
	text       string
	lineStarts []int
}

// NewLineTable indexes the line boundaries of text.
func NewLineTable(text string) *LineTable {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineTable{text: text, lineStarts: starts}
}

// Position converts a byte offset into a protocol position. Returns
// ok=false when the offset falls outside the snapshot, or splits a
// UTF-8 sequence; callers drop just the symbol being built.
func (lt *LineTable) Position(offset int) (protocol.Position, bool) {
	if offset < 0 || offset > len(lt.text) {
		return protocol.Position{}, false
	}
	if offset < len(lt.text) && !utf8.RuneStart(lt.text[offset]) {
		return protocol.Position{}, false
	}
	line := sort.Search(len(lt.lineStarts), func(i int) bool {
		return lt.lineStarts[i] > offset
	}) - 1
	col := 0
	for _, r := range lt.text[lt.lineStarts[line]:offset] {
		col += len(utf16.Encode([]rune{r}))
	}
	return protocol.Position{Line: uint32(line), Character: uint32(col)}, true
}
