package textdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func TestLineTableASCII(t *testing.T) {
	table := NewLineTable("let a = 1\nlet b = 2\n")

	pos, ok := table.Position(0)
	require.True(t, ok)
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, pos)

	pos, ok = table.Position(4)
	require.True(t, ok)
	assert.Equal(t, protocol.Position{Line: 0, Character: 4}, pos)

	pos, ok = table.Position(10)
	require.True(t, ok)
	assert.Equal(t, protocol.Position{Line: 1, Character: 0}, pos)

	// End of text is a valid position.
	pos, ok = table.Position(20)
	require.True(t, ok)
	assert.Equal(t, protocol.Position{Line: 2, Character: 0}, pos)
}

func TestLineTableUTF16(t *testing.T) {
	// é is 2 bytes in UTF-8 but one UTF-16 code unit; 🚀 is 4 bytes and
	// two code units.
	source := "let é = \"🚀\"\nlet x = 1"
	table := NewLineTable(source)

	// Offset of the = sign after é: l-e-t-space (4) + é (2) + space = 7.
	pos, ok := table.Position(7)
	require.True(t, ok)
	assert.Equal(t, protocol.Position{Line: 0, Character: 6}, pos)

	// Closing quote after the rocket: 7 + "= " (2) + quote (1) + 🚀 (4).
	pos, ok = table.Position(14)
	require.True(t, ok)
	assert.Equal(t, protocol.Position{Line: 0, Character: 11}, pos)

	// Second line is unaffected.
	pos, ok = table.Position(len(source))
	require.True(t, ok)
	assert.Equal(t, protocol.Position{Line: 1, Character: 9}, pos)
}

func TestLineTableInvalidOffsets(t *testing.T) {
	table := NewLineTable("let é = 1")

	_, ok := table.Position(-1)
	assert.False(t, ok)

	_, ok = table.Position(100)
	assert.False(t, ok)

	// Offset 5 lands in the middle of the two-byte é.
	_, ok = table.Position(5)
	assert.False(t, ok)
}

func TestStoreLifecycle(t *testing.T) {
	store := NewStore()
	uri := protocol.DocumentURI("file:///tmp/a.swift")

	doc := store.Open(uri, "swift", 1, "let a = 1")
	assert.Equal(t, int32(1), doc.Version)

	got, err := store.Get(uri)
	require.NoError(t, err)
	assert.Same(t, doc, got)

	changed, err := store.Change(uri, 2, "let a = 2")
	require.NoError(t, err)
	assert.Equal(t, int32(2), changed.Version)
	assert.Equal(t, "swift", changed.LanguageID)
	assert.Equal(t, "let a = 2", changed.Text)

	// The old snapshot keeps its text.
	assert.Equal(t, "let a = 1", doc.Text)

	store.Close(uri)
	_, err = store.Get(uri)
	assert.Error(t, err)
}

func TestStoreChangeUnknownURI(t *testing.T) {
	store := NewStore()
	_, err := store.Change(protocol.DocumentURI("file:///missing.swift"), 1, "")
	assert.Error(t, err)
}

func TestDocumentLineTableShared(t *testing.T) {
	doc := &Document{Text: "let a = 1"}
	assert.Same(t, doc.LineTable(), doc.LineTable())
}
