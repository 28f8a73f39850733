package textdoc

import (
	"fmt"
	"sync"

	"go.lsp.dev/protocol"
)

// Document is one immutable snapshot of an open file. A new Document is
// stored on every change; readers holding an old snapshot keep seeing
// its text and line table.
type Document struct {
	URI        protocol.DocumentURI
	LanguageID string
	Version    int32
	Text       string

	lines     *LineTable
	linesOnce sync.Once
}

// LineTable returns the position mapper for this snapshot, built lazily
// and shared by all requests against the same version.
func (d *Document) LineTable() *LineTable {
	d.linesOnce.Do(func() {
		d.lines = NewLineTable(d.Text)
	})
	return d.lines
}

// Store tracks open documents from the editor, keyed by URI.
type Store struct {
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document
}

// NewStore builds an empty document store.
func NewStore() *Store {
	return &Store{documents: make(map[protocol.DocumentURI]*Document)}
}

// Open registers a document snapshot.
func (s *Store) Open(uri protocol.DocumentURI, languageID string, version int32, text string) *Document {
	doc := &Document{URI: uri, LanguageID: languageID, Version: version, Text: text}
	s.mu.Lock()
	s.documents[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change replaces the snapshot for an already-open document.
func (s *Store) Change(uri protocol.DocumentURI, version int32, text string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.documents[uri]
	if !ok {
		return nil, fmt.Errorf("document %s not tracked", uri)
	}
	doc := &Document{URI: uri, LanguageID: old.LanguageID, Version: version, Text: text}
	s.documents[uri] = doc
	return doc, nil
}

// Close forgets a document.
func (s *Store) Close(uri protocol.DocumentURI) {
	s.mu.Lock()
	delete(s.documents, uri)
	s.mu.Unlock()
}

// Get returns the current snapshot for uri.
func (s *Store) Get(uri protocol.DocumentURI) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[uri]
	if !ok {
		return nil, fmt.Errorf("document %s not tracked", uri)
	}
	return doc, nil
}
