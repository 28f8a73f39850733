package persistence

import (
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.lsp.dev/protocol"
)

// OutlineStore persists extracted document outlines in SQLite. It backs
// the CLI index/show commands; the LSP request path never touches it.
type OutlineStore struct {
	db *sql.DB
}

// FileEntry summarizes one indexed file.
type FileEntry struct {
	Path        string
	ContentHash string
	SymbolCount int
	IndexedAt   time.Time
}

// NewOutlineStore opens/creates the database at dbPath.
func NewOutlineStore(dbPath string) (*OutlineStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, err
	}
	store := &OutlineStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *OutlineStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL UNIQUE,
		content_hash TEXT,
		symbol_count INTEGER,
		indexed_at TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS symbols (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id TEXT NOT NULL,
		parent_id INTEGER,
		name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		start_line INTEGER, start_col INTEGER,
		end_line INTEGER, end_col INTEGER,
		sel_start_line INTEGER, sel_start_col INTEGER,
		sel_end_line INTEGER, sel_end_col INTEGER,
		FOREIGN KEY(file_id) REFERENCES files(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *OutlineStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// fileID produces a stable identifier for a file path.
func fileID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return fmt.Sprintf("file:%x", sum[:8])
}

// HashContent returns a content hash used for change detection.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", sum[:])
}

// SaveOutline replaces the stored outline for path.
func (s *OutlineStore) SaveOutline(path, contentHash string, symbols []protocol.DocumentSymbol) error {
	if path == "" {
		return errors.New("path required")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	id := fileID(path)
	if _, err := tx.Exec(`DELETE FROM files WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO files (id, path, content_hash, symbol_count, indexed_at) VALUES (?, ?, ?, ?, ?)`,
		id, path, contentHash, countSymbols(symbols), time.Now().UTC(),
	); err != nil {
		return err
	}
	if err := s.insertSymbols(tx, id, nil, symbols); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *OutlineStore) insertSymbols(tx *sql.Tx, fileID string, parentID *int64, symbols []protocol.DocumentSymbol) error {
	for i := range symbols {
		sym := &symbols[i]
		res, err := tx.Exec(
			`INSERT INTO symbols (
				file_id, parent_id, name, kind,
				start_line, start_col, end_line, end_col,
				sel_start_line, sel_start_col, sel_end_line, sel_end_col
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			fileID, parentID, sym.Name, int(sym.Kind),
			sym.Range.Start.Line, sym.Range.Start.Character,
			sym.Range.End.Line, sym.Range.End.Character,
			sym.SelectionRange.Start.Line, sym.SelectionRange.Start.Character,
			sym.SelectionRange.End.Line, sym.SelectionRange.End.Character,
		)
		if err != nil {
			return err
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := s.insertSymbols(tx, fileID, &rowID, sym.Children); err != nil {
			return err
		}
	}
	return nil
}

// LoadOutline returns the stored outline and content hash for path.
func (s *OutlineStore) LoadOutline(path string) ([]protocol.DocumentSymbol, string, error) {
	id := fileID(path)
	var hash string
	err := s.db.QueryRow(`SELECT content_hash FROM files WHERE id = ?`, id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("no outline indexed for %s", path)
	}
	if err != nil {
		return nil, "", err
	}

	rows, err := s.db.Query(
		`SELECT id, parent_id, name, kind,
			start_line, start_col, end_line, end_col,
			sel_start_line, sel_start_col, sel_end_line, sel_end_col
		FROM symbols WHERE file_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	type row struct {
		sym      *protocol.DocumentSymbol
		parentID sql.NullInt64
	}
	var order []int64
	byID := make(map[int64]*row)
	for rows.Next() {
		var (
			rowID  int64
			parent sql.NullInt64
			name   string
			kind   int
			r      [8]uint32
		)
		if err := rows.Scan(&rowID, &parent, &name, &kind,
			&r[0], &r[1], &r[2], &r[3], &r[4], &r[5], &r[6], &r[7]); err != nil {
			return nil, "", err
		}
		byID[rowID] = &row{
			sym: &protocol.DocumentSymbol{
				Name: name,
				Kind: protocol.SymbolKind(kind),
				Range: protocol.Range{
					Start: protocol.Position{Line: r[0], Character: r[1]},
					End:   protocol.Position{Line: r[2], Character: r[3]},
				},
				SelectionRange: protocol.Range{
					Start: protocol.Position{Line: r[4], Character: r[5]},
					End:   protocol.Position{Line: r[6], Character: r[7]},
				},
			},
			parentID: parent,
		}
		order = append(order, rowID)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	// Row IDs are assigned in pre-order insert order, so appending in
	// that order reproduces the original child ordering.
	var roots []protocol.DocumentSymbol
	var attach func(id int64) *protocol.DocumentSymbol
	pending := make(map[int64][]int64)
	for _, rowID := range order {
		r := byID[rowID]
		if r.parentID.Valid {
			pending[r.parentID.Int64] = append(pending[r.parentID.Int64], rowID)
		}
	}
	attach = func(id int64) *protocol.DocumentSymbol {
		sym := byID[id].sym
		for _, childID := range pending[id] {
			sym.Children = append(sym.Children, *attach(childID))
		}
		return sym
	}
	for _, rowID := range order {
		if !byID[rowID].parentID.Valid {
			roots = append(roots, *attach(rowID))
		}
	}
	return roots, hash, nil
}

// ListFiles returns all indexed files ordered by path.
func (s *OutlineStore) ListFiles() ([]FileEntry, error) {
	rows, err := s.db.Query(`SELECT path, content_hash, symbol_count, indexed_at FROM files ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []FileEntry
	for rows.Next() {
		var e FileEntry
		if err := rows.Scan(&e.Path, &e.ContentHash, &e.SymbolCount, &e.IndexedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func countSymbols(symbols []protocol.DocumentSymbol) int {
	n := len(symbols)
	for i := range symbols {
		n += countSymbols(symbols[i].Children)
	}
	return n
}
