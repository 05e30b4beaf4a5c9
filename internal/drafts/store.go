// Package drafts persists staged tag edits between CLI invocations.
package drafts

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/gravitrone/tagdrawer/internal/tagtree"
)

const schema = `
CREATE TABLE IF NOT EXISTS edits (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	content_id  TEXT    NOT NULL,
	taxonomy_id INTEGER NOT NULL,
	kind        TEXT    NOT NULL,
	lineage     TEXT    NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edits_content ON edits(content_id, taxonomy_id, id);
`

// PendingContent summarizes staged edits for one content object.
type PendingContent struct {
	ContentID  string
	Taxonomies int
	Edits      int
	UpdatedAt  time.Time
}

// Store is a SQLite-backed edit log.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the drafts database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create drafts dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open drafts: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init drafts schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Append records an edit at the end of a taxonomy's log.
func (s *Store) Append(contentID string, taxonomyID int, e tagtree.Edit) error {
	lineage, err := json.Marshal(e.Lineage)
	if err != nil {
		return fmt.Errorf("encode lineage: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO edits (content_id, taxonomy_id, kind, lineage, created_at) VALUES (?, ?, ?, ?, ?)`,
		contentID, taxonomyID, e.Kind.String(), string(lineage), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("append edit: %w", err)
	}
	return nil
}

// List returns a content object's edits per taxonomy, in submission order.
func (s *Store) List(contentID string) (map[int][]tagtree.Edit, error) {
	rows, err := s.db.Query(
		`SELECT taxonomy_id, kind, lineage FROM edits WHERE content_id = ? ORDER BY id`,
		contentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list edits: %w", err)
	}
	defer rows.Close()

	out := map[int][]tagtree.Edit{}
	for rows.Next() {
		var taxonomyID int
		var kind, lineage string
		if err := rows.Scan(&taxonomyID, &kind, &lineage); err != nil {
			return nil, fmt.Errorf("scan edit: %w", err)
		}
		k, err := tagtree.ParseEditKind(kind)
		if err != nil {
			return nil, err
		}
		var l []string
		if err := json.Unmarshal([]byte(lineage), &l); err != nil {
			return nil, fmt.Errorf("decode lineage: %w", err)
		}
		out[taxonomyID] = append(out[taxonomyID], tagtree.Edit{Kind: k, Lineage: l})
	}
	return out, rows.Err()
}

// Clear drops the edits staged for one taxonomy of a content object.
func (s *Store) Clear(contentID string, taxonomyID int) error {
	if _, err := s.db.Exec(`DELETE FROM edits WHERE content_id = ? AND taxonomy_id = ?`, contentID, taxonomyID); err != nil {
		return fmt.Errorf("clear edits: %w", err)
	}
	return nil
}

// ClearContent drops every edit staged for a content object.
func (s *Store) ClearContent(contentID string) error {
	if _, err := s.db.Exec(`DELETE FROM edits WHERE content_id = ?`, contentID); err != nil {
		return fmt.Errorf("clear edits: %w", err)
	}
	return nil
}

// Pending lists content objects with staged edits, most recent first.
func (s *Store) Pending() ([]PendingContent, error) {
	rows, err := s.db.Query(`
		SELECT content_id, COUNT(DISTINCT taxonomy_id), COUNT(*), MAX(id)
		FROM edits
		GROUP BY content_id
		ORDER BY MAX(id) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var out []PendingContent
	var lastIDs []int64
	for rows.Next() {
		var p PendingContent
		var lastID int64
		if err := rows.Scan(&p.ContentID, &p.Taxonomies, &p.Edits, &lastID); err != nil {
			return nil, fmt.Errorf("scan pending: %w", err)
		}
		out = append(out, p)
		lastIDs = append(lastIDs, lastID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, id := range lastIDs {
		var ts time.Time
		if err := s.db.QueryRow(`SELECT created_at FROM edits WHERE id = ?`, id).Scan(&ts); err != nil {
			return nil, fmt.Errorf("read pending timestamp: %w", err)
		}
		out[i].UpdatedAt = ts
	}
	return out, nil
}
