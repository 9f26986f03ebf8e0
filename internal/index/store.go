// Package index stores ingested content nodes in SQLite and answers the
// host's content queries from it.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed content index.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens the index at path. Use ":memory:" for a per-build index.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	// An in-memory database lives on a single connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrSchemaFailed, err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL,
		source TEXT NOT NULL,
		rel_path TEXT NOT NULL,
		abs_path TEXT NOT NULL,
		name TEXT NOT NULL,
		ext TEXT NOT NULL,
		frontmatter BLOB NOT NULL,
		body BLOB NOT NULL,
		toc TEXT NOT NULL,
		digest TEXT NOT NULL,
		fields TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(type);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset removes every node, for a rebuild against a persistent index.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Put inserts or replaces a node. A replaced node keeps its original
// ingestion position.
func (s *Store) Put(ctx context.Context, n *content.Node) error {
	fm, err := frontmatter.SerializeYAML(n.Frontmatter, frontmatter.Style{Newline: "\n"})
	if err != nil {
		return fmt.Errorf("%w: %s: frontmatter: %w", ErrWriteFailed, n.ID, err)
	}
	toc, err := json.Marshal(n.TableOfContents)
	if err != nil {
		return fmt.Errorf("%w: %s: toc: %w", ErrWriteFailed, n.ID, err)
	}
	fields, err := marshalFields(n.Fields)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, n.ID, err)
	}

	body := n.Body
	if body == nil {
		body = []byte{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO nodes (id, type, source, rel_path, abs_path, name, ext, frontmatter, body, toc, digest, fields)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type, source = excluded.source, rel_path = excluded.rel_path,
			abs_path = excluded.abs_path, name = excluded.name, ext = excluded.ext,
			frontmatter = excluded.frontmatter, body = excluded.body, toc = excluded.toc,
			digest = excluded.digest, fields = excluded.fields`,
		n.ID, n.Type, n.Parent.Source, n.Parent.RelativePath, n.Parent.AbsolutePath,
		n.Parent.Name, n.Parent.Ext, fm, body, string(toc), n.ContentDigest, fields,
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, n.ID, err)
	}
	return nil
}

// SetFields replaces the derived fields of node id.
func (s *Store) SetFields(ctx context.Context, id string, fields map[string]any) error {
	encoded, err := marshalFields(fields)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, "UPDATE nodes SET fields = ? WHERE id = ?", encoded, id)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s: node not indexed", ErrWriteFailed, id)
	}
	return nil
}

const selectColumns = "id, type, source, rel_path, abs_path, name, ext, frontmatter, body, toc, digest, fields"

// Get returns the node with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*content.Node, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM nodes WHERE id = ?", id)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return n, true, nil
}

// Query returns nodes of nodeType (all types when empty) whose slash-separated
// absolute path matches pattern (all when nil), in ingestion order.
func (s *Store) Query(ctx context.Context, nodeType string, pattern *regexp.Regexp) ([]*content.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM nodes WHERE (? = '' OR type = ?) ORDER BY seq",
		nodeType, nodeType,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer rows.Close()

	var out []*content.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		if pattern != nil && !pattern.MatchString(filepath.ToSlash(n.Parent.AbsolutePath)) {
			continue
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return out, nil
}

// Count returns the number of indexed nodes.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*content.Node, error) {
	var (
		n      content.Node
		fm     []byte
		toc    string
		fields string
	)
	err := row.Scan(&n.ID, &n.Type, &n.Parent.Source, &n.Parent.RelativePath, &n.Parent.AbsolutePath,
		&n.Parent.Name, &n.Parent.Ext, &fm, &n.Body, &toc, &n.ContentDigest, &fields)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	if n.Frontmatter, err = frontmatter.ParseYAML(fm); err != nil {
		return nil, fmt.Errorf("%w: %s: frontmatter: %w", ErrDecodeFailed, n.ID, err)
	}
	if err := json.Unmarshal([]byte(toc), &n.TableOfContents); err != nil {
		return nil, fmt.Errorf("%w: %s: toc: %w", ErrDecodeFailed, n.ID, err)
	}
	n.Fields = map[string]any{}
	if err := json.Unmarshal([]byte(fields), &n.Fields); err != nil {
		return nil, fmt.Errorf("%w: %s: fields: %w", ErrDecodeFailed, n.ID, err)
	}
	return &n, nil
}

func marshalFields(fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("fields: %w", err)
	}
	return string(data), nil
}
