package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCommentStore is the default backend: one database file per tenant.
type SQLiteCommentStore struct {
	db *sql.DB
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS comment (
	id         INTEGER PRIMARY KEY,
	email      TEXT,
	author     TEXT,
	text       TEXT NOT NULL,
	timestamp  DATETIME DEFAULT CURRENT_TIMESTAMP,
	content_id TEXT NOT NULL,
	parent     INTEGER
)`

// NewSQLiteCommentStore opens (or creates) the tenant's database. The domain's
// URL scheme is stripped for the on-disk name, so "https://example.com" stores
// into "example.com.db". With inMemory set, the database lives in a private
// named memory region instead of a file.
func NewSQLiteCommentStore(domain string, inMemory bool) (*SQLiteCommentStore, error) {
	name := DBName(domain)
	dsn := fmt.Sprintf("file:%s.db?_loc=UTC", name)
	if inMemory {
		dsn = fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=UTC", name)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", name, err)
	}
	// One connection per tenant; sqlite has no use for a pool here and a
	// fresh in-memory connection would see an empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema %s: %w", name, err)
	}
	return &SQLiteCommentStore{db: db}, nil
}

// DBName maps a configured tenant domain to its on-disk database name.
func DBName(domain string) string {
	name := strings.TrimPrefix(domain, "http://")
	return strings.TrimPrefix(name, "https://")
}

func (s *SQLiteCommentStore) Create(ctx context.Context, c Comment) error {
	if c.Text == "" {
		return ErrEmptyText
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comment (author, email, text, content_id, parent) VALUES (?, ?, ?, ?, ?)`,
		c.Author, c.Email, c.Text, c.ContentID, c.Parent)
	return err
}

func (s *SQLiteCommentStore) ListTopLevel(ctx context.Context, contentID string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, author, email, text, timestamp FROM comment
		 WHERE content_id = ? AND parent IS NULL
		 ORDER BY timestamp DESC, id DESC`, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		var ts sql.NullTime
		if err := rows.Scan(&c.ID, &c.Author, &c.Email, &c.Text, &ts); err != nil {
			return nil, err
		}
		if ts.Valid {
			t := ts.Time
			c.Timestamp = &t
		}
		c.ContentID = contentID
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteCommentStore) ListReplies(ctx context.Context, parentID int64) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, author, email, text, content_id, timestamp FROM comment
		 WHERE parent = ? ORDER BY id`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		var ts sql.NullTime
		if err := rows.Scan(&c.ID, &c.Author, &c.Email, &c.Text, &c.ContentID, &ts); err != nil {
			return nil, err
		}
		if ts.Valid {
			t := ts.Time
			c.Timestamp = &t
		}
		pid := parentID
		c.Parent = &pid
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteCommentStore) GetThreaded(ctx context.Context, contentID string) ([]Comment, error) {
	roots, err := s.ListTopLevel(ctx, contentID)
	if err != nil {
		return nil, err
	}
	for i := range roots {
		replies, err := s.ListReplies(ctx, roots[i].ID)
		if err != nil {
			return nil, err
		}
		roots[i].Replies = replies
	}
	return roots, nil
}

func (s *SQLiteCommentStore) Close() error {
	return s.db.Close()
}
