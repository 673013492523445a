package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCommentStore persists one tenant's comments in its own table on a
// shared pool. Tables are fully disjoint between tenants; no query ever spans
// more than one.
type PostgresCommentStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresCommentStore creates the tenant's table if needed and returns a
// store bound to it.
func NewPostgresCommentStore(ctx context.Context, pool *pgxpool.Pool, domain string) (*PostgresCommentStore, error) {
	s := &PostgresCommentStore{pool: pool, table: tableName(domain)}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id         BIGSERIAL PRIMARY KEY,
		email      TEXT,
		author     TEXT,
		text       TEXT NOT NULL,
		"timestamp" TIMESTAMPTZ NOT NULL DEFAULT now(),
		content_id TEXT NOT NULL,
		parent     BIGINT REFERENCES %s(id)
	)`, s.table, s.table)
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create table %s: %w", s.table, err)
	}
	return s, nil
}

// tableName derives an identifier-safe table name from a configured domain.
// Domains come from operator configuration, not request input.
func tableName(domain string) string {
	name := DBName(domain)
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, name)
	return "comments_" + mapped
}

func (s *PostgresCommentStore) Create(ctx context.Context, c Comment) error {
	if c.Text == "" {
		return ErrEmptyText
	}
	q := fmt.Sprintf(`INSERT INTO %s (author, email, text, content_id, parent)
	                  VALUES ($1, $2, $3, $4, $5)`, s.table)
	_, err := s.pool.Exec(ctx, q, c.Author, c.Email, c.Text, c.ContentID, c.Parent)
	return err
}

func (s *PostgresCommentStore) ListTopLevel(ctx context.Context, contentID string) ([]Comment, error) {
	q := fmt.Sprintf(`SELECT id, author, email, text, "timestamp" FROM %s
	                  WHERE content_id = $1 AND parent IS NULL
	                  ORDER BY "timestamp" DESC, id DESC`, s.table)
	rows, err := s.pool.Query(ctx, q, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		var ts time.Time
		if err := rows.Scan(&c.ID, &c.Author, &c.Email, &c.Text, &ts); err != nil {
			return nil, err
		}
		c.Timestamp = &ts
		c.ContentID = contentID
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresCommentStore) ListReplies(ctx context.Context, parentID int64) ([]Comment, error) {
	q := fmt.Sprintf(`SELECT id, author, email, text, content_id, "timestamp" FROM %s
	                  WHERE parent = $1 ORDER BY id`, s.table)
	rows, err := s.pool.Query(ctx, q, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		var ts time.Time
		if err := rows.Scan(&c.ID, &c.Author, &c.Email, &c.Text, &c.ContentID, &ts); err != nil {
			return nil, err
		}
		c.Timestamp = &ts
		pid := parentID
		c.Parent = &pid
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresCommentStore) GetThreaded(ctx context.Context, contentID string) ([]Comment, error) {
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

// Close is a no-op: the pool is shared across tenants and owned by the caller.
func (s *PostgresCommentStore) Close() error { return nil }
