package store

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyText is returned by Create for comments with no text left after
// sanitization. Validation upstream should already have rejected these.
var ErrEmptyText = errors.New("comment text must not be empty")

// Comment is a single comment row. Replies is populated only on top-level
// comments returned by GetThreaded; a reply's Replies is always empty
// (threads are exactly two levels deep).
type Comment struct {
	ID        int64
	Author    *string // nil means anonymous
	Email     *string // never served to readers, only its gravatar digest
	Text      string
	Timestamp *time.Time // assigned by the store on create
	ContentID string
	Parent    *int64 // nil means top-level
	Replies   []Comment
}

// GravatarHash derives the public avatar lookup key from an email address.
// Gravatar fixes the algorithm: md5 over the trimmed, lowercased address.
func GravatarHash(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return fmt.Sprintf("%x", md5.Sum([]byte(normalized)))
}

// CommentStore is the per-tenant persistence contract. Implementations do not
// serialize callers; the tenant registry owns the per-tenant lock.
type CommentStore interface {
	// Create inserts the comment. ID and Timestamp are assigned by the store
	// and ignored on the way in.
	Create(ctx context.Context, c Comment) error

	// ListTopLevel returns parentless comments for contentID, newest first.
	ListTopLevel(ctx context.Context, contentID string) ([]Comment, error)

	// ListReplies returns direct replies to parentID in stable order.
	ListReplies(ctx context.Context, parentID int64) ([]Comment, error)

	// GetThreaded returns ListTopLevel with each comment's direct replies
	// attached. No recursion past the first reply level.
	GetThreaded(ctx context.Context, contentID string) ([]Comment, error)

	Close() error
}
