package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryCommentStore keeps one tenant's comments in memory. Used in testing
// mode and by handler tests; it has its own lock so it is safe on its own,
// independent of the registry's per-tenant serialization.
type MemoryCommentStore struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]Comment
}

func NewMemoryCommentStore() *MemoryCommentStore {
	return &MemoryCommentStore{nextID: 1, comments: make(map[int64]Comment)}
}

func (s *MemoryCommentStore) Create(_ context.Context, c Comment) error {
	if c.Text == "" {
		return ErrEmptyText
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	c.Timestamp = &now
	c.Replies = nil
	s.comments[c.ID] = c
	return nil
}

func (s *MemoryCommentStore) ListTopLevel(_ context.Context, contentID string) ([]Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listTopLevelLocked(contentID), nil
}

func (s *MemoryCommentStore) listTopLevelLocked(contentID string) []Comment {
	var roots []Comment
	for _, c := range s.comments {
		if c.ContentID == contentID && c.Parent == nil {
			roots = append(roots, c)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		if !roots[i].Timestamp.Equal(*roots[j].Timestamp) {
			return roots[i].Timestamp.After(*roots[j].Timestamp)
		}
		return roots[i].ID > roots[j].ID
	})
	return roots
}

func (s *MemoryCommentStore) ListReplies(_ context.Context, parentID int64) ([]Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listRepliesLocked(parentID), nil
}

func (s *MemoryCommentStore) listRepliesLocked(parentID int64) []Comment {
	var replies []Comment
	for _, c := range s.comments {
		if c.Parent != nil && *c.Parent == parentID {
			replies = append(replies, c)
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].ID < replies[j].ID })
	return replies
}

func (s *MemoryCommentStore) GetThreaded(_ context.Context, contentID string) ([]Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roots := s.listTopLevelLocked(contentID)
	for i := range roots {
		roots[i].Replies = s.listRepliesLocked(roots[i].ID)
	}
	return roots, nil
}

func (s *MemoryCommentStore) Close() error { return nil }
