package store

import (
	"context"
	"testing"
)

func TestMemoryCommentStore_Create(t *testing.T) {
	s := NewMemoryCommentStore()
	ctx := context.Background()

	if err := s.Create(ctx, Comment{Text: "hello", ContentID: "post-1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	roots, err := s.ListTopLevel(ctx, "post-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(roots))
	}
	if roots[0].ID == 0 {
		t.Fatal("expected server-assigned id")
	}
	if roots[0].Timestamp == nil {
		t.Fatal("expected server-assigned timestamp")
	}
}

func TestMemoryCommentStore_CreateEmptyText(t *testing.T) {
	s := NewMemoryCommentStore()

	err := s.Create(context.Background(), Comment{ContentID: "post-1"})
	if err != ErrEmptyText {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestMemoryCommentStore_IDsMonotonic(t *testing.T) {
	s := NewMemoryCommentStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Create(ctx, Comment{Text: "c", ContentID: "post-1"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	roots, _ := s.ListTopLevel(ctx, "post-1")
	seen := map[int64]bool{}
	for _, c := range roots {
		if seen[c.ID] {
			t.Fatalf("duplicate id %d", c.ID)
		}
		seen[c.ID] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 distinct ids, got %d", len(seen))
	}
}

func TestMemoryCommentStore_GetThreaded(t *testing.T) {
	s := NewMemoryCommentStore()
	ctx := context.Background()

	_ = s.Create(ctx, Comment{Text: "root 1", ContentID: "post-1"})
	_ = s.Create(ctx, Comment{Text: "root 2", ContentID: "post-1"})

	roots, _ := s.ListTopLevel(ctx, "post-1")
	// newest first
	if roots[0].Text != "root 2" {
		t.Fatalf("expected newest root first, got %q", roots[0].Text)
	}

	parent := roots[1].ID
	_ = s.Create(ctx, Comment{Text: "reply", ContentID: "post-1", Parent: &parent})

	threaded, err := s.GetThreaded(ctx, "post-1")
	if err != nil {
		t.Fatalf("get threaded: %v", err)
	}
	if len(threaded) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(threaded))
	}
	var withReply *Comment
	for i := range threaded {
		if threaded[i].ID == parent {
			withReply = &threaded[i]
		}
	}
	if withReply == nil || len(withReply.Replies) != 1 {
		t.Fatal("expected the reply nested under its parent")
	}
	if withReply.Replies[0].Text != "reply" {
		t.Fatalf("expected reply text, got %q", withReply.Replies[0].Text)
	}
	// no recursion past the first reply level
	if len(withReply.Replies[0].Replies) != 0 {
		t.Fatal("expected reply to carry no nested replies")
	}
}

func TestMemoryCommentStore_TenantContentIsolation(t *testing.T) {
	s := NewMemoryCommentStore()
	ctx := context.Background()

	_ = s.Create(ctx, Comment{Text: "a", ContentID: "post-1"})
	_ = s.Create(ctx, Comment{Text: "b", ContentID: "post-2"})

	roots, _ := s.ListTopLevel(ctx, "post-1")
	if len(roots) != 1 || roots[0].Text != "a" {
		t.Fatalf("expected only post-1 comments, got %+v", roots)
	}
}

func TestGravatarHash_Normalization(t *testing.T) {
	a := GravatarHash("USER@Example.COM")
	b := GravatarHash("user@example.com")
	if a != b {
		t.Fatalf("expected identical digests, got %q and %q", a, b)
	}
	if len(a) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(a))
	}
}

func TestCommentStoreInterface(t *testing.T) {
	var _ CommentStore = (*MemoryCommentStore)(nil)
	var _ CommentStore = (*SQLiteCommentStore)(nil)
	var _ CommentStore = (*PostgresCommentStore)(nil)
}
