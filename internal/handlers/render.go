package handlers

import (
	"github.com/example/soudan/internal/store"
)

// commentView is the reader-facing shape of a comment. The email is replaced
// by its gravatar digest; contentId and parent stay internal.
type commentView struct {
	ID        int64         `json:"id"`
	Author    *string       `json:"author,omitempty"`
	Gravatar  *string       `json:"gravatar,omitempty"`
	Text      string        `json:"text"`
	Timestamp *int64        `json:"timestamp,omitempty"`
	Replies   []commentView `json:"replies,omitempty"`
}

func renderComments(comments []store.Comment) []commentView {
	out := make([]commentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, renderComment(c))
	}
	return out
}

func renderComment(c store.Comment) commentView {
	v := commentView{
		ID:     c.ID,
		Author: c.Author,
		Text:   c.Text,
	}
	if c.Email != nil {
		digest := store.GravatarHash(*c.Email)
		v.Gravatar = &digest
	}
	if c.Timestamp != nil {
		secs := c.Timestamp.Unix()
		v.Timestamp = &secs
	}
	for _, reply := range c.Replies {
		v.Replies = append(v.Replies, renderComment(reply))
	}
	return v
}
