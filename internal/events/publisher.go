// Package events publishes comment lifecycle events to NATS for downstream
// consumers (moderation queues, notification senders).
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const SubjectCommentCreated = "soudan.comment.created"

// Event is the envelope sent on every soudan.* subject.
type Event struct {
	EventID    string         `json:"event_id"`
	EventName  string         `json:"event_name"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Publisher publishes events to NATS JetStream, fire-and-forget.
// A nil Publisher or nil JetStream context is a safe no-op, so the broker
// stays optional at runtime.
type Publisher struct {
	js  nats.JetStreamContext
	log *zap.Logger
}

func New(js nats.JetStreamContext, log *zap.Logger) *Publisher {
	return &Publisher{js: js, log: log}
}

// CommentCreated announces a committed comment. Only grouping metadata goes
// on the wire; comment text and email never leave the store this way.
func (p *Publisher) CommentCreated(origin, contentID string, reply bool) {
	p.publish(SubjectCommentCreated, "comment.created", map[string]any{
		"origin":     origin,
		"content_id": contentID,
		"reply":      reply,
	})
}

func (p *Publisher) publish(subject, name string, props map[string]any) {
	if p == nil || p.js == nil {
		return
	}
	ev := Event{
		EventID:    uuid.NewString(),
		EventName:  name,
		OccurredAt: time.Now().UTC(),
		Properties: props,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("events: marshal failed", zap.String("event", name), zap.Error(err))
		return
	}
	if _, err := p.js.PublishAsync(subject, data); err != nil {
		p.log.Warn("events: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
