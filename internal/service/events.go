package service

import (
	"context"
	"time"

	commonredis "github.com/asleulv/vervekart/common/redis"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// StatusEvent is the record appended to the status event stream for every
// committed write. Consumers are outside this repo; the live broadcast
// service deliberately does not read it.
type StatusEvent struct {
	Lokalid   string
	Kommune   string
	Fylke     string
	OldStatus string
	NewStatus string
	UserName  string
	Action    string
}

// EventPublisher appends status changes to a Redis stream. A nil publisher is
// valid and publishes nothing, so the API runs unchanged without Redis.
type EventPublisher struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

func NewEventPublisher(client *redis.Client, stream string, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{client: client, stream: stream, logger: logger}
}

// PublishStatusChange is best effort: a stream failure is logged and never
// fails the write that triggered it.
func (p *EventPublisher) PublishStatusChange(ctx context.Context, ev StatusEvent) {
	if p == nil || p.client == nil {
		return
	}

	_, err := commonredis.PublishToStream(ctx, p.client, p.stream, map[string]interface{}{
		"lokalid":    ev.Lokalid,
		"kommune":    ev.Kommune,
		"fylke":      ev.Fylke,
		"old_status": ev.OldStatus,
		"new_status": ev.NewStatus,
		"user_name":  ev.UserName,
		"action":     ev.Action,
		"ts":         time.Now().Format(time.RFC3339),
	})
	if err != nil {
		p.logger.Warn("Failed to publish status event", zap.Error(err))
	}
}
