package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// Outbox implements ports.Notifier by queueing messages on a Redis list
// that a downstream SMS worker drains. The pool and tag name the outbound
// endpoint, mirroring the transport's routing configuration.
type Outbox struct {
	client *backend.Client
	pool   string
	tag    string
}

// NewOutbox creates a notifier queueing onto the given pool/tag endpoint.
func NewOutbox(client *backend.Client, pool, tag string) *Outbox {
	return &Outbox{client: client, pool: pool, tag: tag}
}

// outboundMessage is the wire format the SMS worker consumes.
type outboundMessage struct {
	ToAddr   string `json:"to_addr"`
	Content  string `json:"content"`
	Tag      string `json:"tag"`
	QueuedAt int64  `json:"queued_at"`
}

func (o *Outbox) queueKey() string {
	return "switchboard:outbox:" + o.pool
}

// Send queues the notification and reports acceptance.
func (o *Outbox) Send(ctx context.Context, identity, text string) (bool, error) {
	msg, err := json.Marshal(outboundMessage{
		ToAddr:   identity,
		Content:  text,
		Tag:      o.tag,
		QueuedAt: time.Now().Unix(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to encode outbound message: %w", err)
	}
	if err := o.client.LPush(ctx, o.queueKey(), msg).Err(); err != nil {
		return false, fmt.Errorf("failed to queue outbound message: %w", err)
	}
	return true, nil
}
