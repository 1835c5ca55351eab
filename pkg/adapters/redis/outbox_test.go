package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutbox_Send(t *testing.T) {
	mr, client := newTestClient(t)
	outbox := NewOutbox(client, "sms-pool", "registration")

	ok, err := outbox.Send(context.Background(), "+255700000001", "Thank you for registering")
	require.NoError(t, err)
	assert.True(t, ok)

	queued, err := mr.List("switchboard:outbox:sms-pool")
	require.NoError(t, err)
	require.Len(t, queued, 1)

	var msg map[string]any
	require.NoError(t, json.Unmarshal([]byte(queued[0]), &msg))
	assert.Equal(t, "+255700000001", msg["to_addr"])
	assert.Equal(t, "Thank you for registering", msg["content"])
	assert.Equal(t, "registration", msg["tag"])
	assert.NotZero(t, msg["queued_at"])
}

func TestOutbox_QueueOrder(t *testing.T) {
	mr, client := newTestClient(t)
	outbox := NewOutbox(client, "sms-pool", "registration")
	ctx := context.Background()

	_, err := outbox.Send(ctx, "111", "first")
	require.NoError(t, err)
	_, err = outbox.Send(ctx, "222", "second")
	require.NoError(t, err)

	// LPUSH prepends, so the worker draining from the tail sees oldest first.
	queued, err := mr.List("switchboard:outbox:sms-pool")
	require.NoError(t, err)
	require.Len(t, queued, 2)
	assert.Contains(t, queued[0], `"content":"second"`)
	assert.Contains(t, queued[1], `"content":"first"`)
}
