//go:build unit

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"campus-market/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	msg := shared.Message{
		RecipientID: uuid.New(),
		Event:       shared.EventErrandClaimed,
		Payload:     map[string]any{"errand_id": "e-1"},
	}

	task, err := newTask(msg, now)
	require.NoError(t, err)
	assert.Equal(t, TaskDeliver, task.Type())

	var got taskPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, msg.RecipientID, got.RecipientID)
	assert.Equal(t, msg.Event, got.Event)
	assert.Equal(t, "e-1", got.Payload["errand_id"])
	assert.True(t, now.Equal(got.EnqueuedAt))
}

func TestNewTask_UnencodablePayload(t *testing.T) {
	_, err := newTask(shared.Message{Payload: map[string]any{"bad": make(chan int)}}, time.Now())
	require.Error(t, err)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, n.Notify(context.Background(), shared.Message{
		RecipientID: uuid.New(),
		Event:       shared.EventMatchPaid,
	}))
	assert.Contains(t, buf.String(), `"event":"match.paid"`)
}
