package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"campus-market/internal/pkg/errs"
	"campus-market/internal/usecase/shared"

	"github.com/hibiken/asynq"
)

// TaskDeliver is the asynq task type consumed by the delivery workers.
const TaskDeliver = "notification:deliver"

const maxRetry = 5

type taskPayload struct {
	shared.Message
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// AsynqNotifier enqueues one task per message on a Redis-backed queue.
type AsynqNotifier struct {
	client *asynq.Client
	queue  string
}

func NewAsynqNotifier(client *asynq.Client, queue string) *AsynqNotifier {
	return &AsynqNotifier{client: client, queue: queue}
}

func (n *AsynqNotifier) Notify(ctx context.Context, msg shared.Message) error {
	task, err := newTask(msg, time.Now())
	if err != nil {
		return err
	}
	info, err := n.client.EnqueueContext(ctx, task, asynq.Queue(n.queue), asynq.MaxRetry(maxRetry))
	if err != nil {
		return errs.Wrapf(err, "enqueue %s", msg.Event)
	}
	slog.DebugContext(ctx, "notification enqueued",
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue),
		slog.String("event", string(msg.Event)),
	)
	return nil
}

func newTask(msg shared.Message, now time.Time) (*asynq.Task, error) {
	b, err := json.Marshal(taskPayload{Message: msg, EnqueuedAt: now})
	if err != nil {
		return nil, errs.Wrap(err, "encode notification")
	}
	return asynq.NewTask(TaskDeliver, b), nil
}

// LogNotifier writes messages to the log. It is used when no queue is configured.
type LogNotifier struct {
	slogger *slog.Logger
}

func NewLogNotifier(slogger *slog.Logger) *LogNotifier {
	return &LogNotifier{slogger: slogger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg shared.Message) error {
	n.slogger.InfoContext(ctx, "notification",
		slog.String("event", string(msg.Event)),
		slog.String("recipient_id", msg.RecipientID.String()),
		slog.Any("payload", msg.Payload),
	)
	return nil
}
