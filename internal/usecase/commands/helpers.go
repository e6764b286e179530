package commands

import (
	"context"
	"log/slog"

	"campus-market/internal/infra"
	"campus-market/internal/pkg/errs"
	"campus-market/internal/usecase/shared"
)

var ErrConcurrentUpdate = errs.Kind("record was modified by another request, retry", errs.ErrConflict)

// repoErr maps repository failures onto the domain taxonomy. notFound is
// returned for a missing row; stale writes become ErrConcurrentUpdate.
func repoErr(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && infra.IsKind(err, infra.KindNotFound):
		return notFound
	case infra.IsKind(err, infra.KindStaleWrite):
		return ErrConcurrentUpdate
	default:
		return err
	}
}

// createErr is repoErr for inserts guarded by a unique index.
func createErr(err, duplicate error) error {
	if err != nil && duplicate != nil && infra.IsKind(err, infra.KindDuplicateKey) {
		return duplicate
	}
	return repoErr(err, nil)
}

// logInconsistency records the aggregate state when a state machine invariant
// was found broken. The error itself still aborts the transaction.
func logInconsistency(ctx context.Context, err error, op string, state slog.LogValuer) {
	if !errs.Is(err, errs.ErrInternalInconsistency) {
		return
	}
	slog.ErrorContext(ctx, "internal inconsistency",
		slog.String("operation", op),
		slog.String("error", err.Error()),
		slog.Any("state", state),
		slog.Any("stack", errs.ExtractStackLines(err, 10)),
	)
}

// notifier wraps a shared.Notifier so delivery failures never reach the caller.
type notifier struct {
	n shared.Notifier
}

func (n notifier) send(ctx context.Context, msgs ...shared.Message) {
	if n.n == nil {
		return
	}
	for _, msg := range msgs {
		if err := n.n.Notify(ctx, msg); err != nil {
			slog.WarnContext(ctx, "notification delivery failed",
				slog.String("event", string(msg.Event)),
				slog.String("recipient_id", msg.RecipientID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}
