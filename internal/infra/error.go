package infra

import (
	"errors"
	"log/slog"

	"campus-market/internal/pkg/errs"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind       RepositoryErrorKind
	Constraint string
	msg        string
	err        error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

func WrapRepoErr(slogger *slog.Logger, kind RepositoryErrorKind, msg string, err error) error {
	logArgs := []any{
		slog.String("kind", string(kind)),
	}
	if err != nil {
		logArgs = append(logArgs, slog.String("error", err.Error()))
	}

	// Expected outcomes of optimistic writes are not failures of the store.
	switch kind {
	case KindNotFound, KindStaleWrite, KindDuplicateKey:
		slogger.Debug("Repository error: "+msg, logArgs...)
	default:
		slogger.Error("Repository error: "+msg, logArgs...)
	}

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: kind, msg: msg, err: err}
}

// ClassifyPgError turns a pgx error into a RepositoryError, recognising
// missing rows and constraint violations.
func ClassifyPgError(slogger *slog.Logger, msg string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return WrapRepoErr(slogger, KindNotFound, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			wrapped := WrapRepoErr(slogger, KindDuplicateKey, msg, err).(RepositoryError)
			wrapped.Constraint = pgErr.ConstraintName
			return wrapped
		case pgerrcode.ForeignKeyViolation:
			wrapped := WrapRepoErr(slogger, KindForeignKeyViolated, msg, err).(RepositoryError)
			wrapped.Constraint = pgErr.ConstraintName
			return wrapped
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			// Left untouched so the unit of work can retry.
			return err
		}
	}
	return WrapRepoErr(slogger, KindDBFailure, msg, err)
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindStaleWrite         RepositoryErrorKind = "STALE_WRITE"
)
