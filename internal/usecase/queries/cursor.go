package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"campus-market/internal/pkg/errs"
	"campus-market/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
	CursorVersionV1  = "v1"
)

var ErrInvalidCursor = errs.Kind("invalid pagination cursor", errs.ErrValidation)

type Cursor struct {
	After string `json:"after,omitempty"`
}

// Uses microsecond precision to align with PostgreSQL timestamp precision
func EncodeAfterCursor(t time.Time, id uuid.UUID) string {
	cursorData := fmt.Sprintf("%s:%d-%s", CursorVersionV1, t.UnixMicro(), id.String())
	return base64.URLEncoding.EncodeToString([]byte(cursorData))
}

func DecodeAfterCursor(cursor string) (time.Time, uuid.UUID, error) {
	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(errs.Wrap(err, "decode cursor"), ErrInvalidCursor)
	}
	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return time.Time{}, uuid.Nil, ErrInvalidCursor
	}

	micros, rawID, ok := strings.Cut(payload, "-")
	if !ok {
		return time.Time{}, uuid.Nil, ErrInvalidCursor
	}
	timestamp, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(errs.Wrap(err, "parse cursor timestamp"), ErrInvalidCursor)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(errs.Wrap(err, "parse cursor id"), ErrInvalidCursor)
	}
	return time.UnixMicro(timestamp).UTC(), id, nil
}

// PageFrom turns an optional cursor and requested limit into a repository page.
// It asks for one extra row so the caller can tell whether another page exists.
func PageFrom(cursor *Cursor, limit int) (shared.Page, int, error) {
	limit = ValidateLimit(limit)
	page := shared.Page{Limit: limit + 1}
	if cursor == nil || cursor.After == "" {
		return page, limit, nil
	}
	t, id, err := DecodeAfterCursor(cursor.After)
	if err != nil {
		return shared.Page{}, 0, err
	}
	page.After = &shared.Keyset{CreatedAt: t, ID: id}
	return page, limit, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
