package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	cursorVersion    = "v1"
)

// Cursor is the opaque paging token handed to clients.
type Cursor struct {
	After string `json:"after,omitempty"`
}

// OrderPosition is the keyset a page of orders resumes after.
type OrderPosition struct {
	PlacedAt time.Time
	ID       uuid.UUID
}

// EncodeAfterCursor keeps microseconds, the precision PostgreSQL stores.
func EncodeAfterCursor(p OrderPosition) string {
	raw := cursorVersion + ":" + strconv.FormatInt(p.PlacedAt.UnixMicro(), 10) + "-" + p.ID.String()
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// DecodeAfterCursor parses a token from EncodeAfterCursor. Every failure
// wraps ErrInvalidCursor.
func DecodeAfterCursor(cursor string) (OrderPosition, error) {
	if cursor == "" {
		return invalidCursor("empty")
	}
	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return invalidCursor("not base64url")
	}

	payload, ok := strings.CutPrefix(string(decoded), cursorVersion+":")
	if !ok {
		return invalidCursor("unsupported version")
	}
	micros, rawID, ok := strings.Cut(payload, "-")
	if !ok {
		return invalidCursor("missing separator")
	}

	ts, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return invalidCursor("bad timestamp")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return invalidCursor("bad id")
	}
	return OrderPosition{PlacedAt: time.UnixMicro(ts), ID: id}, nil
}

func invalidCursor(reason string) (OrderPosition, error) {
	return OrderPosition{}, fmt.Errorf("%w: %s", ErrInvalidCursor, reason)
}

// ValidateLimit maps non-positive values to the default and caps the rest.
func ValidateLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
