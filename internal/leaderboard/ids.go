package leaderboard

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// dateLayout is the YYYY-MM-DD form stored on every entry
const dateLayout = "2006-01-02"

// GenerateEntryID returns an opaque, unique entry identifier.
// UUIDv7 ids carry a millisecond timestamp plus a monotonic sequence, so ids
// generated within the same millisecond still differ and sort in creation order.
func GenerateEntryID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate entry id: %w", err)
	}
	return id.String(), nil
}

// DateOf returns the calendar day of t in the server's local timezone
func DateOf(t time.Time) string {
	return t.In(time.Local).Format(dateLayout)
}

// CurrentDate returns today's date as YYYY-MM-DD
func CurrentDate() string {
	return DateOf(time.Now())
}
