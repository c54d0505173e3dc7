package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"redirector/internal/domain/models"

	"github.com/9ssi7/nanoid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DefaultRecent is how many entries the panel lists.
const DefaultRecent = 20

// ErrClosed is returned by Record after Close.
var ErrClosed = errors.New("journal closed")

// Journal - the activity journal.
type Journal interface {
	Record(ctx context.Context, e models.JournalEntry) error
	// Recent returns at most limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]models.JournalEntry, error)
	Ping() error
	Close() error
}

// prepareEntry fills in the ID and time of a new entry.
func prepareEntry(e models.JournalEntry) models.JournalEntry {
	if e.ID == "" {
		e.ID = newEntryID()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	return e
}

func newEntryID() string {
	id, err := nanoid.New()
	if err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return id
}

// newest returns the last limit entries of an append-ordered slice, newest first.
func newest(entries []models.JournalEntry, limit int) []models.JournalEntry {
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	out := make([]models.JournalEntry, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out
}
