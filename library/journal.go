package library

import (
	"bufio"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// Circulation event types recorded in the journal.
const (
	EventBookBorrowed = "BookBorrowed"
	EventBookReturned = "BookReturned"
)

// JournalEntry is one committed circulation event: an id, what happened,
// when, and to whom.
type JournalEntry struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	BookID     int       `json:"book_id"`
	UserID     int       `json:"user_id"`
	Due        string    `json:"due,omitempty"`
}

// Journal is an append-only audit log of circulation events, one JSON
// envelope per line. It is never replayed into the stores; its job is to
// leave a durable trail a librarian can reconcile against if a crash between
// store flushes ever leaves the files inconsistent.
type Journal struct {
	path string
	log  *slog.Logger
}

func NewJournal(path string, logger *slog.Logger) *Journal {
	return &Journal{path: path, log: logger}
}

// Record appends an event. The transaction it describes has already been
// committed, so a journal write failure is logged and swallowed rather than
// failing the caller. Safe to call on a nil journal.
func (j *Journal) Record(eventType string, bookID, userID int, due string) {
	if j == nil {
		return
	}
	entry := JournalEntry{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		BookID:     bookID,
		UserID:     userID,
		Due:        due,
	}
	line, err := fastJSON.Marshal(entry)
	if err != nil {
		j.log.Warn("journal marshal failed", "error", err)
		return
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		j.log.Warn("journal append failed", "path", j.path, "error", err)
		return
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		j.log.Warn("journal append failed", "path", j.path, "error", err)
	}
}

// History reads back all recorded events, oldest first. A missing journal
// file is an empty history.
func (j *Journal) History() ([]JournalEntry, error) {
	if j == nil {
		return nil, nil
	}
	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Op: "read", Path: j.path, Err: err}
	}
	defer f.Close()

	var entries []JournalEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var entry JournalEntry
		if err := fastJSON.Unmarshal(scanner.Bytes(), &entry); err != nil {
			// A torn final line can happen if the process died mid-append.
			j.log.Warn("skipping unparsable journal line", "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, &StorageError{Op: "read", Path: j.path, Err: err}
	}
	return entries, nil
}
