package library

import (
	"fmt"
	"log/slog"
	"os"
)

// Library is the composition root: it owns the three stores, the ledger, the
// session, and the journal, and is the only surface the dispatcher talks to.
// Everything is loaded once at startup and flushed again on Close; in
// between, the stores flush themselves after every successful mutation.
type Library struct {
	Books   *BookStore
	Users   *UserStore
	Ledger  *BorrowLedger
	Session *Session

	journal *Journal
	log     *slog.Logger
}

// Open loads all stores from the configured data directory, creating it and
// seeding the default admin account on first run.
func Open(cfg Config, logger *slog.Logger) (*Library, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	codec := cfg.Codec()

	books, err := NewBookStore(cfg.booksPath(), codec, logger)
	if err != nil {
		return nil, err
	}
	users, err := NewUserStore(cfg.usersPath(), codec, logger)
	if err != nil {
		return nil, err
	}
	journal := NewJournal(cfg.journalPath(), logger)
	ledger, err := NewBorrowLedger(cfg.loansPath(), codec, books, users, journal, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("library opened",
		"data_dir", cfg.DataDir,
		"format", cfg.Format,
		"books", len(books.List()),
		"users", len(users.List()),
		"loans", len(ledger.Loans()))

	return &Library{
		Books:   books,
		Users:   users,
		Ledger:  ledger,
		Session: NewSession(users),
		journal: journal,
		log:     logger,
	}, nil
}

// Close flushes every store one final time before the process exits.
func (l *Library) Close() error {
	for _, flush := range []func() error{l.Users.Flush, l.Books.Flush, l.Ledger.Flush} {
		if err := flush(); err != nil {
			return err
		}
	}
	return nil
}

// History returns the recorded circulation events, oldest first.
func (l *Library) History() ([]JournalEntry, error) {
	return l.journal.History()
}
