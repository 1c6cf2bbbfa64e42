package library

import (
	"log/slog"
	"os"
	"slices"
)

// BorrowLedger holds the active loans and runs the borrow/return transaction
// across the three stores. It is the only code that touches a user's borrow
// count, and each successful transaction flushes users, books, and loans in
// that order.
//
// Atomicity across the three files is NOT guaranteed: a crash between
// flushes can leave the stores inconsistent. That limitation is accepted and
// documented rather than papered over; the circulation journal records every
// committed transaction so an operator can reconcile by hand.
type BorrowLedger struct {
	path  string
	codec Codec
	log   *slog.Logger

	books   *BookStore
	users   *UserStore
	journal *Journal

	loans []*Loan
}

// NewBorrowLedger loads the ledger from path. A missing file is an empty
// ledger. The journal is optional; nil disables audit logging.
func NewBorrowLedger(path string, codec Codec, books *BookStore, users *UserStore, journal *Journal, logger *slog.Logger) (*BorrowLedger, error) {
	l := &BorrowLedger{
		path:    path,
		codec:   codec,
		log:     logger,
		books:   books,
		users:   users,
		journal: journal,
	}

	loans, err := codec.ReadLoans(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}
	l.loans = loans
	return l, nil
}

// Borrow checks the book out to the user until due. The user's quota is
// checked first, then the book's state; on success the book is flagged
// borrowed, the user's count is incremented, and a loan record is appended.
// A book with its borrowed flag already set fails with ErrAlreadyBorrowed —
// at most one active loan exists per book.
func (l *BorrowLedger) Borrow(userID, bookID int, due string) error {
	if err := validateText("due date", due, MaxDueLen); err != nil {
		return err
	}

	user, err := l.users.FindByID(userID)
	if err != nil {
		return err
	}
	if user.Borrowed >= user.Limit {
		return ErrQuotaExceeded
	}

	book, err := l.books.Find(bookID)
	if err != nil {
		return err
	}
	if book.Borrowed {
		return ErrAlreadyBorrowed
	}

	book.Borrowed = true
	user.Borrowed++
	l.loans = append(l.loans, &Loan{BookID: bookID, UserID: userID, Due: due})

	if err := l.flushAll(); err != nil {
		return err
	}
	l.log.Info("book borrowed", "book", bookID, "user", userID, "due", due)
	l.journal.Record(EventBookBorrowed, bookID, userID, due)
	return nil
}

// Return ends the loan of bookID held by userID. Only the user named on the
// matching loan record can return the book; a loan held by someone else is
// not a match. Returning an available book fails with ErrNotBorrowedByUser
// rather than being silently ignored.
func (l *BorrowLedger) Return(userID, bookID int) error {
	book, err := l.books.Find(bookID)
	if err != nil {
		return err
	}

	pos := slices.IndexFunc(l.loans, func(loan *Loan) bool {
		return loan.BookID == bookID && loan.UserID == userID
	})
	if pos < 0 {
		return ErrNotBorrowedByUser
	}
	loan := l.loans[pos]

	book.Borrowed = false
	if user, err := l.users.FindByID(loan.UserID); err == nil {
		if user.Borrowed > 0 {
			user.Borrowed--
		}
	} else {
		// Loan referenced a user that no longer resolves; nothing to
		// decrement, but the loan itself still comes off the ledger.
		l.log.Warn("loan references unknown user", "book", bookID, "user", loan.UserID)
	}
	l.loans = slices.Delete(l.loans, pos, pos+1)

	if err := l.flushAll(); err != nil {
		return err
	}
	l.log.Info("book returned", "book", bookID, "user", userID)
	l.journal.Record(EventBookReturned, bookID, userID, "")
	return nil
}

// ListForUser returns the user's active loans joined with their books, in
// ledger order. A loan whose book no longer resolves is skipped; that cannot
// happen while the invariants hold, but the scan tolerates it.
func (l *BorrowLedger) ListForUser(userID int) []LoanDetail {
	var details []LoanDetail
	for _, loan := range l.loans {
		if loan.UserID != userID {
			continue
		}
		book, err := l.books.Find(loan.BookID)
		if err != nil {
			continue
		}
		details = append(details, LoanDetail{Book: book, Due: loan.Due})
	}
	return details
}

// Loans returns the active loan records in ledger order.
func (l *BorrowLedger) Loans() []*Loan {
	return slices.Clone(l.loans)
}

func (l *BorrowLedger) flushAll() error {
	if err := l.users.Flush(); err != nil {
		return err
	}
	if err := l.books.Flush(); err != nil {
		return err
	}
	return l.Flush()
}

// Flush writes the loan list to the backing file.
func (l *BorrowLedger) Flush() error {
	if err := l.codec.WriteLoans(l.path, l.loans); err != nil {
		l.log.Error("ledger flush failed", "path", l.path, "error", err)
		return &StorageError{Op: "write", Path: l.path, Err: err}
	}
	return nil
}
