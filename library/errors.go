package library

import (
	"errors"
	"fmt"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateID        = errors.New("a book with this id already exists")
	ErrBookBorrowed       = errors.New("book is currently borrowed")
	ErrAlreadyBorrowed    = errors.New("book is already borrowed")
	ErrNotBorrowedByUser  = errors.New("book is not borrowed by this user")
	ErrQuotaExceeded      = errors.New("borrow limit reached")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrFieldTooLong       = errors.New("field exceeds maximum length")
	ErrNotLoggedIn        = errors.New("no user is logged in")
)

// StorageError reports that a store file could not be read or written. A
// failed write means the in-memory and on-disk states may have diverged, so
// it is always surfaced to the caller rather than swallowed.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
