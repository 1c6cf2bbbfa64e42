package library

import (
	"log/slog"
	"os"
	"slices"
)

// BookStore holds the in-memory book list and its backing file. Every
// mutating operation flushes the full list to disk before reporting success;
// the process may exit at any time, so an unflushed mutation is a lost one.
//
// The list keeps insertion order (new books go to the front, as the original
// system did) and that order is exactly the file order, so save/load
// round-trips reproduce the store verbatim. An id index sits alongside the
// list to make lookups O(1).
type BookStore struct {
	path  string
	codec Codec
	log   *slog.Logger

	books []*Book
	index map[int]*Book
}

// NewBookStore loads the store from path. A missing file is an empty store,
// not an error.
func NewBookStore(path string, codec Codec, logger *slog.Logger) (*BookStore, error) {
	s := &BookStore{
		path:  path,
		codec: codec,
		log:   logger,
		index: make(map[int]*Book),
	}

	books, err := codec.ReadBooks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}
	s.books = books
	for _, b := range books {
		s.index[b.ID] = b
	}
	return s, nil
}

// Add inserts a new book at the front of the list with Borrowed unset.
// Fails with ErrDuplicateID if the id is already present, and with
// ErrFieldTooLong rather than silently truncating overlong text.
func (s *BookStore) Add(id int, title, author string) error {
	if err := validateText("title", title, MaxTitleLen); err != nil {
		return err
	}
	if err := validateText("author", author, MaxAuthorLen); err != nil {
		return err
	}
	if _, ok := s.index[id]; ok {
		return ErrDuplicateID
	}

	b := &Book{ID: id, Title: title, Author: author}
	s.books = append([]*Book{b}, s.books...)
	s.index[id] = b

	if err := s.Flush(); err != nil {
		s.books = s.books[1:]
		delete(s.index, id)
		return err
	}
	s.log.Debug("book added", "id", id, "title", title)
	return nil
}

// Find returns the book with the given id, or ErrBookNotFound.
func (s *BookStore) Find(id int) (*Book, error) {
	b, ok := s.index[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	return b, nil
}

// Edit replaces a book's title and author. Refused while the book is
// borrowed, so the record a borrower saw cannot change under them.
func (s *BookStore) Edit(id int, title, author string) error {
	if err := validateText("title", title, MaxTitleLen); err != nil {
		return err
	}
	if err := validateText("author", author, MaxAuthorLen); err != nil {
		return err
	}
	b, ok := s.index[id]
	if !ok {
		return ErrBookNotFound
	}
	if b.Borrowed {
		return ErrBookBorrowed
	}

	prevTitle, prevAuthor := b.Title, b.Author
	b.Title, b.Author = title, author
	if err := s.Flush(); err != nil {
		b.Title, b.Author = prevTitle, prevAuthor
		return err
	}
	s.log.Debug("book edited", "id", id)
	return nil
}

// Delete unlinks a book from the store. Refused while borrowed.
func (s *BookStore) Delete(id int) error {
	b, ok := s.index[id]
	if !ok {
		return ErrBookNotFound
	}
	if b.Borrowed {
		return ErrBookBorrowed
	}

	pos := slices.Index(s.books, b)
	s.books = slices.Delete(s.books, pos, pos+1)
	delete(s.index, id)

	if err := s.Flush(); err != nil {
		s.books = slices.Insert(s.books, pos, b)
		s.index[id] = b
		return err
	}
	s.log.Debug("book deleted", "id", id)
	return nil
}

// List returns the books in store order. The slice is a snapshot; the
// records themselves are the store's own.
func (s *BookStore) List() []*Book {
	return slices.Clone(s.books)
}

// CountAvailable reports how many books are not currently borrowed.
func (s *BookStore) CountAvailable() int {
	count := 0
	for _, b := range s.books {
		if !b.Borrowed {
			count++
		}
	}
	return count
}

// Flush writes the full list to the backing file.
func (s *BookStore) Flush() error {
	if err := s.codec.WriteBooks(s.path, s.books); err != nil {
		s.log.Error("book store flush failed", "path", s.path, "error", err)
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}
