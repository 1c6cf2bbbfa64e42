package library

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tempLibrary opens a fresh library in a temp directory, seeding the default
// admin account.
func tempLibrary(t *testing.T) *Library {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	lib, err := Open(cfg, testLogger())
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func tempBookStore(t *testing.T) *BookStore {
	t.Helper()
	s, err := NewBookStore(filepath.Join(t.TempDir(), "books.dat"), V1Codec{}, testLogger())
	if err != nil {
		t.Fatalf("new book store: %v", err)
	}
	return s
}

func TestAddAndFind(t *testing.T) {
	s := tempBookStore(t)
	if err := s.Add(1, "Dune", "Herbert"); err != nil {
		t.Fatalf("add: %v", err)
	}

	b, err := s.Find(1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if b.Title != "Dune" || b.Author != "Herbert" || b.Borrowed {
		t.Fatalf("unexpected book %+v", b)
	}

	if _, err := s.Find(99); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("want ErrBookNotFound, got %v", err)
	}
}

func TestAddDuplicateID(t *testing.T) {
	s := tempBookStore(t)
	if err := s.Add(1, "Dune", "Herbert"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(1, "Other", "Author"); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("want ErrDuplicateID, got %v", err)
	}
	if len(s.List()) != 1 {
		t.Fatalf("duplicate add must not grow the store")
	}
	b, _ := s.Find(1)
	if b.Title != "Dune" {
		t.Fatalf("duplicate add must not replace the record")
	}
}

func TestAddPrependsAndOrderSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.dat")

	s, err := NewBookStore(path, V1Codec{}, testLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for id := 1; id <= 3; id++ {
		if err := s.Add(id, "Book", "Author"); err != nil {
			t.Fatalf("add %d: %v", id, err)
		}
	}

	books := s.List()
	if books[0].ID != 3 || books[1].ID != 2 || books[2].ID != 1 {
		t.Fatalf("new books should be prepended, got order %d,%d,%d", books[0].ID, books[1].ID, books[2].ID)
	}

	reloaded, err := NewBookStore(path, V1Codec{}, testLogger())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := reloaded.List()
	if len(got) != 3 {
		t.Fatalf("want 3 books after reload, got %d", len(got))
	}
	for i := range books {
		if *got[i] != *books[i] {
			t.Fatalf("order or values changed across reload: %+v vs %+v", got[i], books[i])
		}
	}
}

func TestEditAndDeleteRefuseBorrowed(t *testing.T) {
	s := tempBookStore(t)
	if err := s.Add(1, "Dune", "Herbert"); err != nil {
		t.Fatalf("add: %v", err)
	}
	b, _ := s.Find(1)
	b.Borrowed = true

	if err := s.Edit(1, "New", "Name"); !errors.Is(err, ErrBookBorrowed) {
		t.Fatalf("edit borrowed: want ErrBookBorrowed, got %v", err)
	}
	if err := s.Delete(1); !errors.Is(err, ErrBookBorrowed) {
		t.Fatalf("delete borrowed: want ErrBookBorrowed, got %v", err)
	}
	if b.Title != "Dune" || b.Author != "Herbert" {
		t.Fatalf("refused edit must leave the record unchanged")
	}
}

func TestEditAndDelete(t *testing.T) {
	s := tempBookStore(t)
	s.Add(1, "Dune", "Herbert")
	s.Add(2, "Emma", "Austen")

	if err := s.Edit(1, "Dune Messiah", "Frank Herbert"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	b, _ := s.Find(1)
	if b.Title != "Dune Messiah" || b.Author != "Frank Herbert" {
		t.Fatalf("edit did not apply: %+v", b)
	}

	if err := s.Delete(2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Find(2); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("deleted book still found")
	}
	if err := s.Delete(2); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("deleting twice: want ErrBookNotFound, got %v", err)
	}
}

func TestCountAvailable(t *testing.T) {
	s := tempBookStore(t)
	s.Add(1, "A", "a")
	s.Add(2, "B", "b")
	s.Add(3, "C", "c")

	if got := s.CountAvailable(); got != 3 {
		t.Fatalf("want 3 available, got %d", got)
	}
	b, _ := s.Find(2)
	b.Borrowed = true
	if got := s.CountAvailable(); got != 2 {
		t.Fatalf("want 2 available, got %d", got)
	}
}

func TestAddRejectsOverlongFields(t *testing.T) {
	s := tempBookStore(t)
	long := make([]byte, MaxTitleLen+1)
	for i := range long {
		long[i] = 'x'
	}
	if err := s.Add(1, string(long), "Author"); !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("want ErrFieldTooLong, got %v", err)
	}
	if len(s.List()) != 0 {
		t.Fatalf("rejected add must not insert")
	}
}
