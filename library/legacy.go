package library

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
)

// LegacyCodec reads and writes the original fixed-width record files: no
// header, each record the struct's fields in declared order, ints as
// little-endian int32, flags as one byte, text NUL-padded to its maximum
// width. Kept for byte compatibility with files produced by the old system;
// new deployments should use V1Codec. Text longer than its field width is
// truncated on write, which is inherent to the format.
type LegacyCodec struct{}

const (
	legacyBookSize = 4 + MaxTitleLen + MaxAuthorLen + 1
	legacyUserSize = 4 + MaxUsernameLen + MaxPasswordLen + MaxNameLen + 1 + 4 + 4
	legacyLoanSize = 4 + 4 + MaxDueLen
)

func (LegacyCodec) WriteBooks(path string, books []*Book) error {
	buf := make([]byte, 0, len(books)*legacyBookSize)
	for _, b := range books {
		buf = appendInt32(buf, b.ID)
		buf = appendPadded(buf, b.Title, MaxTitleLen)
		buf = appendPadded(buf, b.Author, MaxAuthorLen)
		buf = appendBool(buf, b.Borrowed)
	}
	return writeFileAtomic(path, buf)
}

func (LegacyCodec) ReadBooks(path string) ([]*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var books []*Book
	r := bufio.NewReader(f)
	rec := make([]byte, legacyBookSize)
	for {
		if err := readFull(r, rec); err != nil {
			if errors.Is(err, io.EOF) {
				return books, nil
			}
			return nil, err
		}
		books = append(books, &Book{
			ID:       readInt32(rec[0:4]),
			Title:    readPadded(rec[4 : 4+MaxTitleLen]),
			Author:   readPadded(rec[4+MaxTitleLen : 4+MaxTitleLen+MaxAuthorLen]),
			Borrowed: rec[legacyBookSize-1] != 0,
		})
	}
}

func (LegacyCodec) WriteUsers(path string, users []*User) error {
	buf := make([]byte, 0, len(users)*legacyUserSize)
	for _, u := range users {
		buf = appendInt32(buf, u.ID)
		buf = appendPadded(buf, u.Username, MaxUsernameLen)
		buf = appendPadded(buf, u.Password, MaxPasswordLen)
		buf = appendPadded(buf, u.Name, MaxNameLen)
		buf = appendBool(buf, u.Role == RoleFaculty)
		buf = appendInt32(buf, u.Limit)
		buf = appendInt32(buf, u.Borrowed)
	}
	return writeFileAtomic(path, buf)
}

func (LegacyCodec) ReadUsers(path string) ([]*User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var users []*User
	r := bufio.NewReader(f)
	rec := make([]byte, legacyUserSize)
	for {
		if err := readFull(r, rec); err != nil {
			if errors.Is(err, io.EOF) {
				return users, nil
			}
			return nil, err
		}
		off := 4
		u := &User{ID: readInt32(rec[0:4])}
		u.Username = readPadded(rec[off : off+MaxUsernameLen])
		off += MaxUsernameLen
		u.Password = readPadded(rec[off : off+MaxPasswordLen])
		off += MaxPasswordLen
		u.Name = readPadded(rec[off : off+MaxNameLen])
		off += MaxNameLen
		if rec[off] != 0 {
			u.Role = RoleFaculty
		}
		off++
		u.Limit = readInt32(rec[off : off+4])
		u.Borrowed = readInt32(rec[off+4 : off+8])
		users = append(users, u)
	}
}

func (LegacyCodec) WriteLoans(path string, loans []*Loan) error {
	buf := make([]byte, 0, len(loans)*legacyLoanSize)
	for _, l := range loans {
		buf = appendInt32(buf, l.BookID)
		buf = appendInt32(buf, l.UserID)
		buf = appendPadded(buf, l.Due, MaxDueLen)
	}
	return writeFileAtomic(path, buf)
}

func (LegacyCodec) ReadLoans(path string) ([]*Loan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var loans []*Loan
	r := bufio.NewReader(f)
	rec := make([]byte, legacyLoanSize)
	for {
		if err := readFull(r, rec); err != nil {
			if errors.Is(err, io.EOF) {
				return loans, nil
			}
			return nil, err
		}
		loans = append(loans, &Loan{
			BookID: readInt32(rec[0:4]),
			UserID: readInt32(rec[4:8]),
			Due:    readPadded(rec[8 : 8+MaxDueLen]),
		})
	}
}

func appendInt32(buf []byte, v int) []byte {
	return binary.LittleEndian.AppendUint32(buf, uint32(int32(v)))
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func appendPadded(buf []byte, s string, width int) []byte {
	if len(s) > width {
		s = s[:width]
	}
	buf = append(buf, s...)
	for i := len(s); i < width; i++ {
		buf = append(buf, 0)
	}
	return buf
}

func readInt32(b []byte) int {
	return int(int32(binary.LittleEndian.Uint32(b)))
}

func readPadded(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
