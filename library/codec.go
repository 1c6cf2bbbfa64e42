package library

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
)

// Codec serializes a store's in-memory list to its backing file and reads it
// back. Both directions preserve record values and list order exactly, so
// save-then-load is the identity on any valid store state.
type Codec interface {
	WriteBooks(path string, books []*Book) error
	ReadBooks(path string) ([]*Book, error)
	WriteUsers(path string, users []*User) error
	ReadUsers(path string) ([]*User, error)
	WriteLoans(path string, loans []*Loan) error
	ReadLoans(path string) ([]*Loan, error)
}

var (
	ErrBadHeader       = errors.New("codec: file header is not a record file")
	ErrTruncatedRecord = errors.New("codec: truncated record")
)

// V1Codec is the default file format: a 4-byte magic, one format-version
// byte, then each record framed as a little-endian uint32 length followed by
// its JSON payload. Explicit and versioned, unlike the fixed-width struct
// dumps it replaces (see LegacyCodec).
type V1Codec struct{}

const (
	v1Magic   = "LTRK"
	v1Version = 1

	// Guards against nonsense lengths when reading a damaged file.
	v1MaxRecordSize = 1 << 20
)

var fastJSON = jsoniter.ConfigFastest

func (V1Codec) WriteBooks(path string, books []*Book) error {
	return writeV1File(path, books)
}

func (V1Codec) ReadBooks(path string) ([]*Book, error) {
	return readV1File[*Book](path)
}

func (V1Codec) WriteUsers(path string, users []*User) error {
	return writeV1File(path, users)
}

func (V1Codec) ReadUsers(path string) ([]*User, error) {
	return readV1File[*User](path)
}

func (V1Codec) WriteLoans(path string, loans []*Loan) error {
	return writeV1File(path, loans)
}

func (V1Codec) ReadLoans(path string) ([]*Loan, error) {
	return readV1File[*Loan](path)
}

func writeV1File[T any](path string, records []T) error {
	buf := make([]byte, 0, 256)
	buf = append(buf, v1Magic...)
	buf = append(buf, v1Version)
	for _, rec := range records {
		payload, err := fastJSON.Marshal(rec)
		if err != nil {
			return fmt.Errorf("codec: marshal record: %w", err)
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(payload)))
		buf = append(buf, payload...)
	}
	return writeFileAtomic(path, buf)
}

func readV1File[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < len(v1Magic)+1 || string(data[:len(v1Magic)]) != v1Magic {
		return nil, ErrBadHeader
	}
	if data[len(v1Magic)] != v1Version {
		return nil, fmt.Errorf("codec: unsupported format version %d", data[len(v1Magic)])
	}

	var records []T
	rest := data[len(v1Magic)+1:]
	for len(rest) > 0 {
		if len(rest) < 4 {
			return nil, ErrTruncatedRecord
		}
		size := binary.LittleEndian.Uint32(rest[:4])
		rest = rest[4:]
		if size > v1MaxRecordSize || int(size) > len(rest) {
			return nil, ErrTruncatedRecord
		}
		var rec T
		if err := fastJSON.Unmarshal(rest[:size], &rec); err != nil {
			return nil, fmt.Errorf("codec: unmarshal record: %w", err)
		}
		records = append(records, rec)
		rest = rest[size:]
	}
	return records, nil
}

// writeFileAtomic writes to a sibling temp file and renames it into place, so
// a crash mid-write never leaves a half-written store file behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// readFull fills buf from r, reporting ErrTruncatedRecord if the stream ends
// partway through. Shared by the legacy codec's fixed-width reader.
func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncatedRecord
		}
		return err
	}
	return nil
}
