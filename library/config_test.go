package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigWritesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	// First run materializes an editable config file.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config was not written: %v", err)
	}

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfigParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")
	content := "data_dir: /var/lib/tracker\nbooks_file: inventory.dat\nformat: legacy\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/tracker", cfg.DataDir)
	assert.Equal(t, "inventory.dat", cfg.BooksFile)
	assert.Equal(t, FormatLegacy, cfg.Format)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultConfig().UsersFile, cfg.UsersFile)

	assert.IsType(t, LegacyCodec{}, cfg.Codec())
}

func TestLoadConfigRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: sqlite\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "unknown format")
}

func TestOpenWithLegacyFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Format = FormatLegacy

	lib, err := Open(cfg, testLogger())
	require.NoError(t, err)
	require.NoError(t, lib.Books.Add(1, "Dune", "Herbert"))
	require.NoError(t, lib.Ledger.Borrow(1, 1, "01/01/2030"))
	require.NoError(t, lib.Close())

	reopened, err := Open(cfg, testLogger())
	require.NoError(t, err)
	defer reopened.Close()

	book, err := reopened.Books.Find(1)
	require.NoError(t, err)
	assert.True(t, book.Borrowed)
	assert.Len(t, reopened.Ledger.ListForUser(1), 1)
}
