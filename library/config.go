package library

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store file formats selectable in the config.
const (
	FormatV1     = "v1"
	FormatLegacy = "legacy"
)

// Config locates the store files and selects the on-disk record format.
type Config struct {
	DataDir     string `yaml:"data_dir"`
	BooksFile   string `yaml:"books_file"`
	UsersFile   string `yaml:"users_file"`
	LoansFile   string `yaml:"loans_file"`
	JournalFile string `yaml:"journal_file"`
	Format      string `yaml:"format"`
}

func DefaultConfig() Config {
	return Config{
		DataDir:     "data",
		BooksFile:   "books.dat",
		UsersFile:   "users.dat",
		LoansFile:   "loans.dat",
		JournalFile: "journal.log",
		Format:      FormatV1,
	}
}

// LoadConfig reads the YAML config at path. If the file does not exist it is
// created with the defaults, so a first run leaves an editable config behind.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		out, marshalErr := yaml.Marshal(cfg)
		if marshalErr != nil {
			return cfg, marshalErr
		}
		if writeErr := os.WriteFile(path, out, 0o644); writeErr != nil {
			return cfg, fmt.Errorf("write default config: %w", writeErr)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Format {
	case FormatV1, FormatLegacy:
	default:
		return fmt.Errorf("config: unknown format %q (want %q or %q)", c.Format, FormatV1, FormatLegacy)
	}
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir must not be empty")
	}
	return nil
}

// Codec returns the codec matching the configured format.
func (c Config) Codec() Codec {
	if c.Format == FormatLegacy {
		return LegacyCodec{}
	}
	return V1Codec{}
}

func (c Config) booksPath() string   { return filepath.Join(c.DataDir, c.BooksFile) }
func (c Config) usersPath() string   { return filepath.Join(c.DataDir, c.UsersFile) }
func (c Config) loansPath() string   { return filepath.Join(c.DataDir, c.LoansFile) }
func (c Config) journalPath() string { return filepath.Join(c.DataDir, c.JournalFile) }
