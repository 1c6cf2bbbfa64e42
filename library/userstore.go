package library

import (
	"log/slog"
	"slices"
)

// Default account seeded on first run, so an operator can always log in to a
// fresh installation. Quota matches the standard member allowance.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
	DefaultAdminName     = "Administrator"
	DefaultBorrowLimit   = 5
)

// UserStore holds registered accounts. There is no end-user surface for
// creating or editing accounts; the store exists to support login and quota
// bookkeeping, and borrow counts are mutated only by the BorrowLedger.
type UserStore struct {
	path  string
	codec Codec
	log   *slog.Logger

	users []*User
	index map[int]*User
}

// NewUserStore loads the store from path. If the file is absent or
// unreadable, the store is seeded with the single default faculty account
// and persisted immediately so subsequent logins succeed.
func NewUserStore(path string, codec Codec, logger *slog.Logger) (*UserStore, error) {
	s := &UserStore{
		path:  path,
		codec: codec,
		log:   logger,
		index: make(map[int]*User),
	}

	users, err := codec.ReadUsers(path)
	if err != nil {
		logger.Warn("user file unreadable, seeding default account", "path", path, "error", err)
		return s, s.seed()
	}
	s.users = users
	for _, u := range users {
		s.index[u.ID] = u
	}
	return s, nil
}

func (s *UserStore) seed() error {
	admin := &User{
		ID:       1,
		Username: DefaultAdminUsername,
		Password: DefaultAdminPassword,
		Name:     DefaultAdminName,
		Role:     RoleFaculty,
		Limit:    DefaultBorrowLimit,
	}
	s.users = []*User{admin}
	s.index = map[int]*User{admin.ID: admin}
	if err := s.Flush(); err != nil {
		return err
	}
	s.log.Info("seeded default admin account", "username", admin.Username)
	return nil
}

// FindByCredentials returns the first user matching both fields verbatim, or
// ErrInvalidCredentials. Usernames are not enforced unique; first match in
// store order wins.
func (s *UserStore) FindByCredentials(username, password string) (*User, error) {
	for _, u := range s.users {
		if u.Username == username && u.Password == password {
			return u, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// FindByID returns the user with the given id, or ErrUserNotFound.
func (s *UserStore) FindByID(id int) (*User, error) {
	u, ok := s.index[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List returns the accounts in store order.
func (s *UserStore) List() []*User {
	return slices.Clone(s.users)
}

// Flush writes the full list to the backing file.
func (s *UserStore) Flush() error {
	if err := s.codec.WriteUsers(s.path, s.users); err != nil {
		s.log.Error("user store flush failed", "path", s.path, "error", err)
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}
