package library

// Identity is the logged-in user's view of themselves, captured at login.
type Identity struct {
	UserID   int
	Role     Role
	Username string
	Name     string
}

// Session is the transient authentication state consumed by the command
// dispatcher. Authorization lives here, at the boundary, so the stores stay
// policy-free: the dispatcher asks CanManageBooks before invoking the
// faculty-only inventory commands.
type Session struct {
	users *UserStore

	active   bool
	identity Identity
}

func NewSession(users *UserStore) *Session {
	return &Session{users: users}
}

// Login authenticates against the user store and captures the identity.
// A failed login leaves any existing session untouched.
func (s *Session) Login(username, password string) error {
	user, err := s.users.FindByCredentials(username, password)
	if err != nil {
		return err
	}
	s.active = true
	s.identity = Identity{
		UserID:   user.ID,
		Role:     user.Role,
		Username: user.Username,
		Name:     user.Name,
	}
	return nil
}

// Logout resets the session to the logged-out state.
func (s *Session) Logout() {
	s.active = false
	s.identity = Identity{}
}

// Current returns the logged-in identity, or ok=false when nobody is.
func (s *Session) Current() (Identity, bool) {
	return s.identity, s.active
}

// CanManageBooks reports whether the current user may add, edit, or delete
// books and inspect the circulation history.
func (s *Session) CanManageBooks() bool {
	return s.active && s.identity.Role == RoleFaculty
}
