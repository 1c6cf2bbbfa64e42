package library

import "fmt"

// Field length limits, in bytes. The legacy file format stores text in
// fixed-width buffers of exactly these sizes, so the limits also bound what
// the current format accepts.
const (
	MaxTitleLen    = 100
	MaxAuthorLen   = 100
	MaxUsernameLen = 50
	MaxPasswordLen = 50
	MaxNameLen     = 50
	MaxDueLen      = 20
)

// Book represents a single copy in the library's inventory.
type Book struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Borrowed bool   `json:"borrowed"`
}

// Role distinguishes ordinary members from faculty, who administer the
// inventory. It is a closed set; anything else fails to parse.
type Role int

const (
	RoleMember Role = iota
	RoleFaculty
)

func (r Role) String() string {
	switch r {
	case RoleFaculty:
		return "faculty"
	default:
		return "member"
	}
}

// ParseRole maps the string form used in files and config back to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "member":
		return RoleMember, nil
	case "faculty":
		return RoleFaculty, nil
	default:
		return RoleMember, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

func (r *Role) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("role must be a JSON string, got %s", data)
	}
	parsed, err := ParseRole(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User is a registered account. Passwords are stored and compared verbatim;
// this system makes no pretense of real authentication security.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Limit    int    `json:"limit"`
	Borrowed int    `json:"borrowed"`
}

// Loan links a borrowed book to the user holding it. Due is free-form text;
// no calendar validation is applied.
type Loan struct {
	BookID int    `json:"book_id"`
	UserID int    `json:"user_id"`
	Due    string `json:"due"`
}

// LoanDetail is a loan joined with its resolved book, as shown to the user.
type LoanDetail struct {
	Book *Book
	Due  string
}

func validateText(field, value string, max int) error {
	if len(value) > max {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrFieldTooLong, field, max)
	}
	return nil
}
