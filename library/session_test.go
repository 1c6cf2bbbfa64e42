package library

import (
	"errors"
	"testing"
)

func TestLoginLogout(t *testing.T) {
	lib := tempLibrary(t)

	if err := lib.Session.Login(DefaultAdminUsername, DefaultAdminPassword); err != nil {
		t.Fatalf("login: %v", err)
	}
	id, ok := lib.Session.Current()
	if !ok {
		t.Fatalf("no current identity after login")
	}
	if id.UserID != 1 || id.Role != RoleFaculty || id.Username != DefaultAdminUsername || id.Name != DefaultAdminName {
		t.Fatalf("unexpected identity %+v", id)
	}

	lib.Session.Logout()
	if _, ok := lib.Session.Current(); ok {
		t.Fatalf("identity should be cleared after logout")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	lib := tempLibrary(t)

	err := lib.Session.Login(DefaultAdminUsername, "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
	if _, ok := lib.Session.Current(); ok {
		t.Fatalf("failed login must leave the session empty")
	}
}

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	lib := tempLibrary(t)

	if err := lib.Session.Login(DefaultAdminUsername, DefaultAdminPassword); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := lib.Session.Login(DefaultAdminUsername, "wrong"); err == nil {
		t.Fatalf("expected failed login")
	}
	if _, ok := lib.Session.Current(); !ok {
		t.Fatalf("failed login must not clear the existing session")
	}
}

func TestCanManageBooks(t *testing.T) {
	users := []*User{
		{ID: 1, Username: "prof", Password: "pw", Name: "Prof", Role: RoleFaculty, Limit: 5},
		{ID: 2, Username: "student", Password: "pw", Name: "Student", Role: RoleMember, Limit: 5},
	}
	lib := tempLibraryWithUsers(t, users)

	if lib.Session.CanManageBooks() {
		t.Fatalf("logged-out session must not manage books")
	}

	if err := lib.Session.Login("student", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if lib.Session.CanManageBooks() {
		t.Fatalf("member must not manage books")
	}

	if err := lib.Session.Login("prof", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !lib.Session.CanManageBooks() {
		t.Fatalf("faculty must manage books")
	}
}
