package role

import (
	"errors"
	"strings"
)

// Role is the privilege tier of an account.
type Role string

const (
	User       Role = "user"
	Supervisor Role = "supervisor"
	Admin      Role = "admin"
)

var ErrUnknownRole = errors.New("unknown role")

// All returns the roles in ascending privilege order.
func All() []Role {
	return []Role{User, Supervisor, Admin}
}

// Parse accepts the lower-case role names, ignoring surrounding whitespace and case.
func Parse(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case User, Supervisor, Admin:
		return true
	}
	return false
}

// Rank is 0, 1, 2 for user, supervisor, admin and -1 for anything else.
func (r Role) Rank() int {
	switch r {
	case User:
		return 0
	case Supervisor:
		return 1
	case Admin:
		return 2
	}
	return -1
}

func (r Role) String() string {
	return string(r)
}

// AtLeast reports whether r ranks at or above threshold. Unknown roles never qualify.
func AtLeast(r, threshold Role) bool {
	if !r.Valid() || !threshold.Valid() {
		return false
	}
	return r.Rank() >= threshold.Rank()
}
