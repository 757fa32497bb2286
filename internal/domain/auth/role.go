package auth

// Role is carried in the "role" claim of access tokens.
type Role string

const (
	// RoleAdmin may change compensation, run and finalize payroll.
	RoleAdmin Role = "admin"
	// RoleClerk records attendance and reads payroll.
	RoleClerk Role = "clerk"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleClerk:
		return r, nil
	}
	return "", ErrUnknownRole
}
