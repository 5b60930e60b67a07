package rbac

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. String literals from the wire are
// converted through ParseRole exactly once, at the edge.
type Role uint8

const (
	RoleStudent Role = iota + 1
	RoleTeacher
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleTeacher:
		return "teacher"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

func ParseRole(s string) (Role, bool) {
	switch s {
	case "student":
		return RoleStudent, true
	case "teacher":
		return RoleTeacher, true
	case "admin":
		return RoleAdmin, true
	default:
		return 0, false
	}
}

func (r Role) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

func (r *Role) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, ok := ParseRole(s)
	if !ok {
		return fmt.Errorf("unknown role %q", s)
	}
	*r = parsed
	return nil
}

// Common allowed sets for route gating.
var (
	AdminOnly    = []Role{RoleAdmin}
	TeacherOnly  = []Role{RoleTeacher}
	StudentOnly  = []Role{RoleStudent}
	AdminTeacher = []Role{RoleAdmin, RoleTeacher}
)

func roleIn(r Role, allowed []Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
