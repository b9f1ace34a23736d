package domain

import (
	"fmt"
	"strings"
)

// Role is the access tag carried by every user and every session.
type Role string

const (
	RoleHR       Role = "HR"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole accepts the canonical tags case-insensitively.
func ParseRole(v string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case string(RoleHR):
		return RoleHR, nil
	case string(RoleEmployee):
		return RoleEmployee, nil
	default:
		return "", fmt.Errorf("unknown role %q", v)
	}
}

func (r Role) Valid() bool {
	return r == RoleHR || r == RoleEmployee
}

func (r Role) String() string {
	return string(r)
}
