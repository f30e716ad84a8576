package user

import (
	"fmt"
	"strings"

	"parceltrack/internal/pkg/errs"
)

// Role is the coarse permission level carried in the access token.
type Role string

const (
	RoleClient  Role = "client"
	RoleDriver  Role = "driver"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if err := role.Validate(); err != nil {
		return "", err
	}
	return role, nil
}

func (r Role) Validate() error {
	switch r {
	case RoleClient, RoleDriver, RoleManager, RoleAdmin:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}

// IsStaff reports whether the role may dispatch and oversee any delivery.
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleAdmin
}
