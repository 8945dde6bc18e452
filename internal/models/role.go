package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// UserRole is the closed set of roles a user can hold.
type UserRole string

const (
	RoleIntern  UserRole = "INTERN"
	RoleManager UserRole = "MANAGER"
)

// ParseUserRole normalizes a role name; matching is case-insensitive.
func ParseUserRole(s string) (UserRole, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(RoleIntern):
		return RoleIntern, nil
	case string(RoleManager):
		return RoleManager, nil
	default:
		return "", fmt.Errorf("invalid role %q: must be one of INTERN, MANAGER", s)
	}
}

// IsAdmin reports whether the role grants administrative privileges.
func (r UserRole) IsAdmin() bool {
	return r == RoleManager
}

// Scan normalizes the stored role so rows written outside the API in another
// case still compare equal to the role constants.
func (r *UserRole) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*r = ""
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into UserRole", src)
	}

	role, err := ParseUserRole(raw)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// Value writes the canonical upper-case role name.
func (r UserRole) Value() (driver.Value, error) {
	if r == "" {
		return string(r), nil
	}
	role, err := ParseUserRole(string(r))
	if err != nil {
		return nil, err
	}
	return string(role), nil
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	case "other":
		return GenderOther, nil
	default:
		return "", fmt.Errorf("invalid gender %q: must be one of Male, Female, Other", s)
	}
}
