package enums

import "fmt"

// Role represents a user's access profile. Roles are an unordered set: no role
// implies another, and every route check lists its allowed roles explicitly.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleAdmin2        Role = "admin2"
	RoleRecepcionista Role = "recepcionista"
	RoleProfissional  Role = "profissional"
)

var validRoles = []Role{
	RoleAdmin,
	RoleAdmin2,
	RoleRecepcionista,
	RoleProfissional,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTenantOwner reports whether the role marks the user as a tenant (data
// partition owner). Both admin variants own their own partitions.
func (r Role) IsTenantOwner() bool {
	return r == RoleAdmin || r == RoleAdmin2
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// TenantOwnerRoles returns the roles whose users define the tenant universe for
// aggregate views.
func TenantOwnerRoles() []Role {
	return []Role{RoleAdmin, RoleAdmin2}
}
