package user

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid role")

// Role is carried in access tokens issued by the identity service.
type Role string

const (
	RolePlayer   Role = "player"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// rank orders roles by privilege; zero means unknown.
func (r Role) rank() int {
	switch r {
	case RolePlayer:
		return 1
	case RoleOperator:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool { return r.rank() > 0 }

// AtLeast reports whether r grants every permission of min. Unknown roles
// never satisfy and are never satisfied.
func (r Role) AtLeast(min Role) bool {
	return r.IsValid() && min.IsValid() && r.rank() >= min.rank()
}

func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Principal is the authenticated caller behind a request.
type Principal struct {
	PlayerID uuid.UUID
	Role     Role
}

// CanRead reports whether the principal may see data owned by ownerID.
// Staff roles read everything.
func (p Principal) CanRead(ownerID uuid.UUID) bool {
	return p.PlayerID == ownerID || p.Role.AtLeast(RoleOperator)
}
