package types

import "github.com/ethereum/go-ethereum/common"

type Role uint8

const (
	RoleOwner    Role = 1
	RoleAdmin    Role = 2
	RoleProposer Role = 3
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	case RoleProposer:
		return "proposer"
	}
	return "unknown"
}

// AccessControl answers the single authorization predicate each privileged
// operation needs.
type AccessControl interface {
	HasRole(role Role, addr common.Address) bool
}

type AccessControlFunc func(role Role, addr common.Address) bool

func (f AccessControlFunc) HasRole(role Role, addr common.Address) bool {
	return f(role, addr)
}
