package accesscontrol

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	DefaultAdminRoleName = "DEFAULT_ADMIN_ROLE"
	UnknownRoleName      = "UNKNOWN_ROLE"
)

// DefaultAdminRoleHash is OpenZeppelin's all-zero DEFAULT_ADMIN_ROLE id.
var DefaultAdminRoleHash = common.Hash{}

// roleNames is built once at startup: the recognized role set is fixed, so
// the keccak hashes are precomputed instead of derived per lookup.
var roleNames = func() map[common.Hash]string {
	names := map[common.Hash]string{
		DefaultAdminRoleHash: DefaultAdminRoleName,
	}
	for _, name := range []string{"ADMIN_ROLE", "RELAYER_ROLE", "PAYOR_ROLE"} {
		names[crypto.Keccak256Hash([]byte(name))] = name
	}
	return names
}()

// RoleName resolves a role identifier to its human-readable name, or
// UNKNOWN_ROLE for identifiers outside the recognized set.
func RoleName(roleHash common.Hash) string {
	if name, ok := roleNames[roleHash]; ok {
		return name
	}
	return UnknownRoleName
}
