package accesscontrol

type EventType string

const (
	EventGranted      EventType = "GRANTED"
	EventRevoked      EventType = "REVOKED"
	EventAdminChanged EventType = "ADMIN_CHANGED"
)

// Role tracks one access-control role of a vault, keyed (vault, role hash).
type Role struct {
	ID      string `gorm:"column:id;size:128;primaryKey" json:"id"`
	VaultID string `gorm:"column:vault_id;type:char(42);index" json:"vault_id"`

	RoleHash string `gorm:"column:role_hash;type:char(66)" json:"role_hash"`
	RoleName string `gorm:"column:role_name;size:64" json:"role_name"`

	AdminRoleHash string `gorm:"column:admin_role_hash;type:char(66)" json:"admin_role_hash"`
	AdminRoleName string `gorm:"column:admin_role_name;size:64" json:"admin_role_name"`

	MemberCount int    `gorm:"column:member_count" json:"member_count"`
	UpdatedAt   uint64 `gorm:"column:updated_at" json:"updated_at"`
}

func (Role) TableName() string { return "access_control_roles" }

// Member records one account's membership in a role, keyed
// (role key, account). Revocation flips IsActive rather than deleting.
type Member struct {
	ID      string `gorm:"column:id;size:176;primaryKey" json:"id"`
	RoleID  string `gorm:"column:role_id;size:128;index" json:"role_id"`
	Account string `gorm:"column:account;type:char(42)" json:"account"`

	IsActive bool `gorm:"column:is_active" json:"is_active"`

	GrantedAt        uint64  `gorm:"column:granted_at" json:"granted_at"`
	RevokedAt        *uint64 `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	GrantTxHash      string  `gorm:"column:grant_tx_hash;type:char(66)" json:"grant_tx_hash"`
	RevokeTxHash     *string `gorm:"column:revoke_tx_hash;type:char(66)" json:"revoke_tx_hash,omitempty"`
	GrantBlockNumber uint64  `gorm:"column:grant_block_number" json:"grant_block_number"`
	RevokeBlockNum   *uint64 `gorm:"column:revoke_block_number" json:"revoke_block_number,omitempty"`
	UpdatedAt        uint64  `gorm:"column:updated_at" json:"updated_at"`
}

func (Member) TableName() string { return "access_control_role_members" }

// RoleEvent is the append-only audit row for grant/revoke/admin-change
// occurrences, keyed (role key, event type, tx hash, log index).
type RoleEvent struct {
	ID     string `gorm:"column:id;size:240;primaryKey" json:"id"`
	RoleID string `gorm:"column:role_id;size:128;index" json:"role_id"`

	EventType EventType `gorm:"column:event_type;size:16" json:"event_type"`
	Account   *string   `gorm:"column:account;type:char(42)" json:"account,omitempty"`

	AdminRoleHash *string `gorm:"column:admin_role_hash;type:char(66)" json:"admin_role_hash,omitempty"`
	AdminRoleName *string `gorm:"column:admin_role_name;size:64" json:"admin_role_name,omitempty"`

	TxHash      string `gorm:"column:tx_hash;type:char(66)" json:"tx_hash"`
	BlockNumber uint64 `gorm:"column:block_number" json:"block_number"`
	Timestamp   uint64 `gorm:"column:timestamp" json:"timestamp"`
}

func (RoleEvent) TableName() string { return "access_control_role_events" }
