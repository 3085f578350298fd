package checkpoint

import "context"

// Cursor records the last event durably applied for a vault. Resume starts
// just past (LastBlock, LastLogIndex); re-applying the boundary event is
// harmless because every handler is replay-safe.
type Cursor struct {
	VaultID      string `gorm:"column:vault_id;type:char(42);primaryKey" json:"vault_id"`
	LastBlock    uint64 `gorm:"column:last_block" json:"last_block"`
	LastLogIndex uint   `gorm:"column:last_log_index" json:"last_log_index"`
}

func (Cursor) TableName() string { return "cursors" }

type Repository interface {
	Get(ctx context.Context, vaultID string) (*Cursor, error)
	Save(ctx context.Context, c *Cursor) error
}
