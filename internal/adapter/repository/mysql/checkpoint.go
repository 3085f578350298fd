package mysql

import (
	"context"

	checkpointDomain "securevault-indexer/internal/domain/checkpoint"

	"gorm.io/gorm"
)

type CursorRepository struct{ db *gorm.DB }

func NewCursorRepository(db *gorm.DB) *CursorRepository { return &CursorRepository{db: db} }

func (r *CursorRepository) Get(ctx context.Context, vaultID string) (*checkpointDomain.Cursor, error) {
	var out checkpointDomain.Cursor
	res := r.db.WithContext(ctx).Where("vault_id = ?", vaultID).First(&out)
	return &out, res.Error
}

func (r *CursorRepository) Save(ctx context.Context, c *checkpointDomain.Cursor) error {
	return r.db.WithContext(ctx).Save(c).Error
}
