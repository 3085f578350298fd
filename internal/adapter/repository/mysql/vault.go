package mysql

import (
	"context"

	vaultDomain "securevault-indexer/internal/domain/vault"

	"gorm.io/gorm"
)

type VaultRepository struct{ db *gorm.DB }

func NewVaultRepository(db *gorm.DB) *VaultRepository { return &VaultRepository{db: db} }

func (r *VaultRepository) FindOrCreate(ctx context.Context, defaults *vaultDomain.Vault) (*vaultDomain.Vault, error) {
	res := r.db.WithContext(ctx).Where("id = ?", defaults.ID).FirstOrCreate(defaults)
	return defaults, res.Error
}

func (r *VaultRepository) Get(ctx context.Context, id string) (*vaultDomain.Vault, error) {
	var out vaultDomain.Vault
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *VaultRepository) Save(ctx context.Context, v *vaultDomain.Vault) error {
	return r.db.WithContext(ctx).Save(v).Error
}

type LenderRepository struct{ db *gorm.DB }

func NewLenderRepository(db *gorm.DB) *LenderRepository { return &LenderRepository{db: db} }

func (r *LenderRepository) FindOrCreate(ctx context.Context, defaults *vaultDomain.Lender) (*vaultDomain.Lender, error) {
	res := r.db.WithContext(ctx).Where("id = ?", defaults.ID).FirstOrCreate(defaults)
	return defaults, res.Error
}

func (r *LenderRepository) Get(ctx context.Context, id string) (*vaultDomain.Lender, error) {
	var out vaultDomain.Lender
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LenderRepository) Save(ctx context.Context, l *vaultDomain.Lender) error {
	return r.db.WithContext(ctx).Save(l).Error
}

type BorrowerRepository struct{ db *gorm.DB }

func NewBorrowerRepository(db *gorm.DB) *BorrowerRepository { return &BorrowerRepository{db: db} }

func (r *BorrowerRepository) FindOrCreate(ctx context.Context, defaults *vaultDomain.Borrower) (*vaultDomain.Borrower, error) {
	res := r.db.WithContext(ctx).Where("id = ?", defaults.ID).FirstOrCreate(defaults)
	return defaults, res.Error
}

func (r *BorrowerRepository) Get(ctx context.Context, id string) (*vaultDomain.Borrower, error) {
	var out vaultDomain.Borrower
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *BorrowerRepository) Save(ctx context.Context, b *vaultDomain.Borrower) error {
	return r.db.WithContext(ctx).Save(b).Error
}
