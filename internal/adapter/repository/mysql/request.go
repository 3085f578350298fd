package mysql

import (
	"context"

	requestDomain "securevault-indexer/internal/domain/request"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// createIfAbsent inserts row unless its primary key already exists.
// RowsAffected == 0 means the same log was applied before; callers skip
// their aggregate deltas in that case instead of double-counting.
func createIfAbsent(ctx context.Context, db *gorm.DB, row any) (bool, error) {
	res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type DepositRequestRepository struct{ db *gorm.DB }

func NewDepositRequestRepository(db *gorm.DB) *DepositRequestRepository {
	return &DepositRequestRepository{db: db}
}

func (r *DepositRequestRepository) CreateIfAbsent(ctx context.Context, req *requestDomain.DepositRequest) (bool, error) {
	return createIfAbsent(ctx, r.db, req)
}

func (r *DepositRequestRepository) Get(ctx context.Context, id string) (*requestDomain.DepositRequest, error) {
	var out requestDomain.DepositRequest
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *DepositRequestRepository) Save(ctx context.Context, req *requestDomain.DepositRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

type WithdrawRequestRepository struct{ db *gorm.DB }

func NewWithdrawRequestRepository(db *gorm.DB) *WithdrawRequestRepository {
	return &WithdrawRequestRepository{db: db}
}

func (r *WithdrawRequestRepository) CreateIfAbsent(ctx context.Context, req *requestDomain.WithdrawRequest) (bool, error) {
	return createIfAbsent(ctx, r.db, req)
}

func (r *WithdrawRequestRepository) Get(ctx context.Context, id string) (*requestDomain.WithdrawRequest, error) {
	var out requestDomain.WithdrawRequest
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *WithdrawRequestRepository) Save(ctx context.Context, req *requestDomain.WithdrawRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

type DepositExecutionRepository struct{ db *gorm.DB }

func NewDepositExecutionRepository(db *gorm.DB) *DepositExecutionRepository {
	return &DepositExecutionRepository{db: db}
}

func (r *DepositExecutionRepository) CreateIfAbsent(ctx context.Context, e *requestDomain.DepositExecution) (bool, error) {
	return createIfAbsent(ctx, r.db, e)
}

type WithdrawExecutionRepository struct{ db *gorm.DB }

func NewWithdrawExecutionRepository(db *gorm.DB) *WithdrawExecutionRepository {
	return &WithdrawExecutionRepository{db: db}
}

func (r *WithdrawExecutionRepository) CreateIfAbsent(ctx context.Context, e *requestDomain.WithdrawExecution) (bool, error) {
	return createIfAbsent(ctx, r.db, e)
}

type AdminWithdrawalRepository struct{ db *gorm.DB }

func NewAdminWithdrawalRepository(db *gorm.DB) *AdminWithdrawalRepository {
	return &AdminWithdrawalRepository{db: db}
}

func (r *AdminWithdrawalRepository) CreateIfAbsent(ctx context.Context, w *requestDomain.AdminWithdrawal) (bool, error) {
	return createIfAbsent(ctx, r.db, w)
}
