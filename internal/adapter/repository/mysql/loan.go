package mysql

import (
	"context"

	loanDomain "securevault-indexer/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) CreateIfAbsent(ctx context.Context, l *loanDomain.Loan) (bool, error) {
	return createIfAbsent(ctx, r.db, l)
}

func (r *LoanRepository) Get(ctx context.Context, id string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) CreateIfAbsent(ctx context.Context, p *loanDomain.Payment) (bool, error) {
	return createIfAbsent(ctx, r.db, p)
}
