package mysql

import (
	"context"

	"securevault-indexer/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// Repos binds the full repository set to db. Exported so tests and the
// query layer can reuse the same wiring without a transaction.
func Repos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Vaults:    &VaultRepository{db: db},
		Lenders:   &LenderRepository{db: db},
		Borrowers: &BorrowerRepository{db: db},

		DepositRequests:    &DepositRequestRepository{db: db},
		WithdrawRequests:   &WithdrawRequestRepository{db: db},
		DepositExecutions:  &DepositExecutionRepository{db: db},
		WithdrawExecutions: &WithdrawExecutionRepository{db: db},
		AdminWithdrawals:   &AdminWithdrawalRepository{db: db},

		Loans:        &LoanRepository{db: db},
		LoanPayments: &PaymentRepository{db: db},

		Roles:       &RoleRepository{db: db},
		RoleMembers: &MemberRepository{db: db},
		RoleEvents:  &RoleEventRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos(tx))
	})
}
