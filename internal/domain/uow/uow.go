package uow

import (
	"context"

	"securevault-indexer/internal/domain/accesscontrol"
	"securevault-indexer/internal/domain/loan"
	"securevault-indexer/internal/domain/request"
	"securevault-indexer/internal/domain/vault"
)

// Repos bundles every aggregate repository bound to one transaction.
type Repos struct {
	Vaults    vault.Repository
	Lenders   vault.LenderRepository
	Borrowers vault.BorrowerRepository

	DepositRequests    request.DepositRequestRepository
	WithdrawRequests   request.WithdrawRequestRepository
	DepositExecutions  request.DepositExecutionRepository
	WithdrawExecutions request.WithdrawExecutionRepository
	AdminWithdrawals   request.AdminWithdrawalRepository

	Loans        loan.Repository
	LoanPayments loan.PaymentRepository

	Roles       accesscontrol.RoleRepository
	RoleMembers accesscontrol.MemberRepository
	RoleEvents  accesscontrol.RoleEventRepository
}

// UnitOfWork runs fn with all repositories bound to a single transaction.
// One event is applied per call, so its multi-aggregate effects commit
// atomically or not at all.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
