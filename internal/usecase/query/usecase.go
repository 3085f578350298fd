package query

import (
	"context"
	"errors"
	"strings"

	"securevault-indexer/internal/domain/loan"
	"securevault-indexer/internal/domain/request"
	"securevault-indexer/internal/domain/uow"
	"securevault-indexer/internal/domain/vault"
	"securevault-indexer/pkg/id"

	"github.com/ethereum/go-ethereum/common"
)

var ErrInvalidAddress = errors.New("invalid address")

// Usecase serves reads over the reconciled tables. The stored rows are
// already shaped for output, so they go out as-is instead of through a
// mapping layer.
type Usecase struct {
	vaultID string
	repos   uow.Repos
}

func NewUsecase(vaultAddr common.Address, repos uow.Repos) *Usecase {
	return &Usecase{vaultID: strings.ToLower(vaultAddr.Hex()), repos: repos}
}

func normalizeAddr(addr string) (string, error) {
	if !common.IsHexAddress(addr) {
		return "", ErrInvalidAddress
	}
	return strings.ToLower(common.HexToAddress(addr).Hex()), nil
}

func (u *Usecase) Vault(ctx context.Context) (*vault.Vault, error) {
	return u.repos.Vaults.Get(ctx, u.vaultID)
}

func (u *Usecase) Lender(ctx context.Context, addr string) (*vault.Lender, error) {
	a, err := normalizeAddr(addr)
	if err != nil {
		return nil, err
	}
	return u.repos.Lenders.Get(ctx, id.Compose(u.vaultID, a))
}

func (u *Usecase) Borrower(ctx context.Context, addr string) (*vault.Borrower, error) {
	a, err := normalizeAddr(addr)
	if err != nil {
		return nil, err
	}
	return u.repos.Borrowers.Get(ctx, id.Compose(u.vaultID, a))
}

func (u *Usecase) Loan(ctx context.Context, loanID string) (*loan.Loan, error) {
	return u.repos.Loans.Get(ctx, id.Compose(u.vaultID, loanID))
}

func (u *Usecase) DepositRequest(ctx context.Context, requestID string) (*request.DepositRequest, error) {
	return u.repos.DepositRequests.Get(ctx, id.Compose(u.vaultID, requestID))
}

func (u *Usecase) WithdrawRequest(ctx context.Context, requestID string) (*request.WithdrawRequest, error) {
	return u.repos.WithdrawRequests.Get(ctx, id.Compose(u.vaultID, "withdraw", requestID))
}
