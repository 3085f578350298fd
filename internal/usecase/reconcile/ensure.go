package reconcile

import (
	"context"

	"securevault-indexer/internal/domain/uow"
	"securevault-indexer/internal/domain/vault"
	"securevault-indexer/pkg/id"

	"github.com/ethereum/go-ethereum/common"
)

// Lazy aggregate materialization: any handler may be the first event ever
// observed for a vault, lender, or borrower, so every read-modify-write
// path ensures its aggregates first. An existing row is never reset.

func (u *Usecase) ensureVault(ctx context.Context, r uow.Repos, timestamp uint64) (*vault.Vault, error) {
	return r.Vaults.FindOrCreate(ctx, vault.NewVault(u.vaultID, timestamp))
}

func (u *Usecase) ensureLender(ctx context.Context, r uow.Repos, investor common.Address, timestamp uint64) (*vault.Lender, error) {
	address := lowerAddr(investor)
	lenderID := id.Compose(u.vaultID, address)
	return r.Lenders.FindOrCreate(ctx, vault.NewLender(lenderID, u.vaultID, address, timestamp))
}

func (u *Usecase) ensureBorrower(ctx context.Context, r uow.Repos, borrower common.Address, timestamp uint64) (*vault.Borrower, error) {
	address := lowerAddr(borrower)
	borrowerID := id.Compose(u.vaultID, address)
	return r.Borrowers.FindOrCreate(ctx, vault.NewBorrower(borrowerID, u.vaultID, address, timestamp))
}
