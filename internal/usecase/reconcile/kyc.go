package reconcile

import (
	"context"

	"securevault-indexer/internal/domain/event"
	"securevault-indexer/internal/domain/uow"
)

// KYC configuration events carry no idempotency row: setting the same
// registry or flag twice converges to the same state.
func (u *Usecase) applyKYCRegistrySet(ctx context.Context, r uow.Repos, e *event.KYCRegistrySet) error {
	vlt, err := u.ensureVault(ctx, r, e.Timestamp)
	if err != nil {
		return err
	}
	vlt.KYCRegistry = strptr(lowerAddr(e.NewRegistry))
	vlt.LastUpdateAt = e.Timestamp
	return r.Vaults.Save(ctx, vlt)
}

func (u *Usecase) applyKYCFlag(ctx context.Context, r uow.Repos, m event.Meta, enabled bool) error {
	vlt, err := u.ensureVault(ctx, r, m.Timestamp)
	if err != nil {
		return err
	}
	vlt.KYCEnabled = enabled
	vlt.LastUpdateAt = m.Timestamp
	return r.Vaults.Save(ctx, vlt)
}
