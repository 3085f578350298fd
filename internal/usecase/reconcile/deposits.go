package reconcile

import (
	"context"
	"errors"

	"securevault-indexer/internal/domain/event"
	"securevault-indexer/internal/domain/request"
	"securevault-indexer/internal/domain/uow"
	"securevault-indexer/pkg/bigint"
	"securevault-indexer/pkg/id"

	"gorm.io/gorm"
)

func (u *Usecase) applyDepositRequested(ctx context.Context, r uow.Repos, e *event.DepositRequested) error {
	if _, err := u.ensureVault(ctx, r, e.Timestamp); err != nil {
		return err
	}
	lender, err := u.ensureLender(ctx, r, e.Investor, e.Timestamp)
	if err != nil {
		return err
	}

	row := &request.DepositRequest{
		ID:              id.Compose(u.vaultID, e.RequestID.String()),
		VaultID:         u.vaultID,
		LenderID:        lender.ID,
		RequestID:       bigint.FromBig(e.RequestID),
		Receiver:        lowerAddr(e.Receiver),
		AssetsRequested: bigint.FromBig(e.Assets),
		Status:          request.StatusPending,
		RequestTime:     e.Timestamp,
	}
	// Redelivered request events hit the existing row and change nothing.
	_, err = r.DepositRequests.CreateIfAbsent(ctx, row)
	return err
}

func (u *Usecase) applyDepositExecuted(ctx context.Context, r uow.Repos, e *event.DepositExecuted) error {
	vlt, err := u.ensureVault(ctx, r, e.Timestamp)
	if err != nil {
		return err
	}
	lender, err := u.ensureLender(ctx, r, e.Investor, e.Timestamp)
	if err != nil {
		return err
	}

	reqKey := id.Compose(u.vaultID, e.RequestID.String())

	// The execution log row doubles as the idempotency gate: a redelivered
	// (tx, log index) pair lands on the same key and the whole handler is
	// skipped before any aggregate is touched.
	created, err := r.DepositExecutions.CreateIfAbsent(ctx, &request.DepositExecution{
		ID:              id.ForLog(reqKey, txHashHex(e.Meta), e.LogIndex),
		RequestID:       reqKey,
		VaultID:         u.vaultID,
		AssetsProcessed: bigint.FromBig(e.AssetsProcessed),
		SharesIssued:    bigint.FromBig(e.SharesIssued),
		FullyExecuted:   e.FullyExecuted,
		TxHash:          txHashHex(e.Meta),
		BlockNumber:     e.BlockNumber,
		Timestamp:       e.Timestamp,
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	// A request may be filled across several partial executions. If the
	// request row was never observed the status update is skipped, but the
	// lender and vault deltas below still apply.
	req, err := r.DepositRequests.Get(ctx, reqKey)
	switch {
	case err == nil:
		req.AssetsProcessed = req.AssetsProcessed.Plus(e.AssetsProcessed)
		req.SharesIssued = req.SharesIssued.Plus(e.SharesIssued)
		if req.Status != request.StatusCompleted {
			if e.FullyExecuted {
				req.Status = request.StatusCompleted
			} else {
				req.Status = request.StatusPartial
			}
		}
		req.FullyExecuted = req.FullyExecuted || e.FullyExecuted
		req.LastExecuteTime = u64ptr(e.Timestamp)
		if e.SharesIssued != nil && e.SharesIssued.Sign() > 0 {
			req.ExecutionSharePrice = strptr(SharePrice(e.AssetsProcessed, e.SharesIssued))
		}
		if err := r.DepositRequests.Save(ctx, req); err != nil {
			return err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	lender.Shares = lender.Shares.Plus(e.SharesIssued)
	lender.Deposited = lender.Deposited.Plus(e.AssetsProcessed)
	lender.CurrentValue = lender.CurrentValue.Plus(e.AssetsProcessed)
	if e.FullyExecuted {
		lender.DepositCount++
	}
	if lender.FirstDepositTime == nil {
		lender.FirstDepositTime = u64ptr(e.Timestamp)
	}
	lender.LastActivityTime = e.Timestamp
	if err := r.Lenders.Save(ctx, lender); err != nil {
		return err
	}

	vlt.TotalAssets = vlt.TotalAssets.Plus(e.AssetsProcessed)
	vlt.TotalSupply = vlt.TotalSupply.Plus(e.SharesIssued)
	vlt.TotalDeposited = vlt.TotalDeposited.Plus(e.AssetsProcessed)
	vlt.CurrentSharePrice = SharePrice(vlt.TotalAssets.Big(), vlt.TotalSupply.Big())
	vlt.UtilizationRate = UtilizationRate(vlt.TotalOutstandingLoans.Big(), vlt.TotalAssets.Big())
	vlt.LastUpdateAt = e.Timestamp
	return r.Vaults.Save(ctx, vlt)
}
