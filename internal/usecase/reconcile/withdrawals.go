package reconcile

import (
	"context"
	"errors"

	"securevault-indexer/internal/domain/event"
	"securevault-indexer/internal/domain/request"
	"securevault-indexer/internal/domain/uow"
	"securevault-indexer/pkg/bigint"
	"securevault-indexer/pkg/id"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// Withdraw request keys carry a "withdraw" discriminator because the
// contract numbers deposit and withdraw requests from the same id space.
func (u *Usecase) withdrawRequestKey(requestID string) string {
	return id.Compose(u.vaultID, "withdraw", requestID)
}

func (u *Usecase) applyWithdrawRequested(ctx context.Context, r uow.Repos, e *event.WithdrawRequested) error {
	if _, err := u.ensureVault(ctx, r, e.Timestamp); err != nil {
		return err
	}
	lender, err := u.ensureLender(ctx, r, e.Investor, e.Timestamp)
	if err != nil {
		return err
	}

	row := &request.WithdrawRequest{
		ID:              u.withdrawRequestKey(e.RequestID.String()),
		VaultID:         u.vaultID,
		LenderID:        lender.ID,
		RequestID:       bigint.FromBig(e.RequestID),
		Receiver:        lowerAddr(e.Receiver),
		SharesRequested: bigint.FromBig(e.Shares),
		Status:          request.StatusPending,
		RequestTime:     e.Timestamp,
	}
	_, err = r.WithdrawRequests.CreateIfAbsent(ctx, row)
	return err
}

func (u *Usecase) applyWithdrawExecuted(ctx context.Context, r uow.Repos, e *event.WithdrawExecuted) error {
	vlt, err := u.ensureVault(ctx, r, e.Timestamp)
	if err != nil {
		return err
	}
	lender, err := u.ensureLender(ctx, r, e.Investor, e.Timestamp)
	if err != nil {
		return err
	}

	reqKey := u.withdrawRequestKey(e.RequestID.String())

	created, err := r.WithdrawExecutions.CreateIfAbsent(ctx, &request.WithdrawExecution{
		ID:              id.ForLog(reqKey, txHashHex(e.Meta), e.LogIndex),
		RequestID:       reqKey,
		VaultID:         u.vaultID,
		SharesProcessed: bigint.FromBig(e.SharesProcessed),
		AssetsReturned:  bigint.FromBig(e.AssetsReturned),
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

	req, err := r.WithdrawRequests.Get(ctx, reqKey)
	switch {
	case err == nil:
		req.SharesProcessed = req.SharesProcessed.Plus(e.SharesProcessed)
		req.AssetsReturned = req.AssetsReturned.Plus(e.AssetsReturned)
		if req.Status != request.StatusCompleted {
			if e.FullyExecuted {
				req.Status = request.StatusCompleted
			} else {
				req.Status = request.StatusPartial
			}
		}
		req.FullyExecuted = req.FullyExecuted || e.FullyExecuted
		req.LastExecuteTime = u64ptr(e.Timestamp)
		if e.SharesProcessed != nil && e.SharesProcessed.Sign() > 0 {
			req.ExecutionSharePrice = strptr(SharePrice(e.AssetsReturned, e.SharesProcessed))
		}
		if err := r.WithdrawRequests.Save(ctx, req); err != nil {
			return err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	// Processed amounts can exceed stale cached totals under replay, so
	// every subtraction saturates at zero.
	lender.Shares = lender.Shares.MinusFloor(e.SharesProcessed)
	lender.Withdrawn = lender.Withdrawn.Plus(e.AssetsReturned)
	lender.CurrentValue = lender.CurrentValue.MinusFloor(e.AssetsReturned)
	if e.FullyExecuted {
		lender.WithdrawCount++
	}
	lender.LastActivityTime = e.Timestamp
	if err := r.Lenders.Save(ctx, lender); err != nil {
		return err
	}

	vlt.TotalAssets = vlt.TotalAssets.MinusFloor(e.AssetsReturned)
	vlt.TotalSupply = vlt.TotalSupply.MinusFloor(e.SharesProcessed)
	vlt.TotalWithdrawn = vlt.TotalWithdrawn.Plus(e.AssetsReturned)
	vlt.CurrentSharePrice = SharePrice(vlt.TotalAssets.Big(), vlt.TotalSupply.Big())
	vlt.UtilizationRate = UtilizationRate(vlt.TotalOutstandingLoans.Big(), vlt.TotalAssets.Big())
	vlt.LastUpdateAt = e.Timestamp
	return r.Vaults.Save(ctx, vlt)
}

// Admin withdrawals are not preceded by a request event; the lender and
// vault positions are reduced unconditionally.
func (u *Usecase) applyAdminWithdrawal(ctx context.Context, r uow.Repos, e *event.AdminWithdrawal) error {
	vlt, err := u.ensureVault(ctx, r, e.Timestamp)
	if err != nil {
		return err
	}

	row := &request.AdminWithdrawal{
		ID:          id.ForLog(id.Compose(u.vaultID, "admin"), txHashHex(e.Meta), e.LogIndex),
		VaultID:     u.vaultID,
		Shareholder: lowerAddr(e.Shareholder),
		Receiver:    lowerAddr(e.Receiver),
		Shares:      bigint.FromBig(e.Shares),
		Assets:      bigint.FromBig(e.Assets),
		FeeShares:   bigint.FromBig(e.FeeShares),
		TxHash:      txHashHex(e.Meta),
		BlockNumber: e.BlockNumber,
		Timestamp:   e.Timestamp,
	}
	if e.FeeRecipient != (common.Address{}) {
		row.FeeRecipient = strptr(lowerAddr(e.FeeRecipient))
	}
	created, err := r.AdminWithdrawals.CreateIfAbsent(ctx, row)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	lender, err := u.ensureLender(ctx, r, e.Shareholder, e.Timestamp)
	if err != nil {
		return err
	}
	lender.Shares = lender.Shares.MinusFloor(e.Shares)
	lender.Withdrawn = lender.Withdrawn.Plus(e.Assets)
	lender.WithdrawCount++
	lender.LastActivityTime = e.Timestamp
	if err := r.Lenders.Save(ctx, lender); err != nil {
		return err
	}

	vlt.TotalAssets = vlt.TotalAssets.MinusFloor(e.Assets)
	vlt.TotalSupply = vlt.TotalSupply.MinusFloor(e.Shares)
	vlt.TotalWithdrawn = vlt.TotalWithdrawn.Plus(e.Assets)
	vlt.CurrentSharePrice = SharePrice(vlt.TotalAssets.Big(), vlt.TotalSupply.Big())
	vlt.LastUpdateAt = e.Timestamp
	return r.Vaults.Save(ctx, vlt)
}
