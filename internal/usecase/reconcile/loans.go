package reconcile

import (
	"context"
	"errors"

	"securevault-indexer/internal/domain/event"
	loanDomain "securevault-indexer/internal/domain/loan"
	"securevault-indexer/internal/domain/uow"
	"securevault-indexer/pkg/bigint"
	"securevault-indexer/pkg/id"

	"gorm.io/gorm"
)

func (u *Usecase) loanKey(loanID string) string {
	return id.Compose(u.vaultID, loanID)
}

func (u *Usecase) applyLoanIssued(ctx context.Context, r uow.Repos, e *event.LoanIssued) error {
	vlt, err := u.ensureVault(ctx, r, e.Meta.Timestamp)
	if err != nil {
		return err
	}
	borrower, err := u.ensureBorrower(ctx, r, e.Borrower, e.Meta.Timestamp)
	if err != nil {
		return err
	}

	rate := 0
	if e.InterestRate != nil {
		rate = int(e.InterestRate.Int64())
	}
	disbursedAt := bigUint64(e.ContractTimestamp)

	created, err := r.Loans.CreateIfAbsent(ctx, &loanDomain.Loan{
		ID:         u.loanKey(e.LoanID.String()),
		VaultID:    u.vaultID,
		LoanID:     bigint.FromBig(e.LoanID),
		BorrowerID: borrower.ID,

		Principal:            bigint.FromBig(e.Principal),
		OutstandingPrincipal: bigint.FromBig(e.Principal),
		TotalOwed:            bigint.FromBig(e.Principal),

		InterestRateBps:     rate,
		CurrentInterestRate: rate,
		InterestType:        loanDomain.InterestTypeLabel(e.InterestType),
		CompoundingPeriod:   loanDomain.CompoundingPeriodLabel(e.CompoundingPeriod),

		Status: loanDomain.StatusActive,

		StartTimestamp:              disbursedAt,
		DisbursementTimestamp:       disbursedAt,
		LastInterestUpdateTimestamp: disbursedAt,

		AgreementHash: zeroHash,
	})
	if err != nil {
		return err
	}
	if !created {
		// Same LoanIssued log already applied.
		return nil
	}

	borrower.TotalBorrowed = borrower.TotalBorrowed.Plus(e.Principal)
	borrower.CurrentOutstanding = borrower.CurrentOutstanding.Plus(e.Principal)
	borrower.TotalLoansCount++
	borrower.ActiveLoansCount++
	if borrower.FirstLoanTime == nil {
		borrower.FirstLoanTime = u64ptr(e.Meta.Timestamp)
	}
	borrower.LastActivityTime = e.Meta.Timestamp
	if err := r.Borrowers.Save(ctx, borrower); err != nil {
		return err
	}

	// A loan event moves outstanding exposure, not vault assets, so the
	// utilization recompute runs against the existing totalAssets.
	vlt.TotalOutstandingLoans = vlt.TotalOutstandingLoans.Plus(e.Principal)
	vlt.TotalLoansIssued++
	vlt.ActiveLoansCount++
	vlt.UtilizationRate = UtilizationRate(vlt.TotalOutstandingLoans.Big(), vlt.TotalAssets.Big())
	vlt.LastUpdateAt = e.Meta.Timestamp
	return r.Vaults.Save(ctx, vlt)
}

func (u *Usecase) applyLoanPayment(ctx context.Context, r uow.Repos, e *event.LoanPayment) error {
	vlt, err := u.ensureVault(ctx, r, e.Meta.Timestamp)
	if err != nil {
		return err
	}

	key := u.loanKey(e.LoanID.String())
	ln, err := r.Loans.Get(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Payment for a loan whose issuance was never observed: defensive
		// guard, not a retried failure.
		return nil
	}
	if err != nil {
		return err
	}

	created, err := r.LoanPayments.CreateIfAbsent(ctx, &loanDomain.Payment{
		ID:         id.ForLog(key, txHashHex(e.Meta), e.LogIndex),
		LoanID:     key,
		BorrowerID: ln.BorrowerID,
		Payer:      lowerAddr(e.Payer),

		TotalPayment:       bigint.FromBig(e.TotalPayment),
		InterestPaid:       bigint.FromBig(e.InterestPaid),
		PrincipalPaid:      bigint.FromBig(e.PrincipalPaid),
		RemainingPrincipal: bigint.FromBig(e.RemainingPrincipal),
		RemainingInterest:  bigint.FromBig(e.RemainingInterest),

		Timestamp:   bigUint64(e.ContractTimestamp),
		TxHash:      txHashHex(e.Meta),
		BlockNumber: e.BlockNumber,
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	// The contract is the source of truth for accrual; the remaining
	// balances carried by the event are recorded verbatim, never
	// recomputed from rate and time.
	ln.OutstandingPrincipal = bigint.FromBig(e.RemainingPrincipal)
	ln.AccruedInterest = bigint.FromBig(e.RemainingInterest)
	ln.TotalInterestPaid = ln.TotalInterestPaid.Plus(e.InterestPaid)
	ln.TotalPrincipalPaid = ln.TotalPrincipalPaid.Plus(e.PrincipalPaid)
	ln.TotalPaid = ln.TotalPaid.Plus(e.TotalPayment)
	ln.TotalOwed = bigint.FromBig(e.RemainingPrincipal).Plus(e.RemainingInterest)
	ln.LastPaymentTimestamp = u64ptr(bigUint64(e.ContractTimestamp))
	ln.LastInterestUpdateTimestamp = bigUint64(e.ContractTimestamp)
	ln.PaymentCount++
	if err := r.Loans.Save(ctx, ln); err != nil {
		return err
	}

	borrower, err := r.Borrowers.Get(ctx, ln.BorrowerID)
	switch {
	case err == nil:
		borrower.TotalRepaid = borrower.TotalRepaid.Plus(e.TotalPayment)
		borrower.TotalInterestPaid = borrower.TotalInterestPaid.Plus(e.InterestPaid)
		borrower.TotalPrincipalPaid = borrower.TotalPrincipalPaid.Plus(e.PrincipalPaid)
		borrower.CurrentOutstanding = borrower.CurrentOutstanding.MinusFloor(e.PrincipalPaid)
		borrower.LastActivityTime = e.Meta.Timestamp
		if err := r.Borrowers.Save(ctx, borrower); err != nil {
			return err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	vlt.TotalOutstandingLoans = vlt.TotalOutstandingLoans.MinusFloor(e.PrincipalPaid)
	vlt.TotalInterestEarned = vlt.TotalInterestEarned.Plus(e.InterestPaid)
	vlt.UtilizationRate = UtilizationRate(vlt.TotalOutstandingLoans.Big(), vlt.TotalAssets.Big())
	vlt.LastUpdateAt = e.Meta.Timestamp
	return r.Vaults.Save(ctx, vlt)
}

func (u *Usecase) applyLoanFullyRepaid(ctx context.Context, r uow.Repos, e *event.LoanFullyRepaid) error {
	vlt, err := u.ensureVault(ctx, r, e.Meta.Timestamp)
	if err != nil {
		return err
	}

	ln, err := r.Loans.Get(ctx, u.loanKey(e.LoanID.String()))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if ln.Status == loanDomain.StatusRepaid {
		// Replay of the terminal transition; counters already moved.
		return nil
	}

	ln.Status = loanDomain.StatusRepaid
	ln.OutstandingPrincipal = bigint.New(0)
	ln.AccruedInterest = bigint.New(0)
	ln.TotalOwed = bigint.New(0)
	ln.TotalInterestPaid = bigint.FromBig(e.TotalInterestPaid)
	ln.TotalPrincipalPaid = bigint.FromBig(e.TotalPrincipalPaid)
	ln.TotalPaid = bigint.FromBig(e.TotalPrincipalPaid).Plus(e.TotalInterestPaid)
	ln.LastInterestUpdateTimestamp = bigUint64(e.ContractTimestamp)
	if err := r.Loans.Save(ctx, ln); err != nil {
		return err
	}

	borrower, err := r.Borrowers.Get(ctx, ln.BorrowerID)
	switch {
	case err == nil:
		if borrower.ActiveLoansCount > 0 {
			borrower.ActiveLoansCount--
		}
		borrower.RepaidLoansCount++
		borrower.CurrentOutstanding = bigint.New(0)
		borrower.LastActivityTime = e.Meta.Timestamp
		if err := r.Borrowers.Save(ctx, borrower); err != nil {
			return err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if vlt.ActiveLoansCount > 0 {
		vlt.ActiveLoansCount--
	}
	vlt.RepaidLoansCount++
	vlt.LastUpdateAt = e.Meta.Timestamp
	return r.Vaults.Save(ctx, vlt)
}

func (u *Usecase) applyLoanDefaulted(ctx context.Context, r uow.Repos, e *event.LoanDefaulted) error {
	vlt, err := u.ensureVault(ctx, r, e.Meta.Timestamp)
	if err != nil {
		return err
	}

	ln, err := r.Loans.Get(ctx, u.loanKey(e.LoanID.String()))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if ln.Status == loanDomain.StatusDefaulted {
		return nil
	}

	ln.Status = loanDomain.StatusDefaulted
	ln.OutstandingPrincipal = bigint.FromBig(e.OutstandingPrincipal)
	ln.AccruedInterest = bigint.FromBig(e.OutstandingInterest)
	ln.DefaultTimestamp = u64ptr(bigUint64(e.ContractTimestamp))
	ln.LastInterestUpdateTimestamp = bigUint64(e.ContractTimestamp)
	if err := r.Loans.Save(ctx, ln); err != nil {
		return err
	}

	borrower, err := r.Borrowers.Get(ctx, ln.BorrowerID)
	switch {
	case err == nil:
		if borrower.ActiveLoansCount > 0 {
			borrower.ActiveLoansCount--
		}
		borrower.DefaultedLoansCount++
		borrower.LastActivityTime = e.Meta.Timestamp
		if err := r.Borrowers.Save(ctx, borrower); err != nil {
			return err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if vlt.ActiveLoansCount > 0 {
		vlt.ActiveLoansCount--
	}
	vlt.DefaultedLoansCount++
	vlt.TotalDefaultedAmount = vlt.TotalDefaultedAmount.Plus(e.OutstandingPrincipal)
	vlt.LastUpdateAt = e.Meta.Timestamp
	return r.Vaults.Save(ctx, vlt)
}

// A write-off is a vault-level ledger entry only: the loan has already left
// the active set via default, so neither borrower nor vault counters move
// and the loan's balance fields stay as they were.
func (u *Usecase) applyLoanWrittenOff(ctx context.Context, r uow.Repos, e *event.LoanWrittenOff) error {
	vlt, err := u.ensureVault(ctx, r, e.Meta.Timestamp)
	if err != nil {
		return err
	}

	ln, err := r.Loans.Get(ctx, u.loanKey(e.LoanID.String()))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if ln.Status == loanDomain.StatusWrittenOff {
		return nil
	}

	ln.Status = loanDomain.StatusWrittenOff
	ln.LastInterestUpdateTimestamp = bigUint64(e.ContractTimestamp)
	if err := r.Loans.Save(ctx, ln); err != nil {
		return err
	}

	vlt.TotalWrittenOff = vlt.TotalWrittenOff.Plus(e.AmountWrittenOff)
	vlt.LastUpdateAt = e.Meta.Timestamp
	return r.Vaults.Save(ctx, vlt)
}
