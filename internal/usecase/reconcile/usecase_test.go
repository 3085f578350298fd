package reconcile

import (
	"context"
	"math/big"
	"strings"
	"testing"

	mysqlrepo "securevault-indexer/internal/adapter/repository/mysql"
	"securevault-indexer/internal/domain/accesscontrol"
	"securevault-indexer/internal/domain/checkpoint"
	"securevault-indexer/internal/domain/event"
	loanDomain "securevault-indexer/internal/domain/loan"
	"securevault-indexer/internal/domain/request"
	"securevault-indexer/internal/domain/uow"
	"securevault-indexer/internal/domain/vault"
	"securevault-indexer/pkg/id"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	testVaultAddr = common.HexToAddress("0x64Be1630ffD8144EB52896dCD099C805B93328e3")
	investorA     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	borrowerB     = common.HexToAddress("0x2222222222222222222222222222222222222222")
	accountC      = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func testVaultID() string { return strings.ToLower(testVaultAddr.Hex()) }

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&vault.Vault{}, &vault.Lender{}, &vault.Borrower{},
		&request.DepositRequest{}, &request.WithdrawRequest{},
		&request.DepositExecution{}, &request.WithdrawExecution{},
		&request.AdminWithdrawal{},
		&loanDomain.Loan{}, &loanDomain.Payment{},
		&accesscontrol.Role{}, &accesscontrol.Member{}, &accesscontrol.RoleEvent{},
		&checkpoint.Cursor{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func newTestUsecase(t *testing.T) (*Usecase, uow.Repos) {
	t.Helper()
	db := openTestDB(t)
	return NewUsecase(testVaultAddr, mysqlrepo.NewGormUoW(db)), mysqlrepo.Repos(db)
}

func meta(block uint64, idx uint, tx string) event.Meta {
	return event.Meta{
		BlockNumber: block,
		Timestamp:   block * 10,
		TxHash:      common.HexToHash(tx),
		LogIndex:    idx,
	}
}

func apply(t *testing.T, u *Usecase, ev event.Event) {
	t.Helper()
	if err := u.Apply(context.Background(), ev); err != nil {
		t.Fatalf("Apply(%T): %v", ev, err)
	}
}

func getVault(t *testing.T, r uow.Repos) *vault.Vault {
	t.Helper()
	v, err := r.Vaults.Get(context.Background(), testVaultID())
	if err != nil {
		t.Fatalf("get vault: %v", err)
	}
	return v
}

// ---------------------------------------------------------------- deposits

func TestDepositLifecycle(t *testing.T) {
	u, r := newTestUsecase(t)
	ctx := context.Background()

	apply(t, u, &event.DepositRequested{
		Meta:      meta(100, 0, "0xa1"),
		RequestID: big.NewInt(1),
		Investor:  investorA,
		Receiver:  investorA,
		Assets:    big.NewInt(1000),
	})

	reqKey := id.Compose(testVaultID(), "1")
	req, err := r.DepositRequests.Get(ctx, reqKey)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if req.Status != request.StatusPending {
		t.Fatalf("status = %s, want PENDING", req.Status)
	}
	if req.AssetsRequested.String() != "1000" {
		t.Fatalf("assets requested = %s", req.AssetsRequested.String())
	}

	// First partial fill.
	apply(t, u, &event.DepositExecuted{
		Meta:            meta(101, 0, "0xa2"),
		RequestID:       big.NewInt(1),
		Investor:        investorA,
		AssetsProcessed: big.NewInt(400),
		SharesIssued:    big.NewInt(400),
		FullyExecuted:   false,
	})

	req, _ = r.DepositRequests.Get(ctx, reqKey)
	if req.Status != request.StatusPartial {
		t.Fatalf("status after partial = %s, want PARTIAL", req.Status)
	}
	if req.AssetsProcessed.String() != "400" || req.SharesIssued.String() != "400" {
		t.Fatalf("partial totals = %s/%s", req.AssetsProcessed.String(), req.SharesIssued.String())
	}
	if req.ExecutionSharePrice == nil || *req.ExecutionSharePrice != "1" {
		t.Fatalf("execution share price = %v, want 1", req.ExecutionSharePrice)
	}

	// Second fill completes the request.
	apply(t, u, &event.DepositExecuted{
		Meta:            meta(102, 0, "0xa3"),
		RequestID:       big.NewInt(1),
		Investor:        investorA,
		AssetsProcessed: big.NewInt(600),
		SharesIssued:    big.NewInt(600),
		FullyExecuted:   true,
	})

	req, _ = r.DepositRequests.Get(ctx, reqKey)
	if req.Status != request.StatusCompleted || !req.FullyExecuted {
		t.Fatalf("status = %s fully=%v, want COMPLETED true", req.Status, req.FullyExecuted)
	}

	v := getVault(t, r)
	if v.TotalAssets.String() != "1000" || v.TotalSupply.String() != "1000" {
		t.Fatalf("vault totals = %s/%s", v.TotalAssets.String(), v.TotalSupply.String())
	}
	if v.TotalDeposited.String() != "1000" {
		t.Fatalf("total deposited = %s", v.TotalDeposited.String())
	}
	if v.CurrentSharePrice != "1" {
		t.Fatalf("share price = %s", v.CurrentSharePrice)
	}

	lender, err := r.Lenders.Get(ctx, id.Compose(testVaultID(), strings.ToLower(investorA.Hex())))
	if err != nil {
		t.Fatalf("get lender: %v", err)
	}
	if lender.Shares.String() != "1000" || lender.Deposited.String() != "1000" {
		t.Fatalf("lender position = %s/%s", lender.Shares.String(), lender.Deposited.String())
	}
	if lender.DepositCount != 1 {
		t.Fatalf("deposit count = %d, want 1 (only the completing fill counts)", lender.DepositCount)
	}
	if lender.FirstDepositTime == nil || *lender.FirstDepositTime != 1010 {
		t.Fatalf("first deposit time = %v", lender.FirstDepositTime)
	}
}

func TestDepositExecutedReplayIsNoop(t *testing.T) {
	u, r := newTestUsecase(t)

	ev := &event.DepositExecuted{
		Meta:            meta(101, 3, "0xa2"),
		RequestID:       big.NewInt(1),
		Investor:        investorA,
		AssetsProcessed: big.NewInt(400),
		SharesIssued:    big.NewInt(400),
		FullyExecuted:   true,
	}
	apply(t, u, ev)
	apply(t, u, ev)
	apply(t, u, ev)

	v := getVault(t, r)
	if v.TotalAssets.String() != "400" {
		t.Fatalf("replay changed vault assets: %s", v.TotalAssets.String())
	}
	lender, _ := r.Lenders.Get(context.Background(), id.Compose(testVaultID(), strings.ToLower(investorA.Hex())))
	if lender.DepositCount != 1 {
		t.Fatalf("replay changed deposit count: %d", lender.DepositCount)
	}
}

func TestDepositRequestedReplayKeepsProgress(t *testing.T) {
	u, r := newTestUsecase(t)
	ctx := context.Background()

	reqEv := &event.DepositRequested{
		Meta:      meta(100, 0, "0xa1"),
		RequestID: big.NewInt(1),
		Investor:  investorA,
		Receiver:  investorA,
		Assets:    big.NewInt(1000),
	}
	apply(t, u, reqEv)
	apply(t, u, &event.DepositExecuted{
		Meta:            meta(101, 0, "0xa2"),
		RequestID:       big.NewInt(1),
		Investor:        investorA,
		AssetsProcessed: big.NewInt(1000),
		SharesIssued:    big.NewInt(1000),
		FullyExecuted:   true,
	})

	// Redelivered request event must not reset the completed row.
	apply(t, u, reqEv)

	req, _ := r.DepositRequests.Get(ctx, id.Compose(testVaultID(), "1"))
	if req.Status != request.StatusCompleted {
		t.Fatalf("replayed request reset status to %s", req.Status)
	}
}

// -------------------------------------------------------------- withdrawals

func seedDeposit(t *testing.T, u *Usecase, assets, shares int64) {
	t.Helper()
	apply(t, u, &event.DepositExecuted{
		Meta:            meta(50, 0, "0x50"),
		RequestID:       big.NewInt(99),
		Investor:        investorA,
		AssetsProcessed: big.NewInt(assets),
		SharesIssued:    big.NewInt(shares),
		FullyExecuted:   true,
	})
}

func TestWithdrawLifecycle(t *testing.T) {
	u, r := newTestUsecase(t)
	ctx := context.Background()
	seedDeposit(t, u, 1000, 1000)

	apply(t, u, &event.WithdrawRequested{
		Meta:      meta(200, 0, "0xb1"),
		RequestID: big.NewInt(1),
		Investor:  investorA,
		Receiver:  investorA,
		Shares:    big.NewInt(300),
	})

	// The withdraw key must not collide with deposit request id 1.
	wKey := id.Compose(testVaultID(), "withdraw", "1")
	if _, err := r.WithdrawRequests.Get(ctx, wKey); err != nil {
		t.Fatalf("withdraw request not stored under discriminated key: %v", err)
	}

	apply(t, u, &event.WithdrawExecuted{
		Meta:            meta(201, 0, "0xb2"),
		RequestID:       big.NewInt(1),
		Investor:        investorA,
		SharesProcessed: big.NewInt(300),
		AssetsReturned:  big.NewInt(300),
		FullyExecuted:   true,
	})

	v := getVault(t, r)
	if v.TotalAssets.String() != "700" || v.TotalSupply.String() != "700" {
		t.Fatalf("vault totals = %s/%s, want 700/700", v.TotalAssets.String(), v.TotalSupply.String())
	}
	if v.TotalWithdrawn.String() != "300" {
		t.Fatalf("total withdrawn = %s", v.TotalWithdrawn.String())
	}

	wr, _ := r.WithdrawRequests.Get(ctx, wKey)
	if wr.Status != request.StatusCompleted {
		t.Fatalf("withdraw status = %s", wr.Status)
	}

	lender, _ := r.Lenders.Get(ctx, id.Compose(testVaultID(), strings.ToLower(investorA.Hex())))
	if lender.Shares.String() != "700" || lender.Withdrawn.String() != "300" {
		t.Fatalf("lender = %s shares, %s withdrawn", lender.Shares.String(), lender.Withdrawn.String())
	}
	if lender.WithdrawCount != 1 {
		t.Fatalf("withdraw count = %d", lender.WithdrawCount)
	}
}

func TestWithdrawSaturatesAtZero(t *testing.T) {
	u, r := newTestUsecase(t)
	seedDeposit(t, u, 100, 100)

	// Contract reports more than the cached totals hold.
	apply(t, u, &event.WithdrawExecuted{
		Meta:            meta(201, 0, "0xb2"),
		RequestID:       big.NewInt(1),
		Investor:        investorA,
		SharesProcessed: big.NewInt(500),
		AssetsReturned:  big.NewInt(500),
		FullyExecuted:   true,
	})

	v := getVault(t, r)
	if v.TotalAssets.String() != "0" || v.TotalSupply.String() != "0" {
		t.Fatalf("vault went negative: %s/%s", v.TotalAssets.String(), v.TotalSupply.String())
	}
	if v.CurrentSharePrice != "1.0" {
		t.Fatalf("share price on emptied vault = %s, want 1.0", v.CurrentSharePrice)
	}
}

func TestAdminWithdrawal(t *testing.T) {
	u, r := newTestUsecase(t)
	ctx := context.Background()
	seedDeposit(t, u, 1000, 1000)

	ev := &event.AdminWithdrawal{
		Meta:         meta(300, 0, "0xc1"),
		Shareholder:  investorA,
		Receiver:     accountC,
		Shares:       big.NewInt(100),
		Assets:       big.NewInt(100),
		FeeShares:    big.NewInt(0),
		FeeRecipient: common.Address{},
	}
	apply(t, u, ev)
	apply(t, u, ev) // replay

	v := getVault(t, r)
	if v.TotalAssets.String() != "900" || v.TotalSupply.String() != "900" {
		t.Fatalf("vault totals = %s/%s, want 900/900", v.TotalAssets.String(), v.TotalSupply.String())
	}

	lender, _ := r.Lenders.Get(ctx, id.Compose(testVaultID(), strings.ToLower(investorA.Hex())))
	if lender.Shares.String() != "900" {
		t.Fatalf("lender shares = %s", lender.Shares.String())
	}
	if lender.WithdrawCount != 1 {
		t.Fatalf("replay bumped withdraw count: %d", lender.WithdrawCount)
	}
}

func TestAdminWithdrawalFeeRecipient(t *testing.T) {
	db := openTestDB(t)
	u := NewUsecase(testVaultAddr, mysqlrepo.NewGormUoW(db))

	apply(t, u, &event.AdminWithdrawal{
		Meta:         meta(301, 0, "0xc2"),
		Shareholder:  investorA,
		Receiver:     accountC,
		Shares:       big.NewInt(10),
		Assets:       big.NewInt(10),
		FeeShares:    big.NewInt(1),
		FeeRecipient: accountC,
	})
	apply(t, u, &event.AdminWithdrawal{
		Meta:         meta(302, 0, "0xc3"),
		Shareholder:  investorA,
		Receiver:     accountC,
		Shares:       big.NewInt(10),
		Assets:       big.NewInt(10),
		FeeShares:    big.NewInt(0),
		FeeRecipient: common.Address{},
	})

	var rows []request.AdminWithdrawal
	if err := db.Order("block_number").Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].FeeRecipient == nil || *rows[0].FeeRecipient != strings.ToLower(accountC.Hex()) {
		t.Fatalf("fee recipient = %v", rows[0].FeeRecipient)
	}
	// The zero address means no fee was routed anywhere.
	if rows[1].FeeRecipient != nil {
		t.Fatalf("zero fee recipient stored as %v", *rows[1].FeeRecipient)
	}
}

// -------------------------------------------------------------------- loans

func issueLoan(t *testing.T, u *Usecase, loanID, principal int64) {
	t.Helper()
	apply(t, u, &event.LoanIssued{
		Meta:              meta(400, 0, "0xd1"),
		LoanID:            big.NewInt(loanID),
		Borrower:          borrowerB,
		Principal:         big.NewInt(principal),
		InterestRate:      big.NewInt(1200),
		InterestType:      0,
		CompoundingPeriod: 0,
		ContractTimestamp: big.NewInt(4000),
	})
}

func TestLoanIssued(t *testing.T) {
	u, r := newTestUsecase(t)
	ctx := context.Background()
	seedDeposit(t, u, 2000, 2000)
	issueLoan(t, u, 7, 1000)

	ln, err := r.Loans.Get(ctx, id.Compose(testVaultID(), "7"))
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if ln.Status != loanDomain.StatusActive {
		t.Fatalf("status = %s", ln.Status)
	}
	if ln.Principal.String() != "1000" || ln.OutstandingPrincipal.String() != "1000" {
		t.Fatalf("principal = %s/%s", ln.Principal.String(), ln.OutstandingPrincipal.String())
	}
	if ln.InterestRateBps != 1200 || ln.InterestType != loanDomain.InterestSimple {
		t.Fatalf("terms = %d bps %s", ln.InterestRateBps, ln.InterestType)
	}
	if ln.CompoundingPeriod != "MONTHLY" {
		t.Fatalf("compounding = %s", ln.CompoundingPeriod)
	}
	if ln.DisbursementTimestamp != 4000 {
		t.Fatalf("disbursement ts = %d", ln.DisbursementTimestamp)
	}

	v := getVault(t, r)
	if v.TotalOutstandingLoans.String() != "1000" {
		t.Fatalf("outstanding = %s", v.TotalOutstandingLoans.String())
	}
	if v.TotalLoansIssued != 1 || v.ActiveLoansCount != 1 {
		t.Fatalf("counters = %d issued %d active", v.TotalLoansIssued, v.ActiveLoansCount)
	}
	// 1000 of 2000 assets out on loan.
	if v.UtilizationRate != "50" {
		t.Fatalf("utilization = %s, want 50", v.UtilizationRate)
	}

	b, _ := r.Borrowers.Get(ctx, id.Compose(testVaultID(), strings.ToLower(borrowerB.Hex())))
	if b.TotalBorrowed.String() != "1000" || b.ActiveLoansCount != 1 || b.TotalLoansCount != 1 {
		t.Fatalf("borrower = %s borrowed, %d active, %d total", b.TotalBorrowed.String(), b.ActiveLoansCount, b.TotalLoansCount)
	}
}

func TestLoanIssuedReplayIsNoop(t *testing.T) {
	u, r := newTestUsecase(t)
	seedDeposit(t, u, 2000, 2000)
	issueLoan(t, u, 7, 1000)
	issueLoan(t, u, 7, 1000)

	v := getVault(t, r)
	if v.TotalLoansIssued != 1 {
		t.Fatalf("replay bumped issued count: %d", v.TotalLoansIssued)
	}
	if v.TotalOutstandingLoans.String() != "1000" {
		t.Fatalf("replay doubled outstanding: %s", v.TotalOutstandingLoans.String())
	}
}

func TestLoanPayment(t *testing.T) {
	u, r := newTestUsecase(t)
	ctx := context.Background()
	seedDeposit(t, u, 2000, 2000)
	issueLoan(t, u, 7, 1000)

	pay := &event.LoanPayment{
		Meta:               meta(410, 0, "0xd2"),
		LoanID:             big.NewInt(7),
		Payer:              borrowerB,
		TotalPayment:       big.NewInt(200),
		InterestPaid:       big.NewInt(50),
		PrincipalPaid:      big.NewInt(150),
		RemainingPrincipal: big.NewInt(850),
		RemainingInterest:  big.NewInt(0),
		ContractTimestamp:  big.NewInt(4100),
	}
	apply(t, u, pay)
	apply(t, u, pay) // replay

	ln, _ := r.Loans.Get(ctx, id.Compose(testVaultID(), "7"))
	// The event's remaining balances are authoritative, 850 not 1000-150
	// recomputed with interest.
	if ln.OutstandingPrincipal.String() != "850" {
		t.Fatalf("outstanding = %s, want 850", ln.OutstandingPrincipal.String())
	}
	if ln.TotalInterestPaid.String() != "50" || ln.TotalPrincipalPaid.String() != "150" {
		t.Fatalf("paid = %s interest, %s principal", ln.TotalInterestPaid.String(), ln.TotalPrincipalPaid.String())
	}
	if ln.PaymentCount != 1 {
		t.Fatalf("replay bumped payment count: %d", ln.PaymentCount)
	}
	if ln.LastPaymentTimestamp == nil || *ln.LastPaymentTimestamp != 4100 {
		t.Fatalf("last payment ts = %v", ln.LastPaymentTimestamp)
	}

	v := getVault(t, r)
	if v.TotalOutstandingLoans.String() != "850" {
		t.Fatalf("vault outstanding = %s", v.TotalOutstandingLoans.String())
	}
	if v.TotalInterestEarned.String() != "50" {
		t.Fatalf("interest earned = %s", v.TotalInterestEarned.String())
	}

	b, _ := r.Borrowers.Get(ctx, id.Compose(testVaultID(), strings.ToLower(borrowerB.Hex())))
	if b.TotalRepaid.String() != "200" || b.CurrentOutstanding.String() != "850" {
		t.Fatalf("borrower repaid = %s, outstanding = %s", b.TotalRepaid.String(), b.CurrentOutstanding.String())
	}
}

func TestLoanPaymentForUnknownLoan(t *testing.T) {
	u, r := newTestUsecase(t)

	apply(t, u, &event.LoanPayment{
		Meta:               meta(410, 0, "0xd2"),
		LoanID:             big.NewInt(404),
		Payer:              borrowerB,
		TotalPayment:       big.NewInt(200),
		InterestPaid:       big.NewInt(50),
		PrincipalPaid:      big.NewInt(150),
		RemainingPrincipal: big.NewInt(850),
		RemainingInterest:  big.NewInt(0),
		ContractTimestamp:  big.NewInt(4100),
	})

	// Nothing to update, nothing recorded, no failure.
	v := getVault(t, r)
	if v.TotalInterestEarned.String() != "0" {
		t.Fatalf("phantom payment moved vault totals: %s", v.TotalInterestEarned.String())
	}
}

func TestLoanFullyRepaid(t *testing.T) {
	u, r := newTestUsecase(t)
	ctx := context.Background()
	seedDeposit(t, u, 2000, 2000)
	issueLoan(t, u, 7, 1000)

	done := &event.LoanFullyRepaid{
		Meta:               meta(420, 0, "0xd3"),
		LoanID:             big.NewInt(7),
		TotalPrincipalPaid: big.NewInt(1000),
		TotalInterestPaid:  big.NewInt(120),
		ContractTimestamp:  big.NewInt(4200),
	}
	apply(t, u, done)
	apply(t, u, done) // terminal replay guard

	ln, _ := r.Loans.Get(ctx, id.Compose(testVaultID(), "7"))
	if ln.Status != loanDomain.StatusRepaid {
		t.Fatalf("status = %s", ln.Status)
	}
	if ln.OutstandingPrincipal.String() != "0" || ln.TotalOwed.String() != "0" {
		t.Fatalf("balances not cleared: %s/%s", ln.OutstandingPrincipal.String(), ln.TotalOwed.String())
	}
	if ln.TotalPaid.String() != "1120" {
		t.Fatalf("total paid = %s", ln.TotalPaid.String())
	}

	v := getVault(t, r)
	if v.ActiveLoansCount != 0 || v.RepaidLoansCount != 1 {
		t.Fatalf("counters = %d active %d repaid", v.ActiveLoansCount, v.RepaidLoansCount)
	}

	b, _ := r.Borrowers.Get(ctx, id.Compose(testVaultID(), strings.ToLower(borrowerB.Hex())))
	if b.ActiveLoansCount != 0 || b.RepaidLoansCount != 1 {
		t.Fatalf("borrower counters = %d active %d repaid", b.ActiveLoansCount, b.RepaidLoansCount)
	}
	if b.CurrentOutstanding.String() != "0" {
		t.Fatalf("borrower outstanding = %s", b.CurrentOutstanding.String())
	}
}

func TestLoanDefaultThenWriteOff(t *testing.T) {
	u, r := newTestUsecase(t)
	ctx := context.Background()
	seedDeposit(t, u, 2000, 2000)
	issueLoan(t, u, 7, 1000)

	def := &event.LoanDefaulted{
		Meta:                 meta(430, 0, "0xd4"),
		LoanID:               big.NewInt(7),
		OutstandingPrincipal: big.NewInt(900),
		OutstandingInterest:  big.NewInt(30),
		ContractTimestamp:    big.NewInt(4300),
	}
	apply(t, u, def)
	apply(t, u, def) // terminal replay guard

	v := getVault(t, r)
	if v.DefaultedLoansCount != 1 || v.ActiveLoansCount != 0 {
		t.Fatalf("counters = %d defaulted %d active", v.DefaultedLoansCount, v.ActiveLoansCount)
	}
	if v.TotalDefaultedAmount.String() != "900" {
		t.Fatalf("defaulted amount = %s", v.TotalDefaultedAmount.String())
	}

	wo := &event.LoanWrittenOff{
		Meta:              meta(440, 0, "0xd5"),
		LoanID:            big.NewInt(7),
		AmountWrittenOff:  big.NewInt(930),
		ContractTimestamp: big.NewInt(4400),
	}
	apply(t, u, wo)
	apply(t, u, wo)

	ln, _ := r.Loans.Get(ctx, id.Compose(testVaultID(), "7"))
	if ln.Status != loanDomain.StatusWrittenOff {
		t.Fatalf("status = %s", ln.Status)
	}
	// Default already removed the loan from the active set; write-off must
	// not double-count.
	v = getVault(t, r)
	if v.DefaultedLoansCount != 1 || v.ActiveLoansCount != 0 {
		t.Fatalf("write-off moved counters: %d defaulted %d active", v.DefaultedLoansCount, v.ActiveLoansCount)
	}
	if v.TotalWrittenOff.String() != "930" {
		t.Fatalf("written off = %s", v.TotalWrittenOff.String())
	}

	b, _ := r.Borrowers.Get(ctx, id.Compose(testVaultID(), strings.ToLower(borrowerB.Hex())))
	if b.DefaultedLoansCount != 1 {
		t.Fatalf("borrower defaulted count = %d", b.DefaultedLoansCount)
	}
}

// ---------------------------------------------------------------------- kyc

func TestKYCEvents(t *testing.T) {
	u, r := newTestUsecase(t)
	registry := common.HexToAddress("0x4444444444444444444444444444444444444444")

	apply(t, u, &event.KYCRegistrySet{
		Meta:        meta(500, 0, "0xe1"),
		OldRegistry: common.Address{},
		NewRegistry: registry,
	})
	apply(t, u, &event.KYCEnabled{Meta: meta(501, 0, "0xe2")})

	v := getVault(t, r)
	if !v.KYCEnabled {
		t.Fatal("kyc not enabled")
	}
	if v.KYCRegistry == nil || *v.KYCRegistry != strings.ToLower(registry.Hex()) {
		t.Fatalf("registry = %v", v.KYCRegistry)
	}

	apply(t, u, &event.KYCDisabled{Meta: meta(502, 0, "0xe3")})
	v = getVault(t, r)
	if v.KYCEnabled {
		t.Fatal("kyc still enabled after disable")
	}
	if v.KYCRegistry == nil {
		t.Fatal("disable cleared the registry address")
	}
}

// -------------------------------------------------------------------- roles

func relayerRole() common.Hash { return crypto.Keccak256Hash([]byte("RELAYER_ROLE")) }

func TestRoleGrantRevoke(t *testing.T) {
	u, r := newTestUsecase(t)
	ctx := context.Background()

	grant := &event.RoleGranted{
		Meta:    meta(600, 0, "0xf1"),
		Role:    relayerRole(),
		Account: accountC,
		Sender:  investorA,
	}
	apply(t, u, grant)
	apply(t, u, grant) // replay

	roleID := id.Compose(testVaultID(), relayerRole().Hex())
	role, err := r.Roles.Get(ctx, roleID)
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if role.RoleName != "RELAYER_ROLE" {
		t.Fatalf("role name = %s", role.RoleName)
	}
	if role.MemberCount != 1 {
		t.Fatalf("member count = %d, want 1", role.MemberCount)
	}
	if role.AdminRoleName != accesscontrol.DefaultAdminRoleName {
		t.Fatalf("admin defaults = %s", role.AdminRoleName)
	}

	member, err := r.RoleMembers.Get(ctx, id.Compose(roleID, strings.ToLower(accountC.Hex())))
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if !member.IsActive {
		t.Fatal("member not active")
	}

	// Grant again in a new tx while already active: metadata refresh only.
	apply(t, u, &event.RoleGranted{
		Meta:    meta(601, 0, "0xf2"),
		Role:    relayerRole(),
		Account: accountC,
		Sender:  investorA,
	})
	role, _ = r.Roles.Get(ctx, roleID)
	if role.MemberCount != 1 {
		t.Fatalf("re-grant double counted: %d", role.MemberCount)
	}

	apply(t, u, &event.RoleRevoked{
		Meta:    meta(602, 0, "0xf3"),
		Role:    relayerRole(),
		Account: accountC,
		Sender:  investorA,
	})
	role, _ = r.Roles.Get(ctx, roleID)
	if role.MemberCount != 0 {
		t.Fatalf("member count after revoke = %d", role.MemberCount)
	}
	member, _ = r.RoleMembers.Get(ctx, id.Compose(roleID, strings.ToLower(accountC.Hex())))
	if member.IsActive {
		t.Fatal("member still active after revoke")
	}
	if member.RevokedAt == nil || member.RevokeTxHash == nil {
		t.Fatal("revoke references not recorded")
	}

	// Revoking a non-member only leaves an audit row.
	apply(t, u, &event.RoleRevoked{
		Meta:    meta(603, 0, "0xf4"),
		Role:    relayerRole(),
		Account: investorA,
		Sender:  investorA,
	})
	role, _ = r.Roles.Get(ctx, roleID)
	if role.MemberCount != 0 {
		t.Fatalf("phantom revoke moved count: %d", role.MemberCount)
	}
}

func TestRoleGrantAfterRevokeReactivates(t *testing.T) {
	u, r := newTestUsecase(t)
	ctx := context.Background()

	apply(t, u, &event.RoleGranted{Meta: meta(600, 0, "0xf1"), Role: relayerRole(), Account: accountC, Sender: investorA})
	apply(t, u, &event.RoleRevoked{Meta: meta(601, 0, "0xf2"), Role: relayerRole(), Account: accountC, Sender: investorA})
	apply(t, u, &event.RoleGranted{Meta: meta(602, 0, "0xf3"), Role: relayerRole(), Account: accountC, Sender: investorA})

	roleID := id.Compose(testVaultID(), relayerRole().Hex())
	role, _ := r.Roles.Get(ctx, roleID)
	if role.MemberCount != 1 {
		t.Fatalf("member count after re-grant = %d, want 1", role.MemberCount)
	}
	member, _ := r.RoleMembers.Get(ctx, id.Compose(roleID, strings.ToLower(accountC.Hex())))
	if !member.IsActive || member.RevokedAt != nil {
		t.Fatalf("re-grant did not reset revocation: active=%v revokedAt=%v", member.IsActive, member.RevokedAt)
	}
}

func TestRoleAdminChanged(t *testing.T) {
	u, r := newTestUsecase(t)
	ctx := context.Background()

	adminRole := crypto.Keccak256Hash([]byte("ADMIN_ROLE"))
	apply(t, u, &event.RoleAdminChanged{
		Meta:              meta(610, 0, "0xf5"),
		Role:              relayerRole(),
		PreviousAdminRole: common.Hash{},
		NewAdminRole:      adminRole,
	})

	role, err := r.Roles.Get(ctx, id.Compose(testVaultID(), relayerRole().Hex()))
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if role.AdminRoleName != "ADMIN_ROLE" || role.AdminRoleHash != adminRole.Hex() {
		t.Fatalf("admin = %s %s", role.AdminRoleName, role.AdminRoleHash)
	}
}

func TestUnknownRoleName(t *testing.T) {
	u, r := newTestUsecase(t)

	odd := crypto.Keccak256Hash([]byte("SOMETHING_ELSE"))
	apply(t, u, &event.RoleGranted{Meta: meta(620, 0, "0xf6"), Role: odd, Account: accountC, Sender: investorA})

	role, _ := r.Roles.Get(context.Background(), id.Compose(testVaultID(), odd.Hex()))
	if role.RoleName != accesscontrol.UnknownRoleName {
		t.Fatalf("role name = %s, want UNKNOWN_ROLE", role.RoleName)
	}
}
