package loan

import (
	"securevault-indexer/pkg/bigint"
)

type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusRepaid     Status = "REPAID"
	StatusDefaulted  Status = "DEFAULTED"
	StatusWrittenOff Status = "WRITTEN_OFF"
)

const (
	InterestSimple   = "SIMPLE"
	InterestCompound = "COMPOUND"
)

// InterestTypeLabel maps the contract's interest-type enum to its label.
func InterestTypeLabel(t uint8) string {
	if t == 0 {
		return InterestSimple
	}
	return InterestCompound
}

// CompoundingPeriodLabel maps the contract's compounding enum; anything
// unrecognized falls back to MONTHLY, matching the contract default.
func CompoundingPeriodLabel(p uint8) string {
	switch p {
	case 1:
		return "QUARTERLY"
	case 2:
		return "ANNUALLY"
	default:
		return "MONTHLY"
	}
}

// Loan is keyed (vault, loan id). Balances mirror the contract's reported
// values; interest is never accrued locally.
type Loan struct {
	ID         string     `gorm:"column:id;size:128;primaryKey" json:"id"`
	VaultID    string     `gorm:"column:vault_id;type:char(42);index" json:"vault_id"`
	LoanID     bigint.Int `gorm:"column:loan_id" json:"loan_id"`
	BorrowerID string     `gorm:"column:borrower_id;size:96;index" json:"borrower_id"`

	Principal            bigint.Int `gorm:"column:principal" json:"principal"`
	OutstandingPrincipal bigint.Int `gorm:"column:outstanding_principal" json:"outstanding_principal"`
	AccruedInterest      bigint.Int `gorm:"column:accrued_interest" json:"accrued_interest"`
	TotalInterestPaid    bigint.Int `gorm:"column:total_interest_paid" json:"total_interest_paid"`
	TotalPrincipalPaid   bigint.Int `gorm:"column:total_principal_paid" json:"total_principal_paid"`
	TotalPaid            bigint.Int `gorm:"column:total_paid" json:"total_paid"`
	TotalOwed            bigint.Int `gorm:"column:total_owed" json:"total_owed"`
	MinPaymentAmount     bigint.Int `gorm:"column:min_payment_amount" json:"min_payment_amount"`

	InterestRateBps     int    `gorm:"column:interest_rate_bps" json:"interest_rate_bps"`
	CurrentInterestRate int    `gorm:"column:current_interest_rate" json:"current_interest_rate"`
	LateFeeRateBps      int    `gorm:"column:late_fee_rate_bps" json:"late_fee_rate_bps"`
	InterestType        string `gorm:"column:interest_type;size:16" json:"interest_type"`
	CompoundingPeriod   string `gorm:"column:compounding_period;size:16" json:"compounding_period"`

	Status Status `gorm:"column:status;size:16" json:"status"`

	StartTimestamp              uint64  `gorm:"column:start_timestamp" json:"start_timestamp"`
	MaturityTimestamp           *uint64 `gorm:"column:maturity_timestamp" json:"maturity_timestamp,omitempty"`
	DisbursementTimestamp       uint64  `gorm:"column:disbursement_timestamp" json:"disbursement_timestamp"`
	LastInterestUpdateTimestamp uint64  `gorm:"column:last_interest_update_timestamp" json:"last_interest_update_timestamp"`
	LastPaymentTimestamp        *uint64 `gorm:"column:last_payment_timestamp" json:"last_payment_timestamp,omitempty"`
	DefaultTimestamp            *uint64 `gorm:"column:default_timestamp" json:"default_timestamp,omitempty"`
	GracePeriodDays             int     `gorm:"column:grace_period_days" json:"grace_period_days"`

	IsLate           bool `gorm:"column:is_late" json:"is_late"`
	DaysLate         int  `gorm:"column:days_late" json:"days_late"`
	PaymentCount     int  `gorm:"column:payment_count" json:"payment_count"`
	LatePaymentCount int  `gorm:"column:late_payment_count" json:"late_payment_count"`

	AgreementHash     string  `gorm:"column:agreement_hash;type:char(66)" json:"agreement_hash"`
	AgreementContract *string `gorm:"column:agreement_contract;type:char(42)" json:"agreement_contract,omitempty"`
}

func (Loan) TableName() string { return "loans" }

// Payment is an append-only log row, one per LoanPayment log, keyed
// (loan key, tx hash, log index). Remaining balances are the contract's
// post-payment snapshot.
type Payment struct {
	ID         string `gorm:"column:id;size:224;primaryKey" json:"id"`
	LoanID     string `gorm:"column:loan_id;size:128;index" json:"loan_id"`
	BorrowerID string `gorm:"column:borrower_id;size:96;index" json:"borrower_id"`
	Payer      string `gorm:"column:payer;type:char(42)" json:"payer"`

	TotalPayment       bigint.Int `gorm:"column:total_payment" json:"total_payment"`
	InterestPaid       bigint.Int `gorm:"column:interest_paid" json:"interest_paid"`
	PrincipalPaid      bigint.Int `gorm:"column:principal_paid" json:"principal_paid"`
	LateFeesPaid       bigint.Int `gorm:"column:late_fees_paid" json:"late_fees_paid"`
	RemainingPrincipal bigint.Int `gorm:"column:remaining_principal" json:"remaining_principal"`
	RemainingInterest  bigint.Int `gorm:"column:remaining_interest" json:"remaining_interest"`

	WasLate  bool `gorm:"column:was_late" json:"was_late"`
	DaysLate int  `gorm:"column:days_late" json:"days_late"`

	Timestamp   uint64 `gorm:"column:timestamp" json:"timestamp"`
	TxHash      string `gorm:"column:tx_hash;type:char(66)" json:"tx_hash"`
	BlockNumber uint64 `gorm:"column:block_number" json:"block_number"`
}

func (Payment) TableName() string { return "loan_payments" }
