package vault

import (
	"securevault-indexer/pkg/bigint"
)

// Vault is the top-level lending pool aggregate, keyed by the vault's
// lowercase hex address.
type Vault struct {
	ID string `gorm:"column:id;type:char(42);primaryKey" json:"id"`

	TotalAssets             bigint.Int `gorm:"column:total_assets" json:"total_assets"`
	TotalSupply             bigint.Int `gorm:"column:total_supply" json:"total_supply"`
	TotalUnrealizedInterest bigint.Int `gorm:"column:total_unrealized_interest" json:"total_unrealized_interest"`
	TotalOutstandingLoans   bigint.Int `gorm:"column:total_outstanding_loans" json:"total_outstanding_loans"`
	TotalInterestEarned     bigint.Int `gorm:"column:total_interest_earned" json:"total_interest_earned"`
	TotalDefaultedAmount    bigint.Int `gorm:"column:total_defaulted_amount" json:"total_defaulted_amount"`
	TotalWrittenOff         bigint.Int `gorm:"column:total_written_off" json:"total_written_off"`
	TotalDeposited          bigint.Int `gorm:"column:total_deposited" json:"total_deposited"`
	TotalWithdrawn          bigint.Int `gorm:"column:total_withdrawn" json:"total_withdrawn"`

	TotalLoansIssued    int `gorm:"column:total_loans_issued" json:"total_loans_issued"`
	ActiveLoansCount    int `gorm:"column:active_loans_count" json:"active_loans_count"`
	DefaultedLoansCount int `gorm:"column:defaulted_loans_count" json:"defaulted_loans_count"`
	RepaidLoansCount    int `gorm:"column:repaid_loans_count" json:"repaid_loans_count"`

	InitialSharePrice   string `gorm:"column:initial_share_price;size:80" json:"initial_share_price"`
	CurrentSharePrice   string `gorm:"column:current_share_price;size:80" json:"current_share_price"`
	AverageInterestRate string `gorm:"column:average_interest_rate;size:80" json:"average_interest_rate"`
	UtilizationRate     string `gorm:"column:utilization_rate;size:80" json:"utilization_rate"`

	KYCEnabled  bool    `gorm:"column:kyc_enabled" json:"kyc_enabled"`
	KYCRegistry *string `gorm:"column:kyc_registry;type:char(42)" json:"kyc_registry,omitempty"`

	CreatedAt    uint64 `gorm:"column:created_at" json:"created_at"`
	LastUpdateAt uint64 `gorm:"column:last_update_at" json:"last_update_at"`
}

func (Vault) TableName() string { return "lending_vaults" }

// NewVault returns the all-zero aggregate a vault starts from.
func NewVault(address string, timestamp uint64) *Vault {
	return &Vault{
		ID:                  address,
		InitialSharePrice:   "1.0",
		CurrentSharePrice:   "1.0",
		AverageInterestRate: "0",
		UtilizationRate:     "0",
		CreatedAt:           timestamp,
		LastUpdateAt:        timestamp,
	}
}

// Lender is one investor's position in a vault, keyed (vault, address).
type Lender struct {
	ID      string `gorm:"column:id;size:96;primaryKey" json:"id"`
	VaultID string `gorm:"column:vault_id;type:char(42);index" json:"vault_id"`
	Address string `gorm:"column:address;type:char(42)" json:"address"`

	Shares              bigint.Int `gorm:"column:shares" json:"shares"`
	Deposited           bigint.Int `gorm:"column:deposited" json:"deposited"`
	Withdrawn           bigint.Int `gorm:"column:withdrawn" json:"withdrawn"`
	RealizedGains       bigint.Int `gorm:"column:realized_gains" json:"realized_gains"`
	UnrealizedGains     bigint.Int `gorm:"column:unrealized_gains" json:"unrealized_gains"`
	TotalInterestEarned bigint.Int `gorm:"column:total_interest_earned" json:"total_interest_earned"`
	CurrentValue        bigint.Int `gorm:"column:current_value" json:"current_value"`

	DepositCount  int `gorm:"column:deposit_count" json:"deposit_count"`
	WithdrawCount int `gorm:"column:withdraw_count" json:"withdraw_count"`

	LastInterestUpdate uint64  `gorm:"column:last_interest_update" json:"last_interest_update"`
	FirstDepositTime   *uint64 `gorm:"column:first_deposit_time" json:"first_deposit_time,omitempty"`
	LastActivityTime   uint64  `gorm:"column:last_activity_time" json:"last_activity_time"`
}

func (Lender) TableName() string { return "lenders" }

func NewLender(id, vaultID, address string, timestamp uint64) *Lender {
	return &Lender{
		ID:                 id,
		VaultID:            vaultID,
		Address:            address,
		LastInterestUpdate: timestamp,
		LastActivityTime:   timestamp,
	}
}

// Borrower aggregates one address's loan history in a vault.
type Borrower struct {
	ID      string `gorm:"column:id;size:96;primaryKey" json:"id"`
	VaultID string `gorm:"column:vault_id;type:char(42);index" json:"vault_id"`
	Address string `gorm:"column:address;type:char(42)" json:"address"`

	TotalBorrowed          bigint.Int `gorm:"column:total_borrowed" json:"total_borrowed"`
	TotalRepaid            bigint.Int `gorm:"column:total_repaid" json:"total_repaid"`
	TotalInterestPaid      bigint.Int `gorm:"column:total_interest_paid" json:"total_interest_paid"`
	TotalPrincipalPaid     bigint.Int `gorm:"column:total_principal_paid" json:"total_principal_paid"`
	CurrentOutstanding     bigint.Int `gorm:"column:current_outstanding" json:"current_outstanding"`
	CurrentInterestAccrued bigint.Int `gorm:"column:current_interest_accrued" json:"current_interest_accrued"`

	TotalLoansCount     int `gorm:"column:total_loans_count" json:"total_loans_count"`
	ActiveLoansCount    int `gorm:"column:active_loans_count" json:"active_loans_count"`
	RepaidLoansCount    int `gorm:"column:repaid_loans_count" json:"repaid_loans_count"`
	DefaultedLoansCount int `gorm:"column:defaulted_loans_count" json:"defaulted_loans_count"`

	AverageInterestRate string `gorm:"column:average_interest_rate;size:80" json:"average_interest_rate"`
	OnTimePaymentRate   string `gorm:"column:on_time_payment_rate;size:80" json:"on_time_payment_rate"`
	DefaultRate         string `gorm:"column:default_rate;size:80" json:"default_rate"`

	KYCVerified   bool    `gorm:"column:kyc_verified" json:"kyc_verified"`
	KYCExpiration *uint64 `gorm:"column:kyc_expiration" json:"kyc_expiration,omitempty"`

	FirstLoanTime    *uint64 `gorm:"column:first_loan_time" json:"first_loan_time,omitempty"`
	LastActivityTime uint64  `gorm:"column:last_activity_time" json:"last_activity_time"`
}

func (Borrower) TableName() string { return "borrowers" }

func NewBorrower(id, vaultID, address string, timestamp uint64) *Borrower {
	return &Borrower{
		ID:                  id,
		VaultID:             vaultID,
		Address:             address,
		AverageInterestRate: "0",
		OnTimePaymentRate:   "100",
		DefaultRate:         "0",
		LastActivityTime:    timestamp,
	}
}
