package request

import (
	"securevault-indexer/pkg/bigint"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPartial   Status = "PARTIAL"
	StatusCompleted Status = "COMPLETED"
)

// DepositRequest is a lender's intent to deposit, fulfilled across one or
// more DepositExecuted events. Keyed (vault, request id).
type DepositRequest struct {
	ID        string     `gorm:"column:id;size:128;primaryKey" json:"id"`
	VaultID   string     `gorm:"column:vault_id;type:char(42);index" json:"vault_id"`
	LenderID  string     `gorm:"column:lender_id;size:96;index" json:"lender_id"`
	RequestID bigint.Int `gorm:"column:request_id" json:"request_id"`
	Receiver  string     `gorm:"column:receiver;type:char(42)" json:"receiver"`

	AssetsRequested bigint.Int `gorm:"column:assets_requested" json:"assets_requested"`
	AssetsProcessed bigint.Int `gorm:"column:assets_processed" json:"assets_processed"`
	SharesIssued    bigint.Int `gorm:"column:shares_issued" json:"shares_issued"`

	Status        Status `gorm:"column:status;size:16" json:"status"`
	FullyExecuted bool   `gorm:"column:fully_executed" json:"fully_executed"`

	RequestTime         uint64  `gorm:"column:request_time" json:"request_time"`
	LastExecuteTime     *uint64 `gorm:"column:last_execute_time" json:"last_execute_time,omitempty"`
	ExecutionSharePrice *string `gorm:"column:execution_share_price;size:80" json:"execution_share_price,omitempty"`
}

func (DepositRequest) TableName() string { return "deposit_requests" }

// WithdrawRequest mirrors DepositRequest for the redemption side. Its key
// carries a "withdraw" discriminator because deposit and withdraw requests
// share the contract's request-id space.
type WithdrawRequest struct {
	ID        string     `gorm:"column:id;size:128;primaryKey" json:"id"`
	VaultID   string     `gorm:"column:vault_id;type:char(42);index" json:"vault_id"`
	LenderID  string     `gorm:"column:lender_id;size:96;index" json:"lender_id"`
	RequestID bigint.Int `gorm:"column:request_id" json:"request_id"`
	Receiver  string     `gorm:"column:receiver;type:char(42)" json:"receiver"`

	SharesRequested bigint.Int `gorm:"column:shares_requested" json:"shares_requested"`
	SharesProcessed bigint.Int `gorm:"column:shares_processed" json:"shares_processed"`
	AssetsReturned  bigint.Int `gorm:"column:assets_returned" json:"assets_returned"`

	Status        Status `gorm:"column:status;size:16" json:"status"`
	FullyExecuted bool   `gorm:"column:fully_executed" json:"fully_executed"`

	RequestTime         uint64  `gorm:"column:request_time" json:"request_time"`
	LastExecuteTime     *uint64 `gorm:"column:last_execute_time" json:"last_execute_time,omitempty"`
	ExecutionSharePrice *string `gorm:"column:execution_share_price;size:80" json:"execution_share_price,omitempty"`
}

func (WithdrawRequest) TableName() string { return "withdraw_requests" }

// DepositExecution is an append-only log row, one per DepositExecuted log,
// keyed (request key, tx hash, log index).
type DepositExecution struct {
	ID        string `gorm:"column:id;size:224;primaryKey" json:"id"`
	RequestID string `gorm:"column:request_id;size:128;index" json:"request_id"`
	VaultID   string `gorm:"column:vault_id;type:char(42);index" json:"vault_id"`

	AssetsProcessed bigint.Int `gorm:"column:assets_processed" json:"assets_processed"`
	SharesIssued    bigint.Int `gorm:"column:shares_issued" json:"shares_issued"`
	FullyExecuted   bool       `gorm:"column:fully_executed" json:"fully_executed"`

	TxHash      string `gorm:"column:tx_hash;type:char(66)" json:"tx_hash"`
	BlockNumber uint64 `gorm:"column:block_number" json:"block_number"`
	Timestamp   uint64 `gorm:"column:timestamp" json:"timestamp"`
}

func (DepositExecution) TableName() string { return "deposit_executions" }

type WithdrawExecution struct {
	ID        string `gorm:"column:id;size:224;primaryKey" json:"id"`
	RequestID string `gorm:"column:request_id;size:128;index" json:"request_id"`
	VaultID   string `gorm:"column:vault_id;type:char(42);index" json:"vault_id"`

	SharesProcessed bigint.Int  `gorm:"column:shares_processed" json:"shares_processed"`
	AssetsReturned  bigint.Int  `gorm:"column:assets_returned" json:"assets_returned"`
	FeeShares       *bigint.Int `gorm:"column:fee_shares" json:"fee_shares,omitempty"`
	FullyExecuted   bool        `gorm:"column:fully_executed" json:"fully_executed"`

	TxHash      string `gorm:"column:tx_hash;type:char(66)" json:"tx_hash"`
	BlockNumber uint64 `gorm:"column:block_number" json:"block_number"`
	Timestamp   uint64 `gorm:"column:timestamp" json:"timestamp"`
}

func (WithdrawExecution) TableName() string { return "withdraw_executions" }

// AdminWithdrawal is an unconditional admin-side redemption; it is not
// preceded by any request row.
type AdminWithdrawal struct {
	ID      string `gorm:"column:id;size:224;primaryKey" json:"id"`
	VaultID string `gorm:"column:vault_id;type:char(42);index" json:"vault_id"`

	Shareholder  string  `gorm:"column:shareholder;type:char(42)" json:"shareholder"`
	Receiver     string  `gorm:"column:receiver;type:char(42)" json:"receiver"`
	FeeRecipient *string `gorm:"column:fee_recipient;type:char(42)" json:"fee_recipient,omitempty"`

	Shares    bigint.Int `gorm:"column:shares" json:"shares"`
	Assets    bigint.Int `gorm:"column:assets" json:"assets"`
	FeeShares bigint.Int `gorm:"column:fee_shares" json:"fee_shares"`

	TxHash      string `gorm:"column:tx_hash;type:char(66)" json:"tx_hash"`
	BlockNumber uint64 `gorm:"column:block_number" json:"block_number"`
	Timestamp   uint64 `gorm:"column:timestamp" json:"timestamp"`
}

func (AdminWithdrawal) TableName() string { return "admin_withdrawals" }
