package event

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Meta is the ledger position shared by every decoded vault log. Events are
// delivered in (BlockNumber, LogIndex) order; (TxHash, LogIndex) identifies
// one log across redeliveries.
type Meta struct {
	BlockNumber uint64
	Timestamp   uint64 // block timestamp, unix seconds
	TxHash      common.Hash
	LogIndex    uint
}

func (m Meta) EventMeta() Meta { return m }

// Event is any decoded vault log. The reconciler type-switches on the
// concrete payload type.
type Event interface {
	EventMeta() Meta
}

type DepositRequested struct {
	Meta
	RequestID *big.Int
	Investor  common.Address
	Receiver  common.Address
	Assets    *big.Int
}

type DepositExecuted struct {
	Meta
	RequestID       *big.Int
	Investor        common.Address
	AssetsProcessed *big.Int
	SharesIssued    *big.Int
	FullyExecuted   bool
}

type WithdrawRequested struct {
	Meta
	RequestID *big.Int
	Investor  common.Address
	Receiver  common.Address
	Shares    *big.Int
}

type WithdrawExecuted struct {
	Meta
	RequestID       *big.Int
	Investor        common.Address
	SharesProcessed *big.Int
	AssetsReturned  *big.Int
	FullyExecuted   bool
}

type AdminWithdrawal struct {
	Meta
	Shareholder  common.Address
	Receiver     common.Address
	Shares       *big.Int
	Assets       *big.Int
	FeeShares    *big.Int
	FeeRecipient common.Address
}

type LoanIssued struct {
	Meta
	LoanID            *big.Int
	Borrower          common.Address
	Principal         *big.Int
	InterestRate      *big.Int // basis points
	InterestType      uint8
	CompoundingPeriod uint8
	ContractTimestamp *big.Int // contract-reported disbursement time
}

type LoanPayment struct {
	Meta
	LoanID             *big.Int
	Payer              common.Address
	TotalPayment       *big.Int
	InterestPaid       *big.Int
	PrincipalPaid      *big.Int
	RemainingPrincipal *big.Int
	RemainingInterest  *big.Int
	ContractTimestamp  *big.Int
}

type LoanFullyRepaid struct {
	Meta
	LoanID             *big.Int
	TotalPrincipalPaid *big.Int
	TotalInterestPaid  *big.Int
	ContractTimestamp  *big.Int
}

type LoanDefaulted struct {
	Meta
	LoanID               *big.Int
	OutstandingPrincipal *big.Int
	OutstandingInterest  *big.Int
	ContractTimestamp    *big.Int
}

type LoanWrittenOff struct {
	Meta
	LoanID            *big.Int
	AmountWrittenOff  *big.Int
	ContractTimestamp *big.Int
}

type KYCRegistrySet struct {
	Meta
	OldRegistry common.Address
	NewRegistry common.Address
}

type KYCEnabled struct {
	Meta
}

type KYCDisabled struct {
	Meta
}

type RoleGranted struct {
	Meta
	Role    common.Hash
	Account common.Address
	Sender  common.Address
}

type RoleRevoked struct {
	Meta
	Role    common.Hash
	Account common.Address
	Sender  common.Address
}

type RoleAdminChanged struct {
	Meta
	Role              common.Hash
	PreviousAdminRole common.Hash
	NewAdminRole      common.Hash
}
