package chain

import (
	"fmt"
	"math/big"

	"securevault-indexer/internal/domain/event"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Raw log payloads, one struct per event. Field names follow the
// capitalized ABI argument names so the abi package can bind them.

type rawDepositRequested struct {
	RequestId *big.Int
	Investor  common.Address
	Receiver  common.Address
	Assets    *big.Int
}

type rawDepositExecuted struct {
	RequestId       *big.Int
	Investor        common.Address
	AssetsProcessed *big.Int
	SharesIssued    *big.Int
	FullyExecuted   bool
}

type rawWithdrawRequested struct {
	RequestId *big.Int
	Investor  common.Address
	Receiver  common.Address
	Shares    *big.Int
}

type rawWithdrawExecuted struct {
	RequestId       *big.Int
	Investor        common.Address
	SharesProcessed *big.Int
	AssetsReturned  *big.Int
	FullyExecuted   bool
}

type rawAdminWithdrawal struct {
	Shareholder  common.Address
	Receiver     common.Address
	Shares       *big.Int
	Assets       *big.Int
	FeeShares    *big.Int
	FeeRecipient common.Address
}

type rawLoanIssued struct {
	LoanId            *big.Int
	Borrower          common.Address
	Principal         *big.Int
	InterestRate      *big.Int
	InterestType      uint8
	CompoundingPeriod uint8
	Timestamp         *big.Int
}

type rawLoanPayment struct {
	LoanId             *big.Int
	Payer              common.Address
	TotalPayment       *big.Int
	InterestPaid       *big.Int
	PrincipalPaid      *big.Int
	RemainingPrincipal *big.Int
	RemainingInterest  *big.Int
	Timestamp          *big.Int
}

type rawLoanFullyRepaid struct {
	LoanId             *big.Int
	TotalPrincipalPaid *big.Int
	TotalInterestPaid  *big.Int
	Timestamp          *big.Int
}

type rawLoanDefaulted struct {
	LoanId               *big.Int
	OutstandingPrincipal *big.Int
	OutstandingInterest  *big.Int
	Timestamp            *big.Int
}

type rawLoanWrittenOff struct {
	LoanId           *big.Int
	AmountWrittenOff *big.Int
	Timestamp        *big.Int
}

type rawKYCRegistrySet struct {
	OldRegistry common.Address
	NewRegistry common.Address
}

type rawRoleGranted struct {
	Role    common.Hash
	Account common.Address
	Sender  common.Address
}

type rawRoleAdminChanged struct {
	Role              common.Hash
	PreviousAdminRole common.Hash
	NewAdminRole      common.Hash
}

// unpackLog fills out from a raw log: non-indexed arguments from the data
// blob, indexed arguments from topics[1:].
func unpackLog(out any, name string, lg types.Log) error {
	if len(lg.Data) > 0 {
		if err := vaultABI.UnpackIntoInterface(out, name, lg.Data); err != nil {
			return err
		}
	}
	var indexed abi.Arguments
	for _, arg := range vaultABI.Events[name].Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if len(indexed) == 0 {
		return nil
	}
	return abi.ParseTopics(out, indexed, lg.Topics[1:])
}

// DecodeLog turns one raw vault log into a domain event. blockTime is the
// timestamp of the log's block.
func DecodeLog(lg types.Log, blockTime uint64) (event.Event, error) {
	if len(lg.Topics) == 0 {
		return nil, fmt.Errorf("chain: log %s:%d has no topics", lg.TxHash, lg.Index)
	}
	ev, err := vaultABI.EventByID(lg.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("chain: log %s:%d: %w", lg.TxHash, lg.Index, err)
	}

	meta := event.Meta{
		BlockNumber: lg.BlockNumber,
		Timestamp:   blockTime,
		TxHash:      lg.TxHash,
		LogIndex:    lg.Index,
	}

	switch ev.Name {
	case "DepositRequested":
		var raw rawDepositRequested
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.DepositRequested{
			Meta:      meta,
			RequestID: raw.RequestId,
			Investor:  raw.Investor,
			Receiver:  raw.Receiver,
			Assets:    raw.Assets,
		}, nil
	case "DepositExecuted":
		var raw rawDepositExecuted
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.DepositExecuted{
			Meta:            meta,
			RequestID:       raw.RequestId,
			Investor:        raw.Investor,
			AssetsProcessed: raw.AssetsProcessed,
			SharesIssued:    raw.SharesIssued,
			FullyExecuted:   raw.FullyExecuted,
		}, nil
	case "WithdrawRequested":
		var raw rawWithdrawRequested
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.WithdrawRequested{
			Meta:      meta,
			RequestID: raw.RequestId,
			Investor:  raw.Investor,
			Receiver:  raw.Receiver,
			Shares:    raw.Shares,
		}, nil
	case "WithdrawExecuted":
		var raw rawWithdrawExecuted
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.WithdrawExecuted{
			Meta:            meta,
			RequestID:       raw.RequestId,
			Investor:        raw.Investor,
			SharesProcessed: raw.SharesProcessed,
			AssetsReturned:  raw.AssetsReturned,
			FullyExecuted:   raw.FullyExecuted,
		}, nil
	case "AdminWithdrawal":
		var raw rawAdminWithdrawal
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.AdminWithdrawal{
			Meta:         meta,
			Shareholder:  raw.Shareholder,
			Receiver:     raw.Receiver,
			Shares:       raw.Shares,
			Assets:       raw.Assets,
			FeeShares:    raw.FeeShares,
			FeeRecipient: raw.FeeRecipient,
		}, nil
	case "LoanIssued":
		var raw rawLoanIssued
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.LoanIssued{
			Meta:              meta,
			LoanID:            raw.LoanId,
			Borrower:          raw.Borrower,
			Principal:         raw.Principal,
			InterestRate:      raw.InterestRate,
			InterestType:      raw.InterestType,
			CompoundingPeriod: raw.CompoundingPeriod,
			ContractTimestamp: raw.Timestamp,
		}, nil
	case "LoanPayment":
		var raw rawLoanPayment
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.LoanPayment{
			Meta:               meta,
			LoanID:             raw.LoanId,
			Payer:              raw.Payer,
			TotalPayment:       raw.TotalPayment,
			InterestPaid:       raw.InterestPaid,
			PrincipalPaid:      raw.PrincipalPaid,
			RemainingPrincipal: raw.RemainingPrincipal,
			RemainingInterest:  raw.RemainingInterest,
			ContractTimestamp:  raw.Timestamp,
		}, nil
	case "LoanFullyRepaid":
		var raw rawLoanFullyRepaid
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.LoanFullyRepaid{
			Meta:               meta,
			LoanID:             raw.LoanId,
			TotalPrincipalPaid: raw.TotalPrincipalPaid,
			TotalInterestPaid:  raw.TotalInterestPaid,
			ContractTimestamp:  raw.Timestamp,
		}, nil
	case "LoanDefaulted":
		var raw rawLoanDefaulted
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.LoanDefaulted{
			Meta:                 meta,
			LoanID:               raw.LoanId,
			OutstandingPrincipal: raw.OutstandingPrincipal,
			OutstandingInterest:  raw.OutstandingInterest,
			ContractTimestamp:    raw.Timestamp,
		}, nil
	case "LoanWrittenOff":
		var raw rawLoanWrittenOff
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.LoanWrittenOff{
			Meta:              meta,
			LoanID:            raw.LoanId,
			AmountWrittenOff:  raw.AmountWrittenOff,
			ContractTimestamp: raw.Timestamp,
		}, nil
	case "KYCRegistrySet":
		var raw rawKYCRegistrySet
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.KYCRegistrySet{
			Meta:        meta,
			OldRegistry: raw.OldRegistry,
			NewRegistry: raw.NewRegistry,
		}, nil
	case "KYCEnabled":
		return &event.KYCEnabled{Meta: meta}, nil
	case "KYCDisabled":
		return &event.KYCDisabled{Meta: meta}, nil
	case "RoleGranted":
		var raw rawRoleGranted
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.RoleGranted{
			Meta:    meta,
			Role:    raw.Role,
			Account: raw.Account,
			Sender:  raw.Sender,
		}, nil
	case "RoleRevoked":
		var raw rawRoleGranted
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.RoleRevoked{
			Meta:    meta,
			Role:    raw.Role,
			Account: raw.Account,
			Sender:  raw.Sender,
		}, nil
	case "RoleAdminChanged":
		var raw rawRoleAdminChanged
		if err := unpackLog(&raw, ev.Name, lg); err != nil {
			return nil, err
		}
		return &event.RoleAdminChanged{
			Meta:              meta,
			Role:              raw.Role,
			PreviousAdminRole: raw.PreviousAdminRole,
			NewAdminRole:      raw.NewAdminRole,
		}, nil
	default:
		return nil, fmt.Errorf("chain: unmapped event %s", ev.Name)
	}
}
