package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// vaultABIJSON is the event surface of the SecureVault extended lending
// contract. Only events are listed; the indexer never calls the contract.
const vaultABIJSON = `[
  {"type":"event","name":"DepositRequested","inputs":[
    {"name":"requestId","type":"uint256","indexed":true},
    {"name":"investor","type":"address","indexed":true},
    {"name":"receiver","type":"address","indexed":true},
    {"name":"assets","type":"uint256","indexed":false}]},
  {"type":"event","name":"DepositExecuted","inputs":[
    {"name":"requestId","type":"uint256","indexed":true},
    {"name":"investor","type":"address","indexed":true},
    {"name":"assetsProcessed","type":"uint256","indexed":false},
    {"name":"sharesIssued","type":"uint256","indexed":false},
    {"name":"fullyExecuted","type":"bool","indexed":false}]},
  {"type":"event","name":"WithdrawRequested","inputs":[
    {"name":"requestId","type":"uint256","indexed":true},
    {"name":"investor","type":"address","indexed":true},
    {"name":"receiver","type":"address","indexed":true},
    {"name":"shares","type":"uint256","indexed":false}]},
  {"type":"event","name":"WithdrawExecuted","inputs":[
    {"name":"requestId","type":"uint256","indexed":true},
    {"name":"investor","type":"address","indexed":true},
    {"name":"sharesProcessed","type":"uint256","indexed":false},
    {"name":"assetsReturned","type":"uint256","indexed":false},
    {"name":"fullyExecuted","type":"bool","indexed":false}]},
  {"type":"event","name":"AdminWithdrawal","inputs":[
    {"name":"shareholder","type":"address","indexed":true},
    {"name":"receiver","type":"address","indexed":true},
    {"name":"shares","type":"uint256","indexed":false},
    {"name":"assets","type":"uint256","indexed":false},
    {"name":"feeShares","type":"uint256","indexed":false},
    {"name":"feeRecipient","type":"address","indexed":false}]},
  {"type":"event","name":"LoanIssued","inputs":[
    {"name":"loanId","type":"uint256","indexed":true},
    {"name":"borrower","type":"address","indexed":true},
    {"name":"principal","type":"uint256","indexed":false},
    {"name":"interestRate","type":"uint256","indexed":false},
    {"name":"interestType","type":"uint8","indexed":false},
    {"name":"compoundingPeriod","type":"uint8","indexed":false},
    {"name":"timestamp","type":"uint256","indexed":false}]},
  {"type":"event","name":"LoanPayment","inputs":[
    {"name":"loanId","type":"uint256","indexed":true},
    {"name":"payer","type":"address","indexed":true},
    {"name":"totalPayment","type":"uint256","indexed":false},
    {"name":"interestPaid","type":"uint256","indexed":false},
    {"name":"principalPaid","type":"uint256","indexed":false},
    {"name":"remainingPrincipal","type":"uint256","indexed":false},
    {"name":"remainingInterest","type":"uint256","indexed":false},
    {"name":"timestamp","type":"uint256","indexed":false}]},
  {"type":"event","name":"LoanFullyRepaid","inputs":[
    {"name":"loanId","type":"uint256","indexed":true},
    {"name":"totalPrincipalPaid","type":"uint256","indexed":false},
    {"name":"totalInterestPaid","type":"uint256","indexed":false},
    {"name":"timestamp","type":"uint256","indexed":false}]},
  {"type":"event","name":"LoanDefaulted","inputs":[
    {"name":"loanId","type":"uint256","indexed":true},
    {"name":"outstandingPrincipal","type":"uint256","indexed":false},
    {"name":"outstandingInterest","type":"uint256","indexed":false},
    {"name":"timestamp","type":"uint256","indexed":false}]},
  {"type":"event","name":"LoanWrittenOff","inputs":[
    {"name":"loanId","type":"uint256","indexed":true},
    {"name":"amountWrittenOff","type":"uint256","indexed":false},
    {"name":"timestamp","type":"uint256","indexed":false}]},
  {"type":"event","name":"KYCRegistrySet","inputs":[
    {"name":"oldRegistry","type":"address","indexed":true},
    {"name":"newRegistry","type":"address","indexed":true}]},
  {"type":"event","name":"KYCEnabled","inputs":[]},
  {"type":"event","name":"KYCDisabled","inputs":[]},
  {"type":"event","name":"RoleGranted","inputs":[
    {"name":"role","type":"bytes32","indexed":true},
    {"name":"account","type":"address","indexed":true},
    {"name":"sender","type":"address","indexed":true}]},
  {"type":"event","name":"RoleRevoked","inputs":[
    {"name":"role","type":"bytes32","indexed":true},
    {"name":"account","type":"address","indexed":true},
    {"name":"sender","type":"address","indexed":true}]},
  {"type":"event","name":"RoleAdminChanged","inputs":[
    {"name":"role","type":"bytes32","indexed":true},
    {"name":"previousAdminRole","type":"bytes32","indexed":true},
    {"name":"newAdminRole","type":"bytes32","indexed":true}]}
]`

var (
	vaultABI abi.ABI
	// eventIDs holds every topic0 the indexer subscribes to.
	eventIDs []common.Hash
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(vaultABIJSON))
	if err != nil {
		panic("chain: bad embedded vault ABI: " + err.Error())
	}
	vaultABI = parsed
	for _, ev := range vaultABI.Events {
		eventIDs = append(eventIDs, ev.ID)
	}
}
