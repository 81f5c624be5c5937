package domain

// Operation is the kind of a mutating ledger operation. The access control
// collaborator is asked about one of these before any state is read.
type Operation string

const (
	OpDeposit            Operation = "deposit"
	OpDepositBatch       Operation = "deposit_batch"
	OpWithdrawFromOrder  Operation = "withdraw_from_order"
	OpClaim              Operation = "claim"
	OpAddSupportedTokens Operation = "add_supported_tokens"
	OpCollectFee         Operation = "collect_fee"
	OpSetFeeRate         Operation = "set_fee_rate"
	OpTransferRoyalty    Operation = "transfer_royalty"
	OpTransferFee        Operation = "transfer_platform_fee"
)

// Operations lists every mutating operation.
var Operations = []Operation{
	OpDeposit, OpDepositBatch, OpWithdrawFromOrder, OpClaim,
	OpAddSupportedTokens, OpCollectFee, OpSetFeeRate,
	OpTransferRoyalty, OpTransferFee,
}

func (o Operation) String() string {
	return string(o)
}
