package accesscontrol

import (
	"github.com/tdex-network/royalty-ledger/internal/core/domain"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

const (
	EntityEscrow  = "escrow"
	EntityToken   = "token"
	EntityRoyalty = "royalty"
	EntityFee     = "fee"
	EntityClaim   = "claim"

	actionWrite = "write"
	actionAdmin = "admin"
)

// ManagerPermissions grants the permissions to move funds in and out of the
// ledger, but not to configure it.
func ManagerPermissions() []bakery.Op {
	return []bakery.Op{
		{
			Entity: EntityEscrow,
			Action: actionWrite,
		},
		{
			Entity: EntityRoyalty,
			Action: actionWrite,
		},
		{
			Entity: EntityFee,
			Action: actionWrite,
		},
		{
			Entity: EntityClaim,
			Action: actionWrite,
		},
	}
}

// AdminPermissions grants access to all operations.
func AdminPermissions() []bakery.Op {
	return append(ManagerPermissions(), []bakery.Op{
		{
			Entity: EntityToken,
			Action: actionAdmin,
		},
		{
			Entity: EntityFee,
			Action: actionAdmin,
		},
	}...)
}

// PermissionsByOperation returns a mapping of the mutating ledger operations
// to the permissions they require.
func PermissionsByOperation() map[domain.Operation][]bakery.Op {
	return map[domain.Operation][]bakery.Op{
		domain.OpDeposit: {{
			Entity: EntityEscrow,
			Action: actionWrite,
		}},
		domain.OpDepositBatch: {{
			Entity: EntityEscrow,
			Action: actionWrite,
		}},
		domain.OpWithdrawFromOrder: {{
			Entity: EntityEscrow,
			Action: actionWrite,
		}},
		domain.OpClaim: {{
			Entity: EntityClaim,
			Action: actionWrite,
		}},
		domain.OpAddSupportedTokens: {{
			Entity: EntityToken,
			Action: actionAdmin,
		}},
		domain.OpCollectFee: {{
			Entity: EntityFee,
			Action: actionWrite,
		}},
		domain.OpSetFeeRate: {{
			Entity: EntityFee,
			Action: actionAdmin,
		}},
		domain.OpTransferRoyalty: {{
			Entity: EntityRoyalty,
			Action: actionWrite,
		}, {
			Entity: EntityEscrow,
			Action: actionWrite,
		}},
		domain.OpTransferFee: {{
			Entity: EntityFee,
			Action: actionWrite,
		}, {
			Entity: EntityEscrow,
			Action: actionWrite,
		}},
	}
}
