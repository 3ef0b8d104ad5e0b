package wallet

import (
	"github.com/pandodao/safe-ledger/core"
)

type scanner interface {
	Scan(dest ...any) error
}

var Columns = []string{
	"id",
	"updated_at",
	"account_id",
	"asset_id",
	"address",
	"amount",
	"version",
}

// Scan reads a row selected with Columns.
func Scan(scanner scanner, wallet *core.Wallet) error {
	return scanner.Scan(
		&wallet.ID,
		&wallet.UpdatedAt,
		&wallet.AccountID,
		&wallet.AssetID,
		&wallet.Address,
		&wallet.Amount,
		&wallet.Version,
	)
}
