package transaction

import (
	"context"
	"database/sql"

	"github.com/pandodao/safe-ledger/core"
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type scanner interface {
	Scan(dest ...any) error
}

var scanColumns = []string{
	"id",
	"created_at",
	"trace_id",
	"type",
	"account_id",
	"asset_id",
	"amount",
	"address",
}

func scanTransaction(scanner scanner, t *core.Transaction) error {
	var accountID sql.NullInt64

	if err := scanner.Scan(
		&t.ID,
		&t.CreatedAt,
		&t.TraceID,
		&t.Type,
		&accountID,
		&t.AssetID,
		&t.Amount,
		&t.Address,
	); err != nil {
		return err
	}

	if accountID.Valid {
		t.AccountID = &accountID.Int64
	}

	return nil
}
