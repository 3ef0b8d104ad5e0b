package wallet

import (
	"context"

	"github.com/pandodao/safe-ledger/core"
	"github.com/pandodao/safe-ledger/store"
	"github.com/tsenart/nap"
)

func New(db *nap.DB) core.WalletStore {
	return &walletStore{db: db}
}

type walletStore struct {
	db *nap.DB
}

func (s *walletStore) findWhere(ctx context.Context, pred string, args ...any) (*core.Wallet, error) {
	b := store.Builder.Select(Columns...).From("wallets").Where(pred, args...)
	stmt, args := b.MustSql()
	row := s.db.QueryRowContext(ctx, stmt, args...)

	var wallet core.Wallet
	if err := Scan(row, &wallet); err != nil {
		return nil, err
	}

	return &wallet, nil
}

func (s *walletStore) Find(ctx context.Context, accountID, assetID int64) (*core.Wallet, error) {
	return s.findWhere(ctx, "account_id = ? AND asset_id = ?", accountID, assetID)
}

func (s *walletStore) FindAddress(ctx context.Context, address string) (*core.Wallet, error) {
	return s.findWhere(ctx, "address = ?", address)
}

func (s *walletStore) ListAccount(ctx context.Context, accountID int64) ([]*core.Wallet, error) {
	b := store.Builder.Select(Columns...).
		From("wallets").
		Where("account_id = ?", accountID).
		OrderBy("asset_id")
	stmt, args := b.MustSql()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var wallets []*core.Wallet
	for rows.Next() {
		var wallet core.Wallet
		if err := Scan(rows, &wallet); err != nil {
			return nil, err
		}

		wallets = append(wallets, &wallet)
	}

	return wallets, rows.Err()
}
