package transaction

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pandodao/safe-ledger/core"
	"github.com/pandodao/safe-ledger/store"
	"github.com/pandodao/safe-ledger/store/wallet"
)

// lockWallets takes row locks in ascending id order so that two units of
// work touching the same pair of wallets cannot deadlock.
func lockWallets(ctx context.Context, tx *sql.Tx, ids []int64) (map[int64]*core.Wallet, error) {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	b := store.Builder.Select(wallet.Columns...).
		From("wallets").
		Where(sq.Eq{"id": ids}).
		OrderBy("id").
		Suffix("FOR UPDATE")
	stmt, args := b.MustSql()
	rows, err := tx.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	wallets := make(map[int64]*core.Wallet, len(ids))
	for rows.Next() {
		var w core.Wallet
		if err := wallet.Scan(rows, &w); err != nil {
			return nil, err
		}

		wallets[w.ID] = &w
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(wallets) != len(ids) {
		return nil, fmt.Errorf("lock wallets %v: %w", ids, sql.ErrNoRows)
	}

	return wallets, nil
}

func updateWallet(ctx context.Context, tx *sql.Tx, w *core.Wallet, now time.Time) error {
	b := store.Builder.Update("wallets").
		Set("amount", w.Amount).
		Set("updated_at", now).
		Set("version", w.Version+1).
		Where("id = ? AND version = ?", w.ID, w.Version)
	stmt, args := b.MustSql()
	r, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return err
	}

	n, err := r.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("optimistic lock failed")
	}

	w.Version++
	w.UpdatedAt = now
	return nil
}
