package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pandodao/safe-ledger/core"
	"github.com/pandodao/safe-ledger/store"
	"github.com/tsenart/nap"
)

const traceConstraint = "transactions_trace_id_key"

func New(db *nap.DB) core.TransactionStore {
	return &transactionStore{db: db, now: time.Now}
}

type transactionStore struct {
	db  *nap.DB
	now func() time.Time
}

// ledgerTx implements core.LedgerTx over a single sql.Tx on the master.
type ledgerTx struct {
	tx     *sql.Tx
	now    time.Time
	locked map[int64]*core.Wallet
}

func (t *ledgerTx) LockWallets(ctx context.Context, ids ...int64) (map[int64]*core.Wallet, error) {
	if t.locked != nil {
		return nil, errors.New("wallets already locked")
	}

	wallets, err := lockWallets(ctx, t.tx, ids)
	if err != nil {
		return nil, err
	}

	t.locked = wallets
	return wallets, nil
}

func (t *ledgerTx) UpdateWallet(ctx context.Context, wallet *core.Wallet) error {
	if _, ok := t.locked[wallet.ID]; !ok {
		return fmt.Errorf("wallet %d not locked", wallet.ID)
	}

	return updateWallet(ctx, t.tx, wallet, t.now)
}

func (t *ledgerTx) Append(ctx context.Context, transaction *core.Transaction) error {
	return insert(ctx, t.tx, transaction)
}

func insert(ctx context.Context, r querier, t *core.Transaction) error {
	var accountID sql.NullInt64
	if t.AccountID != nil {
		accountID = sql.NullInt64{Int64: *t.AccountID, Valid: true}
	}

	b := store.Builder.Insert("transactions").
		Columns("trace_id", "type", "account_id", "asset_id", "amount", "address").
		Values(t.TraceID, t.Type, accountID, t.AssetID, t.Amount, t.Address).
		Suffix("RETURNING id, created_at")
	stmt, args := b.MustSql()
	if err := r.QueryRowContext(ctx, stmt, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
		if store.IsUniqueViolation(err, traceConstraint) {
			return core.ErrTraceConflict
		}

		return err
	}

	return nil
}

func (s *transactionStore) Transact(ctx context.Context, fn func(tx core.LedgerTx) error) error {
	tx, err := s.db.Master().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	defer tx.Rollback()

	if err := fn(&ledgerTx{tx: tx, now: s.now()}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if store.IsUniqueViolation(err, traceConstraint) {
			return core.ErrTraceConflict
		}

		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func findWhere(ctx context.Context, r querier, pred string, args ...any) (*core.Transaction, error) {
	b := store.Builder.Select(scanColumns...).From("transactions").Where(pred, args...)
	stmt, args := b.MustSql()
	row := r.QueryRowContext(ctx, stmt, args...)

	var t core.Transaction
	if err := scanTransaction(row, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *transactionStore) Find(ctx context.Context, id int64) (*core.Transaction, error) {
	return findWhere(ctx, s.db, "id = ?", id)
}

// FindTrace reads from the master so a trace committed a moment ago, or one
// that just lost an insert race, is always visible.
func (s *transactionStore) FindTrace(ctx context.Context, traceID string) (*core.Transaction, error) {
	return findWhere(ctx, s.db.Master(), "trace_id = ?", traceID)
}

func (s *transactionStore) ListAccount(ctx context.Context, accountID int64, offset int64, limit int) ([]*core.Transaction, error) {
	b := store.Builder.Select(scanColumns...).
		From("transactions").
		Where("account_id = ? AND id > ?", accountID, offset).
		OrderBy("id").
		Limit(uint64(limit))
	stmt, args := b.MustSql()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var transactions []*core.Transaction
	for rows.Next() {
		var t core.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}

		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}
