package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/pandodao/safe-ledger/core"
)

type transactionStore struct {
	db *DB
}

type memoryTx struct {
	db      *DB
	held    []chan struct{}
	locked  map[int64]*core.Wallet
	updates map[int64]*core.Wallet
	appends []*core.Transaction
}

func (t *memoryTx) LockWallets(ctx context.Context, ids ...int64) (map[int64]*core.Wallet, error) {
	if t.locked != nil {
		return nil, errors.New("wallets already locked")
	}

	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	for _, id := range ids {
		if _, ok := t.db.locks[id]; !ok {
			return nil, fmt.Errorf("lock wallets %v: %w", ids, sql.ErrNoRows)
		}
	}

	for _, id := range ids {
		l := t.db.locks[id]
		select {
		case l <- struct{}{}:
			t.held = append(t.held, l)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	t.db.mu.RLock()
	defer t.db.mu.RUnlock()

	t.locked = make(map[int64]*core.Wallet, len(ids))
	wallets := make(map[int64]*core.Wallet, len(ids))
	for _, id := range ids {
		v := *t.db.wallets[id]
		t.locked[id] = &v
		w := v
		wallets[id] = &w
	}

	return wallets, nil
}

func (t *memoryTx) UpdateWallet(_ context.Context, wallet *core.Wallet) error {
	if _, ok := t.locked[wallet.ID]; !ok {
		return fmt.Errorf("wallet %d not locked", wallet.ID)
	}

	v := *wallet
	t.updates[wallet.ID] = &v
	return nil
}

func (t *memoryTx) Append(_ context.Context, transaction *core.Transaction) error {
	t.appends = append(t.appends, transaction)
	return nil
}

func (t *memoryTx) release() {
	for _, l := range t.held {
		<-l
	}

	t.held = nil
}

func (s *transactionStore) Transact(ctx context.Context, fn func(tx core.LedgerTx) error) error {
	tx := &memoryTx{db: s.db, updates: map[int64]*core.Wallet{}}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}

	return s.db.commit(tx)
}

// commit validates every staged change before applying any of them.
func (db *DB) commit(tx *memoryTx) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	traces := map[string]bool{}
	for _, t := range tx.appends {
		if _, ok := db.traces[t.TraceID]; ok || traces[t.TraceID] {
			return core.ErrTraceConflict
		}

		if !t.Amount.IsPositive() {
			return errors.New("transactions_amount_check violated")
		}

		traces[t.TraceID] = true
	}

	for id, w := range tx.updates {
		if db.wallets[id].Version != w.Version {
			return fmt.Errorf("optimistic lock failed")
		}

		if w.Amount.IsNegative() {
			return errors.New("wallets_amount_check violated")
		}
	}

	now := db.now()
	for id, w := range tx.updates {
		cur := db.wallets[id]
		cur.Amount = w.Amount
		cur.Version++
		cur.UpdatedAt = now
	}

	for _, t := range tx.appends {
		t.ID = int64(len(db.transactions) + 1)
		t.CreatedAt = now

		db.traces[t.TraceID] = len(db.transactions)
		db.transactions = append(db.transactions, copyTransaction(t))
	}

	return nil
}

func copyTransaction(t *core.Transaction) *core.Transaction {
	v := *t
	if t.AccountID != nil {
		accountID := *t.AccountID
		v.AccountID = &accountID
	}

	return &v
}

func (s *transactionStore) Find(_ context.Context, id int64) (*core.Transaction, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if id < 1 || id > int64(len(s.db.transactions)) {
		return nil, sql.ErrNoRows
	}

	return copyTransaction(s.db.transactions[id-1]), nil
}

func (s *transactionStore) FindTrace(_ context.Context, traceID string) (*core.Transaction, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	idx, ok := s.db.traces[traceID]
	if !ok {
		return nil, sql.ErrNoRows
	}

	return copyTransaction(s.db.transactions[idx]), nil
}

func (s *transactionStore) ListAccount(_ context.Context, accountID int64, offset int64, limit int) ([]*core.Transaction, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var transactions []*core.Transaction
	for _, t := range s.db.transactions[min(max(offset, 0), int64(len(s.db.transactions))):] {
		if len(transactions) >= limit {
			break
		}

		if t.AccountID != nil && *t.AccountID == accountID {
			transactions = append(transactions, copyTransaction(t))
		}
	}

	return transactions, nil
}
