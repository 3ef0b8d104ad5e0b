package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pandodao/safe-ledger/core"
	"github.com/pandodao/safe-ledger/store"
	"github.com/shopspring/decimal"
)

func testSeed() Seed {
	return Seed{
		Assets: []*core.Asset{
			{ID: 1, Symbol: "BTC", Name: "Bitcoin"},
			{ID: 2, Symbol: "ETH", Name: "Ethereum"},
		},
		Accounts: []*core.Account{
			{ID: 1, Username: "test_user1"},
			{ID: 2, Username: "test_user2"},
		},
		Wallets: []*core.Wallet{
			{AccountID: 1, AssetID: 1, Address: "0x17", Amount: decimal.RequireFromString("1.5")},
			{AccountID: 1, AssetID: 2, Address: "0x29", Amount: decimal.RequireFromString("2")},
			{AccountID: 2, AssetID: 1, Address: "0x37", Amount: decimal.RequireFromString("3")},
		},
	}
}

func mustNew(t *testing.T) *DB {
	t.Helper()

	db, err := New(testSeed())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	return db
}

func TestNewRejectsInvalidSeed(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Seed)
	}{
		{"duplicate address", func(s *Seed) { s.Wallets[1].Address = "0x17" }},
		{"duplicate pair", func(s *Seed) { s.Wallets[1].AssetID = 1 }},
		{"unknown account", func(s *Seed) { s.Wallets[0].AccountID = 9 }},
		{"unknown asset", func(s *Seed) { s.Wallets[0].AssetID = 9 }},
		{"negative amount", func(s *Seed) { s.Wallets[0].Amount = decimal.NewFromInt(-1) }},
		{"empty address", func(s *Seed) { s.Wallets[0].Address = "" }},
		{"duplicate asset", func(s *Seed) { s.Assets[1].ID = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := testSeed()
			tt.modify(&seed)
			if _, err := New(seed); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestNewNumbersWallets(t *testing.T) {
	db := mustNew(t)
	ctx := context.Background()

	w, err := db.Wallets().FindAddress(ctx, "0x37")
	if err != nil {
		t.Fatalf("FindAddress() failed: %v", err)
	}

	if w.ID != 3 {
		t.Errorf("ID = %d, want 3", w.ID)
	}

	if _, err := db.Wallets().Find(ctx, 2, 2); !store.IsErrNotFound(err) {
		t.Errorf("Find() err = %v, want sql.ErrNoRows", err)
	}

	wallets, err := db.Wallets().ListAccount(ctx, 1)
	if err != nil || len(wallets) != 2 || wallets[0].AssetID != 1 {
		t.Errorf("ListAccount() = %v, %v", wallets, err)
	}
}

func TestTransactCommitsAtomically(t *testing.T) {
	db := mustNew(t)
	ctx := context.Background()
	accountID := int64(1)

	tr := &core.Transaction{
		TraceID:   "t1",
		Type:      core.TransactionTypeWithdrawal,
		AccountID: &accountID,
		AssetID:   1,
		Amount:    decimal.RequireFromString("0.5"),
		Address:   "0x37",
	}

	err := db.Transactions().Transact(ctx, func(tx core.LedgerTx) error {
		wallets, err := tx.LockWallets(ctx, 3, 1)
		if err != nil {
			return err
		}

		wallets[1].Amount = wallets[1].Amount.Sub(tr.Amount)
		wallets[3].Amount = wallets[3].Amount.Add(tr.Amount)
		for _, w := range wallets {
			if err := tx.UpdateWallet(ctx, w); err != nil {
				return err
			}
		}

		return tx.Append(ctx, tr)
	})
	if err != nil {
		t.Fatalf("Transact() failed: %v", err)
	}

	if tr.ID != 1 || tr.CreatedAt.IsZero() {
		t.Errorf("transaction not stamped: %+v", tr)
	}

	src, _ := db.Wallets().Find(ctx, 1, 1)
	dst, _ := db.Wallets().Find(ctx, 2, 1)
	if !src.Amount.Equal(decimal.NewFromInt(1)) || !dst.Amount.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("balances = %s, %s", src.Amount, dst.Amount)
	}

	if src.Version != 1 {
		t.Errorf("Version = %d, want 1", src.Version)
	}

	got, err := db.Transactions().FindTrace(ctx, "t1")
	if err != nil || got.ID != 1 || *got.AccountID != 1 {
		t.Errorf("FindTrace() = %+v, %v", got, err)
	}
}

func TestTransactDiscardsOnError(t *testing.T) {
	db := mustNew(t)
	ctx := context.Background()

	err := db.Transactions().Transact(ctx, func(tx core.LedgerTx) error {
		wallets, err := tx.LockWallets(ctx, 1)
		if err != nil {
			return err
		}

		wallets[1].Amount = decimal.Zero
		if err := tx.UpdateWallet(ctx, wallets[1]); err != nil {
			return err
		}

		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("Transact() should fail")
	}

	w, _ := db.Wallets().Find(ctx, 1, 1)
	if !w.Amount.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("Amount = %s, want 1.5", w.Amount)
	}

	// locks were released
	done := make(chan error, 1)
	go func() {
		done <- db.Transactions().Transact(ctx, func(tx core.LedgerTx) error {
			_, err := tx.LockWallets(ctx, 1)
			return err
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Transact() failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("wallet lock leaked")
	}
}

func TestCommitRejectsNegativeAndDuplicates(t *testing.T) {
	db := mustNew(t)
	ctx := context.Background()

	err := db.Transactions().Transact(ctx, func(tx core.LedgerTx) error {
		wallets, err := tx.LockWallets(ctx, 1)
		if err != nil {
			return err
		}

		wallets[1].Amount = decimal.NewFromInt(-1)
		return tx.UpdateWallet(ctx, wallets[1])
	})
	if err == nil {
		t.Error("negative balance should be rejected")
	}

	appendTrace := func(trace string) error {
		return db.Transactions().Transact(ctx, func(tx core.LedgerTx) error {
			return tx.Append(ctx, &core.Transaction{
				TraceID: trace,
				Type:    core.TransactionTypeDeposit,
				AssetID: 1,
				Amount:  decimal.NewFromInt(1),
				Address: "0xnone",
			})
		})
	}

	if err := appendTrace("dup"); err != nil {
		t.Fatalf("first append failed: %v", err)
	}

	if err := appendTrace("dup"); !errors.Is(err, core.ErrTraceConflict) {
		t.Errorf("second append err = %v, want ErrTraceConflict", err)
	}
}

func TestLockWalletsHonoursContext(t *testing.T) {
	db := mustNew(t)
	ctx := context.Background()

	locked := make(chan struct{})
	unlock := make(chan struct{})
	go func() {
		_ = db.Transactions().Transact(ctx, func(tx core.LedgerTx) error {
			if _, err := tx.LockWallets(ctx, 1); err != nil {
				return err
			}

			close(locked)
			<-unlock
			return nil
		})
	}()

	<-locked
	defer close(unlock)

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	err := db.Transactions().Transact(cctx, func(tx core.LedgerTx) error {
		_, err := tx.LockWallets(cctx, 1, 2)
		return err
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Transact() err = %v, want context.DeadlineExceeded", err)
	}
}

func TestOpposingTransfersDoNotDeadlock(t *testing.T) {
	db := mustNew(t)
	ctx := context.Background()

	move := func(from, to int64) error {
		return db.Transactions().Transact(ctx, func(tx core.LedgerTx) error {
			wallets, err := tx.LockWallets(ctx, from, to)
			if err != nil {
				return err
			}

			unit := decimal.RequireFromString("0.001")
			wallets[from].Amount = wallets[from].Amount.Sub(unit)
			wallets[to].Amount = wallets[to].Amount.Add(unit)
			if err := tx.UpdateWallet(ctx, wallets[from]); err != nil {
				return err
			}

			return tx.UpdateWallet(ctx, wallets[to])
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _ = move(1, 3) }()
		go func() { defer wg.Done(); _ = move(3, 1) }()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("opposing transfers deadlocked")
	}

	a, _ := db.Wallets().Find(ctx, 1, 1)
	b, _ := db.Wallets().Find(ctx, 2, 1)
	if total := a.Amount.Add(b.Amount); !total.Equal(decimal.RequireFromString("4.5")) {
		t.Errorf("total = %s, want 4.5", total)
	}
}

func TestListAccount(t *testing.T) {
	db := mustNew(t)
	ctx := context.Background()

	for i, account := range []int64{1, 2, 1, 1} {
		account := account
		err := db.Transactions().Transact(ctx, func(tx core.LedgerTx) error {
			return tx.Append(ctx, &core.Transaction{
				TraceID:   string(rune('a' + i)),
				Type:      core.TransactionTypeDeposit,
				AccountID: &account,
				AssetID:   1,
				Amount:    decimal.NewFromInt(1),
				Address:   "0x17",
			})
		})
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	list, err := db.Transactions().ListAccount(ctx, 1, 1, 10)
	if err != nil {
		t.Fatalf("ListAccount() failed: %v", err)
	}

	if len(list) != 2 || list[0].ID != 3 || list[1].ID != 4 {
		t.Errorf("ListAccount() = %+v", list)
	}

	if list, _ := db.Transactions().ListAccount(ctx, 1, 0, 1); len(list) != 1 || list[0].ID != 1 {
		t.Errorf("limited ListAccount() = %+v", list)
	}
}
