// Package memory keeps the ledger in process memory. Wallet rows are guarded
// by per-wallet locks taken in id order; staged changes are applied under the
// store's write lock so readers never observe half of a unit of work.
package memory

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pandodao/safe-ledger/core"
)

type Seed struct {
	Assets   []*core.Asset
	Accounts []*core.Account
	Wallets  []*core.Wallet
}

type pair struct {
	accountID int64
	assetID   int64
}

type DB struct {
	mu sync.RWMutex

	assets    map[int64]*core.Asset
	accounts  map[int64]*core.Account
	wallets   map[int64]*core.Wallet
	addresses map[string]int64
	pairs     map[pair]int64
	// one slot per wallet, fixed after New
	locks map[int64]chan struct{}

	transactions []*core.Transaction
	traces       map[string]int

	now func() time.Time
}

// New builds a store from reference data. Wallets without an id are numbered
// after the highest explicit id.
func New(seed Seed) (*DB, error) {
	db := &DB{
		assets:    make(map[int64]*core.Asset, len(seed.Assets)),
		accounts:  make(map[int64]*core.Account, len(seed.Accounts)),
		wallets:   make(map[int64]*core.Wallet, len(seed.Wallets)),
		addresses: make(map[string]int64, len(seed.Wallets)),
		pairs:     make(map[pair]int64, len(seed.Wallets)),
		locks:     make(map[int64]chan struct{}, len(seed.Wallets)),
		traces:    map[string]int{},
		now:       time.Now,
	}

	now := db.now()

	for _, a := range seed.Assets {
		if _, ok := db.assets[a.ID]; ok {
			return nil, fmt.Errorf("duplicate asset %d", a.ID)
		}

		v := *a
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		db.assets[a.ID] = &v
	}

	for _, a := range seed.Accounts {
		if _, ok := db.accounts[a.ID]; ok {
			return nil, fmt.Errorf("duplicate account %d", a.ID)
		}

		v := *a
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		db.accounts[a.ID] = &v
	}

	var nextID int64
	for _, w := range seed.Wallets {
		nextID = max(nextID, w.ID)
	}

	for _, w := range seed.Wallets {
		v := *w
		if v.ID == 0 {
			nextID++
			v.ID = nextID
		}

		if v.UpdatedAt.IsZero() {
			v.UpdatedAt = now
		}

		if err := db.addWallet(&v); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func (db *DB) addWallet(w *core.Wallet) error {
	if _, ok := db.wallets[w.ID]; ok {
		return fmt.Errorf("duplicate wallet %d", w.ID)
	}

	if _, ok := db.accounts[w.AccountID]; !ok {
		return fmt.Errorf("wallet %d: account %d not found", w.ID, w.AccountID)
	}

	if _, ok := db.assets[w.AssetID]; !ok {
		return fmt.Errorf("wallet %d: asset %d not found", w.ID, w.AssetID)
	}

	if w.Address == "" {
		return fmt.Errorf("wallet %d: empty address", w.ID)
	}

	if _, ok := db.addresses[w.Address]; ok {
		return fmt.Errorf("wallet %d: duplicate address %s", w.ID, w.Address)
	}

	p := pair{accountID: w.AccountID, assetID: w.AssetID}
	if _, ok := db.pairs[p]; ok {
		return fmt.Errorf("wallet %d: duplicate wallet of account %d for asset %d", w.ID, w.AccountID, w.AssetID)
	}

	if w.Amount.IsNegative() {
		return fmt.Errorf("wallet %d: negative amount", w.ID)
	}

	db.wallets[w.ID] = w
	db.addresses[w.Address] = w.ID
	db.pairs[p] = w.ID
	db.locks[w.ID] = make(chan struct{}, 1)
	return nil
}

func (db *DB) Assets() core.AssetStore             { return &assetStore{db: db} }
func (db *DB) Accounts() core.AccountStore         { return &accountStore{db: db} }
func (db *DB) Wallets() core.WalletStore           { return &walletStore{db: db} }
func (db *DB) Transactions() core.TransactionStore { return &transactionStore{db: db} }

func sortedIDs[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)
	return keys
}
