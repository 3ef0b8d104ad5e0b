package memory

import (
	"cmp"
	"context"
	"database/sql"
	"slices"

	"github.com/pandodao/safe-ledger/core"
)

type assetStore struct {
	db *DB
}

func (s *assetStore) Find(_ context.Context, id int64) (*core.Asset, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	a, ok := s.db.assets[id]
	if !ok {
		return nil, sql.ErrNoRows
	}

	v := *a
	return &v, nil
}

func (s *assetStore) List(_ context.Context) ([]*core.Asset, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var assets []*core.Asset
	for _, id := range sortedIDs(s.db.assets) {
		v := *s.db.assets[id]
		assets = append(assets, &v)
	}

	return assets, nil
}

type accountStore struct {
	db *DB
}

func (s *accountStore) Find(_ context.Context, id int64) (*core.Account, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	a, ok := s.db.accounts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}

	v := *a
	return &v, nil
}

type walletStore struct {
	db *DB
}

func (s *walletStore) get(id int64, ok bool) (*core.Wallet, error) {
	if !ok {
		return nil, sql.ErrNoRows
	}

	v := *s.db.wallets[id]
	return &v, nil
}

func (s *walletStore) Find(_ context.Context, accountID, assetID int64) (*core.Wallet, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	id, ok := s.db.pairs[pair{accountID: accountID, assetID: assetID}]
	return s.get(id, ok)
}

func (s *walletStore) FindAddress(_ context.Context, address string) (*core.Wallet, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	id, ok := s.db.addresses[address]
	return s.get(id, ok)
}

func (s *walletStore) ListAccount(_ context.Context, accountID int64) ([]*core.Wallet, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var wallets []*core.Wallet
	for _, id := range sortedIDs(s.db.wallets) {
		if w := s.db.wallets[id]; w.AccountID == accountID {
			v := *w
			wallets = append(wallets, &v)
		}
	}

	slices.SortFunc(wallets, func(a, b *core.Wallet) int {
		return cmp.Compare(a.AssetID, b.AssetID)
	})

	return wallets, nil
}
