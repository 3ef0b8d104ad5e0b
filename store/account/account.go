package account

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pandodao/safe-ledger/core"
	"github.com/pandodao/safe-ledger/store"
	"github.com/tsenart/nap"
)

// New returns an account store caching rows by id. Accounts are reference
// data without lifecycle, so cached entries never go stale.
func New(db *nap.DB) core.AccountStore {
	accounts, err := lru.New[int64, *core.Account](1024)
	if err != nil {
		panic(err)
	}

	return &accountStore{
		db:       db,
		accounts: accounts,
	}
}

type accountStore struct {
	db       *nap.DB
	accounts *lru.Cache[int64, *core.Account]
}

var columns = []string{"id", "created_at", "username"}

func (s *accountStore) Find(ctx context.Context, id int64) (*core.Account, error) {
	if a, ok := s.accounts.Get(id); ok {
		return a, nil
	}

	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	s.accounts.Add(id, a)
	return a, nil
}

func (s *accountStore) find(ctx context.Context, id int64) (*core.Account, error) {
	b := store.Builder.Select(columns...).From("accounts").Where("id = ?", id)
	row := b.RunWith(s.db).QueryRowContext(ctx)

	var account core.Account
	if err := row.Scan(&account.ID, &account.CreatedAt, &account.Username); err != nil {
		return nil, err
	}

	return &account, nil
}
