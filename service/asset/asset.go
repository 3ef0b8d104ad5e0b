package asset

import (
	"context"
	"sync"

	"github.com/pandodao/safe-ledger/core"
	"github.com/zyedidia/generic/cache"
)

// New wraps the asset store with a bounded cache. Assets are immutable
// reference data; misses are never cached.
func New(assets core.AssetStore) core.AssetService {
	return &service{
		assets: assets,
		cache:  cache.New[int64, *core.Asset](1024),
	}
}

type service struct {
	assets core.AssetStore

	cache *cache.Cache[int64, *core.Asset]
	mux   sync.Mutex
}

func (s *service) Find(ctx context.Context, id int64) (*core.Asset, error) {
	s.mux.Lock()
	v, ok := s.cache.Get(id)
	s.mux.Unlock()
	if ok {
		return v, nil
	}

	v, err := s.assets.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mux.Lock()
	s.cache.Put(v.ID, v)
	s.mux.Unlock()

	return v, nil
}
