package asset

import (
	"context"

	"github.com/pandodao/safe-ledger/core"
	"github.com/pandodao/safe-ledger/store"
	"github.com/tsenart/nap"
)

func New(db *nap.DB) core.AssetStore {
	return &assetStore{db: db}
}

type assetStore struct {
	db *nap.DB
}

var columns = []string{"id", "created_at", "symbol", "name"}

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(s scanner, asset *core.Asset) error {
	return s.Scan(&asset.ID, &asset.CreatedAt, &asset.Symbol, &asset.Name)
}

func (s *assetStore) Find(ctx context.Context, id int64) (*core.Asset, error) {
	stmt, args := store.Builder.Select(columns...).From("assets").Where("id = ?", id).MustSql()
	row := s.db.QueryRowContext(ctx, stmt, args...)

	var asset core.Asset
	if err := scanAsset(row, &asset); err != nil {
		return nil, err
	}

	return &asset, nil
}

func (s *assetStore) List(ctx context.Context) ([]*core.Asset, error) {
	stmt, args := store.Builder.Select(columns...).From("assets").OrderBy("id").MustSql()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var assets []*core.Asset
	for rows.Next() {
		var asset core.Asset
		if err := scanAsset(rows, &asset); err != nil {
			return nil, err
		}

		assets = append(assets, &asset)
	}

	return assets, rows.Err()
}
