package core

import (
	"context"
	"time"
)

type Asset struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Symbol    string    `json:"symbol,omitempty"`
	Name      string    `json:"name,omitempty"`
}

type AssetStore interface {
	Find(ctx context.Context, id int64) (*Asset, error)
	List(ctx context.Context) ([]*Asset, error)
}

type AssetService interface {
	Find(ctx context.Context, id int64) (*Asset, error)
}
