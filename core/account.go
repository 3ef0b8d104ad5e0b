package core

import (
	"context"
	"time"
)

type Account struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username,omitempty"`
}

type AccountStore interface {
	Find(ctx context.Context, id int64) (*Account, error)
}
