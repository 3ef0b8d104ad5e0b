package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the balance of one account for one asset. Address is unique
// across all wallets regardless of asset.
type Wallet struct {
	ID        int64           `json:"id"`
	UpdatedAt time.Time       `json:"updated_at"`
	AccountID int64           `json:"account_id"`
	AssetID   int64           `json:"asset_id"`
	Address   string          `json:"address"`
	Amount    decimal.Decimal `json:"amount"`
	Version   int64           `json:"-"`
}

type WalletStore interface {
	Find(ctx context.Context, accountID, assetID int64) (*Wallet, error)
	FindAddress(ctx context.Context, address string) (*Wallet, error)
	ListAccount(ctx context.Context, accountID int64) ([]*Wallet, error)
}
