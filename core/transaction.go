package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

// Transaction is an immutable ledger entry. AccountID is nil for deposits
// that did not credit any wallet.
type Transaction struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	TraceID   string          `json:"trace_id"`
	Type      TransactionType `json:"type"`
	AccountID *int64          `json:"account_id"`
	AssetID   int64           `json:"asset_id"`
	Amount    decimal.Decimal `json:"amount"`
	Address   string          `json:"address"`
}

// LedgerTx is the unit of work handed to TransactionStore.Transact. Wallets
// must be locked before they are updated, and LockWallets may be called once
// per unit of work.
type LedgerTx interface {
	LockWallets(ctx context.Context, ids ...int64) (map[int64]*Wallet, error)
	UpdateWallet(ctx context.Context, wallet *Wallet) error
	Append(ctx context.Context, transaction *Transaction) error
}

type TransactionStore interface {
	// Transact runs fn atomically. Every change made through tx is discarded
	// if fn returns an error.
	Transact(ctx context.Context, fn func(tx LedgerTx) error) error
	Find(ctx context.Context, id int64) (*Transaction, error)
	FindTrace(ctx context.Context, traceID string) (*Transaction, error)
	ListAccount(ctx context.Context, accountID int64, offset int64, limit int) ([]*Transaction, error)
}

type WithdrawRequest struct {
	TraceID   string          `json:"trace_id,omitempty"`
	AccountID int64           `json:"account_id"`
	AssetID   int64           `json:"asset_id"`
	Amount    decimal.Decimal `json:"amount"`
	Address   string          `json:"address"`
}

type DepositRequest struct {
	TraceID string          `json:"trace_id,omitempty"`
	AssetID int64           `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
	Address string          `json:"address"`
}

type LedgerService interface {
	Balance(ctx context.Context, accountID, assetID int64) (decimal.Decimal, error)
	Withdraw(ctx context.Context, req *WithdrawRequest) (*Transaction, error)
	Deposit(ctx context.Context, req *DepositRequest) (*Transaction, error)
	FindTransaction(ctx context.Context, traceID string) (*Transaction, error)
	ListTransactions(ctx context.Context, accountID int64, offset int64, limit int) ([]*Transaction, error)
}
