package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/pandodao/safe-ledger/core"
	"github.com/pandodao/safe-ledger/store"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	maxAddressLength = 62
	maxListLimit     = 500
	transactTimeout  = 30 * time.Second
)

type Config struct {
	// Precision is the maximum number of fractional digits accepted on amounts.
	Precision int32 `valid:"required"`
	// IntegerDigits bounds the integer part of amounts and wallet balances.
	IntegerDigits int32 `valid:"required"`
}

func New(
	assetz core.AssetService,
	accounts core.AccountStore,
	wallets core.WalletStore,
	transactions core.TransactionStore,
	logger *slog.Logger,
	cfg Config,
) core.LedgerService {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	return &service{
		assetz:       assetz,
		accounts:     accounts,
		wallets:      wallets,
		transactions: transactions,
		logger:       logger.With("service", "ledger"),
		sf:           &singleflight.Group{},
		cfg:          cfg,
		limit:        decimal.New(1, cfg.IntegerDigits),
	}
}

type service struct {
	assetz       core.AssetService
	accounts     core.AccountStore
	wallets      core.WalletStore
	transactions core.TransactionStore
	logger       *slog.Logger
	sf           *singleflight.Group
	cfg          Config
	limit        decimal.Decimal
}

func (s *service) Balance(ctx context.Context, accountID, assetID int64) (decimal.Decimal, error) {
	wallet, err := s.wallets.Find(ctx, accountID, assetID)
	if err != nil {
		if store.IsErrNotFound(err) {
			s.logger.Debug("wallet not found", "account", accountID, "asset", assetID)
			return decimal.Zero, core.NotFound("asset with id: %d or account with id: %d not found", assetID, accountID)
		}

		s.logger.Error("wallets.Find", "err", err)
		return decimal.Zero, core.Internal("find wallet", err)
	}

	return wallet.Amount, nil
}

func (s *service) validate(amount decimal.Decimal, address, traceID string) error {
	if !amount.IsPositive() {
		return core.InvalidArgument("amount must be greater than 0")
	}

	if amount.Truncate(s.cfg.Precision).LessThan(amount) {
		return core.InvalidArgument("amount has more than %d decimal places", s.cfg.Precision)
	}

	if amount.GreaterThanOrEqual(s.limit) {
		return core.InvalidArgument("amount has more than %d integer digits", s.cfg.IntegerDigits)
	}

	if address == "" || len(address) > maxAddressLength {
		return core.InvalidArgument("address must be 1 to %d characters", maxAddressLength)
	}

	if traceID != "" {
		if _, err := uuid.Parse(traceID); err != nil {
			return core.InvalidArgument("invalid trace id")
		}
	}

	return nil
}

// checkBalance rejects a credit that would push w past the integer digits the
// ledger can store.
func (s *service) checkBalance(w *core.Wallet) error {
	if w.Amount.GreaterThanOrEqual(s.limit) {
		return core.InvalidArgument("balance of wallet %s would exceed %d integer digits", w.Address, s.cfg.IntegerDigits)
	}

	return nil
}

// replay returns the ledgered transaction for traceID, or nil if it has not
// been ledgered yet.
func (s *service) replay(ctx context.Context, traceID string) (*core.Transaction, error) {
	t, err := s.transactions.FindTrace(ctx, traceID)
	switch {
	case err == nil:
		return t, nil
	case store.IsErrNotFound(err):
		return nil, nil
	default:
		s.logger.Error("transactions.FindTrace", "trace", traceID, "err", err)
		return nil, core.Internal("find transaction", err)
	}
}

// do runs fn once per trace id at a time. Callers that supplied a trace id
// get the ledgered transaction back when it already exists. The shared call
// is detached from the cancellation of whichever caller started it.
func (s *service) do(ctx context.Context, traceID string, fn func(ctx context.Context, traceID string) (*core.Transaction, error)) (*core.Transaction, error) {
	supplied := traceID != ""
	if !supplied {
		traceID = uuid.NewString()
	}

	ch := s.sf.DoChan(traceID, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), transactTimeout)
		defer cancel()

		if supplied {
			if t, err := s.replay(ctx, traceID); err != nil || t != nil {
				return t, err
			}
		}

		t, err := fn(ctx, traceID)
		if errors.Is(err, core.ErrTraceConflict) {
			s.logger.Debug("trace ledgered concurrently", "trace", traceID)
			if t, err := s.replay(ctx, traceID); err != nil || t != nil {
				return t, err
			}
		}

		if err != nil {
			return nil, core.Internal("ledger transaction", err)
		}

		return t, nil
	})

	select {
	case <-ctx.Done():
		s.logger.Debug("caller gone before transaction finished", "trace", traceID, "err", ctx.Err())
		return nil, core.Internal("ledger transaction", ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}

		return r.Val.(*core.Transaction), nil
	}
}

func logTransactErr(logger *slog.Logger, err error) {
	switch {
	case core.IsBusiness(err):
		logger.Warn("transaction rejected", "err", err)
	case errors.Is(err, core.ErrTraceConflict):
	default:
		logger.Error("transactions.Transact", "err", err)
	}
}

func (s *service) FindTransaction(ctx context.Context, traceID string) (*core.Transaction, error) {
	t, err := s.transactions.FindTrace(ctx, traceID)
	if err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.NotFound("transaction with trace id: %s not found", traceID)
		}

		s.logger.Error("transactions.FindTrace", "trace", traceID, "err", err)
		return nil, core.Internal("find transaction", err)
	}

	return t, nil
}

func (s *service) ListTransactions(ctx context.Context, accountID int64, offset int64, limit int) ([]*core.Transaction, error) {
	if _, err := s.accounts.Find(ctx, accountID); err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.NotFound("account with id: %d not found", accountID)
		}

		s.logger.Error("accounts.Find", "account", accountID, "err", err)
		return nil, core.Internal("find account", err)
	}

	list, err := s.transactions.ListAccount(ctx, accountID, max(offset, 0), min(max(limit, 1), maxListLimit))
	if err != nil {
		s.logger.Error("transactions.ListAccount", "account", accountID, "err", err)
		return nil, core.Internal("list transactions", err)
	}

	return list, nil
}
