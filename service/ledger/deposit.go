package ledger

import (
	"context"
	"log/slog"

	"github.com/pandodao/safe-ledger/core"
	"github.com/pandodao/safe-ledger/store"
)

func (s *service) Deposit(ctx context.Context, req *core.DepositRequest) (*core.Transaction, error) {
	if err := s.validate(req.Amount, req.Address, req.TraceID); err != nil {
		return nil, err
	}

	return s.do(ctx, req.TraceID, func(ctx context.Context, traceID string) (*core.Transaction, error) {
		return s.deposit(ctx, s.logger.With("trace", traceID, "type", core.TransactionTypeDeposit), traceID, req)
	})
}

func (s *service) deposit(ctx context.Context, logger *slog.Logger, traceID string, req *core.DepositRequest) (*core.Transaction, error) {
	logger.Info("processing deposit", "asset", req.AssetID, "amount", req.Amount, "address", req.Address)

	asset, err := s.assetz.Find(ctx, req.AssetID)
	if err != nil {
		if store.IsErrNotFound(err) {
			logger.Warn("asset not found")
			return nil, core.NotFound("asset with id: %d not found", req.AssetID)
		}

		logger.Error("assetz.Find", "err", err)
		return nil, err
	}

	wallet, err := s.wallets.FindAddress(ctx, req.Address)
	switch {
	case err == nil:
	case store.IsErrNotFound(err):
		wallet = nil
	default:
		logger.Error("wallets.FindAddress", "err", err)
		return nil, err
	}

	// Deposits to an unknown address, or to a wallet of another asset, are
	// ledgered without crediting anything. The owner of a resolved wallet is
	// recorded either way.
	credit := wallet != nil && wallet.AssetID == asset.ID
	switch {
	case wallet == nil:
		logger.Info("unattributed deposit, no wallet owns address")
	case !credit:
		logger.Warn("deposit asset does not match wallet, balance unchanged", "wallet", wallet.ID, "wallet_asset", wallet.AssetID)
	}

	t := &core.Transaction{
		TraceID: traceID,
		Type:    core.TransactionTypeDeposit,
		AssetID: req.AssetID,
		Amount:  req.Amount,
		Address: req.Address,
	}

	if wallet != nil {
		accountID := wallet.AccountID
		t.AccountID = &accountID
	}

	if err := s.transactions.Transact(ctx, func(tx core.LedgerTx) error {
		if credit {
			wallets, err := tx.LockWallets(ctx, wallet.ID)
			if err != nil {
				return err
			}

			w := wallets[wallet.ID]
			w.Amount = w.Amount.Add(req.Amount)
			if err := s.checkBalance(w); err != nil {
				return err
			}

			if err := tx.UpdateWallet(ctx, w); err != nil {
				return err
			}
		}

		return tx.Append(ctx, t)
	}); err != nil {
		logTransactErr(logger, err)
		return nil, err
	}

	logger.Info("deposit ledgered", "id", t.ID, "credited", credit)
	return t, nil
}
