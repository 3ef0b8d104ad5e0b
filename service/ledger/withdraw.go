package ledger

import (
	"context"
	"log/slog"

	"github.com/pandodao/safe-ledger/core"
	"github.com/pandodao/safe-ledger/store"
)

func (s *service) Withdraw(ctx context.Context, req *core.WithdrawRequest) (*core.Transaction, error) {
	if err := s.validate(req.Amount, req.Address, req.TraceID); err != nil {
		return nil, err
	}

	return s.do(ctx, req.TraceID, func(ctx context.Context, traceID string) (*core.Transaction, error) {
		return s.withdraw(ctx, s.logger.With("trace", traceID, "type", core.TransactionTypeWithdrawal), traceID, req)
	})
}

func (s *service) sourceNotFound(ctx context.Context, req *core.WithdrawRequest) error {
	if _, err := s.accounts.Find(ctx, req.AccountID); err != nil {
		if store.IsErrNotFound(err) {
			return core.NotFound("account with id: %d not found", req.AccountID)
		}

		return core.Internal("find account", err)
	}

	return core.NotFound("wallet of account with id: %d for asset with id: %d not found", req.AccountID, req.AssetID)
}

func (s *service) withdraw(ctx context.Context, logger *slog.Logger, traceID string, req *core.WithdrawRequest) (*core.Transaction, error) {
	logger.Info("processing withdrawal", "account", req.AccountID, "asset", req.AssetID, "amount", req.Amount, "address", req.Address)

	source, err := s.wallets.Find(ctx, req.AccountID, req.AssetID)
	if err != nil {
		if store.IsErrNotFound(err) {
			err = s.sourceNotFound(ctx, req)
			logger.Warn("source wallet not found", "err", err)
			return nil, err
		}

		logger.Error("wallets.Find", "err", err)
		return nil, err
	}

	// address, account and asset of a wallet never change, so the pair can
	// be resolved before any lock is taken
	ids := []int64{source.ID}
	dest, err := s.wallets.FindAddress(ctx, req.Address)
	switch {
	case err == nil:
		ids = append(ids, dest.ID)
	case store.IsErrNotFound(err):
		dest = nil
		logger.Debug("external withdrawal, no wallet owns address")
	default:
		logger.Error("wallets.FindAddress", "err", err)
		return nil, err
	}

	accountID := req.AccountID
	t := &core.Transaction{
		TraceID:   traceID,
		Type:      core.TransactionTypeWithdrawal,
		AccountID: &accountID,
		AssetID:   req.AssetID,
		Amount:    req.Amount,
		Address:   req.Address,
	}

	if err := s.transactions.Transact(ctx, func(tx core.LedgerTx) error {
		wallets, err := tx.LockWallets(ctx, ids...)
		if err != nil {
			return err
		}

		src := wallets[source.ID]
		if src.Amount.LessThan(req.Amount) {
			return core.InsufficientFunds("account with id: %d does not have enough funds", req.AccountID)
		}

		// a transfer to the source's own address debits and credits the
		// same locked row
		src.Amount = src.Amount.Sub(req.Amount)
		if dest != nil {
			dst := wallets[dest.ID]
			dst.Amount = dst.Amount.Add(req.Amount)
			if err := s.checkBalance(dst); err != nil {
				return err
			}
		}

		if err := tx.UpdateWallet(ctx, src); err != nil {
			return err
		}

		if dest != nil && dest.ID != source.ID {
			if err := tx.UpdateWallet(ctx, wallets[dest.ID]); err != nil {
				return err
			}
		}

		return tx.Append(ctx, t)
	}); err != nil {
		logTransactErr(logger, err)
		return nil, err
	}

	logger.Info("withdrawal ledgered", "id", t.ID, "internal", dest != nil)
	return t, nil
}
