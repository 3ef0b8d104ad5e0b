package api

import (
	"encoding/json"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/pandodao/safe-ledger/core"
	"github.com/shopspring/decimal"
)

type withdrawalRequest struct {
	TraceID   string          `json:"trace_id"`
	AccountID int64           `json:"account_id" valid:"required~account_id is required"`
	AssetID   int64           `json:"asset_id" valid:"required~asset_id is required"`
	Amount    decimal.Decimal `json:"amount" valid:"-"`
	Address   string          `json:"address"`
}

type depositRequest struct {
	TraceID string          `json:"trace_id"`
	AssetID int64           `json:"asset_id" valid:"required~asset_id is required"`
	Amount  decimal.Decimal `json:"amount" valid:"-"`
	Address string          `json:"address"`
}

func (s *Server) validate(w http.ResponseWriter, v any) bool {
	if _, err := govalidator.ValidateStruct(v); err != nil {
		s.renderDetail(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}

	return true
}

func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := s.pathID(w, r, "account_id")
	if !ok {
		return
	}

	assetID, ok := s.pathID(w, r, "asset_id")
	if !ok {
		return
	}

	amount, err := s.ledger.Balance(r.Context(), accountID, assetID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	// balances are rendered as bare JSON numbers
	s.render(w, http.StatusOK, json.RawMessage(amount.String()))
}

func (s *Server) createWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if !s.decode(w, r, &req) || !s.validate(w, &req) {
		return
	}

	t, err := s.ledger.Withdraw(r.Context(), &core.WithdrawRequest{
		TraceID:   req.TraceID,
		AccountID: req.AccountID,
		AssetID:   req.AssetID,
		Amount:    req.Amount,
		Address:   req.Address,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.render(w, http.StatusOK, t)
}

func (s *Server) createDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if !s.decode(w, r, &req) || !s.validate(w, &req) {
		return
	}

	t, err := s.ledger.Deposit(r.Context(), &core.DepositRequest{
		TraceID: req.TraceID,
		AssetID: req.AssetID,
		Amount:  req.Amount,
		Address: req.Address,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.render(w, http.StatusOK, t)
}

func (s *Server) findTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.ledger.FindTransaction(r.Context(), chi.URLParam(r, "trace_id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.render(w, http.StatusOK, t)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := s.pathID(w, r, "account_id")
	if !ok {
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.renderDetail(w, http.StatusUnprocessableEntity, "invalid offset")
		return
	}

	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil {
		s.renderDetail(w, http.StatusUnprocessableEntity, "invalid limit")
		return
	}

	list, err := s.ledger.ListTransactions(r.Context(), accountID, offset, int(limit))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	if list == nil {
		list = []*core.Transaction{}
	}

	s.render(w, http.StatusOK, list)
}
