package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oxtoacart/bpool"
	"github.com/pandodao/safe-ledger/core"
)

const defaultListLimit = 100

func New(ledger core.LedgerService, logger *slog.Logger) *Server {
	return &Server{
		ledger: ledger,
		logger: logger.With("server", "api"),
		pool:   bpool.NewBufferPool(64),
	}
}

type Server struct {
	ledger core.LedgerService
	logger *slog.Logger
	pool   *bpool.BufferPool
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.status)
	r.Get("/balance/{account_id}/{asset_id}", s.getBalance)

	r.Route("/create", func(r chi.Router) {
		r.Post("/withdrawal", s.createWithdrawal)
		r.Post("/deposit", s.createDeposit)
	})

	r.Get("/transactions/{trace_id}", s.findTransaction)
	r.Get("/accounts/{account_id}/transactions", s.listTransactions)

	return r
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) render(w http.ResponseWriter, status int, v any) {
	buf := s.pool.Get()
	defer s.pool.Put(buf)

	if err := json.NewEncoder(buf).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderDetail(w http.ResponseWriter, status int, detail string) {
	s.render(w, status, map[string]string{"detail": detail})
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidArgument), errors.Is(err, core.ErrInsufficientFunds):
		s.renderDetail(w, http.StatusUnprocessableEntity, core.Message(err))
	case errors.Is(err, core.ErrNotFound):
		s.renderDetail(w, http.StatusNotFound, core.Message(err))
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		s.renderDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	buf := s.pool.Get()
	defer s.pool.Put(buf)

	if _, err := buf.ReadFrom(http.MaxBytesReader(w, r.Body, 1<<16)); err != nil {
		s.renderDetail(w, http.StatusUnprocessableEntity, "failed to read request body")
		return false
	}

	if err := json.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(v); err != nil {
		s.renderDetail(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return false
	}

	return true
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil {
		s.renderDetail(w, http.StatusUnprocessableEntity, "invalid "+key)
		return 0, false
	}

	return id, true
}

func queryInt(r *http.Request, key string, fallback int64) (int64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}

	return strconv.ParseInt(v, 10, 64)
}
