package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/wire"
	"github.com/pandodao/safe-ledger/handler/api"
	"github.com/pandodao/safe-ledger/handler/hc"
	"github.com/rs/cors"
)

var serverSet = wire.NewSet(
	api.New,
	provideServer,
)

func provideServer(apiHandler *api.Server) *http.Server {
	m := chi.NewMux()
	m.Use(middleware.RealIP)
	m.Use(middleware.Logger)
	m.Use(middleware.Recoverer)
	m.Use(cors.AllowAll().Handler)

	m.Mount("/hc", hc.Handler(version, commit))
	m.Mount("/", apiHandler.Handler())

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", opt.port),
		Handler: m,
	}
}
