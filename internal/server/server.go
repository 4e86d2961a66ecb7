package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nondefyde/coderealm-api/internal/config"
	"github.com/nondefyde/coderealm-api/internal/httpx"
	appmiddleware "github.com/nondefyde/coderealm-api/internal/middleware"
	"github.com/nondefyde/coderealm-api/internal/modules/account"
	"github.com/nondefyde/coderealm-api/internal/resource"
)

// New creates and configures a new server instance: the middleware chain,
// the account routes, and the generic resource routes under /api/v1.
func New(cfg *config.Config, log *slog.Logger, accountHandler *account.Handler, resourceHandler *resource.Handler) chi.Router {
	router := chi.NewMux()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(60 * time.Second))
	router.Use(appmiddleware.RequestLogger(log))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.OK(w, map[string]string{"status": "ok"})
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(appmiddleware.Authenticator(cfg.Auth.Secret, log))
		accountHandler.RegisterRoutes(r)
		resourceHandler.RegisterRoutes(r)
	})

	return router
}
