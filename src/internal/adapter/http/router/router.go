package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// New assembles the HTTP surface. Auth endpoints sit behind the
// channel credentials only; transaction endpoints additionally
// require a customer session token.
func New(
	authController RouteRegistrar,
	transactionController RouteRegistrar,
	channelAuth func(http.Handler) http.Handler,
	tokenAuth func(http.Handler) http.Handler,
) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(g chi.Router) {
		if channelAuth != nil {
			g.Use(channelAuth)
		}
		if authController != nil {
			authController.RegisterRoutes(g)
		}
	})

	r.Group(func(g chi.Router) {
		if channelAuth != nil {
			g.Use(channelAuth)
		}
		if tokenAuth != nil {
			g.Use(tokenAuth)
		}
		if transactionController != nil {
			transactionController.RegisterRoutes(g)
		}
	})

	return r
}
