package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/algamoney-api/docs"
	"github.com/rogerio-castellano/algamoney-api/internal/http/ban"
	"github.com/rogerio-castellano/algamoney-api/internal/http/handlers"
	mw "github.com/rogerio-castellano/algamoney-api/internal/http/middleware"
	rl "github.com/rogerio-castellano/algamoney-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/algamoney-api/internal/token"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()

	// The cookie extractor runs ahead of everything so the token endpoint
	// only ever sees the rewritten request.
	r.Use(token.RefreshTokenCookie)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger)

	r.Get("/health", handlers.HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Group(func(r chi.Router) {
		r.Use(rl.Middleware)
		r.Use(ban.Middleware)
		r.Post(token.DefaultTokenPath, handlers.TokenHandler)
		r.Delete(token.DefaultTokenPath, handlers.RevokeTokenHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware)
		r.Get("/entries", handlers.SearchEntriesHandler)
	})

	return r
}
