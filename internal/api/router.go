package api

import (
	"net/http"
	"time"

	"portfolio_backend/internal/api/handler"
	"portfolio_backend/internal/api/middleware"
	"portfolio_backend/internal/app/service"
	"portfolio_backend/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(authService *service.AuthService, tokens *security.TokenService) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService, tokens)
	profileHandler := handler.NewProfileHandler()

	// Public auth routes
	r.Group(func(public chi.Router) {
		authHandler.RegisterPublicRoutes(public)
	})

	// Cookie-authenticated routes
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Verifier(tokens))
		protected.Use(middleware.Authenticator)
		authHandler.RegisterProtectedRoutes(protected)
		profileHandler.RegisterRoutes(protected)
	})

	return r
}
