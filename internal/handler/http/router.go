package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coderharsx1122/utube-backend/internal/auth"
	"github.com/coderharsx1122/utube-backend/pkg/health"
	"github.com/coderharsx1122/utube-backend/pkg/middleware"
)

// RouterConfig carries router-level settings.
type RouterConfig struct {
	ServiceName        string
	CORSAllowedOrigins []string
}

// NewRouter assembles the HTTP routes and middleware chain.
func NewRouter(
	cfg RouterConfig,
	logger *slog.Logger,
	tokens *auth.TokenManager,
	authHandler *AuthHandler,
	healthHandler *health.Handler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/healthz", healthHandler.LivenessHandler())
	r.Get("/readyz", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	requireAuth := middleware.Auth(accessTokenValidator(tokens))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", authHandler.Me)
		})
	})

	return r
}

// accessTokenValidator adapts the token manager to the auth middleware.
func accessTokenValidator(tokens *auth.TokenManager) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := tokens.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID:   claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
		}, nil
	}
}
