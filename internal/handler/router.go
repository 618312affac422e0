package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/grana-app/grana-api-go/internal/domain"
	"github.com/grana-app/grana-api-go/internal/infra/observability"
	"github.com/grana-app/grana-api-go/internal/port"
	"github.com/grana-app/grana-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

const apiVersion = "1.0.0"

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract of the Grana dashboard frontend.
func NewRouter(financeSvc *service.FinanceService, authSvc *service.AuthService, pinger port.Pinger, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(pinger, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Autenticação
		// =============================================
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authRegisterHandler(authSvc, logger))
			r.Post("/login", authLoginHandler(authSvc, logger))
			r.Post("/refresh", authRefreshHandler(authSvc, logger))

			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(authSvc, logger))
				r.Post("/logout", authLogoutHandler(authSvc, logger))
			})
		})

		// =============================================
		// Protected API
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(authSvc, logger))

			// Dashboard & análises
			r.Get("/dashboard", dashboardHandler(financeSvc, logger))
			r.Get("/summary", summaryHandler(financeSvc, logger))
			r.Get("/categories/breakdown", breakdownHandler(financeSvc, logger))

			// Contas
			r.Get("/accounts", listAccountsHandler(financeSvc, logger))
			r.Get("/accounts/overview", accountOverviewHandler(financeSvc, logger))

			// Lançamentos
			r.Get("/transactions", listTransactionsHandler(financeSvc, logger))
			r.Post("/transactions/{transactionId}/confirm", confirmTransactionHandler(financeSvc, logger))
			r.Post("/transactions/{transactionId}/cancel", cancelTransactionHandler(financeSvc, logger))

			// Faturas
			r.Get("/statements/{accountId}", getStatementHandler(financeSvc, logger))
			r.Post("/statements/{accountId}/pay", payStatementHandler(financeSvc, logger))

			// Métricas operacionais
			r.Get("/metrics/summary", opsMetricsHandler(metrics))
		})
	})

	return r
}

// ============================================================
// Health & Métricas
// ============================================================

func healthzHandler(pinger port.Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		deps := map[string]string{}
		status := "healthy"
		if pinger != nil {
			if err := pinger.Ping(ctx); err != nil {
				logger.Warn("healthz: database unreachable", zap.Error(err))
				deps["postgres"] = "unhealthy"
				status = "degraded"
			} else {
				deps["postgres"] = "healthy"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:       status,
			Version:      apiVersion,
			Dependencies: deps,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func opsMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetSnapshot())
	}
}
