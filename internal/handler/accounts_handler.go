package handler

import (
	"net/http"

	"github.com/grana-app/grana-api-go/internal/domain"
	"github.com/grana-app/grana-api-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Accounts Handlers
// ============================================================

func listAccountsHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/accounts")
		defer span.End()

		overview, err := svc.GetAccountOverview(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		accounts := make([]domain.Account, 0, len(overview))
		for i := range overview {
			accounts = append(accounts, overview[i].Account)
		}
		writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
	}
}

func accountOverviewHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/accounts/overview")
		defer span.End()

		overview, err := svc.GetAccountOverview(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"accounts": overview})
	}
}
