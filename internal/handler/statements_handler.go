package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/grana-app/grana-api-go/internal/domain"
	"github.com/grana-app/grana-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Statements (Faturas) Handlers
// ============================================================

func getStatementHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/statements/{accountId}")
		defer span.End()

		accountID := chi.URLParam(r, "accountId")
		if accountID == "" {
			writeError(w, http.StatusBadRequest, "accountId is required")
			return
		}
		span.SetAttributes(attribute.String("account.id", accountID))

		from, to, err := parseDateRange(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		statement, err := svc.GetStatement(ctx, UserIDFromContext(ctx), accountID, from, to)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, statement)
	}
}

func payStatementHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/statements/{accountId}/pay")
		defer span.End()

		accountID := chi.URLParam(r, "accountId")
		if accountID == "" {
			writeError(w, http.StatusBadRequest, "accountId is required")
			return
		}
		span.SetAttributes(attribute.String("account.id", accountID))

		var req domain.PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.StatementAccountID = accountID

		// Default to the current month when the payload omits the period.
		if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() {
			from, to, err := domain.ResolvePeriodRange(domain.PeriodCurrentMonth, time.Now().UTC())
			if err != nil {
				handleServiceError(w, err, logger)
				return
			}
			req.PeriodStart, req.PeriodEnd = from, to
		}

		result, err := svc.PayStatement(ctx, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}
