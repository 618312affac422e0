package handler

import (
	"net/http"

	"github.com/grana-app/grana-api-go/internal/domain"
	"github.com/grana-app/grana-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Transactions Handlers
// ============================================================

func listTransactionsHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/transactions")
		defer span.End()

		txs, err := svc.ListTransactions(ctx, UserIDFromContext(ctx), parsePeriod(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if txs == nil {
			txs = []domain.Transaction{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
	}
}

func confirmTransactionHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/transactions/{transactionId}/confirm")
		defer span.End()

		txID := chi.URLParam(r, "transactionId")
		if txID == "" {
			writeError(w, http.StatusBadRequest, "transactionId is required")
			return
		}
		span.SetAttributes(attribute.String("transaction.id", txID))

		if err := svc.ConfirmTransaction(ctx, UserIDFromContext(ctx), txID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "Lançamento confirmado"})
	}
}

func cancelTransactionHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/transactions/{transactionId}/cancel")
		defer span.End()

		txID := chi.URLParam(r, "transactionId")
		if txID == "" {
			writeError(w, http.StatusBadRequest, "transactionId is required")
			return
		}
		span.SetAttributes(attribute.String("transaction.id", txID))

		if err := svc.CancelTransaction(ctx, UserIDFromContext(ctx), txID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "Lançamento cancelado"})
	}
}
