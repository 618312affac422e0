package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/grana-app/grana-api-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePeriod reads the ?period= query parameter. The default window
// is the current month; unknown selectors are rejected downstream by
// the resolver.
func parsePeriod(r *http.Request) domain.Period {
	if v := r.URL.Query().Get("period"); v != "" {
		return domain.Period(v)
	}
	return domain.PeriodCurrentMonth
}

// parseDateRange reads ?start= and ?end= (2006-01-02). Both empty
// falls back to the current month.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	startRaw := r.URL.Query().Get("start")
	endRaw := r.URL.Query().Get("end")

	if startRaw == "" && endRaw == "" {
		return domain.ResolvePeriodRange(domain.PeriodCurrentMonth, time.Now().UTC())
	}

	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, &domain.ErrInvalidArgument{Field: "start", Message: "expected YYYY-MM-DD"}
	}
	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, &domain.ErrInvalidArgument{Field: "end", Message: "expected YYYY-MM-DD"}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, &domain.ErrInvalidArgument{Field: "end", Message: "end before start"}
	}
	return start, end, nil
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	var invalidArgument *domain.ErrInvalidArgument
	var invalidState *domain.ErrInvalidState
	var unauthenticated *domain.ErrUnauthenticated
	var conflict *domain.ErrConflict
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		status := http.StatusBadRequest
		switch validation.Reason {
		case domain.ReasonInsufficientFunds, domain.ReasonAmountMismatch:
			status = http.StatusUnprocessableEntity
			logger.Warn("payment rejected",
				zap.String("reason", string(validation.Reason)),
				zap.String("error", validation.Message),
			)
		default:
			logger.Debug("validation error", zap.String("error", err.Error()))
		}
		writeJSON(w, status, errorResponse{Error: validation.Message, Reason: string(validation.Reason)})
	case errors.As(err, &invalidArgument):
		logger.Debug("invalid argument", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &invalidState):
		logger.Debug("invalid state", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &unauthenticated):
		// 401 tells the frontend to drop the session and sign out.
		logger.Warn("unauthenticated", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &conflict):
		logger.Debug("conflict", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
