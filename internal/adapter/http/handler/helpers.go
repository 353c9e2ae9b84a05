package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/gigvora/escrow/internal/adapter/http/dto"
	"github.com/gigvora/escrow/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: code, Message: message})
}

// mapDomainError translates domain errors into HTTP status codes.
// Ownership mismatches are reported as not-found so resource existence
// never leaks across freelancers.
func mapDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrDisputeNotFound),
		errors.Is(err, domain.ErrFreelancerMismatch):
		writeError(w, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, domain.ErrAccountSuspended),
		errors.Is(err, domain.ErrManualHoldActive),
		errors.Is(err, domain.ErrTransactionNotReleasable),
		errors.Is(err, domain.ErrTransactionNotRefundable),
		errors.Is(err, domain.ErrTransactionNotDisputable):
		writeError(w, http.StatusConflict, "conflict", err.Error())

	case errors.Is(err, domain.ErrInvalidProvider),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidFee),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountTooSmall),
		errors.Is(err, domain.ErrMissingReference),
		errors.Is(err, domain.ErrReferenceTooLong),
		errors.Is(err, domain.ErrLabelTooLong),
		errors.Is(err, domain.ErrInvalidReasonCode),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrEmptyDisputeNotes):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())

	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())

	default:
		log.Error().Err(err).Msg("unhandled error")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func parseIntQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
