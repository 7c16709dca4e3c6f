package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/checkout"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/client"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError maps checkout and upstream errors to HTTP. Upstream messages
// are passed to the caller unmodified.
func handleError(w http.ResponseWriter, err error) {
	var ve *checkout.ValidationError
	if errors.As(err, &ve) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   ve.Err.Error(),
			Code:    "validation_failed",
			Details: ve.Field,
		})
		return
	}

	var apiErr *client.APIError
	switch {
	case errors.Is(err, checkout.ErrSubmissionInProgress):
		respondError(w, http.StatusConflict, "submission_in_progress", err.Error())
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= http.StatusInternalServerError {
			respondError(w, http.StatusBadGateway, "upstream_error", apiErr.Error())
			return
		}
		respondError(w, apiErr.StatusCode, "upstream_rejected", apiErr.Error())
	case errors.Is(err, client.ErrUpstreamUnavailable):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "upstream request timed out")
	case errors.Is(err, context.Canceled):
		respondError(w, http.StatusServiceUnavailable, "canceled", "request canceled")
	default:
		respondError(w, http.StatusBadGateway, "upstream_error", err.Error())
	}
}
