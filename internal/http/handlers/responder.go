package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"ttx-service/internal/domain"
	"ttx-service/internal/http/middleware"
	"ttx-service/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]string{"error": message}
	if code != "" {
		body["code"] = code
	}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeDomainError maps coded domain errors onto HTTP statuses.
// Validation-shaped codes turn into 400, state-machine refusals into
// 409, so clients can tell a bad request from a bad moment.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	code := domain.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case domain.CodeNotFound, domain.CodeDecisionNotFound:
		status = http.StatusNotFound
	case domain.CodeForbidden:
		status = http.StatusForbidden
	case domain.CodeValidation, domain.CodeInvalidRating, domain.CodeUnknownAction, domain.CodeInvalidScore:
		status = http.StatusBadRequest
	case domain.CodeInvalidTransition, domain.CodePhaseNotOpen, domain.CodeAlreadyScored:
		status = http.StatusConflict
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.Error(logger, "request failed", err)
		message = "internal error"
	}
	writeError(w, r, status, string(code), message, logger)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, logger *slog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, string(domain.CodeValidation), "invalid request body", logger)
		return false
	}
	return true
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}

// gmID reads the GM identity header. Ownership checks happen in the
// services; an empty header fails them the same as a wrong one.
func gmID(r *http.Request) string {
	return r.Header.Get("X-GM-ID")
}
