package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yourusername/hedge-bets/internal/models"
)

type errorResponse struct {
	Success     bool     `json:"success"`
	Error       string   `json:"error"`
	Code        string   `json:"code"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind string) int {
	switch kind {
	case "unknown_action", "invalid_stat", "invalid_position", "invalid_scenario", "invalid_request":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "insufficient_data", "degenerate_distribution":
		return http.StatusUnprocessableEntity
	case "prediction_timeout":
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status its kind maps to. Internal faults
// are logged and hidden from the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := models.ErrorKind(err)
	status := statusFor(kind)

	resp := errorResponse{Error: err.Error(), Code: kind}
	var nf *models.PlayerNotFoundError
	if errors.As(err, &nf) {
		resp.Suggestions = nf.Suggestions
	}

	if status == http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
		resp.Error = "internal server error"
	}
	writeJSON(w, status, resp)
}

func (h *Handler) badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message, Code: "invalid_request"})
}
