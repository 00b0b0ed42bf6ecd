// Package handler is the thin JSON surface presentation clients talk to.
// It translates requests into session controller calls and controller
// results into status codes; all aggregation logic lives below it.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/premiumclub/portal/internal/apperr"
	"github.com/premiumclub/portal/internal/logger"
	"github.com/premiumclub/portal/internal/session"
)

type Handler struct {
	Sessions *session.Controller
	validate *validator.Validate
}

func New(sessions *session.Controller) *Handler {
	return &Handler{
		Sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// decodeValidate decodes a JSON body and checks its validate tags.
func (h *Handler) decodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return &apperr.HTTPError{Status: http.StatusBadRequest, Message: "body is invalid json"}
	}
	if err := h.validate.Struct(body); err != nil {
		return &apperr.HTTPError{Status: http.StatusBadRequest, Message: "required fields missing or invalid"}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.StatusCode(err), map[string]string{"message": err.Error()})
}
