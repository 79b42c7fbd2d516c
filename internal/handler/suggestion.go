package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/hireloop/interview-core-go/internal/errors"
	"github.com/hireloop/interview-core-go/internal/service"
	"github.com/hireloop/interview-core-go/internal/util"
)

type SuggestionHandler struct {
	suggestions *service.SuggestionService
}

func NewSuggestionHandler(suggestions *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

func (h *SuggestionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/{id}/ack", h.Acknowledge)
	r.Post("/{id}/dismiss", h.Dismiss)

	return r
}

// POST /v1/sessions/{sessionID}/suggestions
func (h *SuggestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !util.IsValidUUID(sessionID) {
		writeError(w, apperrors.ValidationError("Invalid session id"))
		return
	}

	var input service.GenerateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if len(input.Transcript) == 0 {
		writeError(w, apperrors.ValidationError("transcript is required"))
		return
	}

	result, err := h.suggestions.Generate(r.Context(), sessionID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /v1/sessions/{sessionID}/suggestions
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !util.IsValidUUID(sessionID) {
		writeError(w, apperrors.ValidationError("Invalid session id"))
		return
	}

	records, err := h.suggestions.GetSuggestions(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions": records,
	})
}

// POST /v1/suggestions/{id}/ack
func (h *SuggestionHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.ValidationError("Invalid suggestion id"))
		return
	}

	if err := h.suggestions.Acknowledge(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
}

// POST /v1/suggestions/{id}/dismiss
func (h *SuggestionHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.ValidationError("Invalid suggestion id"))
		return
	}

	if err := h.suggestions.Dismiss(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}
