package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/hireloop/interview-core-go/internal/errors"
	"github.com/hireloop/interview-core-go/internal/model"
	"github.com/hireloop/interview-core-go/internal/repository"
	"github.com/hireloop/interview-core-go/internal/service"
	"github.com/hireloop/interview-core-go/internal/util"
)

type SessionHandler struct {
	admission    *service.AdmissionService
	registry     *service.RegistryService
	skills       *service.SkillTracker
	sessions     repository.SessionRepository
	participants repository.ParticipantRepository
}

func NewSessionHandler(
	admission *service.AdmissionService,
	registry *service.RegistryService,
	skills *service.SkillTracker,
	sessions repository.SessionRepository,
	participants repository.ParticipantRepository,
) *SessionHandler {
	return &SessionHandler{
		admission:    admission,
		registry:     registry,
		skills:       skills,
		sessions:     sessions,
		participants: participants,
	}
}

type joinRequest struct {
	Role        model.Role `json:"role"`
	ActorID     string     `json:"actorId"`
	CountryHint string     `json:"countryHint,omitempty"`
}

// POST /v1/sessions/{sessionID}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !util.IsValidUUID(sessionID) {
		writeError(w, apperrors.ValidationError("Invalid session id"))
		return
	}

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if !util.IsValidEnum(string(req.Role), []string{string(model.RoleInterviewer), string(model.RoleCandidate)}) || req.Role == "" {
		writeError(w, apperrors.ValidationError("role must be interviewer or candidate"))
		return
	}
	if req.ActorID == "" {
		writeError(w, apperrors.ValidationError("actorId is required"))
		return
	}

	bundle, err := h.admission.Join(r.Context(), sessionID, req.Role, req.ActorID, req.CountryHint)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bundle)
}

// GET /v1/sessions/{sessionID}/skills?required=a,b,c
//
// Reports which skills have been evaluated so far. Coverage is computed
// against the caller-supplied requirement list; without one only the
// evaluated names are meaningful.
func (h *SessionHandler) Skills(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !util.IsValidUUID(sessionID) {
		writeError(w, apperrors.ValidationError("Invalid session id"))
		return
	}

	var required []string
	if raw := r.URL.Query().Get("required"); raw != "" {
		for _, skill := range strings.Split(raw, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				required = append(required, skill)
			}
		}
	}

	evaluated := h.skills.EvaluatedSkills(r.Context(), sessionID)
	if evaluated == nil {
		evaluated = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"evaluatedSkills": evaluated,
		"coveragePct":     h.skills.CoveragePercentage(r.Context(), sessionID, required),
	})
}

// GET /v1/sessions/{sessionID}/participants
func (h *SessionHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !util.IsValidUUID(sessionID) {
		writeError(w, apperrors.ValidationError("Invalid session id"))
		return
	}

	participants, err := h.participants.ListBySession(r.Context(), sessionID)
	if err != nil {
		writeError(w, apperrors.Database(err))
		return
	}
	if participants == nil {
		participants = []model.Participant{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"participants": participants,
	})
}

// DELETE /v1/sessions/{sessionID}/room
//
// Best-effort teardown on terminal transitions, invoked by the lifecycle
// owner. Always returns 200 with the outcome; failures are logged, not
// surfaced.
func (h *SessionHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !util.IsValidUUID(sessionID) {
		writeError(w, apperrors.ValidationError("Invalid session id"))
		return
	}

	session, err := h.sessions.FindByID(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("sessionId", sessionID).Msg("load session for teardown")
		writeError(w, apperrors.Database(err))
		return
	}
	if session == nil {
		writeError(w, apperrors.NotFound("Session"))
		return
	}

	deleted := false
	if session.RoomName != nil {
		region := model.RegionUSEast
		if session.Region != nil {
			region = *session.Region
		}
		deleted = h.registry.DeleteRoom(r.Context(), *session.RoomName, region)
	}

	h.skills.Teardown(r.Context(), sessionID)

	writeJSON(w, http.StatusOK, map[string]any{
		"deleted": deleted,
	})
}
