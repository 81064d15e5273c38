package handler

import (
	"context"
	"net/http"

	"github.com/hearthfire/questboard/internal/model"
	"github.com/hearthfire/questboard/internal/service"
)

// UserHandler handles user HTTP requests
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func parseUserID(r *http.Request) (model.UserID, *model.ProblemDetails) {
	raw := r.PathValue("userId")
	if raw == "" {
		return model.UserID{}, model.NewBadRequestError("user ID required")
	}
	id, err := model.ParseUserID(raw)
	if err != nil {
		return model.UserID{}, MapServiceError(err)
	}
	return id, nil
}

// Register handles POST /v1/users - register a new member
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterUserRequest
	if r.ContentLength != 0 {
		if err := DecodeJSON(r, &req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid request body"))
			return
		}
	}

	user, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, user, nil)
}

// List handles GET /v1/users - list all users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, users, len(users))
}

// Get handles GET /v1/users/{userId} - get a user
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, problem := parseUserID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	user, err := h.svc.Get(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, user, nil)
}

// PromotePlayer handles POST /v1/users/{userId}/roles/player
func (h *UserHandler) PromotePlayer(w http.ResponseWriter, r *http.Request) {
	h.roleChange(w, r, h.svc.PromoteToPlayer)
}

// DemotePlayer handles DELETE /v1/users/{userId}/roles/player
func (h *UserHandler) DemotePlayer(w http.ResponseWriter, r *http.Request) {
	h.roleChange(w, r, h.svc.DemotePlayer)
}

// PromoteReferee handles POST /v1/users/{userId}/roles/referee
func (h *UserHandler) PromoteReferee(w http.ResponseWriter, r *http.Request) {
	h.roleChange(w, r, h.svc.PromoteToReferee)
}

// DemoteReferee handles DELETE /v1/users/{userId}/roles/referee
func (h *UserHandler) DemoteReferee(w http.ResponseWriter, r *http.Request) {
	h.roleChange(w, r, h.svc.DemoteReferee)
}

func (h *UserHandler) roleChange(w http.ResponseWriter, r *http.Request, change func(ctx context.Context, id model.UserID) (*model.User, error)) {
	id, problem := parseUserID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	user, err := change(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, user, nil)
}

// SetDMOptIn handles PUT /v1/users/{userId}/dm-opt-in
func (h *UserHandler) SetDMOptIn(w http.ResponseWriter, r *http.Request) {
	id, problem := parseUserID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req struct {
		DMOptIn bool `json:"dm_opt_in"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.svc.SetDMOptIn(r.Context(), id, req.DMOptIn)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, user, nil)
}

// RecordActivity handles POST /v1/users/{userId}/activity - engagement
// telemetry from the chat integration.
func (h *UserHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	id, problem := parseUserID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req struct {
		Messages          int `json:"messages"`
		ReactionsGiven    int `json:"reactions_given"`
		ReactionsReceived int `json:"reactions_received"`
		VoiceSeconds      int `json:"voice_seconds"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	ctx := r.Context()
	if req.Messages != 0 {
		if err := h.svc.RecordMessageActivity(ctx, id, req.Messages); err != nil {
			WriteError(w, MapServiceError(err))
			return
		}
	}
	if req.ReactionsGiven != 0 || req.ReactionsReceived != 0 {
		if err := h.svc.RecordReactionActivity(ctx, id, req.ReactionsGiven, req.ReactionsReceived); err != nil {
			WriteError(w, MapServiceError(err))
			return
		}
	}
	if req.VoiceSeconds != 0 {
		if err := h.svc.RecordVoiceActivity(ctx, id, req.VoiceSeconds); err != nil {
			WriteError(w, MapServiceError(err))
			return
		}
	}
	WriteNoContent(w)
}

// Delete handles DELETE /v1/users/{userId}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, problem := parseUserID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}
