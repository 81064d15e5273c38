package handler

import (
	"context"
	"net/http"

	"github.com/hearthfire/questboard/internal/model"
	"github.com/hearthfire/questboard/internal/service"
)

// QuestHandler handles quest HTTP requests. The API is consumed by the chat
// integration, which authenticates with a service token and names the acting
// user explicitly in each lifecycle request.
type QuestHandler struct {
	svc *service.QuestService
}

// NewQuestHandler creates a new quest handler
func NewQuestHandler(svc *service.QuestService) *QuestHandler {
	return &QuestHandler{svc: svc}
}

func parseQuestID(r *http.Request) (model.QuestID, *model.ProblemDetails) {
	raw := r.PathValue("questId")
	if raw == "" {
		return model.QuestID{}, model.NewBadRequestError("quest ID required")
	}
	id, err := model.ParseQuestID(raw)
	if err != nil {
		return model.QuestID{}, MapServiceError(err)
	}
	return id, nil
}

// Create handles POST /v1/quests - create a draft quest
func (h *QuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefereeID model.UserID `json:"referee_id"`
		service.CreateQuestRequest
	}
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.RefereeID.IsZero() {
		WriteError(w, model.NewBadRequestError("referee_id required"))
		return
	}

	quest, err := h.svc.Create(r.Context(), req.RefereeID, &req.CreateQuestRequest)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, quest, nil)
}

// Get handles GET /v1/quests/{questId}
func (h *QuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, problem := parseQuestID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	quest, err := h.svc.Get(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, quest, nil)
}

// List handles GET /v1/quests?status=... - list quests by lifecycle state
func (h *QuestHandler) List(w http.ResponseWriter, r *http.Request) {
	status := model.QuestStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = model.QuestStatusSignupOpen
	}

	quests, err := h.svc.ListByStatus(r.Context(), status)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, quests, len(quests))
}

// Update handles PATCH /v1/quests/{questId}
func (h *QuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, problem := parseQuestID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req service.UpdateQuestRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	quest, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, quest, nil)
}

// Announce handles POST /v1/quests/{questId}/announce - publish and open
// signups
func (h *QuestHandler) Announce(w http.ResponseWriter, r *http.Request) {
	id, problem := parseQuestID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req service.AnnounceQuestRequest
	if r.ContentLength != 0 {
		if err := DecodeJSON(r, &req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid request body"))
			return
		}
	}

	quest, err := h.svc.Announce(r.Context(), id, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, quest, nil)
}

// AddSignup handles POST /v1/quests/{questId}/signups
func (h *QuestHandler) AddSignup(w http.ResponseWriter, r *http.Request) {
	id, problem := parseQuestID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req struct {
		UserID      model.UserID      `json:"user_id"`
		CharacterID model.CharacterID `json:"character_id"`
		Note        *string           `json:"note,omitempty"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	quest, err := h.svc.AddSignup(r.Context(), id, req.UserID, req.CharacterID, req.Note)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, quest, nil)
}

// RemoveSignup handles DELETE /v1/quests/{questId}/signups/{userId}
func (h *QuestHandler) RemoveSignup(w http.ResponseWriter, r *http.Request) {
	id, problem := parseQuestID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}
	userID, problem := parseUserID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	quest, err := h.svc.RemoveSignup(r.Context(), id, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, quest, nil)
}

// SelectRoster handles POST /v1/quests/{questId}/roster
func (h *QuestHandler) SelectRoster(w http.ResponseWriter, r *http.Request) {
	id, problem := parseQuestID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req struct {
		ActorID    model.UserID              `json:"actor_id"`
		Selected   []service.RosterSelection `json:"selected"`
		Waitlisted []service.RosterSelection `json:"waitlisted,omitempty"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	quest, err := h.svc.SelectRoster(r.Context(), id, req.ActorID, req.Selected, req.Waitlisted)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, quest, nil)
}

// Start handles POST /v1/quests/{questId}/start
func (h *QuestHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.actorTransition(w, r, h.svc.Start)
}

// Complete handles POST /v1/quests/{questId}/complete
func (h *QuestHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.actorTransition(w, r, h.svc.Complete)
}

type actorRequest struct {
	ActorID model.UserID `json:"actor_id"`
}

func (h *QuestHandler) actorTransition(w http.ResponseWriter, r *http.Request, transition func(ctx context.Context, questID model.QuestID, actorID model.UserID) (*model.Quest, error)) {
	id, problem := parseQuestID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req actorRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	quest, err := transition(r.Context(), id, req.ActorID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, quest, nil)
}

// Cancel handles POST /v1/quests/{questId}/cancel
func (h *QuestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, problem := parseQuestID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req struct {
		ActorID model.UserID `json:"actor_id"`
		Reason  string       `json:"reason"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	quest, err := h.svc.Cancel(r.Context(), id, req.ActorID, req.Reason)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, quest, nil)
}

// Delete handles DELETE /v1/quests/{questId}
func (h *QuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, problem := parseQuestID(r)
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
