package handler

import (
	"net/http"

	"github.com/hearthfire/questboard/internal/model"
	"github.com/hearthfire/questboard/internal/service"
)

// SummaryHandler handles quest summary HTTP requests
type SummaryHandler struct {
	svc *service.SummaryService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(svc *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{svc: svc}
}

func parseSummaryID(r *http.Request) (model.SummaryID, *model.ProblemDetails) {
	raw := r.PathValue("summaryId")
	if raw == "" {
		return model.SummaryID{}, model.NewBadRequestError("summary ID required")
	}
	id, err := model.ParseSummaryID(raw)
	if err != nil {
		return model.SummaryID{}, MapServiceError(err)
	}
	return id, nil
}

// Create handles POST /v1/summaries - record a new quest summary
func (h *SummaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSummaryRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	summary, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, summary, nil)
}

// Get handles GET /v1/summaries/{summaryId}
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, problem := parseSummaryID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	summary, err := h.svc.Get(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, summary, nil)
}

// ListByQuest handles GET /v1/quests/{questId}/summaries
func (h *SummaryHandler) ListByQuest(w http.ResponseWriter, r *http.Request) {
	questID, problem := parseQuestID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	summaries, err := h.svc.ListByQuest(r.Context(), questID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, summaries, len(summaries))
}

// Update handles PATCH /v1/summaries/{summaryId} - author-only edit
func (h *SummaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, problem := parseSummaryID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req struct {
		ActorID model.UserID `json:"actor_id"`
		service.UpdateSummaryRequest
	}
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	summary, err := h.svc.Update(r.Context(), id, req.ActorID, &req.UpdateSummaryRequest)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, summary, nil)
}

// LinkQuest handles POST /v1/summaries/{summaryId}/links/quests
func (h *SummaryHandler) LinkQuest(w http.ResponseWriter, r *http.Request) {
	id, problem := parseSummaryID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req struct {
		QuestID model.QuestID `json:"quest_id"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	summary, err := h.svc.LinkQuest(r.Context(), id, req.QuestID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, summary, nil)
}

// LinkSummary handles POST /v1/summaries/{summaryId}/links/summaries
func (h *SummaryHandler) LinkSummary(w http.ResponseWriter, r *http.Request) {
	id, problem := parseSummaryID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req struct {
		SummaryID model.SummaryID `json:"summary_id"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	summary, err := h.svc.LinkSummary(r.Context(), id, req.SummaryID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, summary, nil)
}

// Delete handles DELETE /v1/summaries/{summaryId}
func (h *SummaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, problem := parseSummaryID(r)
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
