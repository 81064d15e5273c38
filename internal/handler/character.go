package handler

import (
	"net/http"

	"github.com/hearthfire/questboard/internal/model"
	"github.com/hearthfire/questboard/internal/service"
)

// CharacterHandler handles character HTTP requests
type CharacterHandler struct {
	svc *service.CharacterService
}

// NewCharacterHandler creates a new character handler
func NewCharacterHandler(svc *service.CharacterService) *CharacterHandler {
	return &CharacterHandler{svc: svc}
}

func parseCharacterID(r *http.Request) (model.CharacterID, *model.ProblemDetails) {
	raw := r.PathValue("characterId")
	if raw == "" {
		return model.CharacterID{}, model.NewBadRequestError("character ID required")
	}
	id, err := model.ParseCharacterID(raw)
	if err != nil {
		return model.CharacterID{}, MapServiceError(err)
	}
	return id, nil
}

// Create handles POST /v1/users/{userId}/characters - create a character for
// a player
func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, problem := parseUserID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req service.CreateCharacterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	character, err := h.svc.Create(r.Context(), ownerID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, character, nil)
}

// ListByOwner handles GET /v1/users/{userId}/characters
func (h *CharacterHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, problem := parseUserID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	characters, err := h.svc.ListByOwner(r.Context(), ownerID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, characters, len(characters))
}

// Get handles GET /v1/characters/{characterId}
func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, problem := parseCharacterID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	character, err := h.svc.Get(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, character, nil)
}

// Update handles PATCH /v1/characters/{characterId}
func (h *CharacterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, problem := parseCharacterID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req service.UpdateCharacterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	character, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, character, nil)
}

// Retire handles POST /v1/characters/{characterId}/retire
func (h *CharacterHandler) Retire(w http.ResponseWriter, r *http.Request) {
	id, problem := parseCharacterID(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	character, err := h.svc.Retire(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, character, nil)
}

// Delete handles DELETE /v1/characters/{characterId}
func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, problem := parseCharacterID(r)
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
