package service

import (
	"context"
	"time"

	"github.com/hearthfire/questboard/internal/model"
)

// CharacterRepositoryInterface defines the repository interface
type CharacterRepositoryInterface interface {
	Upsert(ctx context.Context, character *model.Character) error
	GetByID(ctx context.Context, id model.CharacterID) (*model.Character, error)
	ListByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Character, error)
	Delete(ctx context.Context, id model.CharacterID) error
}

// UserRepositoryForCharacter is the slice of user storage the character
// service needs.
type UserRepositoryForCharacter interface {
	GetByID(ctx context.Context, id model.UserID) (*model.User, error)
	Upsert(ctx context.Context, user *model.User) error
}

// CharacterIDAllocator allocates character IDs
type CharacterIDAllocator interface {
	NextCharacterID(ctx context.Context) (model.CharacterID, error)
}

// CreateCharacterRequest carries the fields for a new character.
type CreateCharacterRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	SheetLink   *string  `json:"sheet_link,omitempty"`
	ThreadLink  *string  `json:"thread_link,omitempty"`
	TokenLink   *string  `json:"token_link,omitempty"`
	ArtLink     *string  `json:"art_link,omitempty"`
}

// UpdateCharacterRequest carries optional field replacements. Nil fields are
// left untouched.
type UpdateCharacterRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	SheetLink   *string  `json:"sheet_link,omitempty"`
	ThreadLink  *string  `json:"thread_link,omitempty"`
	TokenLink   *string  `json:"token_link,omitempty"`
	ArtLink     *string  `json:"art_link,omitempty"`
}

// CharacterService handles character business logic
type CharacterService struct {
	repo      CharacterRepositoryInterface
	users     UserRepositoryForCharacter
	allocator CharacterIDAllocator
	now       func() time.Time
}

// NewCharacterService creates a new character service
func NewCharacterService(repo CharacterRepositoryInterface, users UserRepositoryForCharacter, allocator CharacterIDAllocator) *CharacterService {
	return &CharacterService{
		repo:      repo,
		users:     users,
		allocator: allocator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create allocates an ID and stores a new character for a player. The owner
// must exist and hold the PLAYER role; the character is linked into the
// owner's player profile in the same call.
func (s *CharacterService) Create(ctx context.Context, ownerID model.UserID, req *CreateCharacterRequest) (*model.Character, error) {
	if req == nil || req.Name == "" {
		return nil, ErrCharacterNameRequired
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}
	if !owner.IsPlayer() {
		return nil, ErrNotAPlayer
	}

	id, err := s.allocator.NextCharacterID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	character := model.NewCharacter(id, ownerID, req.Name, now)
	character.Description = req.Description
	character.Tags = req.Tags
	character.SheetLink = req.SheetLink
	character.ThreadLink = req.ThreadLink
	character.TokenLink = req.TokenLink
	character.ArtLink = req.ArtLink

	if err := character.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, character); err != nil {
		return nil, err
	}

	owner.Player.AddCharacter(id)
	if owner.Player.FirstCharacter == nil {
		owner.Player.FirstCharacter = &now
	}
	if err := s.users.Upsert(ctx, owner); err != nil {
		return nil, err
	}
	return character, nil
}

// Get retrieves a character by ID
func (s *CharacterService) Get(ctx context.Context, id model.CharacterID) (*model.Character, error) {
	character, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if character == nil {
		return nil, ErrCharacterNotFound
	}
	return character, nil
}

// ListByOwner retrieves a player's characters
func (s *CharacterService) ListByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Character, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update replaces the provided fields on a character.
func (s *CharacterService) Update(ctx context.Context, id model.CharacterID, req *UpdateCharacterRequest) (*model.Character, error) {
	character, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req != nil {
		if req.Name != nil {
			character.Name = *req.Name
		}
		if req.Description != nil {
			character.Description = req.Description
		}
		if req.Tags != nil {
			character.Tags = req.Tags
		}
		if req.SheetLink != nil {
			character.SheetLink = req.SheetLink
		}
		if req.ThreadLink != nil {
			character.ThreadLink = req.ThreadLink
		}
		if req.TokenLink != nil {
			character.TokenLink = req.TokenLink
		}
		if req.ArtLink != nil {
			character.ArtLink = req.ArtLink
		}
	}
	if err := character.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, character); err != nil {
		return nil, err
	}
	return character, nil
}

// Retire flips a character to retired. Retired characters keep their history
// but can no longer be signed up for quests.
func (s *CharacterService) Retire(ctx context.Context, id model.CharacterID) (*model.Character, error) {
	character, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	character.Retire()
	if err := s.repo.Upsert(ctx, character); err != nil {
		return nil, err
	}
	return character, nil
}

// Delete removes a character and unlinks it from the owner's profile.
func (s *CharacterService) Delete(ctx context.Context, id model.CharacterID) error {
	character, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	owner, err := s.users.GetByID(ctx, character.OwnerID)
	if err != nil {
		return err
	}
	if owner != nil && owner.Player != nil {
		owner.Player.RemoveCharacter(id)
		if err := s.users.Upsert(ctx, owner); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, id)
}
