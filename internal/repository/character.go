package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hearthfire/questboard/internal/database"
	"github.com/hearthfire/questboard/internal/model"
)

// CharacterRepository handles character data access
type CharacterRepository struct {
	db database.Database
}

// NewCharacterRepository creates a new character repository
func NewCharacterRepository(db database.Database) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Upsert writes the full character document under its canonical ID.
func (r *CharacterRepository) Upsert(ctx context.Context, character *model.Character) error {
	doc, err := encodeDocument(character)
	if err != nil {
		return err
	}

	query := `UPSERT type::thing("character", $id) CONTENT $doc`
	vars := map[string]interface{}{
		"id":  character.CharacterID.String(),
		"doc": doc,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: character %s", database.ErrDuplicate, character.CharacterID)
		}
		return err
	}
	return nil
}

// GetByID retrieves a character. Returns (nil, nil) when absent.
func (r *CharacterRepository) GetByID(ctx context.Context, id model.CharacterID) (*model.Character, error) {
	query := `SELECT * FROM type::thing("character", $id)`
	vars := map[string]interface{}{"id": id.String()}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var character model.Character
	if err := decodeDocument(result, &character); err != nil {
		return nil, err
	}
	return &character, nil
}

// ListByOwner retrieves all characters owned by a user, ordered by ID.
func (r *CharacterRepository) ListByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Character, error) {
	query := `SELECT * FROM character WHERE owner_id = $owner_id ORDER BY id`
	vars := map[string]interface{}{"owner_id": ownerID.String()}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	raw, ok := extractQueryResults(results)
	if !ok {
		return []*model.Character{}, nil
	}

	characters := make([]*model.Character, 0, len(raw))
	for _, item := range raw {
		var character model.Character
		if err := decodeDocument(item, &character); err != nil {
			return nil, err
		}
		characters = append(characters, &character)
	}
	return characters, nil
}

// Delete removes the character record.
func (r *CharacterRepository) Delete(ctx context.Context, id model.CharacterID) error {
	query := `DELETE type::thing("character", $id)`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": id.String()})
}
