package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hearthfire/questboard/internal/database"
	"github.com/hearthfire/questboard/internal/model"
)

// UserRepository handles user data access. Records are keyed by the
// canonical ID string, so the database key and the wire ID always agree.
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert writes the full user document under its canonical ID.
func (r *UserRepository) Upsert(ctx context.Context, user *model.User) error {
	doc, err := encodeDocument(user)
	if err != nil {
		return err
	}

	query := `UPSERT type::thing("user", $id) CONTENT $doc`
	vars := map[string]interface{}{
		"id":  user.UserID.String(),
		"doc": doc,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: user %s", database.ErrDuplicate, user.UserID)
		}
		return err
	}
	return nil
}

// GetByID retrieves a user. Returns (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id model.UserID) (*model.User, error) {
	query := `SELECT * FROM type::thing("user", $id)`
	vars := map[string]interface{}{"id": id.String()}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var user model.User
	if err := decodeDocument(result, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByDiscordID retrieves a user by the linked chat identity. Returns
// (nil, nil) when no user carries the link.
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID string) (*model.User, error) {
	query := `SELECT * FROM user WHERE discord_id = $discord_id LIMIT 1`
	vars := map[string]interface{}{"discord_id": discordID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var user model.User
	if err := decodeDocument(result, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves all users ordered by ID.
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `SELECT * FROM user ORDER BY id`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	raw, ok := extractQueryResults(results)
	if !ok {
		return []*model.User{}, nil
	}

	users := make([]*model.User, 0, len(raw))
	for _, item := range raw {
		var user model.User
		if err := decodeDocument(item, &user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, nil
}

// Delete removes the user record.
func (r *UserRepository) Delete(ctx context.Context, id model.UserID) error {
	query := `DELETE type::thing("user", $id)`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": id.String()})
}
