package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hearthfire/questboard/internal/database"
	"github.com/hearthfire/questboard/internal/model"
)

// QuestRepository handles quest data access
type QuestRepository struct {
	db database.Database
}

// NewQuestRepository creates a new quest repository
func NewQuestRepository(db database.Database) *QuestRepository {
	return &QuestRepository{db: db}
}

// Upsert writes the full quest document under its canonical ID.
func (r *QuestRepository) Upsert(ctx context.Context, quest *model.Quest) error {
	doc, err := encodeDocument(quest)
	if err != nil {
		return err
	}

	query := `UPSERT type::thing("quest", $id) CONTENT $doc`
	vars := map[string]interface{}{
		"id":  quest.QuestID.String(),
		"doc": doc,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: quest %s", database.ErrDuplicate, quest.QuestID)
		}
		return err
	}
	return nil
}

// GetByID retrieves a quest. Returns (nil, nil) when absent.
func (r *QuestRepository) GetByID(ctx context.Context, id model.QuestID) (*model.Quest, error) {
	query := `SELECT * FROM type::thing("quest", $id)`
	vars := map[string]interface{}{"id": id.String()}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var quest model.Quest
	if err := decodeDocument(result, &quest); err != nil {
		return nil, err
	}
	return &quest, nil
}

// ListByStatus retrieves quests in a given lifecycle state, ordered by ID.
func (r *QuestRepository) ListByStatus(ctx context.Context, status model.QuestStatus) ([]*model.Quest, error) {
	query := `SELECT * FROM quest WHERE status = $status ORDER BY id`
	vars := map[string]interface{}{"status": string(status)}
	return r.list(ctx, query, vars)
}

// ListByReferee retrieves quests hosted by a referee, ordered by ID.
func (r *QuestRepository) ListByReferee(ctx context.Context, refereeID model.UserID) ([]*model.Quest, error) {
	query := `SELECT * FROM quest WHERE referee_id = $referee_id ORDER BY id`
	vars := map[string]interface{}{"referee_id": refereeID.String()}
	return r.list(ctx, query, vars)
}

// ListNeedingSummary retrieves completed quests still flagged as needing a
// referee summary, oldest completion first. The cutoff excludes quests that
// completed too recently to nag about.
func (r *QuestRepository) ListNeedingSummary(ctx context.Context, completedBefore time.Time) ([]*model.Quest, error) {
	query := `
		SELECT * FROM quest
		WHERE status = $status
			AND summary_needed = true
			AND ended_at != NONE
			AND ended_at < $completed_before
		ORDER BY ended_at
	`
	vars := map[string]interface{}{
		"status":           string(model.QuestStatusCompleted),
		"completed_before": completedBefore.UTC().Format(time.RFC3339Nano),
	}
	return r.list(ctx, query, vars)
}

func (r *QuestRepository) list(ctx context.Context, query string, vars map[string]interface{}) ([]*model.Quest, error) {
	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	raw, ok := extractQueryResults(results)
	if !ok {
		return []*model.Quest{}, nil
	}

	quests := make([]*model.Quest, 0, len(raw))
	for _, item := range raw {
		var quest model.Quest
		if err := decodeDocument(item, &quest); err != nil {
			return nil, err
		}
		quests = append(quests, &quest)
	}
	return quests, nil
}

// Delete removes the quest record.
func (r *QuestRepository) Delete(ctx context.Context, id model.QuestID) error {
	query := `DELETE type::thing("quest", $id)`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": id.String()})
}
