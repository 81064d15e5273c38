package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hearthfire/questboard/internal/database"
	"github.com/hearthfire/questboard/internal/model"
)

// SummaryRepository handles quest summary data access
type SummaryRepository struct {
	db database.Database
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db database.Database) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Upsert writes the full summary document under its canonical ID.
func (r *SummaryRepository) Upsert(ctx context.Context, summary *model.QuestSummary) error {
	doc, err := encodeDocument(summary)
	if err != nil {
		return err
	}

	query := `UPSERT type::thing("summary", $id) CONTENT $doc`
	vars := map[string]interface{}{
		"id":  summary.SummaryID.String(),
		"doc": doc,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: summary %s", database.ErrDuplicate, summary.SummaryID)
		}
		return err
	}
	return nil
}

// GetByID retrieves a summary. Returns (nil, nil) when absent.
func (r *SummaryRepository) GetByID(ctx context.Context, id model.SummaryID) (*model.QuestSummary, error) {
	query := `SELECT * FROM type::thing("summary", $id)`
	vars := map[string]interface{}{"id": id.String()}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var summary model.QuestSummary
	if err := decodeDocument(result, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListByQuest retrieves all summaries for a quest, ordered by ID.
func (r *SummaryRepository) ListByQuest(ctx context.Context, questID model.QuestID) ([]*model.QuestSummary, error) {
	query := `SELECT * FROM summary WHERE quest_id = $quest_id ORDER BY id`
	vars := map[string]interface{}{"quest_id": questID.String()}
	return r.list(ctx, query, vars)
}

// ListByAuthor retrieves all summaries written by a user, ordered by ID.
func (r *SummaryRepository) ListByAuthor(ctx context.Context, authorID model.UserID) ([]*model.QuestSummary, error) {
	query := `SELECT * FROM summary WHERE author_id = $author_id ORDER BY id`
	vars := map[string]interface{}{"author_id": authorID.String()}
	return r.list(ctx, query, vars)
}

func (r *SummaryRepository) list(ctx context.Context, query string, vars map[string]interface{}) ([]*model.QuestSummary, error) {
	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	raw, ok := extractQueryResults(results)
	if !ok {
		return []*model.QuestSummary{}, nil
	}

	summaries := make([]*model.QuestSummary, 0, len(raw))
	for _, item := range raw {
		var summary model.QuestSummary
		if err := decodeDocument(item, &summary); err != nil {
			return nil, err
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}

// Delete removes the summary record.
func (r *SummaryRepository) Delete(ctx context.Context, id model.SummaryID) error {
	query := `DELETE type::thing("summary", $id)`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": id.String()})
}
