package repository

import (
	"context"
	"fmt"

	"github.com/hearthfire/questboard/internal/database"
	"github.com/hearthfire/questboard/internal/model"
)

// BatchWriter persists groups of entities in one atomic transaction.
// Multi-document fan-outs (quest completion, roster selection, summary
// submission) go through it so the related records land together or not
// at all.
type BatchWriter struct {
	db database.Database
}

// NewBatchWriter creates a batch writer on the given database.
func NewBatchWriter(db database.Database) *BatchWriter {
	return &BatchWriter{db: db}
}

// UpsertAtomic writes every entity inside a single BEGIN/COMMIT block. Each
// entity gets the same UPSERT statement its repository would issue alone.
func (w *BatchWriter) UpsertAtomic(ctx context.Context, entities ...interface{}) error {
	if len(entities) == 0 {
		return nil
	}
	batch := database.NewAtomicBatch()
	for _, entity := range entities {
		table, key, err := tableAndKey(entity)
		if err != nil {
			return err
		}
		doc, err := encodeDocument(entity)
		if err != nil {
			return err
		}
		batch.Add(fmt.Sprintf(`UPSERT type::thing(%q, $id) CONTENT $doc`, table), map[string]interface{}{
			"id":  key,
			"doc": doc,
		})
	}
	return batch.Execute(ctx, w.db)
}

func tableAndKey(entity interface{}) (string, string, error) {
	switch e := entity.(type) {
	case *model.User:
		return "user", e.UserID.String(), nil
	case *model.Character:
		return "character", e.CharacterID.String(), nil
	case *model.Quest:
		return "quest", e.QuestID.String(), nil
	case *model.QuestSummary:
		return "summary", e.SummaryID.String(), nil
	default:
		return "", "", fmt.Errorf("unsupported batch entity %T", entity)
	}
}
