package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hearthfire/questboard/internal/database"
	"github.com/hearthfire/questboard/internal/model"
)

// ErrAllocatorUnavailable indicates the counter store could not produce the
// next sequence number. Callers must abort entity creation; IDs are never
// invented locally.
var ErrAllocatorUnavailable = errors.New("id allocator unavailable")

// Counter kinds. One counter document per entity kind, keyed by the kind
// name, so each kind has its own monotonic sequence.
const (
	counterKindUser      = "user"
	counterKindQuest     = "quest"
	counterKindCharacter = "character"
	counterKindSummary   = "summary"
	counterKindDraft     = "draft"
)

// IDAllocator hands out entity IDs backed by per-kind counter documents.
// Each allocation is a single atomic increment-and-read, so two concurrent
// allocations can never observe the same sequence number. Allocated numbers
// are spent even when the caller's write later fails; gaps are acceptable,
// duplicates are not.
type IDAllocator struct {
	db database.Database
}

// NewIDAllocator creates a new ID allocator
func NewIDAllocator(db database.Database) *IDAllocator {
	return &IDAllocator{db: db}
}

// next atomically increments the counter for a kind and returns the new value.
func (a *IDAllocator) next(ctx context.Context, kind string) (int, error) {
	query := `UPSERT type::thing("counter", $kind) SET seq += 1 RETURN AFTER`
	vars := map[string]interface{}{"kind": kind}

	result, err := a.db.QueryOne(ctx, query, vars)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAllocatorUnavailable, err)
	}

	doc, ok := normalizeValue(result).(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("%w: unexpected counter shape %T", ErrAllocatorUnavailable, result)
	}
	seq, ok := numberField(doc, "seq")
	if !ok || seq < 1 {
		return 0, fmt.Errorf("%w: counter %s returned no sequence", ErrAllocatorUnavailable, kind)
	}
	return seq, nil
}

func numberField(doc map[string]interface{}, key string) (int, bool) {
	switch n := doc[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	}
	return 0, false
}

// NextUserID allocates the next user ID.
func (a *IDAllocator) NextUserID(ctx context.Context) (model.UserID, error) {
	n, err := a.next(ctx, counterKindUser)
	if err != nil {
		return model.UserID{}, err
	}
	return model.NewUserID(n)
}

// NextQuestID allocates the next quest ID.
func (a *IDAllocator) NextQuestID(ctx context.Context) (model.QuestID, error) {
	n, err := a.next(ctx, counterKindQuest)
	if err != nil {
		return model.QuestID{}, err
	}
	return model.NewQuestID(n)
}

// NextCharacterID allocates the next character ID.
func (a *IDAllocator) NextCharacterID(ctx context.Context) (model.CharacterID, error) {
	n, err := a.next(ctx, counterKindCharacter)
	if err != nil {
		return model.CharacterID{}, err
	}
	return model.NewCharacterID(n)
}

// NextSummaryID allocates the next summary ID.
func (a *IDAllocator) NextSummaryID(ctx context.Context) (model.SummaryID, error) {
	n, err := a.next(ctx, counterKindSummary)
	if err != nil {
		return model.SummaryID{}, err
	}
	return model.NewSummaryID(n)
}

// NextDraftID allocates the next announcement draft ID.
func (a *IDAllocator) NextDraftID(ctx context.Context) (model.DraftID, error) {
	n, err := a.next(ctx, counterKindDraft)
	if err != nil {
		return model.DraftID{}, err
	}
	return model.NewDraftID(n)
}
