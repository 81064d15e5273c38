package service

import (
	"context"
	"time"

	"github.com/hearthfire/questboard/internal/model"
)

// SummaryRepositoryInterface defines the repository interface
type SummaryRepositoryInterface interface {
	Upsert(ctx context.Context, summary *model.QuestSummary) error
	GetByID(ctx context.Context, id model.SummaryID) (*model.QuestSummary, error)
	ListByQuest(ctx context.Context, questID model.QuestID) ([]*model.QuestSummary, error)
	ListByAuthor(ctx context.Context, authorID model.UserID) ([]*model.QuestSummary, error)
	Delete(ctx context.Context, id model.SummaryID) error
}

// QuestRepositoryForSummary is the slice of quest storage the summary service
// needs.
type QuestRepositoryForSummary interface {
	GetByID(ctx context.Context, id model.QuestID) (*model.Quest, error)
	Upsert(ctx context.Context, quest *model.Quest) error
}

// SummaryIDAllocator allocates summary IDs
type SummaryIDAllocator interface {
	NextSummaryID(ctx context.Context) (model.SummaryID, error)
}

// CreateSummaryRequest carries the fields for a new quest summary. The author
// and their character are added to the participant lists first; the remaining
// players and characters follow in first-seen order with duplicates dropped.
type CreateSummaryRequest struct {
	Kind        model.SummaryKind   `json:"kind"`
	AuthorID    model.UserID        `json:"author_id"`
	CharacterID model.CharacterID   `json:"character_id"`
	QuestID     model.QuestID       `json:"quest_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Raw         string              `json:"raw"`
	Players     []model.UserID      `json:"players,omitempty"`
	Characters  []model.CharacterID `json:"characters,omitempty"`

	// Optional cross-references carried over from the submission; duplicates
	// are dropped, first-seen order kept.
	LinkedQuests    []model.QuestID   `json:"linked_quests,omitempty"`
	LinkedSummaries []model.SummaryID `json:"linked_summaries,omitempty"`
}

// UpdateSummaryRequest carries content replacements; empty fields are left
// untouched.
type UpdateSummaryRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Raw         string `json:"raw,omitempty"`
}

// SummaryService handles quest summary business logic
type SummaryService struct {
	repo       SummaryRepositoryInterface
	quests     QuestRepositoryForSummary
	users      UserRepositoryForCharacter
	characters CharacterRepositoryForQuest
	allocator  SummaryIDAllocator
	writer     AtomicWriter
	now        func() time.Time
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	repo SummaryRepositoryInterface,
	quests QuestRepositoryForSummary,
	users UserRepositoryForCharacter,
	characters CharacterRepositoryForQuest,
	allocator SummaryIDAllocator,
	writer AtomicWriter,
) *SummaryService {
	return &SummaryService{
		repo:       repo,
		quests:     quests,
		users:      users,
		characters: characters,
		allocator:  allocator,
		writer:     writer,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create allocates an ID and stores a new summary, then fans the bookkeeping
// out: the quest links the summary (a referee summary clears its
// summary-needed flag), the author's profile counts it, and every mentioned
// character gains a back-reference. The whole group lands in one atomic
// write.
func (s *SummaryService) Create(ctx context.Context, req *CreateSummaryRequest) (*model.QuestSummary, error) {
	if req == nil || req.Title == "" {
		return nil, ErrSummaryTitleRequired
	}
	if req.Raw == "" {
		return nil, ErrSummaryContentRequired
	}

	author, err := s.users.GetByID(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUserNotFound
	}

	authorCharacter, err := s.characters.GetByID(ctx, req.CharacterID)
	if err != nil {
		return nil, err
	}
	if authorCharacter == nil {
		return nil, ErrCharacterNotFound
	}

	quest, err := s.quests.GetByID(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}
	if quest == nil {
		return nil, ErrQuestNotFound
	}

	id, err := s.allocator.NextSummaryID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &model.QuestSummary{
		SummaryID:   id,
		Kind:        req.Kind,
		AuthorID:    req.AuthorID,
		CharacterID: req.CharacterID,
		QuestID:     req.QuestID,
		Title:       req.Title,
		Description: req.Description,
		Raw:         req.Raw,
		CreatedOn:   now,
	}
	summary.AddPlayer(req.AuthorID)
	summary.AddCharacter(req.CharacterID)
	for _, p := range req.Players {
		summary.AddPlayer(p)
	}
	for _, c := range req.Characters {
		summary.AddCharacter(c)
	}
	for _, q := range req.LinkedQuests {
		_ = summary.LinkQuest(q)
	}
	for _, l := range req.LinkedSummaries {
		_ = summary.LinkSummary(l)
	}

	if err := summary.Validate(); err != nil {
		return nil, err
	}

	quest.AddSummary(id, req.Kind, now)

	switch req.Kind {
	case model.SummaryKindReferee:
		if author.Referee != nil {
			author.Referee.AddSummaryWritten(id)
		}
	default:
		if author.Player != nil {
			author.Player.AddSummaryWritten(id)
		}
	}
	author.Touch(now)

	entities := []interface{}{summary, quest, author}
	for _, characterID := range summary.Characters {
		character, err := s.characters.GetByID(ctx, characterID)
		if err != nil {
			return nil, err
		}
		if character == nil {
			continue
		}
		character.AddMention(id, characterID == req.CharacterID)
		entities = append(entities, character)
	}

	if err := s.writer.UpsertAtomic(ctx, entities...); err != nil {
		return nil, err
	}
	return summary, nil
}

// Get retrieves a summary by ID
func (s *SummaryService) Get(ctx context.Context, id model.SummaryID) (*model.QuestSummary, error) {
	summary, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, ErrSummaryNotFound
	}
	return summary, nil
}

// ListByQuest retrieves all summaries written for a quest
func (s *SummaryService) ListByQuest(ctx context.Context, questID model.QuestID) ([]*model.QuestSummary, error) {
	return s.repo.ListByQuest(ctx, questID)
}

// ListByAuthor retrieves all summaries a user has written
func (s *SummaryService) ListByAuthor(ctx context.Context, authorID model.UserID) ([]*model.QuestSummary, error) {
	return s.repo.ListByAuthor(ctx, authorID)
}

// Update edits a summary's content. Only the author may edit.
func (s *SummaryService) Update(ctx context.Context, id model.SummaryID, actorID model.UserID, req *UpdateSummaryRequest) (*model.QuestSummary, error) {
	summary, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if summary.AuthorID != actorID {
		return nil, ErrNotSummaryAuthor
	}
	if req != nil {
		summary.Edit(req.Title, req.Description, req.Raw, s.now())
	}
	if err := summary.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// LinkQuest cross-references another quest from a summary.
func (s *SummaryService) LinkQuest(ctx context.Context, id model.SummaryID, questID model.QuestID) (*model.QuestSummary, error) {
	summary, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	quest, err := s.quests.GetByID(ctx, questID)
	if err != nil {
		return nil, err
	}
	if quest == nil {
		return nil, ErrQuestNotFound
	}
	if err := summary.LinkQuest(questID); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// LinkSummary cross-references another summary.
func (s *SummaryService) LinkSummary(ctx context.Context, id, otherID model.SummaryID) (*model.QuestSummary, error) {
	summary, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	other, err := s.repo.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, ErrSummaryNotFound
	}
	if err := summary.LinkSummary(otherID); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// Delete removes a summary and drops the quest's link to it.
func (s *SummaryService) Delete(ctx context.Context, id model.SummaryID) error {
	summary, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	quest, err := s.quests.GetByID(ctx, summary.QuestID)
	if err != nil {
		return err
	}
	if quest != nil {
		kept := quest.SummaryIDs[:0]
		for _, sid := range quest.SummaryIDs {
			if sid != id {
				kept = append(kept, sid)
			}
		}
		quest.SummaryIDs = kept
		if err := s.quests.Upsert(ctx, quest); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, id)
}
