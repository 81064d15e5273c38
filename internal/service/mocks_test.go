package service

import (
	"context"

	"github.com/hearthfire/questboard/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockUserRepo struct {
	upsertFunc         func(ctx context.Context, user *model.User) error
	getByIDFunc        func(ctx context.Context, id model.UserID) (*model.User, error)
	getByDiscordIDFunc func(ctx context.Context, discordID string) (*model.User, error)
	listFunc           func(ctx context.Context) ([]*model.User, error)
	deleteFunc         func(ctx context.Context, id model.UserID) error
}

func (m *mockUserRepo) Upsert(ctx context.Context, user *model.User) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id model.UserID) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByDiscordID(ctx context.Context, discordID string) (*model.User, error) {
	if m.getByDiscordIDFunc != nil {
		return m.getByDiscordIDFunc(ctx, discordID)
	}
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id model.UserID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockCharacterRepo struct {
	upsertFunc      func(ctx context.Context, character *model.Character) error
	getByIDFunc     func(ctx context.Context, id model.CharacterID) (*model.Character, error)
	listByOwnerFunc func(ctx context.Context, ownerID model.UserID) ([]*model.Character, error)
	deleteFunc      func(ctx context.Context, id model.CharacterID) error
}

func (m *mockCharacterRepo) Upsert(ctx context.Context, character *model.Character) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, character)
	}
	return nil
}

func (m *mockCharacterRepo) GetByID(ctx context.Context, id model.CharacterID) (*model.Character, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCharacterRepo) ListByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Character, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockCharacterRepo) Delete(ctx context.Context, id model.CharacterID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockQuestRepo struct {
	upsertFunc        func(ctx context.Context, quest *model.Quest) error
	getByIDFunc       func(ctx context.Context, id model.QuestID) (*model.Quest, error)
	listByStatusFunc  func(ctx context.Context, status model.QuestStatus) ([]*model.Quest, error)
	listByRefereeFunc func(ctx context.Context, refereeID model.UserID) ([]*model.Quest, error)
	deleteFunc        func(ctx context.Context, id model.QuestID) error
}

func (m *mockQuestRepo) Upsert(ctx context.Context, quest *model.Quest) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, quest)
	}
	return nil
}

func (m *mockQuestRepo) GetByID(ctx context.Context, id model.QuestID) (*model.Quest, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockQuestRepo) ListByStatus(ctx context.Context, status model.QuestStatus) ([]*model.Quest, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(ctx, status)
	}
	return nil, nil
}

func (m *mockQuestRepo) ListByReferee(ctx context.Context, refereeID model.UserID) ([]*model.Quest, error) {
	if m.listByRefereeFunc != nil {
		return m.listByRefereeFunc(ctx, refereeID)
	}
	return nil, nil
}

func (m *mockQuestRepo) Delete(ctx context.Context, id model.QuestID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockSummaryRepo struct {
	upsertFunc       func(ctx context.Context, summary *model.QuestSummary) error
	getByIDFunc      func(ctx context.Context, id model.SummaryID) (*model.QuestSummary, error)
	listByQuestFunc  func(ctx context.Context, questID model.QuestID) ([]*model.QuestSummary, error)
	listByAuthorFunc func(ctx context.Context, authorID model.UserID) ([]*model.QuestSummary, error)
	deleteFunc       func(ctx context.Context, id model.SummaryID) error
}

func (m *mockSummaryRepo) Upsert(ctx context.Context, summary *model.QuestSummary) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, summary)
	}
	return nil
}

func (m *mockSummaryRepo) GetByID(ctx context.Context, id model.SummaryID) (*model.QuestSummary, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSummaryRepo) ListByQuest(ctx context.Context, questID model.QuestID) ([]*model.QuestSummary, error) {
	if m.listByQuestFunc != nil {
		return m.listByQuestFunc(ctx, questID)
	}
	return nil, nil
}

func (m *mockSummaryRepo) ListByAuthor(ctx context.Context, authorID model.UserID) ([]*model.QuestSummary, error) {
	if m.listByAuthorFunc != nil {
		return m.listByAuthorFunc(ctx, authorID)
	}
	return nil, nil
}

func (m *mockSummaryRepo) Delete(ctx context.Context, id model.SummaryID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// mockAllocator hands out sequential IDs per kind, in memory.
type mockAllocator struct {
	users      int
	quests     int
	characters int
	summaries  int
	drafts     int
	err        error
}

func (m *mockAllocator) NextUserID(ctx context.Context) (model.UserID, error) {
	if m.err != nil {
		return model.UserID{}, m.err
	}
	m.users++
	return model.NewUserID(m.users)
}

func (m *mockAllocator) NextQuestID(ctx context.Context) (model.QuestID, error) {
	if m.err != nil {
		return model.QuestID{}, m.err
	}
	m.quests++
	return model.NewQuestID(m.quests)
}

func (m *mockAllocator) NextCharacterID(ctx context.Context) (model.CharacterID, error) {
	if m.err != nil {
		return model.CharacterID{}, m.err
	}
	m.characters++
	return model.NewCharacterID(m.characters)
}

func (m *mockAllocator) NextSummaryID(ctx context.Context) (model.SummaryID, error) {
	if m.err != nil {
		return model.SummaryID{}, m.err
	}
	m.summaries++
	return model.NewSummaryID(m.summaries)
}

// ============================================================================
// In-memory stores for multi-step lifecycle tests
// ============================================================================

type memoryStores struct {
	users      map[model.UserID]*model.User
	characters map[model.CharacterID]*model.Character
	quests     map[model.QuestID]*model.Quest
	summaries  map[model.SummaryID]*model.QuestSummary
}

func newMemoryStores() *memoryStores {
	return &memoryStores{
		users:      make(map[model.UserID]*model.User),
		characters: make(map[model.CharacterID]*model.Character),
		quests:     make(map[model.QuestID]*model.Quest),
		summaries:  make(map[model.SummaryID]*model.QuestSummary),
	}
}

func (ms *memoryStores) userRepo() *mockUserRepo {
	return &mockUserRepo{
		upsertFunc: func(ctx context.Context, user *model.User) error {
			ms.users[user.UserID] = user
			return nil
		},
		getByIDFunc: func(ctx context.Context, id model.UserID) (*model.User, error) {
			return ms.users[id], nil
		},
	}
}

func (ms *memoryStores) characterRepo() *mockCharacterRepo {
	return &mockCharacterRepo{
		upsertFunc: func(ctx context.Context, character *model.Character) error {
			ms.characters[character.CharacterID] = character
			return nil
		},
		getByIDFunc: func(ctx context.Context, id model.CharacterID) (*model.Character, error) {
			return ms.characters[id], nil
		},
	}
}

func (ms *memoryStores) questRepo() *mockQuestRepo {
	return &mockQuestRepo{
		upsertFunc: func(ctx context.Context, quest *model.Quest) error {
			ms.quests[quest.QuestID] = quest
			return nil
		},
		getByIDFunc: func(ctx context.Context, id model.QuestID) (*model.Quest, error) {
			return ms.quests[id], nil
		},
	}
}

// memoryWriter applies a batch to the in-memory maps. Lifecycle tests
// observe the fan-out through the same maps the repos serve reads from.
type memoryWriter struct {
	ms *memoryStores
}

func (w *memoryWriter) UpsertAtomic(ctx context.Context, entities ...interface{}) error {
	for _, entity := range entities {
		switch e := entity.(type) {
		case *model.User:
			w.ms.users[e.UserID] = e
		case *model.Character:
			w.ms.characters[e.CharacterID] = e
		case *model.Quest:
			w.ms.quests[e.QuestID] = e
		case *model.QuestSummary:
			w.ms.summaries[e.SummaryID] = e
		}
	}
	return nil
}

func (ms *memoryStores) atomicWriter() *memoryWriter {
	return &memoryWriter{ms: ms}
}

func (ms *memoryStores) summaryRepo() *mockSummaryRepo {
	return &mockSummaryRepo{
		upsertFunc: func(ctx context.Context, summary *model.QuestSummary) error {
			ms.summaries[summary.SummaryID] = summary
			return nil
		},
		getByIDFunc: func(ctx context.Context, id model.SummaryID) (*model.QuestSummary, error) {
			return ms.summaries[id], nil
		},
	}
}
