package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hearthfire/questboard/internal/model"
)

func newSummaryService(ms *memoryStores) *SummaryService {
	return NewSummaryService(ms.summaryRepo(), ms.questRepo(), ms.userRepo(), ms.characterRepo(), &mockAllocator{}, ms.atomicWriter())
}

// seedCompletedQuest walks a quest through the full lifecycle so summary
// tests start from a completed session.
func seedCompletedQuest(t *testing.T, ms *memoryStores) (*model.User, *model.User, *model.Character, *model.Quest) {
	t.Helper()

	referee := seedReferee(ms, 1)
	player, character := seedPlayerWithCharacter(ms, 2, 1)
	quests := newQuestService(ms)

	quest, err := quests.Create(context.Background(), referee.UserID, &CreateQuestRequest{Name: "Winter's Daughter"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := quests.Announce(context.Background(), quest.QuestID, nil); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if _, err := quests.AddSignup(context.Background(), quest.QuestID, player.UserID, character.CharacterID, nil); err != nil {
		t.Fatalf("AddSignup: %v", err)
	}
	picks := []RosterSelection{{UserID: player.UserID, CharacterID: character.CharacterID}}
	if _, err := quests.SelectRoster(context.Background(), quest.QuestID, referee.UserID, picks, nil); err != nil {
		t.Fatalf("SelectRoster: %v", err)
	}
	if _, err := quests.Complete(context.Background(), quest.QuestID, referee.UserID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	return referee, player, character, ms.quests[quest.QuestID]
}

func TestCreateSummary_AuthorFirstAndDeduped(t *testing.T) {
	t.Parallel()

	ms := newMemoryStores()
	_, player, character, quest := seedCompletedQuest(t, ms)
	other, otherChar := seedPlayerWithCharacter(ms, 3, 2)
	svc := newSummaryService(ms)

	summary, err := svc.Create(context.Background(), &CreateSummaryRequest{
		Kind:        model.SummaryKindPlayer,
		AuthorID:    player.UserID,
		CharacterID: character.CharacterID,
		QuestID:     quest.QuestID,
		Title:       "The Drune Were Right",
		Description: "A short recap.",
		Raw:         "A long recap with all the details.",
		// author listed again plus a second participant
		Players:    []model.UserID{player.UserID, other.UserID},
		Characters: []model.CharacterID{otherChar.CharacterID, character.CharacterID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if summary.SummaryID.String() != "SUMM0001" {
		t.Errorf("summary ID = %s, want SUMM0001", summary.SummaryID)
	}
	if len(summary.Players) != 2 || summary.Players[0] != player.UserID {
		t.Error("players should dedup with the author first")
	}
	if len(summary.Characters) != 2 || summary.Characters[0] != character.CharacterID {
		t.Error("characters should dedup with the author's character first")
	}
}

func TestCreateSummary_CopiesCrossLinksDeduped(t *testing.T) {
	t.Parallel()

	ms := newMemoryStores()
	_, player, character, quest := seedCompletedQuest(t, ms)
	svc := newSummaryService(ms)

	summary, err := svc.Create(context.Background(), &CreateSummaryRequest{
		Kind:         model.SummaryKindPlayer,
		AuthorID:     player.UserID,
		CharacterID:  character.CharacterID,
		QuestID:      quest.QuestID,
		Title:        "Second Session",
		Raw:          "Continuing where we left off.",
		LinkedQuests: []model.QuestID{quest.QuestID, quest.QuestID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(summary.LinkedQuests) != 1 || summary.LinkedQuests[0] != quest.QuestID {
		t.Errorf("linked quests = %v, want exactly one entry for %s", summary.LinkedQuests, quest.QuestID)
	}
}

func TestCreateSummary_PlayerKindKeepsFlag(t *testing.T) {
	t.Parallel()

	ms := newMemoryStores()
	_, player, character, quest := seedCompletedQuest(t, ms)
	svc := newSummaryService(ms)

	_, err := svc.Create(context.Background(), &CreateSummaryRequest{
		Kind:        model.SummaryKindPlayer,
		AuthorID:    player.UserID,
		CharacterID: character.CharacterID,
		QuestID:     quest.QuestID,
		Title:       "From the Table",
		Raw:         "What happened, as I saw it.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	storedQuest := ms.quests[quest.QuestID]
	if !storedQuest.SummaryNeeded {
		t.Error("a player summary should not clear the summary-needed flag")
	}
	if len(storedQuest.SummaryIDs) != 1 {
		t.Error("the summary should be linked on the quest")
	}

	author := ms.users[player.UserID]
	if len(author.Player.SummariesWritten) != 1 {
		t.Error("the author's player profile should count the summary")
	}

	authored := ms.characters[character.CharacterID]
	if authored.SummariesWritten != 1 || len(authored.MentionedIn) != 1 {
		t.Error("the authoring character should record the summary")
	}
}

func TestCreateSummary_RefereeKindClearsFlag(t *testing.T) {
	t.Parallel()

	ms := newMemoryStores()
	referee, _, character, quest := seedCompletedQuest(t, ms)
	svc := newSummaryService(ms)

	_, err := svc.Create(context.Background(), &CreateSummaryRequest{
		Kind:        model.SummaryKindReferee,
		AuthorID:    referee.UserID,
		CharacterID: character.CharacterID,
		QuestID:     quest.QuestID,
		Title:       "Behind the Screen",
		Raw:         "What actually happened.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	storedQuest := ms.quests[quest.QuestID]
	if storedQuest.SummaryNeeded {
		t.Error("a referee summary should clear the summary-needed flag")
	}

	author := ms.users[referee.UserID]
	if len(author.Referee.SummariesWritten) != 1 {
		t.Error("the author's referee profile should count the summary")
	}
}

func TestCreateSummary_NamesMissingEntity(t *testing.T) {
	t.Parallel()

	ms := newMemoryStores()
	_, player, character, quest := seedCompletedQuest(t, ms)
	svc := newSummaryService(ms)

	base := CreateSummaryRequest{
		Kind:        model.SummaryKindPlayer,
		AuthorID:    player.UserID,
		CharacterID: character.CharacterID,
		QuestID:     quest.QuestID,
		Title:       "Title",
		Raw:         "Body",
	}

	req := base
	req.AuthorID, _ = model.NewUserID(404)
	if _, err := svc.Create(context.Background(), &req); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing author: got %v, want ErrUserNotFound", err)
	}

	req = base
	req.CharacterID, _ = model.NewCharacterID(404)
	if _, err := svc.Create(context.Background(), &req); !errors.Is(err, ErrCharacterNotFound) {
		t.Errorf("missing character: got %v, want ErrCharacterNotFound", err)
	}

	req = base
	req.QuestID, _ = model.NewQuestID(404)
	if _, err := svc.Create(context.Background(), &req); !errors.Is(err, ErrQuestNotFound) {
		t.Errorf("missing quest: got %v, want ErrQuestNotFound", err)
	}

	req = base
	req.Title = ""
	if _, err := svc.Create(context.Background(), &req); !errors.Is(err, ErrSummaryTitleRequired) {
		t.Errorf("missing title: got %v, want ErrSummaryTitleRequired", err)
	}

	req = base
	req.Raw = ""
	if _, err := svc.Create(context.Background(), &req); !errors.Is(err, ErrSummaryContentRequired) {
		t.Errorf("missing content: got %v, want ErrSummaryContentRequired", err)
	}
}

func TestUpdateSummary_AuthorOnly(t *testing.T) {
	t.Parallel()

	ms := newMemoryStores()
	_, player, character, quest := seedCompletedQuest(t, ms)
	svc := newSummaryService(ms)

	summary, err := svc.Create(context.Background(), &CreateSummaryRequest{
		Kind:        model.SummaryKindPlayer,
		AuthorID:    player.UserID,
		CharacterID: character.CharacterID,
		QuestID:     quest.QuestID,
		Title:       "First Draft",
		Raw:         "Rough notes.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stranger, _ := model.NewUserID(99)
	_, err = svc.Update(context.Background(), summary.SummaryID, stranger, &UpdateSummaryRequest{Title: "Hijacked"})
	if !errors.Is(err, ErrNotSummaryAuthor) {
		t.Errorf("edit by non-author: got %v, want ErrNotSummaryAuthor", err)
	}

	edited, err := svc.Update(context.Background(), summary.SummaryID, player.UserID, &UpdateSummaryRequest{Title: "Final Draft"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if edited.Title != "Final Draft" || edited.Raw != "Rough notes." {
		t.Error("edit should replace only the provided fields")
	}
	if edited.LastEditedAt == nil {
		t.Error("edit should stamp LastEditedAt")
	}
}

func TestLinkSummary_GuardsDuplicatesAndSelf(t *testing.T) {
	t.Parallel()

	ms := newMemoryStores()
	_, player, character, quest := seedCompletedQuest(t, ms)
	svc := newSummaryService(ms)

	mk := func(title string) *model.QuestSummary {
		s, err := svc.Create(context.Background(), &CreateSummaryRequest{
			Kind:        model.SummaryKindPlayer,
			AuthorID:    player.UserID,
			CharacterID: character.CharacterID,
			QuestID:     quest.QuestID,
			Title:       title,
			Raw:         "Body",
		})
		if err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
		return s
	}
	first := mk("Part One")
	second := mk("Part Two")

	if _, err := svc.LinkSummary(context.Background(), first.SummaryID, second.SummaryID); err != nil {
		t.Fatalf("LinkSummary: %v", err)
	}
	if _, err := svc.LinkSummary(context.Background(), first.SummaryID, second.SummaryID); !errors.Is(err, model.ErrAlreadyLinked) {
		t.Errorf("duplicate link: got %v, want ErrAlreadyLinked", err)
	}
	if _, err := svc.LinkSummary(context.Background(), first.SummaryID, first.SummaryID); !errors.Is(err, model.ErrAlreadyLinked) {
		t.Errorf("self link: got %v, want ErrAlreadyLinked", err)
	}

	missing, _ := model.NewSummaryID(404)
	if _, err := svc.LinkSummary(context.Background(), first.SummaryID, missing); !errors.Is(err, ErrSummaryNotFound) {
		t.Errorf("link to missing summary: got %v, want ErrSummaryNotFound", err)
	}
}

func TestDeleteSummary_UnlinksQuest(t *testing.T) {
	t.Parallel()

	ms := newMemoryStores()
	_, player, character, quest := seedCompletedQuest(t, ms)
	svc := newSummaryService(ms)

	summary, err := svc.Create(context.Background(), &CreateSummaryRequest{
		Kind:        model.SummaryKindPlayer,
		AuthorID:    player.UserID,
		CharacterID: character.CharacterID,
		QuestID:     quest.QuestID,
		Title:       "Short Lived",
		Raw:         "Body",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted := false
	repo := ms.summaryRepo()
	repo.deleteFunc = func(ctx context.Context, id model.SummaryID) error {
		deleted = true
		delete(ms.summaries, id)
		return nil
	}
	svc2 := NewSummaryService(repo, ms.questRepo(), ms.userRepo(), ms.characterRepo(), &mockAllocator{}, ms.atomicWriter())

	if err := svc2.Delete(context.Background(), summary.SummaryID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("delete should reach the repository")
	}
	if len(ms.quests[quest.QuestID].SummaryIDs) != 0 {
		t.Error("delete should drop the quest's link to the summary")
	}
}
