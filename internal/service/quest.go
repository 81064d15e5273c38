package service

import (
	"context"
	"time"

	"github.com/hearthfire/questboard/internal/model"
)

// QuestRepositoryInterface defines the repository interface
type QuestRepositoryInterface interface {
	Upsert(ctx context.Context, quest *model.Quest) error
	GetByID(ctx context.Context, id model.QuestID) (*model.Quest, error)
	ListByStatus(ctx context.Context, status model.QuestStatus) ([]*model.Quest, error)
	ListByReferee(ctx context.Context, refereeID model.UserID) ([]*model.Quest, error)
	Delete(ctx context.Context, id model.QuestID) error
}

// CharacterRepositoryForQuest is the slice of character storage the quest
// service needs.
type CharacterRepositoryForQuest interface {
	GetByID(ctx context.Context, id model.CharacterID) (*model.Character, error)
	Upsert(ctx context.Context, character *model.Character) error
}

// QuestIDAllocator allocates quest IDs
type QuestIDAllocator interface {
	NextQuestID(ctx context.Context) (model.QuestID, error)
}

// AtomicWriter persists a group of entities in one all-or-nothing write.
// Operations that fan out across several records (quest completion, roster
// selection, summary submission) use it instead of sequential upserts.
type AtomicWriter interface {
	UpsertAtomic(ctx context.Context, entities ...interface{}) error
}

// CreateQuestRequest carries the fields for a new quest draft.
type CreateQuestRequest struct {
	Name            string     `json:"name"`
	Description     *string    `json:"description,omitempty"`
	Raw             *string    `json:"raw,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	MaxPlayers      *int       `json:"max_players,omitempty"`
	MinPlayers      *int       `json:"min_players,omitempty"`
}

// UpdateQuestRequest carries optional field replacements for a quest that has
// not reached a terminal state.
type UpdateQuestRequest struct {
	Name            *string    `json:"name,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Raw             *string    `json:"raw,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	MaxPlayers      *int       `json:"max_players,omitempty"`
	MinPlayers      *int       `json:"min_players,omitempty"`
}

// AnnounceQuestRequest carries the chat linkage of the announcement post.
type AnnounceQuestRequest struct {
	GuildID         *int64 `json:"guild_id,omitempty"`
	ChannelID       *int64 `json:"channel_id,omitempty"`
	SignupMessageID *int64 `json:"signup_message_id,omitempty"`
}

// RosterSelection is one (user, character) pair chosen by the referee.
type RosterSelection struct {
	UserID      model.UserID      `json:"user_id"`
	CharacterID model.CharacterID `json:"character_id"`
}

// QuestService handles quest lifecycle business logic
type QuestService struct {
	repo       QuestRepositoryInterface
	users      UserRepositoryForCharacter
	characters CharacterRepositoryForQuest
	allocator  QuestIDAllocator
	writer     AtomicWriter
	now        func() time.Time
}

// NewQuestService creates a new quest service
func NewQuestService(
	repo QuestRepositoryInterface,
	users UserRepositoryForCharacter,
	characters CharacterRepositoryForQuest,
	allocator QuestIDAllocator,
	writer AtomicWriter,
) *QuestService {
	return &QuestService{
		repo:       repo,
		users:      users,
		characters: characters,
		allocator:  allocator,
		writer:     writer,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create allocates an ID and stores a new draft quest. The host must exist
// and hold the REFEREE role.
func (s *QuestService) Create(ctx context.Context, refereeID model.UserID, req *CreateQuestRequest) (*model.Quest, error) {
	if req == nil || req.Name == "" {
		return nil, ErrQuestNameRequired
	}

	referee, err := s.users.GetByID(ctx, refereeID)
	if err != nil {
		return nil, err
	}
	if referee == nil {
		return nil, ErrUserNotFound
	}
	if !referee.IsReferee() {
		return nil, ErrNotAReferee
	}

	id, err := s.allocator.NextQuestID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	quest := model.NewQuest(id, refereeID, req.Name, now)
	quest.Description = req.Description
	quest.Raw = req.Raw
	quest.Tags = req.Tags
	quest.ScheduledAt = req.ScheduledAt
	quest.DurationMinutes = req.DurationMinutes
	if req.MaxPlayers != nil {
		quest.MaxPlayers = *req.MaxPlayers
	}
	if req.MinPlayers != nil {
		quest.MinPlayers = *req.MinPlayers
	}

	if err := quest.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, quest); err != nil {
		return nil, err
	}

	referee.Referee.AddQuestHosted(id)
	if referee.Referee.FirstHostedOn == nil {
		referee.Referee.FirstHostedOn = &now
	}
	if err := s.users.Upsert(ctx, referee); err != nil {
		return nil, err
	}
	return quest, nil
}

// Get retrieves a quest by ID
func (s *QuestService) Get(ctx context.Context, id model.QuestID) (*model.Quest, error) {
	quest, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quest == nil {
		return nil, ErrQuestNotFound
	}
	return quest, nil
}

// ListByStatus retrieves quests in a lifecycle state
func (s *QuestService) ListByStatus(ctx context.Context, status model.QuestStatus) ([]*model.Quest, error) {
	return s.repo.ListByStatus(ctx, status)
}

// ListByReferee retrieves quests hosted by a referee
func (s *QuestService) ListByReferee(ctx context.Context, refereeID model.UserID) ([]*model.Quest, error) {
	return s.repo.ListByReferee(ctx, refereeID)
}

// Update replaces the provided fields. Terminal quests are immutable.
func (s *QuestService) Update(ctx context.Context, id model.QuestID, req *UpdateQuestRequest) (*model.Quest, error) {
	quest, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quest.Status.IsTerminal() {
		return nil, ErrQuestImmutable
	}
	if req != nil {
		if req.Name != nil {
			quest.Name = *req.Name
		}
		if req.Description != nil {
			quest.Description = req.Description
		}
		if req.Raw != nil {
			quest.Raw = req.Raw
		}
		if req.Tags != nil {
			quest.Tags = req.Tags
		}
		if req.ScheduledAt != nil {
			quest.ScheduledAt = req.ScheduledAt
		}
		if req.DurationMinutes != nil {
			quest.DurationMinutes = req.DurationMinutes
		}
		if req.MaxPlayers != nil {
			quest.MaxPlayers = *req.MaxPlayers
		}
		if req.MinPlayers != nil {
			quest.MinPlayers = *req.MinPlayers
		}
		quest.UpdatedAt = s.now()
	}
	if err := quest.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, quest); err != nil {
		return nil, err
	}
	return quest, nil
}

// Announce publishes the quest and opens signups.
func (s *QuestService) Announce(ctx context.Context, id model.QuestID, req *AnnounceQuestRequest) (*model.Quest, error) {
	quest, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var guildID, channelID, messageID *int64
	if req != nil {
		guildID = req.GuildID
		channelID = req.ChannelID
		messageID = req.SignupMessageID
	}
	if err := quest.Announce(guildID, channelID, messageID, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, quest); err != nil {
		return nil, err
	}
	return quest, nil
}

// AddSignup applies a (player, character) pair to an open quest. The player
// must hold the PLAYER role, must own the character, and the character must
// still be active. The application is also recorded on the player's profile.
func (s *QuestService) AddSignup(ctx context.Context, questID model.QuestID, userID model.UserID, characterID model.CharacterID, note *string) (*model.Quest, error) {
	quest, err := s.Get(ctx, questID)
	if err != nil {
		return nil, err
	}

	player, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, ErrUserNotFound
	}
	if !player.IsPlayer() {
		return nil, ErrNotAPlayer
	}

	character, err := s.characters.GetByID(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if character == nil {
		return nil, ErrCharacterNotFound
	}
	if character.OwnerID != userID {
		return nil, ErrOwnershipMismatch
	}
	if !character.IsActive() {
		return nil, ErrCharacterRetired
	}

	now := s.now()
	if err := quest.AddSignup(userID, characterID, note, now); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, quest); err != nil {
		return nil, err
	}

	player.Player.AddQuestApplied(questID)
	player.Touch(now)
	if err := s.users.Upsert(ctx, player); err != nil {
		return nil, err
	}
	return quest, nil
}

// RemoveSignup withdraws a player's application.
func (s *QuestService) RemoveSignup(ctx context.Context, questID model.QuestID, userID model.UserID) (*model.Quest, error) {
	quest, err := s.Get(ctx, questID)
	if err != nil {
		return nil, err
	}
	if err := quest.RemoveSignup(userID, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, quest); err != nil {
		return nil, err
	}
	return quest, nil
}

// SelectRoster finalizes the roster and waitlist. Only the hosting referee
// may select; every chosen pair must have applied. Selected players get
// their accepted counter bumped.
func (s *QuestService) SelectRoster(ctx context.Context, questID model.QuestID, actorID model.UserID, selected, waitlisted []RosterSelection) (*model.Quest, error) {
	quest, err := s.Get(ctx, questID)
	if err != nil {
		return nil, err
	}
	if quest.RefereeID != actorID {
		return nil, ErrNotQuestReferee
	}

	hasSignup := func(sel RosterSelection) bool {
		for _, sg := range quest.Signups {
			if sg.UserID == sel.UserID && sg.CharacterID == sel.CharacterID && sg.Status != model.SignupWithdrawn {
				return true
			}
		}
		return false
	}
	for _, sel := range append(append([]RosterSelection{}, selected...), waitlisted...) {
		if !hasSignup(sel) {
			return nil, ErrRosterNotSignedUp
		}
	}

	now := s.now()
	if err := quest.SelectRoster(toRosterEntries(selected), toRosterEntries(waitlisted), now); err != nil {
		return nil, err
	}

	entities := []interface{}{quest}
	for _, sel := range selected {
		player, err := s.users.GetByID(ctx, sel.UserID)
		if err != nil {
			return nil, err
		}
		if player == nil || player.Player == nil {
			continue
		}
		player.Player.QuestsAccepted++
		entities = append(entities, player)
	}
	if err := s.writer.UpsertAtomic(ctx, entities...); err != nil {
		return nil, err
	}
	return quest, nil
}

func toRosterEntries(selections []RosterSelection) []model.RosterEntry {
	entries := make([]model.RosterEntry, len(selections))
	for i, sel := range selections {
		entries[i] = model.RosterEntry{UserID: sel.UserID, CharacterID: sel.CharacterID}
	}
	return entries
}

// Start moves a selected roster into play. Referee only.
func (s *QuestService) Start(ctx context.Context, questID model.QuestID, actorID model.UserID) (*model.Quest, error) {
	quest, err := s.Get(ctx, questID)
	if err != nil {
		return nil, err
	}
	if quest.RefereeID != actorID {
		return nil, ErrNotQuestReferee
	}
	if err := quest.Start(s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, quest); err != nil {
		return nil, err
	}
	return quest, nil
}

// Complete closes out a session, flags it as needing a summary, and fans the
// play telemetry out to every rostered player and character plus the hosting
// referee. All touched records land in one atomic write. Referee only.
func (s *QuestService) Complete(ctx context.Context, questID model.QuestID, actorID model.UserID) (*model.Quest, error) {
	quest, err := s.Get(ctx, questID)
	if err != nil {
		return nil, err
	}
	if quest.RefereeID != actorID {
		return nil, ErrNotQuestReferee
	}

	now := s.now()
	if err := quest.Complete(now); err != nil {
		return nil, err
	}

	// The referee can also sit on the roster, so users load through a cache
	// and each distinct user appears in the batch once.
	loaded := make(map[model.UserID]*model.User)
	getUser := func(id model.UserID) (*model.User, error) {
		if u, ok := loaded[id]; ok {
			return u, nil
		}
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		loaded[id] = u
		return u, nil
	}

	entities := []interface{}{quest}
	touched := make(map[model.UserID]bool)

	rosterChars := make([]model.CharacterID, 0, len(quest.Roster))
	for _, entry := range quest.Roster {
		rosterChars = append(rosterChars, entry.CharacterID)
	}

	for _, entry := range quest.Roster {
		player, err := getUser(entry.UserID)
		if err != nil {
			return nil, err
		}
		if player != nil && player.Player != nil {
			player.Player.AddQuestPlayed(questID)
			player.Player.LastPlayedOn = &now
			player.Touch(now)
			if !touched[player.UserID] {
				touched[player.UserID] = true
				entities = append(entities, player)
			}
		}

		character, err := s.characters.GetByID(ctx, entry.CharacterID)
		if err != nil {
			return nil, err
		}
		if character != nil {
			character.RecordPlay(questID, now)
			for _, other := range rosterChars {
				character.AddPlayedAlongside(other)
			}
			entities = append(entities, character)
		}
	}

	referee, err := getUser(quest.RefereeID)
	if err != nil {
		return nil, err
	}
	if referee != nil && referee.Referee != nil {
		referee.Referee.AddQuestHosted(questID)
		referee.Referee.LastHostedOn = &now
		for _, entry := range quest.Roster {
			referee.Referee.AddHostedFor(entry.UserID)
		}
		if !touched[referee.UserID] {
			touched[referee.UserID] = true
			entities = append(entities, referee)
		}
	}

	if err := s.writer.UpsertAtomic(ctx, entities...); err != nil {
		return nil, err
	}
	return quest, nil
}

// Cancel aborts the quest with a reason. Referee only; idempotent on an
// already cancelled quest.
func (s *QuestService) Cancel(ctx context.Context, questID model.QuestID, actorID model.UserID, reason string) (*model.Quest, error) {
	quest, err := s.Get(ctx, questID)
	if err != nil {
		return nil, err
	}
	if quest.RefereeID != actorID {
		return nil, ErrNotQuestReferee
	}
	if err := quest.Cancel(reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, quest); err != nil {
		return nil, err
	}
	return quest, nil
}

// Delete removes the quest record.
func (s *QuestService) Delete(ctx context.Context, id model.QuestID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
