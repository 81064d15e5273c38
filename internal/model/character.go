package model

import (
	"time"
)

// CharacterStatus is the lifecycle state of a character.
type CharacterStatus string

const (
	CharacterStatusActive  CharacterStatus = "active"
	CharacterStatusRetired CharacterStatus = "retired"
)

// Character is a player character. Ownership is exclusive: a character belongs
// to exactly one user for its whole life.
type Character struct {
	CharacterID CharacterID `json:"character_id"`
	OwnerID     UserID      `json:"owner_id"`

	Name        string          `json:"name"`
	Status      CharacterStatus `json:"status"`
	Description *string         `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`

	// External links (character sheet, art, thread, token).
	SheetLink  *string `json:"sheet_link,omitempty"`
	ThreadLink *string `json:"thread_link,omitempty"`
	TokenLink  *string `json:"token_link,omitempty"`
	ArtLink    *string `json:"art_link,omitempty"`

	// Telemetry
	CreatedAt        time.Time  `json:"created_at"`
	LastPlayedAt     *time.Time `json:"last_played_at,omitempty"`
	QuestsPlayed     int        `json:"quests_played"`
	SummariesWritten int        `json:"summaries_written"`

	// Back-references, by ID only.
	PlayedAlongside []CharacterID `json:"played_alongside,omitempty"`
	QuestsPlayedIn  []QuestID     `json:"quests_played_in,omitempty"`
	MentionedIn     []SummaryID   `json:"mentioned_in,omitempty"`
}

// NewCharacter creates an active character owned by the given user.
func NewCharacter(id CharacterID, ownerID UserID, name string, now time.Time) *Character {
	return &Character{
		CharacterID: id,
		OwnerID:     ownerID,
		Name:        name,
		Status:      CharacterStatusActive,
		CreatedAt:   now,
	}
}

// IsActive reports whether the character can still be signed up for quests.
func (c *Character) IsActive() bool { return c.Status == CharacterStatusActive }

// Retire flips the character to retired. Idempotent.
func (c *Character) Retire() {
	c.Status = CharacterStatusRetired
}

// RecordPlay bumps play telemetry and the quest back-reference.
func (c *Character) RecordPlay(questID QuestID, at time.Time) {
	c.QuestsPlayed++
	c.LastPlayedAt = &at
	for _, q := range c.QuestsPlayedIn {
		if q == questID {
			return
		}
	}
	c.QuestsPlayedIn = append(c.QuestsPlayedIn, questID)
}

// AddPlayedAlongside records a table-mate character, once.
func (c *Character) AddPlayedAlongside(id CharacterID) {
	if id == c.CharacterID {
		return
	}
	for _, p := range c.PlayedAlongside {
		if p == id {
			return
		}
	}
	c.PlayedAlongside = append(c.PlayedAlongside, id)
}

// AddMention records a summary that references this character, once, and
// bumps the written counter when authored by its owner.
func (c *Character) AddMention(id SummaryID, authored bool) {
	for _, m := range c.MentionedIn {
		if m == id {
			if authored {
				c.SummariesWritten++
			}
			return
		}
	}
	c.MentionedIn = append(c.MentionedIn, id)
	if authored {
		c.SummariesWritten++
	}
}

// Validate checks the character's structural invariants.
func (c *Character) Validate() error {
	if c.CharacterID.IsZero() {
		return invalidf("character_id is required")
	}
	if c.OwnerID.IsZero() {
		return invalidf("character %s has no owner", c.CharacterID)
	}
	if c.Name == "" {
		return invalidf("character %s has no name", c.CharacterID)
	}
	if c.Status != CharacterStatusActive && c.Status != CharacterStatusRetired {
		return invalidf("character %s has unknown status %q", c.CharacterID, c.Status)
	}
	if c.QuestsPlayed < 0 || c.SummariesWritten < 0 {
		return invalidf("character %s has negative telemetry", c.CharacterID)
	}
	return nil
}
