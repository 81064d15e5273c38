package model

import (
	"errors"
	"fmt"
	"time"
)

// SummaryKind discriminates who authored a quest summary.
type SummaryKind string

const (
	SummaryKindPlayer  SummaryKind = "PLAYER"
	SummaryKindReferee SummaryKind = "REFEREE"
)

// ErrAlreadyLinked indicates a cross-reference that is already present.
var ErrAlreadyLinked = errors.New("already linked")

// QuestSummary is a post-quest narrative record linked to exactly one quest
// and one author. The author is implicitly a participant.
type QuestSummary struct {
	SummaryID   SummaryID   `json:"summary_id"`
	Kind        SummaryKind `json:"kind"`
	AuthorID    UserID      `json:"author_id"`
	CharacterID CharacterID `json:"character_id"`
	QuestID     QuestID     `json:"quest_id"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Raw         string `json:"raw"`

	CreatedOn    time.Time  `json:"created_on"`
	LastEditedAt *time.Time `json:"last_edited_at,omitempty"`

	// Participants, deduplicated in first-seen order.
	Players    []UserID      `json:"players"`
	Characters []CharacterID `json:"characters"`

	// Cross-references.
	LinkedQuests    []QuestID   `json:"linked_quests,omitempty"`
	LinkedSummaries []SummaryID `json:"linked_summaries,omitempty"`
}

// AddPlayer records a participating player, preserving first-seen order.
func (s *QuestSummary) AddPlayer(id UserID) {
	for _, p := range s.Players {
		if p == id {
			return
		}
	}
	s.Players = append(s.Players, id)
}

// AddCharacter records a participating character, preserving first-seen order.
func (s *QuestSummary) AddCharacter(id CharacterID) {
	for _, c := range s.Characters {
		if c == id {
			return
		}
	}
	s.Characters = append(s.Characters, id)
}

// LinkQuest cross-references another quest. Fails with ErrAlreadyLinked on a
// duplicate.
func (s *QuestSummary) LinkQuest(id QuestID) error {
	for _, q := range s.LinkedQuests {
		if q == id {
			return fmt.Errorf("%w: quest %s", ErrAlreadyLinked, id)
		}
	}
	s.LinkedQuests = append(s.LinkedQuests, id)
	return nil
}

// LinkSummary cross-references another summary. Fails with ErrAlreadyLinked
// on a duplicate or a self-link.
func (s *QuestSummary) LinkSummary(id SummaryID) error {
	if id == s.SummaryID {
		return fmt.Errorf("%w: summary cannot link itself", ErrAlreadyLinked)
	}
	for _, l := range s.LinkedSummaries {
		if l == id {
			return fmt.Errorf("%w: summary %s", ErrAlreadyLinked, id)
		}
	}
	s.LinkedSummaries = append(s.LinkedSummaries, id)
	return nil
}

// Edit replaces the content fields and stamps last-edited.
func (s *QuestSummary) Edit(title, description, raw string, at time.Time) {
	if title != "" {
		s.Title = title
	}
	if description != "" {
		s.Description = description
	}
	if raw != "" {
		s.Raw = raw
	}
	s.LastEditedAt = &at
}

// Validate re-checks every summary invariant: a known kind, non-empty
// content, well-formed linkage, no duplicate participants, and edit
// timestamps that never precede creation.
func (s *QuestSummary) Validate() error {
	if s.SummaryID.IsZero() {
		return invalidf("summary_id is required")
	}
	if s.Kind != SummaryKindPlayer && s.Kind != SummaryKindReferee {
		return invalidf("summary %s has unknown kind %q", s.SummaryID, s.Kind)
	}
	if s.AuthorID.IsZero() {
		return invalidf("summary %s has no author", s.SummaryID)
	}
	if s.CharacterID.IsZero() {
		return invalidf("summary %s has no character", s.SummaryID)
	}
	if s.QuestID.IsZero() {
		return invalidf("summary %s has no quest", s.SummaryID)
	}
	if s.Title == "" {
		return invalidf("summary %s has no title", s.SummaryID)
	}
	if s.Raw == "" {
		return invalidf("summary %s has no content", s.SummaryID)
	}
	if len(s.Players) == 0 {
		return invalidf("summary %s has no players", s.SummaryID)
	}
	if len(s.Characters) == 0 {
		return invalidf("summary %s has no characters", s.SummaryID)
	}
	seenPlayers := make(map[UserID]bool, len(s.Players))
	for _, p := range s.Players {
		if seenPlayers[p] {
			return invalidf("summary %s lists player %s twice", s.SummaryID, p)
		}
		seenPlayers[p] = true
	}
	seenChars := make(map[CharacterID]bool, len(s.Characters))
	for _, c := range s.Characters {
		if seenChars[c] {
			return invalidf("summary %s lists character %s twice", s.SummaryID, c)
		}
		seenChars[c] = true
	}
	if s.LastEditedAt != nil && s.LastEditedAt.Before(s.CreatedOn) {
		return invalidf("summary %s edited before creation", s.SummaryID)
	}
	return nil
}
