package model

import (
	"errors"
	"fmt"
	"time"
)

// QuestStatus is the lifecycle state of a quest.
type QuestStatus string

const (
	QuestStatusDraft          QuestStatus = "draft"
	QuestStatusAnnounced      QuestStatus = "announced"
	QuestStatusSignupOpen     QuestStatus = "signup_open"
	QuestStatusRosterSelected QuestStatus = "roster_selected"
	QuestStatusRunning        QuestStatus = "running"
	QuestStatusCompleted      QuestStatus = "completed"
	QuestStatusCancelled      QuestStatus = "cancelled"
)

// IsTerminal reports whether the state admits no further transitions.
func (s QuestStatus) IsTerminal() bool {
	return s == QuestStatusCompleted || s == QuestStatusCancelled
}

// SignupStatus is the per-applicant state within a quest's signup list.
type SignupStatus string

const (
	SignupApplied    SignupStatus = "applied"
	SignupSelected   SignupStatus = "selected"
	SignupWaitlisted SignupStatus = "waitlisted"
	SignupWithdrawn  SignupStatus = "withdrawn"
)

// Quest lifecycle errors, raised before any field is mutated so a failed
// transition never partially applies.
var (
	// ErrInvalidTransition indicates a lifecycle operation attempted from a
	// disallowed state.
	ErrInvalidTransition = errors.New("invalid quest state transition")

	// ErrSignupClosed indicates a signup mutation while signups are not open.
	ErrSignupClosed = errors.New("signups are not open")

	// ErrDuplicateSignup indicates the (user, character) pair already has an
	// entry.
	ErrDuplicateSignup = errors.New("already signed up with this character")

	// ErrSignupNotFound indicates a removal for a user with no signup entry.
	ErrSignupNotFound = errors.New("signup not found")
)

// Signup is a (user, character) application attached to a quest during its
// open-signup phase.
type Signup struct {
	UserID      UserID       `json:"user_id"`
	CharacterID CharacterID  `json:"character_id"`
	Status      SignupStatus `json:"status"`
	Note        *string      `json:"note,omitempty"`
	AppliedAt   time.Time    `json:"applied_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// RosterEntry is a selected or waitlisted (user, character) pair.
type RosterEntry struct {
	UserID      UserID      `json:"user_id"`
	CharacterID CharacterID `json:"character_id"`
	SelectedAt  time.Time   `json:"selected_at"`
}

// Quest is a hosted game session moving through the lifecycle
// draft → announced → signup_open → roster_selected → running → completed,
// with cancelled reachable from any non-terminal state.
type Quest struct {
	QuestID   QuestID `json:"quest_id"`
	RefereeID UserID  `json:"referee_id"`

	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Raw         *string  `json:"raw,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	MaxPlayers      int        `json:"max_players"`
	MinPlayers      int        `json:"min_players"`

	// Chat linkage back to the originating announcement.
	GuildID         *int64 `json:"guild_id,omitempty"`
	ChannelID       *int64 `json:"channel_id,omitempty"`
	SignupMessageID *int64 `json:"signup_message_id,omitempty"`

	Status             QuestStatus `json:"status"`
	StatusUpdatedAt    time.Time   `json:"status_updated_at"`
	CancellationReason *string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time  `json:"cancelled_at,omitempty"`
	StartedAt          *time.Time  `json:"started_at,omitempty"`
	EndedAt            *time.Time  `json:"ended_at,omitempty"`

	Signups  []Signup      `json:"signups,omitempty"`
	Roster   []RosterEntry `json:"roster,omitempty"`
	Waitlist []RosterEntry `json:"waitlist,omitempty"`

	SummaryNeeded bool        `json:"summary_needed"`
	SummaryIDs    []SummaryID `json:"summary_ids,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewQuest creates a draft quest hosted by the given referee.
func NewQuest(id QuestID, refereeID UserID, name string, now time.Time) *Quest {
	return &Quest{
		QuestID:         id,
		RefereeID:       refereeID,
		Name:            name,
		MaxPlayers:      5,
		MinPlayers:      3,
		Status:          QuestStatusDraft,
		StatusUpdatedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (q *Quest) setStatus(s QuestStatus, now time.Time) {
	q.Status = s
	q.StatusUpdatedAt = now
	q.UpdatedAt = now
}

// IsSignupOpen reports whether signups are being collected.
func (q *Quest) IsSignupOpen() bool { return q.Status == QuestStatusSignupOpen }

// Announce publishes the quest and opens signups, recording the chat linkage
// of the announcement post. Allowed from draft or announced only.
func (q *Quest) Announce(guildID, channelID, messageID *int64, now time.Time) error {
	if q.Status != QuestStatusDraft && q.Status != QuestStatusAnnounced {
		return fmt.Errorf("%w: announce from %s", ErrInvalidTransition, q.Status)
	}
	q.GuildID = guildID
	q.ChannelID = channelID
	q.SignupMessageID = messageID
	q.setStatus(QuestStatusSignupOpen, now)
	return nil
}

// AddSignup appends an application while signups are open. Validation happens
// before mutation; a rejected signup leaves the quest untouched.
func (q *Quest) AddSignup(userID UserID, characterID CharacterID, note *string, now time.Time) error {
	if !q.IsSignupOpen() {
		return ErrSignupClosed
	}
	for _, s := range q.Signups {
		if s.UserID == userID && s.CharacterID == characterID {
			return ErrDuplicateSignup
		}
	}
	q.Signups = append(q.Signups, Signup{
		UserID:      userID,
		CharacterID: characterID,
		Status:      SignupApplied,
		Note:        note,
		AppliedAt:   now,
		UpdatedAt:   now,
	})
	q.UpdatedAt = now
	return nil
}

// RemoveSignup marks the user's entries withdrawn. Removing a user with no
// entry fails with ErrSignupNotFound.
func (q *Quest) RemoveSignup(userID UserID, now time.Time) error {
	found := false
	for i := range q.Signups {
		if q.Signups[i].UserID == userID && q.Signups[i].Status != SignupWithdrawn {
			q.Signups[i].Status = SignupWithdrawn
			q.Signups[i].UpdatedAt = now
			found = true
		}
	}
	if !found {
		return ErrSignupNotFound
	}
	q.UpdatedAt = now
	return nil
}

// SelectRoster finalizes the roster and waitlist from the collected signups.
// Allowed from signup_open only; signup entries for the chosen pairs are
// restamped selected/waitlisted.
func (q *Quest) SelectRoster(selected, waitlisted []RosterEntry, now time.Time) error {
	if q.Status != QuestStatusSignupOpen {
		return fmt.Errorf("%w: select roster from %s", ErrInvalidTransition, q.Status)
	}
	q.Roster = stampEntries(selected, now)
	q.Waitlist = stampEntries(waitlisted, now)

	mark := func(entries []RosterEntry, status SignupStatus) {
		for _, e := range entries {
			for i := range q.Signups {
				if q.Signups[i].UserID == e.UserID && q.Signups[i].CharacterID == e.CharacterID {
					q.Signups[i].Status = status
					q.Signups[i].UpdatedAt = now
				}
			}
		}
	}
	mark(q.Roster, SignupSelected)
	mark(q.Waitlist, SignupWaitlisted)

	q.setStatus(QuestStatusRosterSelected, now)
	return nil
}

func stampEntries(entries []RosterEntry, now time.Time) []RosterEntry {
	out := make([]RosterEntry, len(entries))
	for i, e := range entries {
		e.SelectedAt = now
		out[i] = e
	}
	return out
}

// Start moves a selected roster into play.
func (q *Quest) Start(now time.Time) error {
	if q.Status != QuestStatusRosterSelected {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, q.Status)
	}
	q.StartedAt = &now
	q.setStatus(QuestStatusRunning, now)
	return nil
}

// Complete closes out a session and flags it as needing a summary. Allowed
// from running or roster_selected (a session can conclude without an explicit
// start).
func (q *Quest) Complete(now time.Time) error {
	if q.Status != QuestStatusRunning && q.Status != QuestStatusRosterSelected {
		return fmt.Errorf("%w: complete from %s", ErrInvalidTransition, q.Status)
	}
	q.EndedAt = &now
	q.SummaryNeeded = true
	q.setStatus(QuestStatusCompleted, now)
	return nil
}

// Cancel aborts the quest from any non-terminal state. Cancelling an already
// cancelled quest is a no-op; cancelling a completed quest is an error.
func (q *Quest) Cancel(reason string, now time.Time) error {
	if q.Status == QuestStatusCancelled {
		return nil
	}
	if q.Status.IsTerminal() {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, q.Status)
	}
	q.CancellationReason = &reason
	q.CancelledAt = &now
	q.setStatus(QuestStatusCancelled, now)
	return nil
}

// AddSummary links a summary to the quest, once. A referee summary clears the
// summary-needed flag.
func (q *Quest) AddSummary(id SummaryID, kind SummaryKind, now time.Time) {
	for _, s := range q.SummaryIDs {
		if s == id {
			return
		}
	}
	q.SummaryIDs = append(q.SummaryIDs, id)
	if kind == SummaryKindReferee {
		q.SummaryNeeded = false
	}
	q.UpdatedAt = now
}

// Validate checks the quest's structural invariants.
func (q *Quest) Validate() error {
	if q.QuestID.IsZero() {
		return invalidf("quest_id is required")
	}
	if q.RefereeID.IsZero() {
		return invalidf("quest %s has no referee", q.QuestID)
	}
	if q.Name == "" {
		return invalidf("quest %s has no name", q.QuestID)
	}
	switch q.Status {
	case QuestStatusDraft, QuestStatusAnnounced, QuestStatusSignupOpen,
		QuestStatusRosterSelected, QuestStatusRunning, QuestStatusCompleted,
		QuestStatusCancelled:
	default:
		return invalidf("quest %s has unknown status %q", q.QuestID, q.Status)
	}
	if q.MinPlayers < 0 || q.MaxPlayers < 0 || q.MinPlayers > q.MaxPlayers {
		return invalidf("quest %s has invalid player bounds %d..%d", q.QuestID, q.MinPlayers, q.MaxPlayers)
	}
	seen := make(map[[2]string]bool, len(q.Signups))
	for _, s := range q.Signups {
		key := [2]string{s.UserID.String(), s.CharacterID.String()}
		if seen[key] {
			return invalidf("quest %s has duplicate signup %s/%s", q.QuestID, s.UserID, s.CharacterID)
		}
		seen[key] = true
	}
	return nil
}
