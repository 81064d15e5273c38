package model

import (
	"errors"
	"time"
)

// Role is an additive user capability, not a hierarchy level. MEMBER is the
// baseline every user holds; PLAYER and REFEREE stack on top of it.
type Role string

const (
	RoleMember  Role = "MEMBER"
	RolePlayer  Role = "PLAYER"
	RoleReferee Role = "REFEREE"
)

// Role composition errors.
var (
	// ErrRefereeRequiresPlayer indicates an attempt to drop PLAYER while
	// REFEREE is still held.
	ErrRefereeRequiresPlayer = errors.New("cannot disable player while referee role is active")

	// ErrNegativeCount indicates a negative telemetry delta.
	ErrNegativeCount = errors.New("count must be non-negative")
)

// User is a community member. Identity is the UserID, assigned once and never
// reused; the Discord linkage is informational.
type User struct {
	UserID      UserID  `json:"user_id"`
	GuildID     *int64  `json:"guild_id,omitempty"`
	DiscordID   *string `json:"discord_id,omitempty"`
	DMChannelID *string `json:"dm_channel_id,omitempty"`

	Roles   []Role `json:"roles"`
	DMOptIn bool   `json:"dm_opt_in"`

	JoinedAt     *time.Time `json:"joined_at,omitempty"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`

	// Engagement telemetry
	MessagesTotal     int     `json:"messages_total"`
	ReactionsGiven    int     `json:"reactions_given"`
	ReactionsReceived int     `json:"reactions_received"`
	VoiceSeconds      float64 `json:"voice_seconds"`

	// Role profiles, created lazily when the role is first enabled and
	// retained across demotions for history.
	Player  *PlayerProfile  `json:"player,omitempty"`
	Referee *RefereeProfile `json:"referee,omitempty"`
}

// NewUser creates a member-only user.
func NewUser(id UserID) *User {
	return &User{
		UserID:  id,
		Roles:   []Role{RoleMember},
		DMOptIn: true,
	}
}

// HasRole reports whether the capability is held.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsPlayer() bool  { return u.HasRole(RolePlayer) }
func (u *User) IsReferee() bool { return u.HasRole(RoleReferee) }

func (u *User) addRole(role Role) {
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
	}
}

func (u *User) removeRole(role Role) {
	out := u.Roles[:0]
	for _, r := range u.Roles {
		if r != role {
			out = append(out, r)
		}
	}
	u.Roles = out
}

// EnablePlayer adds the PLAYER capability. The player profile is created on
// the first call only; re-enabling reattaches the retained profile.
func (u *User) EnablePlayer() {
	u.addRole(RolePlayer)
	if u.Player == nil {
		u.Player = &PlayerProfile{}
	}
}

// DisablePlayer drops the PLAYER capability. REFEREE implies PLAYER, so the
// referee role must be dropped first. Profile data is retained.
func (u *User) DisablePlayer() error {
	if u.IsReferee() {
		return ErrRefereeRequiresPlayer
	}
	u.removeRole(RolePlayer)
	return nil
}

// EnableReferee adds the REFEREE capability, enabling PLAYER first when it is
// absent. The referee profile is created on the first call only.
func (u *User) EnableReferee() {
	if !u.IsPlayer() {
		u.EnablePlayer()
	}
	u.addRole(RoleReferee)
	if u.Referee == nil {
		u.Referee = &RefereeProfile{}
	}
}

// DisableReferee drops the REFEREE capability, retaining the profile.
func (u *User) DisableReferee() {
	u.removeRole(RoleReferee)
}

// OwnsCharacter reports whether the character is linked to this user's
// player profile.
func (u *User) OwnsCharacter(id CharacterID) bool {
	if u.Player == nil {
		return false
	}
	for _, c := range u.Player.Characters {
		if c == id {
			return true
		}
	}
	return false
}

// Touch stamps the last-active timestamp.
func (u *User) Touch(at time.Time) {
	u.LastActiveAt = &at
}

// RecordMessages bumps the message counter.
func (u *User) RecordMessages(count int) error {
	if count < 0 {
		return ErrNegativeCount
	}
	u.MessagesTotal += count
	return nil
}

// RecordReactionsGiven bumps the reactions-given counter.
func (u *User) RecordReactionsGiven(count int) error {
	if count < 0 {
		return ErrNegativeCount
	}
	u.ReactionsGiven += count
	return nil
}

// RecordReactionsReceived bumps the reactions-received counter.
func (u *User) RecordReactionsReceived(count int) error {
	if count < 0 {
		return ErrNegativeCount
	}
	u.ReactionsReceived += count
	return nil
}

// RecordVoiceTime adds time spent in voice channels.
func (u *User) RecordVoiceTime(seconds int) error {
	if seconds < 0 {
		return ErrNegativeCount
	}
	u.VoiceSeconds += float64(seconds)
	return nil
}

// Validate checks the user's structural invariants. A held role must have its
// profile attached; a retained profile without the role is permitted.
func (u *User) Validate() error {
	if u.UserID.IsZero() {
		return invalidf("user_id is required")
	}
	if !u.HasRole(RoleMember) {
		return invalidf("user %s is missing the MEMBER role", u.UserID)
	}
	seen := make(map[Role]bool, len(u.Roles))
	for _, r := range u.Roles {
		switch r {
		case RoleMember, RolePlayer, RoleReferee:
		default:
			return invalidf("unknown role %q on user %s", r, u.UserID)
		}
		if seen[r] {
			return invalidf("duplicate role %s on user %s", r, u.UserID)
		}
		seen[r] = true
	}
	if u.IsReferee() && !u.IsPlayer() {
		return invalidf("user %s holds REFEREE without PLAYER", u.UserID)
	}
	if u.IsPlayer() && u.Player == nil {
		return invalidf("user %s holds PLAYER without a player profile", u.UserID)
	}
	if u.IsReferee() && u.Referee == nil {
		return invalidf("user %s holds REFEREE without a referee profile", u.UserID)
	}
	if u.MessagesTotal < 0 || u.ReactionsGiven < 0 || u.ReactionsReceived < 0 || u.VoiceSeconds < 0 {
		return invalidf("user %s has negative telemetry", u.UserID)
	}
	return nil
}

// PlayerProfile is the PLAYER-role sub-record: owned characters plus play
// telemetry.
type PlayerProfile struct {
	Characters []CharacterID `json:"characters,omitempty"`

	JoinedOn       *time.Time `json:"joined_on,omitempty"`
	FirstCharacter *time.Time `json:"first_character_on,omitempty"`
	LastPlayedOn   *time.Time `json:"last_played_on,omitempty"`

	QuestsApplied    []QuestID   `json:"quests_applied,omitempty"`
	QuestsPlayed     []QuestID   `json:"quests_played,omitempty"`
	QuestsAccepted   int         `json:"quests_accepted"`
	SummariesWritten []SummaryID `json:"summaries_written,omitempty"`
}

// AddCharacter links a character, once.
func (p *PlayerProfile) AddCharacter(id CharacterID) {
	for _, c := range p.Characters {
		if c == id {
			return
		}
	}
	p.Characters = append(p.Characters, id)
}

// RemoveCharacter unlinks a character if present.
func (p *PlayerProfile) RemoveCharacter(id CharacterID) {
	out := p.Characters[:0]
	for _, c := range p.Characters {
		if c != id {
			out = append(out, c)
		}
	}
	p.Characters = out
}

// AddQuestApplied records a signup application, once.
func (p *PlayerProfile) AddQuestApplied(id QuestID) {
	for _, q := range p.QuestsApplied {
		if q == id {
			return
		}
	}
	p.QuestsApplied = append(p.QuestsApplied, id)
}

// AddQuestPlayed records an attended quest, once.
func (p *PlayerProfile) AddQuestPlayed(id QuestID) {
	for _, q := range p.QuestsPlayed {
		if q == id {
			return
		}
	}
	p.QuestsPlayed = append(p.QuestsPlayed, id)
}

// AddSummaryWritten records an authored summary, once.
func (p *PlayerProfile) AddSummaryWritten(id SummaryID) {
	for _, s := range p.SummariesWritten {
		if s == id {
			return
		}
	}
	p.SummariesWritten = append(p.SummariesWritten, id)
}

// RefereeProfile is the REFEREE-role sub-record: hosted quests plus hosting
// telemetry.
type RefereeProfile struct {
	QuestsHosted     []QuestID   `json:"quests_hosted,omitempty"`
	SummariesWritten []SummaryID `json:"summaries_written,omitempty"`

	FirstHostedOn *time.Time `json:"first_hosted_on,omitempty"`
	LastHostedOn  *time.Time `json:"last_hosted_on,omitempty"`

	// HostedFor counts sessions run per player.
	HostedFor map[UserID]int `json:"hosted_for,omitempty"`
}

// AddQuestHosted records a hosted quest, once.
func (r *RefereeProfile) AddQuestHosted(id QuestID) {
	for _, q := range r.QuestsHosted {
		if q == id {
			return
		}
	}
	r.QuestsHosted = append(r.QuestsHosted, id)
}

// AddSummaryWritten records an authored summary, once.
func (r *RefereeProfile) AddSummaryWritten(id SummaryID) {
	for _, s := range r.SummariesWritten {
		if s == id {
			return
		}
	}
	r.SummariesWritten = append(r.SummariesWritten, id)
}

// AddHostedFor bumps the per-player session counter.
func (r *RefereeProfile) AddHostedFor(id UserID) {
	if r.HostedFor == nil {
		r.HostedFor = make(map[UserID]int)
	}
	r.HostedFor[id]++
}
