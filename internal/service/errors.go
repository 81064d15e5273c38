package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Lookup Errors =====
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrCharacterNotFound = errors.New("character not found")
	ErrQuestNotFound     = errors.New("quest not found")
	ErrSummaryNotFound   = errors.New("summary not found")
)

// ===== User Errors =====
var (
	ErrDiscordIDLinked = errors.New("discord identity already linked to a user")
	ErrNotAPlayer      = errors.New("user does not hold the player role")
	ErrNotAReferee     = errors.New("user does not hold the referee role")
	ErrUserHasQuests   = errors.New("user still hosts active quests")
)

// ===== Character Errors =====
var (
	ErrCharacterNameRequired = errors.New("character name is required")
	ErrOwnershipMismatch     = errors.New("character is owned by a different user")
	ErrCharacterRetired      = errors.New("character is retired")
)

// ===== Quest Errors =====
var (
	ErrQuestNameRequired = errors.New("quest name is required")
	ErrQuestImmutable    = errors.New("quest is in a terminal state")
	ErrNotQuestReferee   = errors.New("only the hosting referee may do this")
	ErrRosterNotSignedUp = errors.New("roster entry has no matching signup")
)

// ===== Summary Errors =====
var (
	ErrSummaryTitleRequired   = errors.New("summary title is required")
	ErrSummaryContentRequired = errors.New("summary content is required")
	ErrNotSummaryAuthor       = errors.New("only the author may edit a summary")
)
