// Package model defines the domain entities of Questboard.
//
// The package holds the typed entity identifiers, the four core records, and
// the invariants they enforce before anything is persisted. Entities carry no
// storage or transport concerns; repositories serialize them to documents and
// handlers to JSON.
//
// # Entity identifiers
//
// Every entity is keyed by a typed, prefixed, zero-padded identifier unique
// within its kind:
//
//	USER0001  QUES0042  CHAR1234  SUMM0007  DRAF0003
//
// IDs are immutable value objects compared by (prefix, number). Parsing a
// malformed string fails with ErrInvalidIDFormat; a well-formed string of the
// wrong kind fails with ErrIDPrefixMismatch.
//
// # Domain entities
//
//   - User: community member with additive roles (MEMBER, PLAYER, REFEREE)
//     and lazily created role profiles
//   - Character: player character with exclusive ownership and play telemetry
//   - Quest: hosted session moving through a signup/roster lifecycle
//   - QuestSummary: post-quest narrative linked to one quest and one author
//
// # Invariant errors
//
// Violations are reported through package-level sentinels
// (ErrInvalidTransition, ErrDuplicateSignup, ErrSignupClosed, ...) raised next
// to the invariant they protect, so transitions never partially apply. The
// Validate methods wrap ErrInvalidEntity so structural failures stay
// distinguishable from infrastructure errors.
//
// # Error payloads
//
// RFC 9457 Problem Details responses for the HTTP surface are defined in
// errors.go.
package model
