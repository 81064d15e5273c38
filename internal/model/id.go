package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Entity ID errors. Parsing and construction failures are surfaced to the
// caller immediately and are never retried.
var (
	// ErrInvalidIDFormat indicates a string that does not match the canonical
	// PREFIX+digits grammar.
	ErrInvalidIDFormat = errors.New("invalid entity id format")

	// ErrIDPrefixMismatch indicates a well-formed ID whose prefix belongs to a
	// different entity kind.
	ErrIDPrefixMismatch = errors.New("entity id prefix mismatch")

	// ErrIDOutOfRange indicates a sequence number below 1.
	ErrIDOutOfRange = errors.New("entity id number out of range")
)

// Entity kind prefixes. The rendered form is part of the durable on-disk
// contract; changing a prefix requires a document migration.
const (
	UserIDPrefix      = "USER"
	QuestIDPrefix     = "QUES"
	CharacterIDPrefix = "CHAR"
	SummaryIDPrefix   = "SUMM"
	DraftIDPrefix     = "DRAF"
)

// idDigits is the minimum rendered width of the sequence number.
const idDigits = 4

// idPattern is the canonical grammar for persisted identifiers: an uppercase
// prefix of at least four letters followed by at least four digits.
var idPattern = regexp.MustCompile(`^([A-Z]{4,})([0-9]{4,})$`)

// entityID is the shared value-object core of every typed identifier.
// Identifiers are immutable and compared by (prefix, number); the zero value
// is "absent" and never a valid ID.
type entityID struct {
	prefix string
	number int
}

func newEntityID(prefix string, number int) (entityID, error) {
	if number < 1 {
		return entityID{}, fmt.Errorf("%w: %d", ErrIDOutOfRange, number)
	}
	return entityID{prefix: prefix, number: number}, nil
}

func parseEntityID(prefix, raw string) (entityID, error) {
	m := idPattern.FindStringSubmatch(raw)
	if m == nil {
		return entityID{}, fmt.Errorf("%w: %q", ErrInvalidIDFormat, raw)
	}
	if m[1] != prefix {
		return entityID{}, fmt.Errorf("%w: expected %s, got %s", ErrIDPrefixMismatch, prefix, m[1])
	}
	number, err := strconv.Atoi(m[2])
	if err != nil {
		return entityID{}, fmt.Errorf("%w: %q", ErrInvalidIDFormat, raw)
	}
	if number < 1 {
		return entityID{}, fmt.Errorf("%w: %d", ErrIDOutOfRange, number)
	}
	return entityID{prefix: prefix, number: number}, nil
}

// String renders the canonical form: prefix plus the sequence number
// zero-padded to at least four digits. Numbers past 9999 render at full
// width.
func (e entityID) String() string {
	return fmt.Sprintf("%s%0*d", e.prefix, idDigits, e.number)
}

// Number returns the positive sequence component.
func (e entityID) Number() int { return e.number }

// IsZero reports whether the ID is the absent value.
func (e entityID) IsZero() bool { return e.number == 0 }

// less orders IDs of the same prefix by sequence number. Useful for
// deterministic fixtures and stable listings.
func (e entityID) less(other entityID) bool { return e.number < other.number }

// The typed IDs below implement encoding.TextMarshaler/TextUnmarshaler so
// they render as their canonical string form in JSON, including as map keys.

// UserID identifies a community member (USER0001).
type UserID struct{ entityID }

func NewUserID(number int) (UserID, error) {
	id, err := newEntityID(UserIDPrefix, number)
	return UserID{id}, err
}

func ParseUserID(raw string) (UserID, error) {
	id, err := parseEntityID(UserIDPrefix, raw)
	return UserID{id}, err
}

func (id UserID) Less(other UserID) bool { return id.less(other.entityID) }
func (id UserID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// QuestID identifies a quest (QUES0042).
type QuestID struct{ entityID }

func NewQuestID(number int) (QuestID, error) {
	id, err := newEntityID(QuestIDPrefix, number)
	return QuestID{id}, err
}

func ParseQuestID(raw string) (QuestID, error) {
	id, err := parseEntityID(QuestIDPrefix, raw)
	return QuestID{id}, err
}

func (id QuestID) Less(other QuestID) bool { return id.less(other.entityID) }
func (id QuestID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *QuestID) UnmarshalText(text []byte) error {
	parsed, err := ParseQuestID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// CharacterID identifies a player character (CHAR1234).
type CharacterID struct{ entityID }

func NewCharacterID(number int) (CharacterID, error) {
	id, err := newEntityID(CharacterIDPrefix, number)
	return CharacterID{id}, err
}

func ParseCharacterID(raw string) (CharacterID, error) {
	id, err := parseEntityID(CharacterIDPrefix, raw)
	return CharacterID{id}, err
}

func (id CharacterID) Less(other CharacterID) bool { return id.less(other.entityID) }
func (id CharacterID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *CharacterID) UnmarshalText(text []byte) error {
	parsed, err := ParseCharacterID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// SummaryID identifies a quest summary (SUMM0007).
type SummaryID struct{ entityID }

func NewSummaryID(number int) (SummaryID, error) {
	id, err := newEntityID(SummaryIDPrefix, number)
	return SummaryID{id}, err
}

func ParseSummaryID(raw string) (SummaryID, error) {
	id, err := parseEntityID(SummaryIDPrefix, raw)
	return SummaryID{id}, err
}

func (id SummaryID) Less(other SummaryID) bool { return id.less(other.entityID) }
func (id SummaryID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *SummaryID) UnmarshalText(text []byte) error {
	parsed, err := ParseSummaryID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// DraftID identifies a quest announcement draft ingested from chat before a
// QuestID has been allocated (DRAF0003).
type DraftID struct{ entityID }

func NewDraftID(number int) (DraftID, error) {
	id, err := newEntityID(DraftIDPrefix, number)
	return DraftID{id}, err
}

func ParseDraftID(raw string) (DraftID, error) {
	id, err := parseEntityID(DraftIDPrefix, raw)
	return DraftID{id}, err
}

func (id DraftID) Less(other DraftID) bool { return id.less(other.entityID) }
func (id DraftID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *DraftID) UnmarshalText(text []byte) error {
	parsed, err := ParseDraftID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
