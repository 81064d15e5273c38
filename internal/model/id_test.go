package model

import (
	"errors"
	"testing"
)

func TestParseUserID_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 7, 42, 9999, 10000, 123456} {
		id, err := NewUserID(n)
		if err != nil {
			t.Fatalf("NewUserID(%d): %v", n, err)
		}
		parsed, err := ParseUserID(id.String())
		if err != nil {
			t.Fatalf("ParseUserID(%q): %v", id.String(), err)
		}
		if parsed != id {
			t.Errorf("round trip of %d: got %v, want %v", n, parsed, id)
		}
	}
}

func TestIDString_ZeroPadding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		number int
		want   string
	}{
		{1, "USER0001"},
		{7, "USER0007"},
		{9999, "USER9999"},
		{10000, "USER10000"},
		{123456, "USER123456"},
	}
	for _, tc := range cases {
		id, err := NewUserID(tc.number)
		if err != nil {
			t.Fatalf("NewUserID(%d): %v", tc.number, err)
		}
		if got := id.String(); got != tc.want {
			t.Errorf("String() for %d = %q, want %q", tc.number, got, tc.want)
		}
	}
}

func TestParseID_RejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"",
		"USER",
		"0001",
		"USER001",      // too few digits
		"USE0001",      // too short prefix
		"user0001",     // lowercase
		"USER 0001",    // whitespace
		"USER0001x",    // trailing junk
		"USR-0001",     // wrong character class
		"1234USER",     // swapped
		"USERXXXX",     // letters where digits belong
		"ÜSER0001",     // non-ASCII
		"USER0001\n",   // trailing newline
		" QUES0001",    // leading space
		"QUES0x01",     // hex digit
	} {
		if _, err := ParseUserID(raw); !errors.Is(err, ErrInvalidIDFormat) {
			t.Errorf("ParseUserID(%q): got %v, want ErrInvalidIDFormat", raw, err)
		}
	}
}

func TestParseID_RejectsWrongPrefix(t *testing.T) {
	t.Parallel()

	if _, err := ParseUserID("QUES0001"); !errors.Is(err, ErrIDPrefixMismatch) {
		t.Errorf("ParseUserID(QUES0001): got %v, want ErrIDPrefixMismatch", err)
	}
	if _, err := ParseQuestID("USER0001"); !errors.Is(err, ErrIDPrefixMismatch) {
		t.Errorf("ParseQuestID(USER0001): got %v, want ErrIDPrefixMismatch", err)
	}
	if _, err := ParseCharacterID("SUMM0001"); !errors.Is(err, ErrIDPrefixMismatch) {
		t.Errorf("ParseCharacterID(SUMM0001): got %v, want ErrIDPrefixMismatch", err)
	}
	if _, err := ParseSummaryID("DRAF0001"); !errors.Is(err, ErrIDPrefixMismatch) {
		t.Errorf("ParseSummaryID(DRAF0001): got %v, want ErrIDPrefixMismatch", err)
	}
	if _, err := ParseDraftID("CHAR0001"); !errors.Is(err, ErrIDPrefixMismatch) {
		t.Errorf("ParseDraftID(CHAR0001): got %v, want ErrIDPrefixMismatch", err)
	}
}

func TestNewID_RejectsOutOfRange(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1, -9999} {
		if _, err := NewQuestID(n); !errors.Is(err, ErrIDOutOfRange) {
			t.Errorf("NewQuestID(%d): got %v, want ErrIDOutOfRange", n, err)
		}
	}
}

func TestID_EqualityAndOrdering(t *testing.T) {
	t.Parallel()

	a, _ := NewQuestID(1)
	b, _ := NewQuestID(2)
	a2, _ := NewQuestID(1)

	if a != a2 {
		t.Error("IDs with the same number should compare equal")
	}
	if a == b {
		t.Error("IDs with different numbers should not compare equal")
	}
	if !a.Less(b) || b.Less(a) {
		t.Error("ordering should follow the sequence number")
	}

	// usable as map keys
	m := map[QuestID]string{a: "first"}
	if m[a2] != "first" {
		t.Error("equal IDs should hash to the same map entry")
	}
}

func TestID_TextMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	id, _ := NewSummaryID(12)
	text, err := id.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(text) != "SUMM0012" {
		t.Fatalf("MarshalText = %q, want SUMM0012", text)
	}

	var back SummaryID
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != id {
		t.Errorf("text round trip: got %v, want %v", back, id)
	}
}

func TestID_IsZero(t *testing.T) {
	t.Parallel()

	var zero CharacterID
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
	id, _ := NewCharacterID(3)
	if id.IsZero() {
		t.Error("constructed ID should not report IsZero")
	}
}
