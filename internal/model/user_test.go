package model

import (
	"errors"
	"testing"
	"time"
)

func newTestUser(t *testing.T, n int) *User {
	t.Helper()
	id, err := NewUserID(n)
	if err != nil {
		t.Fatalf("NewUserID(%d): %v", n, err)
	}
	return NewUser(id)
}

func TestNewUser_Defaults(t *testing.T) {
	t.Parallel()

	u := newTestUser(t, 1)
	if !u.HasRole(RoleMember) {
		t.Error("new user should hold MEMBER")
	}
	if u.IsPlayer() || u.IsReferee() {
		t.Error("new user should hold no elevated roles")
	}
	if u.Player != nil || u.Referee != nil {
		t.Error("new user should have no profiles")
	}
	if err := u.Validate(); err != nil {
		t.Errorf("Validate on fresh user: %v", err)
	}
}

func TestEnablePlayer_CreatesProfileOnce(t *testing.T) {
	t.Parallel()

	u := newTestUser(t, 2)
	u.EnablePlayer()
	if !u.IsPlayer() {
		t.Fatal("expected PLAYER role after EnablePlayer")
	}
	if u.Player == nil {
		t.Fatal("expected player profile after EnablePlayer")
	}

	first := u.Player
	cid, _ := NewCharacterID(1)
	first.AddCharacter(cid)

	u.EnablePlayer()
	if u.Player != first {
		t.Error("repeated EnablePlayer should retain the existing profile")
	}
	if got := len(u.Roles); got != 2 {
		t.Errorf("repeated EnablePlayer should not duplicate roles, got %d", got)
	}
}

func TestEnableReferee_AutoEnablesPlayer(t *testing.T) {
	t.Parallel()

	u := newTestUser(t, 3)
	u.EnableReferee()

	if !u.IsPlayer() || !u.IsReferee() {
		t.Fatal("EnableReferee should grant both PLAYER and REFEREE")
	}
	if u.Player == nil || u.Referee == nil {
		t.Fatal("EnableReferee should create both profiles")
	}
	if err := u.Validate(); err != nil {
		t.Errorf("Validate after EnableReferee: %v", err)
	}

	player, referee := u.Player, u.Referee
	u.EnableReferee()
	if u.Player != player || u.Referee != referee {
		t.Error("repeated EnableReferee should retain existing profiles")
	}
	if got := len(u.Roles); got != 3 {
		t.Errorf("repeated EnableReferee should not duplicate roles, got %d roles", got)
	}
}

func TestDisablePlayer_BlockedWhileReferee(t *testing.T) {
	t.Parallel()

	u := newTestUser(t, 4)
	u.EnableReferee()

	if err := u.DisablePlayer(); !errors.Is(err, ErrRefereeRequiresPlayer) {
		t.Fatalf("DisablePlayer while referee: got %v, want ErrRefereeRequiresPlayer", err)
	}

	u.DisableReferee()
	if err := u.DisablePlayer(); err != nil {
		t.Fatalf("DisablePlayer after DisableReferee: %v", err)
	}
	if u.IsPlayer() {
		t.Error("PLAYER role should be gone")
	}
	if u.Player == nil {
		t.Error("demotion should retain the player profile data")
	}
}

func TestDisableReferee_RetainsProfile(t *testing.T) {
	t.Parallel()

	u := newTestUser(t, 5)
	u.EnableReferee()
	qid, _ := NewQuestID(1)
	u.Referee.AddQuestHosted(qid)

	u.DisableReferee()
	if u.IsReferee() {
		t.Error("REFEREE role should be gone")
	}
	if u.Referee == nil || len(u.Referee.QuestsHosted) != 1 {
		t.Error("demotion should retain the referee profile and its history")
	}
	if err := u.Validate(); err != nil {
		t.Errorf("Validate after demotion: %v", err)
	}
}

func TestUserValidate_RejectsRefereeWithoutPlayer(t *testing.T) {
	t.Parallel()

	u := newTestUser(t, 6)
	u.Roles = append(u.Roles, RoleReferee)
	u.Referee = &RefereeProfile{}
	if err := u.Validate(); err == nil {
		t.Error("REFEREE without PLAYER should fail validation")
	}
}

func TestUserValidate_RejectsRoleWithoutProfile(t *testing.T) {
	t.Parallel()

	u := newTestUser(t, 7)
	u.Roles = append(u.Roles, RolePlayer)
	if err := u.Validate(); err == nil {
		t.Error("PLAYER role without a player profile should fail validation")
	}
}

func TestUserValidate_RejectsDuplicateRoles(t *testing.T) {
	t.Parallel()

	u := newTestUser(t, 8)
	u.Roles = append(u.Roles, RoleMember)
	if err := u.Validate(); err == nil {
		t.Error("duplicate roles should fail validation")
	}
}

func TestRecordTelemetry(t *testing.T) {
	t.Parallel()

	u := newTestUser(t, 9)

	if err := u.RecordMessages(3); err != nil {
		t.Fatalf("RecordMessages: %v", err)
	}
	if err := u.RecordReactionsGiven(2); err != nil {
		t.Fatalf("RecordReactionsGiven: %v", err)
	}
	if err := u.RecordReactionsReceived(1); err != nil {
		t.Fatalf("RecordReactionsReceived: %v", err)
	}
	if err := u.RecordVoiceTime(120); err != nil {
		t.Fatalf("RecordVoiceTime: %v", err)
	}

	if u.MessagesTotal != 3 || u.ReactionsGiven != 2 || u.ReactionsReceived != 1 {
		t.Error("counters should accumulate")
	}
	if u.VoiceSeconds != 120 {
		t.Errorf("VoiceSeconds = %v, want 120", u.VoiceSeconds)
	}

	if err := u.RecordMessages(-1); !errors.Is(err, ErrNegativeCount) {
		t.Errorf("negative message count: got %v, want ErrNegativeCount", err)
	}
	if err := u.RecordVoiceTime(-5); !errors.Is(err, ErrNegativeCount) {
		t.Errorf("negative voice time: got %v, want ErrNegativeCount", err)
	}
}

func TestTouch_StampsLastActive(t *testing.T) {
	t.Parallel()

	u := newTestUser(t, 10)
	now := time.Now().UTC()
	u.Touch(now)
	if u.LastActiveAt == nil || !u.LastActiveAt.Equal(now) {
		t.Error("Touch should stamp LastActiveAt")
	}
}

func TestPlayerProfile_Dedup(t *testing.T) {
	t.Parallel()

	p := &PlayerProfile{}
	c1, _ := NewCharacterID(1)
	p.AddCharacter(c1)
	p.AddCharacter(c1)
	if len(p.Characters) != 1 {
		t.Errorf("AddCharacter should dedup, got %d entries", len(p.Characters))
	}

	q1, _ := NewQuestID(1)
	p.AddQuestApplied(q1)
	p.AddQuestApplied(q1)
	if len(p.QuestsApplied) != 1 {
		t.Errorf("AddQuestApplied should dedup, got %d entries", len(p.QuestsApplied))
	}

	p.RemoveCharacter(c1)
	if len(p.Characters) != 0 {
		t.Error("RemoveCharacter should remove the entry")
	}
}

func TestRefereeProfile_HostedFor(t *testing.T) {
	t.Parallel()

	r := &RefereeProfile{}
	u1, _ := NewUserID(10)
	r.AddHostedFor(u1)
	r.AddHostedFor(u1)
	if r.HostedFor[u1] != 2 {
		t.Errorf("HostedFor count = %d, want 2", r.HostedFor[u1])
	}
}
