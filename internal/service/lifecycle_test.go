package service

import (
	"errors"
	"testing"
	"time"

	"github.com/tastien/teamup/internal/model"
)

var lifecycleNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// ============================================================================
// ApplyJoin Tests
// ============================================================================

func TestApplyJoin_AddsActiveMember(t *testing.T) {
	t.Parallel()
	room := makeRoom("r1", model.TeamStatusRecruiting, 4, makeUser("leader", model.ProfessionKnight, 120000))
	joiner := makeUser("u2", model.ProfessionMage, 90000)

	next, err := ApplyJoin(room, joiner, lifecycleNow)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(next.Members))
	}
	last := next.Members[1]
	if last.User.ID != "u2" || last.Status != model.MemberStatusActive {
		t.Errorf("expected active member u2, got %s/%s", last.User.ID, last.Status)
	}
	if !last.JoinedAt.Equal(lifecycleNow) {
		t.Errorf("expected joinedAt %v, got %v", lifecycleNow, last.JoinedAt)
	}
	if next.Status != model.TeamStatusRecruiting {
		t.Errorf("expected room still recruiting, got %s", next.Status)
	}
}

func TestApplyJoin_LastSlot_FlipsToFull(t *testing.T) {
	t.Parallel()
	room := makeRoom("r1", model.TeamStatusRecruiting, 2, makeUser("leader", model.ProfessionKnight, 120000))

	next, err := ApplyJoin(room, makeUser("u2", model.ProfessionMage, 90000), lifecycleNow)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Status != model.TeamStatusFull {
		t.Errorf("expected FULL after last slot filled, got %s", next.Status)
	}
}

func TestApplyJoin_AlreadyMember_Rejected(t *testing.T) {
	t.Parallel()
	member := makeUser("u2", model.ProfessionMage, 90000)
	room := makeRoom("r1", model.TeamStatusRecruiting, 4, makeUser("leader", model.ProfessionKnight, 120000), member)

	_, err := ApplyJoin(room, member, lifecycleNow)

	if !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestApplyJoin_FullRoom_Rejected(t *testing.T) {
	t.Parallel()
	room := makeRoom("r1", model.TeamStatusFull, 1, makeUser("leader", model.ProfessionKnight, 120000))

	_, err := ApplyJoin(room, makeUser("u2", model.ProfessionMage, 90000), lifecycleNow)

	if !errors.Is(err, ErrRoomFull) {
		t.Errorf("expected ErrRoomFull, got %v", err)
	}
}

func TestApplyJoin_NotRecruiting_Rejected(t *testing.T) {
	t.Parallel()
	room := makeRoom("r1", model.TeamStatusInProgress, 4, makeUser("leader", model.ProfessionKnight, 120000))

	_, err := ApplyJoin(room, makeUser("u2", model.ProfessionMage, 90000), lifecycleNow)

	if !errors.Is(err, ErrRoomNotJoinable) {
		t.Errorf("expected ErrRoomNotJoinable, got %v", err)
	}
}

func TestApplyJoin_CancelledRoom_Rejected(t *testing.T) {
	t.Parallel()
	room := makeRoom("r1", model.TeamStatusCancelled, 4, makeUser("leader", model.ProfessionKnight, 120000))

	_, err := ApplyJoin(room, makeUser("u2", model.ProfessionMage, 90000), lifecycleNow)

	if !errors.Is(err, ErrRoomNotJoinable) {
		t.Errorf("expected ErrRoomNotJoinable, got %v", err)
	}
}

func TestApplyJoin_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	room := makeRoom("r1", model.TeamStatusRecruiting, 4, makeUser("leader", model.ProfessionKnight, 120000))

	_, err := ApplyJoin(room, makeUser("u2", model.ProfessionMage, 90000), lifecycleNow)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(room.Members) != 1 {
		t.Errorf("input room mutated: %d members", len(room.Members))
	}
}

// ============================================================================
// ApplyLeave Tests
// ============================================================================

func TestApplyLeave_MemberRemoved(t *testing.T) {
	t.Parallel()
	room := makeRoom("r1", model.TeamStatusRecruiting, 4,
		makeUser("leader", model.ProfessionKnight, 120000),
		makeUser("u2", model.ProfessionMage, 90000),
	)

	next, err := ApplyLeave(room, "u2", lifecycleNow)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next.Members) != 1 || next.Members[0].User.ID != "leader" {
		t.Errorf("expected only the leader remaining, got %v", next.Members)
	}
	if next.Status != model.TeamStatusRecruiting {
		t.Errorf("expected room still recruiting, got %s", next.Status)
	}
}

func TestApplyLeave_LeaderLeaving_CancelsRoom(t *testing.T) {
	t.Parallel()
	room := makeRoom("r1", model.TeamStatusRecruiting, 4,
		makeUser("leader", model.ProfessionKnight, 120000),
		makeUser("u2", model.ProfessionMage, 90000),
	)

	next, err := ApplyLeave(room, "leader", lifecycleNow)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Status != model.TeamStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", next.Status)
	}
	if len(next.Members) != 2 {
		t.Errorf("expected member list retained, got %d members", len(next.Members))
	}
}

func TestApplyLeave_SoloLeader_CancelsRoom(t *testing.T) {
	t.Parallel()
	room := makeRoom("r1", model.TeamStatusRecruiting, 4, makeUser("leader", model.ProfessionKnight, 120000))

	next, err := ApplyLeave(room, "leader", lifecycleNow)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Status != model.TeamStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", next.Status)
	}
}

func TestApplyLeave_NotMember_Rejected(t *testing.T) {
	t.Parallel()
	room := makeRoom("r1", model.TeamStatusRecruiting, 4, makeUser("leader", model.ProfessionKnight, 120000))

	_, err := ApplyLeave(room, "stranger", lifecycleNow)

	if !errors.Is(err, ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}

func TestApplyLeave_FullRoom_ReopensRecruiting(t *testing.T) {
	t.Parallel()
	room := makeRoom("r1", model.TeamStatusFull, 2,
		makeUser("leader", model.ProfessionKnight, 120000),
		makeUser("u2", model.ProfessionMage, 90000),
	)

	next, err := ApplyLeave(room, "u2", lifecycleNow)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Status != model.TeamStatusRecruiting {
		t.Errorf("expected RECRUITING after slot reopened, got %s", next.Status)
	}
}

func TestApplyLeave_UpdatesTimestamp(t *testing.T) {
	t.Parallel()
	room := makeRoom("r1", model.TeamStatusRecruiting, 4,
		makeUser("leader", model.ProfessionKnight, 120000),
		makeUser("u2", model.ProfessionMage, 90000),
	)

	next, err := ApplyLeave(room, "u2", lifecycleNow)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next.UpdatedAt.Equal(lifecycleNow) {
		t.Errorf("expected updatedAt %v, got %v", lifecycleNow, next.UpdatedAt)
	}
}
