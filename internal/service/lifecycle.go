package service

import (
	"time"

	"github.com/tastien/teamup/internal/model"
)

// Lifecycle transitions are pure: they take a room snapshot plus the event
// and return the resulting room value. Callers persist the result through
// the repository's read-modify-write cycle; nothing here performs I/O.

// ApplyJoin adds a user to a recruiting room. The join that takes the last
// open slot flips the room to FULL on that join, never earlier.
func ApplyJoin(room model.TeamRoom, user model.UserProfile, now time.Time) (model.TeamRoom, error) {
	if room.HasMember(user.ID) {
		return room, ErrAlreadyMember
	}
	if room.IsFull() {
		return room, ErrRoomFull
	}
	if room.Status != model.TeamStatusRecruiting {
		return room, ErrRoomNotJoinable
	}

	next := room.Clone()
	next.Members = append(next.Members, model.TeamMember{
		User:     user.Clone(),
		JoinedAt: now,
		Status:   model.MemberStatusActive,
	})
	if next.IsFull() {
		next.Status = model.TeamStatusFull
	}
	next.UpdatedAt = now
	return next, nil
}

// ApplyLeave removes a member from a room. The leader leaving cancels the
// room outright; the member list is retained for audit rather than managed
// further. A non-leader leaving a FULL room reopens recruiting.
func ApplyLeave(room model.TeamRoom, userID string, now time.Time) (model.TeamRoom, error) {
	if room.Leader.ID == userID {
		next := room.Clone()
		next.Status = model.TeamStatusCancelled
		next.UpdatedAt = now
		return next, nil
	}

	if !room.HasMember(userID) {
		return room, ErrNotMember
	}

	next := room.Clone()
	members := next.Members[:0]
	for _, m := range next.Members {
		if m.User.ID != userID {
			members = append(members, m)
		}
	}
	next.Members = members

	if next.Status == model.TeamStatusFull && !next.IsFull() {
		next.Status = model.TeamStatusRecruiting
	}
	next.UpdatedAt = now
	return next, nil
}
