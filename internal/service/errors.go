package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in callers predictable.

// ===== Room Lifecycle Errors =====
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room has no open slots")
	ErrAlreadyMember   = errors.New("already a member of this room")
	ErrNotMember       = errors.New("not a member of this room")
	ErrRoomNotJoinable = errors.New("room is not recruiting")
	ErrNotLeader       = errors.New("only the room leader may do this")
)

// ===== Validation Errors =====
var (
	ErrTitleRequired      = errors.New("room title is required")
	ErrActivityRequired   = errors.New("an activity must be selected")
	ErrDifficultyRequired = errors.New("a difficulty must be selected")
	ErrUnknownDifficulty  = errors.New("difficulty does not exist for this activity")
	ErrInvalidMaxMembers  = errors.New("max members must be positive")
	ErrTooManyMembers     = errors.New("max members exceeds the activity's player cap")
	ErrInvalidMode        = errors.New("invalid team mode")
	ErrUserRequired       = errors.New("a user profile is required")
	ErrGameIDRequired     = errors.New("game name is required")
	ErrInvalidProfession  = errors.New("invalid profession")
	ErrInvalidCombatPower = errors.New("combat power must be positive")
)
