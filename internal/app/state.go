// Package app exposes the matchmaking core to presentation collaborators.
//
// State is the single entry point a UI talks to: it tracks the current
// user session, the last-fetched room snapshot, and transient
// loading/error status. Every mutating operation delegates to the room
// service and then unconditionally reloads the room list so the cached
// view never drifts from the authoritative document. Errors are reduced to
// one human-readable message and loading is always cleared, so the UI can
// never be left stuck in a loading condition.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tastien/teamup/internal/document"
	"github.com/tastien/teamup/internal/model"
	"github.com/tastien/teamup/internal/service"
)

// RoomOps is the lifecycle surface the facade delegates to.
type RoomOps interface {
	ListRooms(ctx context.Context) ([]model.TeamRoom, error)
	CreateRoom(ctx context.Context, req service.CreateRoomRequest) (model.TeamRoom, error)
	JoinRoom(ctx context.Context, roomID string, user model.UserProfile) error
	LeaveRoom(ctx context.Context, roomID, userID string) error
	DeleteRoom(ctx context.Context, roomID, actorID string) error
}

// Recommender ranks rooms for a user.
type Recommender interface {
	RecommendRooms(user model.UserProfile, rooms []model.TeamRoom) []model.TeamRoom
}

// ErrNoUser is returned when an operation needs a user session first.
var ErrNoUser = errors.New("no user profile set")

// State is the application state facade.
type State struct {
	rooms      RoomOps
	matching   Recommender
	activities []model.ActivityConfig
	now        func() time.Time

	// opMu serializes mutating operations: within one client no write
	// begins before the previous operation's write has completed.
	opMu sync.Mutex

	mu       sync.RWMutex
	user     *model.UserProfile
	snapshot []model.TeamRoom
	loading  bool
	errMsg   string
}

// Config holds the facade's collaborators.
type Config struct {
	Rooms      RoomOps
	Matching   Recommender
	Activities []model.ActivityConfig
	Now        func() time.Time // optional, for tests
}

// New creates the application state facade.
func New(cfg Config) *State {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &State{
		rooms:      cfg.Rooms,
		matching:   cfg.Matching,
		activities: cfg.Activities,
		now:        now,
	}
}

// SetUser establishes the current user session.
func (s *State) SetUser(user model.UserProfile) error {
	if err := service.ValidateUser(user); err != nil {
		return err
	}
	u := user.Clone()
	u.PlayerType = model.PlayerTypeFor(u.CombatPower)
	u.LastActive = s.now().UTC()

	s.mu.Lock()
	s.user = &u
	s.errMsg = ""
	s.mu.Unlock()
	return nil
}

// Logout clears the current user session.
func (s *State) Logout() {
	s.mu.Lock()
	s.user = nil
	s.errMsg = ""
	s.mu.Unlock()
}

// CurrentUser returns the active user profile, if any.
func (s *State) CurrentUser() (model.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.UserProfile{}, false
	}
	return s.user.Clone(), true
}

// Rooms returns the last-fetched room snapshot.
func (s *State) Rooms() []model.TeamRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TeamRoom, len(s.snapshot))
	for i, r := range s.snapshot {
		out[i] = r.Clone()
	}
	return out
}

// Activities returns the static activity catalog.
func (s *State) Activities() []model.ActivityConfig {
	out := make([]model.ActivityConfig, len(s.activities))
	for i, a := range s.activities {
		out[i] = a.Clone()
	}
	return out
}

// Loading reports whether an operation is in flight.
func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last operation's error message, empty when the last
// operation succeeded.
func (s *State) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// LoadRooms refreshes the cached room snapshot. Loads are pure reads and
// may be abandoned by cancelling ctx.
func (s *State) LoadRooms(ctx context.Context) error {
	s.begin()
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.snapshot = rooms
	s.loading = false
	s.errMsg = ""
	s.mu.Unlock()
	return nil
}

// CreateRoom opens a room led by the current user, then reloads the list.
func (s *State) CreateRoom(ctx context.Context, req service.CreateRoomRequest) error {
	user, ok := s.CurrentUser()
	if !ok {
		s.fail(ErrNoUser)
		return ErrNoUser
	}
	req.Leader = user

	return s.mutate(ctx, func(ctx context.Context) error {
		_, err := s.rooms.CreateRoom(ctx, req)
		return err
	})
}

// JoinRoom joins the current user into the room, then reloads the list.
func (s *State) JoinRoom(ctx context.Context, roomID string) error {
	user, ok := s.CurrentUser()
	if !ok {
		s.fail(ErrNoUser)
		return ErrNoUser
	}
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.rooms.JoinRoom(ctx, roomID, user)
	})
}

// LeaveRoom removes the current user from the room, then reloads the list.
func (s *State) LeaveRoom(ctx context.Context, roomID string) error {
	user, ok := s.CurrentUser()
	if !ok {
		s.fail(ErrNoUser)
		return ErrNoUser
	}
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.rooms.LeaveRoom(ctx, roomID, user.ID)
	})
}

// DeleteRoom deletes the room if the current user leads it, then reloads
// the list.
func (s *State) DeleteRoom(ctx context.Context, roomID string) error {
	user, ok := s.CurrentUser()
	if !ok {
		s.fail(ErrNoUser)
		return ErrNoUser
	}
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.rooms.DeleteRoom(ctx, roomID, user.ID)
	})
}

// Recommended ranks the cached snapshot for the current user. Call
// LoadRooms first for a fresh ranking.
func (s *State) Recommended() ([]model.TeamRoom, error) {
	user, ok := s.CurrentUser()
	if !ok {
		return nil, ErrNoUser
	}
	return s.matching.RecommendRooms(user, s.Rooms()), nil
}

// mutate runs one sequenced lifecycle operation and reloads the snapshot
// afterwards so the cached view stays consistent with the document.
func (s *State) mutate(ctx context.Context, op func(ctx context.Context) error) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.begin()
	if err := op(ctx); err != nil {
		s.fail(err)
		return err
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.snapshot = rooms
	s.loading = false
	s.errMsg = ""
	s.mu.Unlock()
	return nil
}

func (s *State) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *State) fail(err error) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = UserMessage(err)
	s.mu.Unlock()
}

// UserMessage reduces any propagated error to a single human-readable
// message for display.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoUser):
		return "set up your player profile first"
	case errors.Is(err, document.ErrConflict):
		return "the room list changed while saving, please try again"
	case errors.Is(err, document.ErrTimeout):
		return "the room store took too long to respond"
	case errors.Is(err, document.ErrReadOnly):
		return "a GitHub token is required to make changes"
	case errors.Is(err, document.ErrNotFound):
		return "the shared room document could not be found"
	case errors.Is(err, document.ErrParse):
		return "the shared room document is corrupted"
	case errors.Is(err, document.ErrFetch):
		return "could not reach the room store"
	case errors.Is(err, service.ErrRoomNotFound):
		return "that room no longer exists"
	case errors.Is(err, service.ErrRoomFull):
		return "that room is already full"
	case errors.Is(err, service.ErrAlreadyMember):
		return "you are already in that room"
	case errors.Is(err, service.ErrNotMember):
		return "you are not in that room"
	case errors.Is(err, service.ErrRoomNotJoinable):
		return "that room is no longer recruiting"
	case errors.Is(err, service.ErrNotLeader):
		return "only the room leader can do that"
	default:
		return err.Error()
	}
}
