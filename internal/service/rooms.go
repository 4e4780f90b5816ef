package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tastien/teamup/internal/model"
)

// DefaultExpiryWindow is how long a room stays visible after creation.
const DefaultExpiryWindow = 24 * time.Hour

// RoomStore defines the synchronizer interface the room service persists
// through.
type RoomStore interface {
	Rooms(ctx context.Context) ([]model.TeamRoom, error)
	Mutate(ctx context.Context, mutate func(doc *model.RoomsDocument) error) error
}

// RoomService applies lifecycle operations to rooms in the shared document.
type RoomService struct {
	store  RoomStore
	expiry time.Duration
	now    func() time.Time
	newID  func() string
}

// RoomServiceConfig holds configuration for the room service.
type RoomServiceConfig struct {
	Store        RoomStore
	ExpiryWindow time.Duration    // optional, defaults to DefaultExpiryWindow
	Now          func() time.Time // optional, for tests
	NewID        func() string    // optional, for tests
}

// NewRoomService creates a new room service.
func NewRoomService(cfg RoomServiceConfig) *RoomService {
	expiry := cfg.ExpiryWindow
	if expiry <= 0 {
		expiry = DefaultExpiryWindow
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}
	return &RoomService{store: cfg.Store, expiry: expiry, now: now, newID: newID}
}

// CreateRoomRequest carries everything needed to open a room. The activity
// is embedded as a snapshot of the catalog entry the room was created
// against.
type CreateRoomRequest struct {
	Title        string                 `json:"title"`
	Activity     model.ActivityConfig   `json:"activity"`
	Difficulty   string                 `json:"difficulty"`
	Leader       model.UserProfile      `json:"leader"`
	MaxMembers   int                    `json:"maxMembers"`
	Requirements model.TeamRequirements `json:"requirements"`
	Schedule     model.TeamSchedule     `json:"schedule"`
	Mode         model.TeamMode         `json:"mode"`
}

// Validate checks the request before any I/O happens.
func (r CreateRoomRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrTitleRequired
	}
	if r.Activity.ID == "" {
		return ErrActivityRequired
	}
	if r.Difficulty == "" {
		return ErrDifficultyRequired
	}
	if _, ok := r.Activity.DifficultyByLevel(r.Difficulty); !ok {
		return ErrUnknownDifficulty
	}
	if r.MaxMembers <= 0 {
		return ErrInvalidMaxMembers
	}
	if r.Activity.MaxPlayers > 0 && r.MaxMembers > r.Activity.MaxPlayers {
		return ErrTooManyMembers
	}
	if r.Mode != "" && !r.Mode.Valid() {
		return ErrInvalidMode
	}
	return ValidateUser(r.Leader)
}

// ValidateUser checks the structural validity of a user profile.
func ValidateUser(u model.UserProfile) error {
	if u.ID == "" {
		return ErrUserRequired
	}
	if strings.TrimSpace(u.GameID) == "" {
		return ErrGameIDRequired
	}
	if !u.Profession.Valid() {
		return ErrInvalidProfession
	}
	if u.CombatPower <= 0 {
		return ErrInvalidCombatPower
	}
	return nil
}

// ListRooms returns the current room list with soft-expired rooms dropped.
// Expiry is derived from CreatedAt at read time and never persisted.
func (s *RoomService) ListRooms(ctx context.Context) ([]model.TeamRoom, error) {
	rooms, err := s.store.Rooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	now := s.now().UTC()
	fresh := make([]model.TeamRoom, 0, len(rooms))
	for _, room := range rooms {
		if !room.ExpiredAt(now, s.expiry) {
			fresh = append(fresh, room)
		}
	}
	return fresh, nil
}

// CreateRoom validates the request, builds the room with the leader as its
// first member, and appends it to the shared document.
func (s *RoomService) CreateRoom(ctx context.Context, req CreateRoomRequest) (model.TeamRoom, error) {
	if err := req.Validate(); err != nil {
		return model.TeamRoom{}, err
	}

	now := s.now().UTC()
	mode := req.Mode
	if mode == "" {
		mode = model.TeamModeEqual
	}
	leader := req.Leader.Clone()
	leader.PlayerType = model.PlayerTypeFor(leader.CombatPower)

	room := model.TeamRoom{
		ID:         s.newID(),
		Title:      strings.TrimSpace(req.Title),
		Activity:   req.Activity.Clone(),
		Difficulty: req.Difficulty,
		Leader:     leader,
		Members: []model.TeamMember{{
			User:     leader,
			JoinedAt: now,
			Status:   model.MemberStatusActive,
		}},
		MaxMembers:   req.MaxMembers,
		Requirements: req.Requirements,
		Schedule:     req.Schedule,
		Status:       model.TeamStatusRecruiting,
		Mode:         mode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.store.Mutate(ctx, func(doc *model.RoomsDocument) error {
		doc.Rooms = append(doc.Rooms, room.Clone())
		return nil
	})
	if err != nil {
		return model.TeamRoom{}, fmt.Errorf("create room %s: %w", room.ID, err)
	}

	slog.Info("room created",
		slog.String("room_id", room.ID),
		slog.String("activity", room.Activity.ID),
		slog.String("leader", leader.ID),
	)
	return room, nil
}

// JoinRoom adds the user to the room, flipping it to FULL when the last
// slot fills.
func (s *RoomService) JoinRoom(ctx context.Context, roomID string, user model.UserProfile) error {
	if err := ValidateUser(user); err != nil {
		return err
	}

	err := s.store.Mutate(ctx, func(doc *model.RoomsDocument) error {
		idx := doc.FindRoom(roomID)
		if idx < 0 {
			return ErrRoomNotFound
		}
		next, err := ApplyJoin(doc.Rooms[idx], user, s.now().UTC())
		if err != nil {
			return err
		}
		doc.Rooms[idx] = next
		return nil
	})
	if err != nil {
		return fmt.Errorf("join room %s: %w", roomID, err)
	}
	return nil
}

// LeaveRoom removes the user from the room. The leader leaving cancels the
// room instead.
func (s *RoomService) LeaveRoom(ctx context.Context, roomID, userID string) error {
	if userID == "" {
		return ErrUserRequired
	}

	err := s.store.Mutate(ctx, func(doc *model.RoomsDocument) error {
		idx := doc.FindRoom(roomID)
		if idx < 0 {
			return ErrRoomNotFound
		}
		next, err := ApplyLeave(doc.Rooms[idx], userID, s.now().UTC())
		if err != nil {
			return err
		}
		doc.Rooms[idx] = next
		return nil
	})
	if err != nil {
		return fmt.Errorf("leave room %s: %w", roomID, err)
	}
	return nil
}

// DeleteRoom removes the room from the document entirely. Only the leader
// may delete a room.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID, actorID string) error {
	if actorID == "" {
		return ErrUserRequired
	}

	err := s.store.Mutate(ctx, func(doc *model.RoomsDocument) error {
		idx := doc.FindRoom(roomID)
		if idx < 0 {
			return ErrRoomNotFound
		}
		if doc.Rooms[idx].Leader.ID != actorID {
			return ErrNotLeader
		}
		doc.Rooms = append(doc.Rooms[:idx], doc.Rooms[idx+1:]...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete room %s: %w", roomID, err)
	}

	slog.Info("room deleted", slog.String("room_id", roomID), slog.String("actor", actorID))
	return nil
}
