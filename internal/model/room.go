package model

import "time"

// TeamStatus is the room lifecycle state.
//
// Rooms move RECRUITING -> FULL -> IN_PROGRESS -> COMPLETED; CANCELLED is
// terminal and reachable from any non-terminal state.
type TeamStatus string

const (
	TeamStatusRecruiting TeamStatus = "recruiting"
	TeamStatusFull       TeamStatus = "full"
	TeamStatusInProgress TeamStatus = "in_progress"
	TeamStatusCompleted  TeamStatus = "completed"
	TeamStatusCancelled  TeamStatus = "cancelled"
)

// Valid reports whether s is a known team status.
func (s TeamStatus) Valid() bool {
	switch s {
	case TeamStatusRecruiting, TeamStatusFull, TeamStatusInProgress, TeamStatusCompleted, TeamStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions may leave s.
func (s TeamStatus) Terminal() bool {
	return s == TeamStatusCompleted || s == TeamStatusCancelled
}

// TeamMode distinguishes carry teams (one high-power master leading) from
// equal teams.
type TeamMode string

const (
	TeamModeCarry TeamMode = "carry"
	TeamModeEqual TeamMode = "equal"
)

// Valid reports whether m is a known team mode.
func (m TeamMode) Valid() bool {
	return m == TeamModeCarry || m == TeamModeEqual
}

// MemberStatus is a member's standing within a room.
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusPending MemberStatus = "pending"
	MemberStatusOffline MemberStatus = "offline"
)

// TeamRequirements are the entry conditions a room imposes on joiners.
type TeamRequirements struct {
	MinCombatPower       int          `json:"minCombatPower"`
	PreferredProfessions []Profession `json:"preferredProfessions,omitempty"`
	PlayerTypes          []PlayerType `json:"playerTypes,omitempty"`
}

// TeamSchedule holds when the room intends to run.
type TeamSchedule struct {
	TimeSlots     []TimeSlot `json:"timeSlots,omitempty"`
	PreferredTime string     `json:"preferredTime,omitempty"`
	IsFlexible    bool       `json:"isFlexible"`
}

// TeamMember is one player's membership in a room.
type TeamMember struct {
	User     UserProfile  `json:"user"`
	JoinedAt time.Time    `json:"joinedAt"`
	Status   MemberStatus `json:"status"`
	Role     string       `json:"role,omitempty"`
}

// TeamRoom is one team being assembled for an activity attempt.
//
// Invariants: Members[0] is always the leader; len(Members) <= MaxMembers;
// the leader is never removed except by cancellation or deletion of the
// whole room.
type TeamRoom struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Activity     ActivityConfig   `json:"activity"`
	Difficulty   string           `json:"difficulty"`
	Leader       UserProfile      `json:"leader"`
	Members      []TeamMember     `json:"members"`
	MaxMembers   int              `json:"maxMembers"`
	Requirements TeamRequirements `json:"requirements"`
	Schedule     TeamSchedule     `json:"schedule"`
	Status       TeamStatus       `json:"status"`
	Mode         TeamMode         `json:"mode"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// HasMember reports whether the given user is currently in the room.
func (r TeamRoom) HasMember(userID string) bool {
	for _, m := range r.Members {
		if m.User.ID == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the room has no open slots.
func (r TeamRoom) IsFull() bool {
	return len(r.Members) >= r.MaxMembers
}

// OpenSlots returns the number of remaining member slots.
func (r TeamRoom) OpenSlots() int {
	if n := r.MaxMembers - len(r.Members); n > 0 {
		return n
	}
	return 0
}

// ProfessionCount returns how many current members play the profession.
func (r TeamRoom) ProfessionCount(p Profession) int {
	n := 0
	for _, m := range r.Members {
		if m.User.Profession == p {
			n++
		}
	}
	return n
}

// ExpiredAt reports whether the room is past its soft-expiry window at the
// given instant. Expiry is derived at read time, never persisted, so clock
// skew between clients cannot leave a room stuck in an expired status.
func (r TeamRoom) ExpiredAt(now time.Time, window time.Duration) bool {
	return now.Sub(r.CreatedAt) > window
}

// Clone returns a deep copy of the room.
func (r TeamRoom) Clone() TeamRoom {
	c := r
	c.Activity = r.Activity.Clone()
	c.Leader = r.Leader.Clone()
	if r.Members != nil {
		c.Members = make([]TeamMember, len(r.Members))
		for i, m := range r.Members {
			c.Members[i] = m
			c.Members[i].User = m.User.Clone()
		}
	}
	if r.Requirements.PreferredProfessions != nil {
		c.Requirements.PreferredProfessions = append([]Profession(nil), r.Requirements.PreferredProfessions...)
	}
	if r.Requirements.PlayerTypes != nil {
		c.Requirements.PlayerTypes = append([]PlayerType(nil), r.Requirements.PlayerTypes...)
	}
	if r.Schedule.TimeSlots != nil {
		c.Schedule.TimeSlots = append([]TimeSlot(nil), r.Schedule.TimeSlots...)
	}
	return c
}

// RoomsDocument is the full content of the shared remote document. The
// whole document is the unit of read and write; there is no per-room
// addressability at the storage layer.
type RoomsDocument struct {
	Rooms       []TeamRoom `json:"rooms"`
	LastUpdated time.Time  `json:"lastUpdated"`
	Version     string     `json:"version"`
}

// FindRoom returns the index of the room with the given id, or -1.
func (d RoomsDocument) FindRoom(roomID string) int {
	for i := range d.Rooms {
		if d.Rooms[i].ID == roomID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the document.
func (d RoomsDocument) Clone() RoomsDocument {
	c := d
	if d.Rooms != nil {
		c.Rooms = make([]TeamRoom, len(d.Rooms))
		for i, r := range d.Rooms {
			c.Rooms[i] = r.Clone()
		}
	}
	return c
}
