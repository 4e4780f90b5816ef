package model

import "time"

// Profession is one of the four fixed player roles.
type Profession string

const (
	ProfessionKnight  Profession = "knight"  // tank
	ProfessionFighter Profession = "fighter" // melee damage
	ProfessionMage    Profession = "mage"    // ranged damage
	ProfessionSage    Profession = "sage"    // support/heal
)

// AllProfessions returns every profession in a stable order.
func AllProfessions() []Profession {
	return []Profession{ProfessionKnight, ProfessionFighter, ProfessionMage, ProfessionSage}
}

// Valid reports whether p is a known profession.
func (p Profession) Valid() bool {
	switch p {
	case ProfessionKnight, ProfessionFighter, ProfessionMage, ProfessionSage:
		return true
	}
	return false
}

// PlayerType is the power-derived player tier.
type PlayerType string

const (
	PlayerTypeMaster PlayerType = "master"
	PlayerTypeNormal PlayerType = "normal"
	PlayerTypeNewbie PlayerType = "newbie"
)

// Combat power thresholds for player tiers.
const (
	MasterPowerThreshold = 150000
	NormalPowerThreshold = 80000
)

// Valid reports whether t is a known player type.
func (t PlayerType) Valid() bool {
	switch t {
	case PlayerTypeMaster, PlayerTypeNormal, PlayerTypeNewbie:
		return true
	}
	return false
}

// PlayerTypeFor derives the player tier from combat power.
func PlayerTypeFor(combatPower int) PlayerType {
	switch {
	case combatPower >= MasterPowerThreshold:
		return PlayerTypeMaster
	case combatPower >= NormalPowerThreshold:
		return PlayerTypeNormal
	default:
		return PlayerTypeNewbie
	}
}

// ReputationScore aggregates a player's standing from past runs.
// Ratings are on a 0-100 scale; counts are lifetime totals.
type ReputationScore struct {
	Overall            float64 `json:"overall"`
	Punctuality        float64 `json:"punctuality"`
	SkillMatch         float64 `json:"skillMatch"`
	Teamwork           float64 `json:"teamwork"`
	CarryCount         int     `json:"carryCount"`
	ParticipationCount int     `json:"participationCount"`
}

// UserPreferences holds per-player matchmaking preferences.
type UserPreferences struct {
	AutoJoin            bool           `json:"autoJoin"`
	Notifications       bool           `json:"notifications"`
	PreferredActivities []ActivityType `json:"preferredActivities,omitempty"`
}

// UserProfile is a player as stored in the shared document.
type UserProfile struct {
	ID            string          `json:"id"`
	GameID        string          `json:"gameId"`
	Profession    Profession      `json:"profession"`
	CombatPower   int             `json:"combatPower"`
	PlayerType    PlayerType      `json:"playerType"`
	AvailableTime []TimeSlot      `json:"availableTime,omitempty"`
	Preferences   UserPreferences `json:"preferences"`
	Reputation    ReputationScore `json:"reputation"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastActive    time.Time       `json:"lastActive"`
}

// Clone returns a deep copy of the profile.
func (u UserProfile) Clone() UserProfile {
	c := u
	if u.AvailableTime != nil {
		c.AvailableTime = append([]TimeSlot(nil), u.AvailableTime...)
	}
	if u.Preferences.PreferredActivities != nil {
		c.Preferences.PreferredActivities = append([]ActivityType(nil), u.Preferences.PreferredActivities...)
	}
	return c
}
