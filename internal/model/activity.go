package model

// ActivityType classifies the cooperative activities players team up for.
type ActivityType string

const (
	ActivityDungeon    ActivityType = "dungeon"
	ActivityBeastTrial ActivityType = "beast_trial"
	ActivityTowerClimb ActivityType = "tower_climb"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityDungeon, ActivityBeastTrial, ActivityTowerClimb:
		return true
	}
	return false
}

// Difficulty is one rung of an activity's difficulty ladder.
type Difficulty struct {
	Level          string   `json:"level"`
	MinCombatPower int      `json:"minCombatPower"`
	Rewards        []string `json:"rewards,omitempty"`
}

// ActivityConfig is a static catalog entry describing one activity.
// Instances are immutable reference data; rooms embed a snapshot of the
// config they were created against.
type ActivityConfig struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Type           ActivityType `json:"type"`
	MaxPlayers     int          `json:"maxPlayers"`
	MinCombatPower int          `json:"minCombatPower"`
	DailyLimit     int          `json:"dailyLimit"`
	Duration       int          `json:"duration"` // expected run time in minutes
	Difficulties   []Difficulty `json:"difficulties,omitempty"`
}

// DifficultyByLevel looks up a difficulty rung by its level name.
func (a ActivityConfig) DifficultyByLevel(level string) (Difficulty, bool) {
	for _, d := range a.Difficulties {
		if d.Level == level {
			return d, true
		}
	}
	return Difficulty{}, false
}

// Clone returns a deep copy of the config.
func (a ActivityConfig) Clone() ActivityConfig {
	c := a
	if a.Difficulties != nil {
		c.Difficulties = make([]Difficulty, len(a.Difficulties))
		for i, d := range a.Difficulties {
			c.Difficulties[i] = d
			if d.Rewards != nil {
				c.Difficulties[i].Rewards = append([]string(nil), d.Rewards...)
			}
		}
	}
	return c
}
