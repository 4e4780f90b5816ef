package service

import (
	"math"
	"sort"

	"github.com/tastien/teamup/internal/model"
)

// Match score component weights.
const (
	powerWeight      = 0.4
	timeWeight       = 0.3
	professionWeight = 0.2
	reputationWeight = 0.1
)

// DefaultRecommendLimit caps how many rooms a recommendation returns.
const DefaultRecommendLimit = 10

// PowerMatch scores how well a player's combat power covers a requirement,
// in [0,1]. Below the requirement scores 0; double the requirement or more
// scores 1; in between the score ramps linearly.
func PowerMatch(userPower, requiredPower int) float64 {
	if requiredPower <= 0 {
		return 1
	}
	if userPower < requiredPower {
		return 0
	}
	if userPower >= 2*requiredPower {
		return 1
	}
	return float64(userPower-requiredPower) / float64(requiredPower)
}

// TimeMatch returns the fraction of room slots that overlap at least one of
// the user's slots, in [0,1]. No room slots means no basis to match: 0.
func TimeMatch(userSlots, roomSlots []model.TimeSlot) float64 {
	if len(roomSlots) == 0 {
		return 0
	}
	matched := 0
	for _, roomSlot := range roomSlots {
		for _, userSlot := range userSlots {
			if roomSlot.Overlaps(userSlot) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(roomSlots))
}

// MatchingService computes compatibility between players and rooms.
type MatchingService struct {
	recommendLimit int
}

// MatchingServiceConfig holds configuration for the matching service.
type MatchingServiceConfig struct {
	RecommendLimit int // optional, defaults to DefaultRecommendLimit
}

// NewMatchingService creates a new matching service.
func NewMatchingService(cfg MatchingServiceConfig) *MatchingService {
	limit := cfg.RecommendLimit
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}
	return &MatchingService{recommendLimit: limit}
}

// CalculateMatchScore scores a player against a room in [0,1] as a weighted
// sum: power 40%, schedule 30%, profession fit 20%, reputation 10%.
func (s *MatchingService) CalculateMatchScore(user model.UserProfile, room model.TeamRoom) float64 {
	score := PowerMatch(user.CombatPower, room.Requirements.MinCombatPower) * powerWeight
	score += TimeMatch(user.AvailableTime, room.Schedule.TimeSlots) * timeWeight
	score += professionScore(user.Profession, room) * professionWeight
	score += user.Reputation.Overall / 100 * reputationWeight
	return math.Min(score, 1.0)
}

// professionScore rates how a profession fits the room's composition. A
// declared preference dominates; otherwise over-represented professions
// score low and under-represented ones slightly above neutral.
func professionScore(p model.Profession, room model.TeamRoom) float64 {
	if len(room.Requirements.PreferredProfessions) == 0 {
		return 0.5
	}
	for _, preferred := range room.Requirements.PreferredProfessions {
		if preferred == p {
			return 1.0
		}
	}
	if room.ProfessionCount(p) >= 2 {
		return 0.3
	}
	return 0.6
}

// RecommendRooms returns the best-matching joinable rooms for the user,
// highest score first, at most the configured limit. Only recruiting rooms
// with open slots whose power floor the user meets are considered. Ties
// keep the input order.
func (s *MatchingService) RecommendRooms(user model.UserProfile, rooms []model.TeamRoom) []model.TeamRoom {
	type scored struct {
		room  model.TeamRoom
		score float64
	}

	candidates := make([]scored, 0, len(rooms))
	for _, room := range rooms {
		if room.Status != model.TeamStatusRecruiting || room.IsFull() {
			continue
		}
		if user.CombatPower < room.Requirements.MinCombatPower {
			continue
		}
		candidates = append(candidates, scored{room: room, score: s.CalculateMatchScore(user, room)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > s.recommendLimit {
		candidates = candidates[:s.recommendLimit]
	}

	out := make([]model.TeamRoom, len(candidates))
	for i, c := range candidates {
		out[i] = c.room
	}
	return out
}

// TeamPowerReport summarizes a team's combat power and estimated odds.
type TeamPowerReport struct {
	AveragePower int     `json:"averagePower"`
	MinPower     int     `json:"minPower"`
	MaxPower     int     `json:"maxPower"`
	SuccessRate  float64 `json:"successRate"`
}

// EvaluateTeamPower aggregates member combat power and estimates the
// success rate against the activity's power floor. A team whose weakest
// member is below the floor has no estimated chance. The base rate is 80%
// of the average-to-floor ratio, capped at 1.0, plus a profession-diversity
// bonus of 5% per distinct profession up to 20%, capped again at 1.0.
func (s *MatchingService) EvaluateTeamPower(members []model.UserProfile, activity model.ActivityConfig) TeamPowerReport {
	if len(members) == 0 {
		return TeamPowerReport{}
	}

	sum := 0
	minPower := members[0].CombatPower
	maxPower := members[0].CombatPower
	professions := make(map[model.Profession]struct{})
	for _, m := range members {
		sum += m.CombatPower
		if m.CombatPower < minPower {
			minPower = m.CombatPower
		}
		if m.CombatPower > maxPower {
			maxPower = m.CombatPower
		}
		professions[m.Profession] = struct{}{}
	}
	average := float64(sum) / float64(len(members))

	successRate := 0.0
	if minPower >= activity.MinCombatPower && activity.MinCombatPower > 0 {
		successRate = math.Min(average/float64(activity.MinCombatPower)*0.8, 1.0)
		bonus := math.Min(float64(len(professions))*0.05, 0.2)
		successRate = math.Min(successRate+bonus, 1.0)
	}

	return TeamPowerReport{
		AveragePower: int(math.Round(average)),
		MinPower:     minPower,
		MaxPower:     maxPower,
		SuccessRate:  math.Round(successRate*100) / 100,
	}
}

// SuggestProfessionBalance recommends professions to fill the remaining
// slots. Teams of four or more want a tank and a support first, then up to
// two of each damage role; smaller teams want one of each missing role.
// Output order is deterministic for identical inputs.
func (s *MatchingService) SuggestProfessionBalance(currentMembers []model.UserProfile, maxMembers int) []model.Profession {
	counts := make(map[model.Profession]int, 4)
	for _, m := range currentMembers {
		counts[m.Profession]++
	}

	var suggestions []model.Profession
	if maxMembers >= 4 {
		if counts[model.ProfessionKnight] == 0 {
			suggestions = append(suggestions, model.ProfessionKnight)
		}
		if counts[model.ProfessionSage] == 0 {
			suggestions = append(suggestions, model.ProfessionSage)
		}
		if counts[model.ProfessionFighter] < 2 {
			suggestions = append(suggestions, model.ProfessionFighter)
		}
		if counts[model.ProfessionMage] < 2 {
			suggestions = append(suggestions, model.ProfessionMage)
		}
	} else {
		if counts[model.ProfessionSage] == 0 {
			suggestions = append(suggestions, model.ProfessionSage)
		}
		if counts[model.ProfessionFighter] == 0 {
			suggestions = append(suggestions, model.ProfessionFighter)
		}
		if counts[model.ProfessionMage] == 0 {
			suggestions = append(suggestions, model.ProfessionMage)
		}
	}

	remaining := maxMembers - len(currentMembers)
	if remaining < 0 {
		remaining = 0
	}
	if len(suggestions) > remaining {
		suggestions = suggestions[:remaining]
	}
	return suggestions
}

// OptimizeBatchCarry groups applicants into carry teams under a master.
// Applicants must meet the activity's power floor and overlap the proposed
// slot; qualifiers are ranked by reputation plus a small power term and
// split into teams of maxPlayers-1, the master's slot being reserved in
// each. Only as many teams as the master's capacity are emitted; applicants
// beyond capacity are dropped rather than queued.
func (s *MatchingService) OptimizeBatchCarry(master model.UserProfile, applicants []model.UserProfile, activity model.ActivityConfig, slot model.TimeSlot) [][]model.UserProfile {
	teamSize := activity.MaxPlayers - 1
	if teamSize <= 0 {
		return nil
	}

	valid := make([]model.UserProfile, 0, len(applicants))
	for _, a := range applicants {
		if a.CombatPower < activity.MinCombatPower {
			continue
		}
		if !model.AnyOverlap(a.AvailableTime, []model.TimeSlot{slot}) {
			continue
		}
		valid = append(valid, a)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return carryRank(valid[i]) > carryRank(valid[j])
	})

	capacity := masterCapacity(master, activity)
	teams := make([][]model.UserProfile, 0, capacity)
	for start := 0; start < len(valid) && len(teams) < capacity; start += teamSize {
		end := start + teamSize
		if end > len(valid) {
			end = len(valid)
		}
		teams = append(teams, valid[start:end])
	}
	return teams
}

// carryRank orders applicants: reputation dominates, combat power breaks
// close calls.
func carryRank(u model.UserProfile) float64 {
	return u.Reputation.Overall + float64(u.CombatPower)/1000
}

// masterCapacity is how many runs a master can lead: half the daily limit
// as a base, one extra per ten past carries, never above the daily limit.
func masterCapacity(master model.UserProfile, activity model.ActivityConfig) int {
	capacity := activity.DailyLimit/2 + master.Reputation.CarryCount/10
	if capacity > activity.DailyLimit {
		capacity = activity.DailyLimit
	}
	return capacity
}
