// Package catalog provides the static activity catalog consumed at process
// start. Entries are immutable reference data; callers receive copies.
package catalog

import "github.com/tastien/teamup/internal/model"

var activities = []model.ActivityConfig{
	{
		ID:             "dungeon-normal",
		Name:           "Normal Dungeon",
		Type:           model.ActivityDungeon,
		MaxPlayers:     4,
		MinCombatPower: 50000,
		DailyLimit:     3,
		Duration:       30,
		Difficulties: []model.Difficulty{
			{Level: "easy", MinCombatPower: 50000, Rewards: []string{"XP Potion", "Gold"}},
			{Level: "hard", MinCombatPower: 80000, Rewards: []string{"Advanced Gear", "Rare Materials"}},
			{Level: "hell", MinCombatPower: 120000, Rewards: []string{"Legendary Gear", "Mythic Materials"}},
		},
	},
	{
		ID:             "beast-trial",
		Name:           "Sacred Beast Trial",
		Type:           model.ActivityBeastTrial,
		MaxPlayers:     6,
		MinCombatPower: 100000,
		DailyLimit:     2,
		Duration:       45,
		Difficulties: []model.Difficulty{
			{Level: "azure-dragon", MinCombatPower: 100000, Rewards: []string{"Dragon Essence", "Dragon Scale"}},
			{Level: "white-tiger", MinCombatPower: 120000, Rewards: []string{"Tiger Essence", "Tiger Bone"}},
			{Level: "vermilion-bird", MinCombatPower: 150000, Rewards: []string{"Bird Essence", "Phoenix Feather"}},
			{Level: "black-tortoise", MinCombatPower: 180000, Rewards: []string{"Tortoise Essence", "Tortoise Shell"}},
		},
	},
	{
		ID:             "tower-climb",
		Name:           "Duo Tower Climb",
		Type:           model.ActivityTowerClimb,
		MaxPlayers:     2,
		MinCombatPower: 60000,
		DailyLimit:     5,
		Duration:       20,
		Difficulties: []model.Difficulty{
			{Level: "floors-1-10", MinCombatPower: 60000, Rewards: []string{"Tower Coins", "XP"}},
			{Level: "floors-11-20", MinCombatPower: 80000, Rewards: []string{"Advanced Tower Coins", "Skill Book"}},
			{Level: "floors-21-30", MinCombatPower: 100000, Rewards: []string{"Rare Tower Coins", "Gear Enhancement Stone"}},
		},
	},
}

// Activities returns a copy of every catalog entry in a stable order.
func Activities() []model.ActivityConfig {
	out := make([]model.ActivityConfig, len(activities))
	for i, a := range activities {
		out[i] = a.Clone()
	}
	return out
}

// ByID looks up a catalog entry by its id.
func ByID(id string) (model.ActivityConfig, bool) {
	for _, a := range activities {
		if a.ID == id {
			return a.Clone(), true
		}
	}
	return model.ActivityConfig{}, false
}
