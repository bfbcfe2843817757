package model

// DefaultGradeID is the grade level a new player starts at.
const DefaultGradeID = 3

// battleEvery is how many completed challenges unlock a monster battle.
const battleEvery = 5

// Profile is the player's persistent state. The canvas only ever sees the
// Inventory; the rest belongs to the problem-solving side of the game.
type Profile struct {
	GradeID             int       `json:"grade_id"`
	Inventory           Inventory `json:"inventory"`
	ChallengesCompleted int       `json:"challenges_completed"`
	PendingBattles      int       `json:"pending_battles"`
}

// NewProfile returns a starting profile for the given catalog.
func NewProfile(cat *Catalog) Profile {
	return Profile{
		GradeID:   DefaultGradeID,
		Inventory: cat.StartingInventory(),
	}
}

// AwardRewards credits the blocks earned from a completed challenge and
// counts the completion. Every fifth ordinary challenge queues a monster
// battle; finishing a monster battle consumes one.
func (p Profile) AwardRewards(rewards map[ObjectType]int, monsterBattle bool) Profile {
	inv := p.Inventory
	for t, n := range rewards {
		if n > 0 {
			inv = inv.Add(t, n)
		}
	}
	p.Inventory = inv
	p.ChallengesCompleted++
	if monsterBattle {
		if p.PendingBattles > 0 {
			p.PendingBattles--
		}
	} else if p.ChallengesCompleted%battleEvery == 0 {
		p.PendingBattles++
	}
	return p
}
