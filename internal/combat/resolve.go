package combat

import (
	"fmt"
	"time"

	"crimecity-server/internal/location"
	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/random"
)

// Outcome is the in-memory result of one resolved fight. The attacker and
// defender entities passed to Resolve carry the stat mutations; the caller
// persists them along with a Combat row built from this outcome.
type Outcome struct {
	AttackerWon      bool
	Damage           int
	CashStolen       int64
	ExperienceGained int
	Log              []string
	ResultMessage    string
}

// CheckPreconditions validates an attack without mutating anything. The
// checks run in a fixed order and the first failure is the one reported:
// attacker energy, attacker free, defender free, safe zone.
func CheckPreconditions(attacker, defender *player.Player, loc *location.Location) error {
	if attacker.Energy < AttackEnergyCost {
		return errors.Validation("Not enough energy to attack")
	}

	if attacker.IsDetained() {
		return errors.Validation("You cannot attack while in hospital or jail")
	}

	if defender.IsDetained() {
		return errors.Validation("You cannot attack a player who is in hospital or jail")
	}

	if loc != nil && loc.IsSafeZone {
		return errors.Validation("You cannot attack in a safe zone")
	}

	return nil
}

// Resolve runs one fight to completion, mutating both players in memory.
// The energy cost comes off the attacker before the dice are thrown; it is
// the price of attempting, not of winning. attackerGear and defenderGear
// are the summed attack and defense power of each side's equipped items.
func Resolve(attacker, defender *player.Player, attackerGear, defenderGear int, rng random.Source, now time.Time) *Outcome {
	attacker.Energy -= AttackEnergyCost

	out := &Outcome{}
	out.logf("%s attacks %s!", attacker.Username, defender.Username)

	attackValue := attacker.Strength*2 + attacker.Dexterity + attacker.Speed + attackerGear
	defenseValue := defender.Defense*2 + defender.Dexterity + defender.Speed + defenderGear

	attackValue += random.IntBetween(rng, 1, 20)
	defenseValue += random.IntBetween(rng, 1, 20)

	out.logf("%s attack value: %d", attacker.Username, attackValue)
	out.logf("%s defense value: %d", defender.Username, defenseValue)

	if attackValue > defenseValue {
		out.AttackerWon = true
		out.Damage = max(5, (attackValue-defenseValue)/2)

		defender.Health -= out.Damage
		out.logf("%s hits for %d damage!", attacker.Username, out.Damage)

		if defender.Health <= 0 {
			defender.Health = 0
			defender.Hospitalize(now.Add(winnerHospitalMinutes * time.Minute))
			out.logf("%s has been hospitalized!", defender.Username)

			// A knockout lets the attacker lift 10-20% of on-hand cash
			stealFraction := random.FloatBetween(rng, 0.10, 0.20)
			out.CashStolen = int64(float64(defender.Cash) * stealFraction)
			if out.CashStolen > 0 {
				defender.Cash -= out.CashStolen
				attacker.Cash += out.CashStolen
				out.logf("%s stole $%d!", attacker.Username, out.CashStolen)
			}
		}

		out.ExperienceGained = 10 + defender.Level*2
		attacker.GainExperience(out.ExperienceGained)
		out.logf("%s gained %d experience!", attacker.Username, out.ExperienceGained)

		out.ResultMessage = fmt.Sprintf("You won the fight against %s!", defender.Username)
		return out
	}

	// Ties go to the defender
	out.Damage = max(3, (defenseValue-attackValue)/3)

	attacker.Health -= out.Damage
	out.logf("%s counters for %d damage!", defender.Username, out.Damage)

	if attacker.Health <= 0 {
		attacker.Health = 0
		attacker.Hospitalize(now.Add(loserHospitalMinutes * time.Minute))
		out.logf("%s has been hospitalized!", attacker.Username)
	}

	defenderExp := 5 + attacker.Level
	defender.GainExperience(defenderExp)
	out.logf("%s gained %d experience from defending!", defender.Username, defenderExp)

	out.ResultMessage = fmt.Sprintf("You lost the fight against %s!", defender.Username)
	return out
}

func (o *Outcome) logf(format string, args ...interface{}) {
	o.Log = append(o.Log, fmt.Sprintf(format, args...))
}
