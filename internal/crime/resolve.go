package crime

import (
	"fmt"
	"time"

	"crimecity-server/internal/player"
	"crimecity-server/internal/shared/errors"
	"crimecity-server/internal/shared/random"
)

// SuccessChance computes the probability of a player pulling off a crime:
// the crime's base chance, plus each stat weighted by the crime's factor
// for it, plus up to 20% for out-leveling the requirement. The final value
// is clamped to [0.10, 0.95] so nothing is ever a sure thing.
func SuccessChance(p *player.Player, ct *CrimeType) float64 {
	chance := ct.BaseSuccessChance

	chance += float64(p.Strength) / 100 * ct.StrengthFactor
	chance += float64(p.Defense) / 100 * ct.DefenseFactor
	chance += float64(p.Speed) / 100 * ct.SpeedFactor
	chance += float64(p.Dexterity) / 100 * ct.DexterityFactor
	chance += float64(p.Intelligence) / 100 * ct.IntelligenceFactor

	if levelDiff := p.Level - ct.MinLevel; levelDiff > 0 {
		chance += min(0.20, float64(levelDiff)*0.02)
	}

	return max(0.10, min(0.95, chance))
}

// Outcome is the in-memory result of one attempt, with the notification
// the player should receive about it.
type Outcome struct {
	Result       string
	CashReward   int64
	ExpReward    int
	JailTime     int
	ItemRewardID *int

	NotifyTitle   string
	NotifyMessage string
	NotifyLevel   string
}

// Resolve runs one crime attempt, mutating the player in memory. Energy is
// deducted as soon as the requirement gates pass; it is spent whether or
// not the attempt pays off. itemName resolves a reward pool ID to a display
// name for the notification.
func Resolve(p *player.Player, ct *CrimeType, rng random.Source, now time.Time, itemName func(itemID int) string) (*Outcome, error) {
	if p.Level < ct.MinLevel {
		return nil, errors.Validationf("You need to be level %d to commit this crime.", ct.MinLevel)
	}

	if p.Energy < ct.EnergyCost {
		return nil, errors.Validationf("Not enough energy. You need %d but have %d.", ct.EnergyCost, p.Energy)
	}

	p.Energy -= ct.EnergyCost

	chance := SuccessChance(p, ct)
	succeeded := rng.Float64() <= chance
	caughtRoll := rng.Float64()

	out := &Outcome{}

	if succeeded {
		if caughtRoll <= ct.JailRisk {
			jail(p, ct, out, rng, now)
			out.NotifyTitle = "Busted!"
			out.NotifyMessage = "You committed the crime but got caught by law enforcement!"
			out.NotifyLevel = "danger"
			return out, nil
		}

		out.Result = ResultSuccess
		out.CashReward = int64(random.IntBetween(rng, int(ct.MinCashReward), int(ct.MaxCashReward)))
		out.ExpReward = random.IntBetween(rng, ct.MinExpReward, ct.MaxExpReward)

		p.Cash += out.CashReward
		p.GainExperience(out.ExpReward)

		if len(ct.RewardPool) > 0 && rng.Float64() <= ct.ItemRewardChance {
			id := ct.RewardPool[rng.Intn(len(ct.RewardPool))]
			out.ItemRewardID = &id
		}

		out.NotifyTitle = "Success!"
		out.NotifyMessage = fmt.Sprintf("Crime successful! You earned $%d and %d XP.", out.CashReward, out.ExpReward)
		if out.ItemRewardID != nil && itemName != nil {
			out.NotifyMessage += fmt.Sprintf(" You also found: %s!", itemName(*out.ItemRewardID))
		}
		out.NotifyLevel = "success"
		return out, nil
	}

	// Failing draws more attention than succeeding
	if caughtRoll <= ct.JailRisk*1.5 {
		jail(p, ct, out, rng, now)
		out.NotifyTitle = "Busted!"
		out.NotifyMessage = "You failed the crime and got caught by law enforcement!"
		out.NotifyLevel = "danger"
		return out, nil
	}

	out.Result = ResultFailed
	out.NotifyTitle = "Failed"
	out.NotifyMessage = "You failed to commit the crime but managed to escape without being noticed."
	out.NotifyLevel = "warning"
	return out, nil
}

func jail(p *player.Player, ct *CrimeType, out *Outcome, rng random.Source, now time.Time) {
	out.Result = ResultJailed
	out.JailTime = random.IntBetween(rng, ct.MinJailTime, ct.MaxJailTime)
	p.Jail(now.Add(time.Duration(out.JailTime) * time.Second))
}
