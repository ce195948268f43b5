package player

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func ParseRole(s string) Role {
	if s == "admin" {
		return RoleAdmin
	}
	return RoleUser
}

// Regeneration rates: one whole unit per interval, remainders carry over.
const (
	EnergyRegenInterval = 5 * time.Minute
	HealthRegenInterval = 10 * time.Minute
)

const TrainEnergyCost = 5

// Stat names accepted by TrainStat.
var TrainableStats = []string{"strength", "defense", "speed", "dexterity", "intelligence"}

// Player is a user's in-game character. Cash rides along on the character
// and can be stolen in combat; the bank balance cannot.
type Player struct {
	ID          int     `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Role        Role    `json:"role"`

	Level       int   `json:"level"`
	Experience  int   `json:"experience"`
	Cash        int64 `json:"cash"`
	BankBalance int64 `json:"bank_balance"`

	Strength     int `json:"strength"`
	Defense      int `json:"defense"`
	Speed        int `json:"speed"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`

	Energy    int `json:"energy"`
	MaxEnergy int `json:"max_energy"`
	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`

	LocationID *int `json:"current_location_id"`

	InHospital        bool       `json:"is_in_hospital"`
	HospitalReleaseAt *time.Time `json:"hospital_release_time"`
	InJail            bool       `json:"is_in_jail"`
	JailReleaseAt     *time.Time `json:"jail_release_time"`

	LastEnergyRefill time.Time `json:"last_energy_refill"`
	LastHealthRefill time.Time `json:"last_health_refill"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stat returns a named stat value, or 0 for unknown names.
func (p *Player) Stat(name string) int {
	switch name {
	case "strength":
		return p.Strength
	case "defense":
		return p.Defense
	case "speed":
		return p.Speed
	case "dexterity":
		return p.Dexterity
	case "intelligence":
		return p.Intelligence
	}
	return 0
}

func (p *Player) addStat(name string, delta int) {
	switch name {
	case "strength":
		p.Strength += delta
	case "defense":
		p.Defense += delta
	case "speed":
		p.Speed += delta
	case "dexterity":
		p.Dexterity += delta
	case "intelligence":
		p.Intelligence += delta
	}
}

// IsDetained reports whether the player is locked out of actions by being
// in hospital or jail.
func (p *Player) IsDetained() bool {
	return p.InHospital || p.InJail
}

// GainExperience adds experience and applies the shared level-up rule:
// while accumulated experience reaches level*100 the threshold is consumed,
// the level rises, max energy grows by 5, max health by 10, and both pools
// refill completely. A single large grant can cascade several levels.
// Returns the number of levels gained.
func (p *Player) GainExperience(amount int) int {
	p.Experience += amount

	levels := 0
	for p.Experience >= p.Level*100 {
		p.Experience -= p.Level * 100
		p.Level++
		p.MaxEnergy += 5
		p.MaxHealth += 10
		levels++
	}

	if levels > 0 {
		p.Energy = p.MaxEnergy
		p.Health = p.MaxHealth
	}

	return levels
}

// RegenerateEnergy applies whole-tick energy regeneration for the time
// elapsed since the last refill. The refill timestamp advances only by
// whole ticks so the sub-tick remainder keeps counting toward the next
// unit; repeated short calls regenerate exactly as much as one long one.
// Returns the energy gained.
func (p *Player) RegenerateEnergy(now time.Time) int {
	return regenerate(&p.Energy, p.MaxEnergy, &p.LastEnergyRefill, EnergyRegenInterval, now)
}

// RegenerateHealth is RegenerateEnergy for health at its slower rate.
func (p *Player) RegenerateHealth(now time.Time) int {
	return regenerate(&p.Health, p.MaxHealth, &p.LastHealthRefill, HealthRegenInterval, now)
}

func regenerate(current *int, max int, lastRefill *time.Time, interval time.Duration, now time.Time) int {
	elapsed := now.Sub(*lastRefill)
	if elapsed < interval {
		return 0
	}

	ticks := int(elapsed / interval)
	gain := max - *current
	if ticks < gain {
		gain = ticks
	}
	if gain < 0 {
		gain = 0
	}

	*current += gain
	// Whole ticks are consumed even when capped at max; only the sub-tick
	// remainder is preserved.
	*lastRefill = now.Add(-(elapsed % interval))

	return gain
}

// ReleaseIfDue clears hospital and jail status once their release times
// pass. Hospital release restores full health. Returns true if anything
// changed.
func (p *Player) ReleaseIfDue(now time.Time) bool {
	changed := false

	if p.InHospital && p.HospitalReleaseAt != nil && !now.Before(*p.HospitalReleaseAt) {
		p.InHospital = false
		p.HospitalReleaseAt = nil
		p.Health = p.MaxHealth
		changed = true
	}

	if p.InJail && p.JailReleaseAt != nil && !now.Before(*p.JailReleaseAt) {
		p.InJail = false
		p.JailReleaseAt = nil
		changed = true
	}

	return changed
}

// Hospitalize sets health to zero and detains the player until release.
func (p *Player) Hospitalize(release time.Time) {
	p.Health = 0
	p.InHospital = true
	p.HospitalReleaseAt = &release
}

// Jail detains the player until release.
func (p *Player) Jail(release time.Time) {
	p.InJail = true
	p.JailReleaseAt = &release
}
