package combat

import (
	"strings"
	"testing"
	"time"

	"crimecity-server/internal/location"
	"crimecity-server/internal/player"
)

// scriptedSource replays fixed dice so a fight resolves the same way
// every run. Intn pops from ints, Float64 from floats.
type scriptedSource struct {
	ints   []int
	floats []float64
}

func (s *scriptedSource) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestCheckPreconditionsOrder(t *testing.T) {
	safe := &location.Location{IsSafeZone: true}

	tests := []struct {
		name     string
		attacker *player.Player
		defender *player.Player
		loc      *location.Location
		want     string
	}{
		{
			name:     "no energy",
			attacker: &player.Player{Energy: 4, InJail: true},
			defender: &player.Player{InHospital: true},
			loc:      safe,
			want:     "Not enough energy to attack",
		},
		{
			name:     "attacker detained",
			attacker: &player.Player{Energy: 10, InJail: true},
			defender: &player.Player{InHospital: true},
			loc:      safe,
			want:     "You cannot attack while in hospital or jail",
		},
		{
			name:     "defender detained",
			attacker: &player.Player{Energy: 10},
			defender: &player.Player{InHospital: true},
			loc:      safe,
			want:     "You cannot attack a player who is in hospital or jail",
		},
		{
			name:     "safe zone",
			attacker: &player.Player{Energy: 10},
			defender: &player.Player{},
			loc:      safe,
			want:     "You cannot attack in a safe zone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPreconditions(tt.attacker, tt.defender, tt.loc)
			if err == nil || err.Error() != tt.want {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}

	ok := CheckPreconditions(&player.Player{Energy: 10}, &player.Player{}, &location.Location{})
	if ok != nil {
		t.Errorf("valid attack rejected: %v", ok)
	}
}

func TestResolveAttackerWinsNoKnockout(t *testing.T) {
	attacker := &player.Player{
		Username: "alice", Level: 1, Energy: 10,
		Strength: 10, Dexterity: 5, Speed: 5,
		MaxEnergy: 100, MaxHealth: 100, Health: 100,
	}
	defender := &player.Player{
		Username: "bob", Level: 1,
		Defense: 2, Dexterity: 2, Speed: 2,
		MaxHealth: 100, Health: 100,
	}

	// Attack roll 20 (Intn 19 + 1), defense roll 1 (Intn 0 + 1).
	rng := &scriptedSource{ints: []int{19, 0}}
	out := Resolve(attacker, defender, 0, 0, rng, testNow())

	if !out.AttackerWon {
		t.Fatal("attacker should win")
	}
	if attacker.Energy != 5 {
		t.Errorf("attacker energy = %d, want 5", attacker.Energy)
	}
	// attack 2*10+5+5+20 = 50, defense 2*2+2+2+1 = 9, damage (50-9)/2 = 20
	if out.Damage != 20 {
		t.Errorf("damage = %d, want 20", out.Damage)
	}
	if defender.Health != 80 {
		t.Errorf("defender health = %d, want 80", defender.Health)
	}
	if defender.InHospital {
		t.Error("defender hospitalized above zero health")
	}
	if out.CashStolen != 0 {
		t.Errorf("cash stolen = %d, want 0 without a knockout", out.CashStolen)
	}
	if out.ExperienceGained != 12 {
		t.Errorf("experience = %d, want 12", out.ExperienceGained)
	}
	if out.ResultMessage != "You won the fight against bob!" {
		t.Errorf("result message = %q", out.ResultMessage)
	}
}

func TestResolveKnockoutStealsCash(t *testing.T) {
	attacker := &player.Player{
		Username: "alice", Level: 1, Energy: 10, Cash: 50,
		Strength: 10, Dexterity: 5, Speed: 5,
		MaxEnergy: 100, MaxHealth: 100, Health: 100,
	}
	defender := &player.Player{
		Username: "bob", Level: 1, Cash: 1000,
		Defense: 2, Dexterity: 2, Speed: 2,
		MaxHealth: 100, Health: 10,
	}
	totalCash := attacker.Cash + defender.Cash

	// Rolls as above; steal fraction 0.10 + 0.5*0.10 = 0.15.
	rng := &scriptedSource{ints: []int{19, 0}, floats: []float64{0.5}}
	out := Resolve(attacker, defender, 0, 0, rng, testNow())

	if defender.Health != 0 {
		t.Errorf("defender health = %d, want 0", defender.Health)
	}
	if !defender.InHospital {
		t.Fatal("knocked out defender should be hospitalized")
	}
	if want := testNow().Add(30 * time.Minute); !defender.HospitalReleaseAt.Equal(want) {
		t.Errorf("hospital release = %v, want %v", defender.HospitalReleaseAt, want)
	}
	if out.CashStolen != 150 {
		t.Errorf("cash stolen = %d, want 150", out.CashStolen)
	}
	if attacker.Cash != 200 || defender.Cash != 850 {
		t.Errorf("cash = %d/%d, want 200/850", attacker.Cash, defender.Cash)
	}
	if attacker.Cash+defender.Cash != totalCash {
		t.Error("theft should move cash, not create it")
	}

	joined := strings.Join(out.Log, "\n")
	if !strings.Contains(joined, "alice stole $150!") {
		t.Errorf("log missing steal line:\n%s", joined)
	}
}

func TestResolveTieGoesToDefender(t *testing.T) {
	attacker := &player.Player{
		Username: "alice", Level: 4, Energy: 10,
		Strength: 1, Dexterity: 1, Speed: 1,
		MaxEnergy: 100, MaxHealth: 100, Health: 100,
	}
	defender := &player.Player{
		Username: "bob", Level: 1,
		Defense: 1, Dexterity: 1, Speed: 1,
		MaxHealth: 100, Health: 100,
	}

	// Equal totals with equal rolls: 2+1+1+10 on both sides.
	rng := &scriptedSource{ints: []int{9, 9}}
	out := Resolve(attacker, defender, 0, 0, rng, testNow())

	if out.AttackerWon {
		t.Fatal("tie should go to the defender")
	}
	// Counter damage floors at 3.
	if out.Damage != 3 {
		t.Errorf("damage = %d, want 3", out.Damage)
	}
	if attacker.Health != 97 {
		t.Errorf("attacker health = %d, want 97", attacker.Health)
	}
	if out.ExperienceGained != 0 {
		t.Errorf("outcome experience = %d, want 0 on a loss", out.ExperienceGained)
	}
	// Defender still earns 5 + attacker level.
	if defender.Experience != 9 {
		t.Errorf("defender experience = %d, want 9", defender.Experience)
	}
	if out.ResultMessage != "You lost the fight against bob!" {
		t.Errorf("result message = %q", out.ResultMessage)
	}
}

func TestResolveGearSwingsTheFight(t *testing.T) {
	base := func() (*player.Player, *player.Player) {
		a := &player.Player{
			Username: "alice", Level: 1, Energy: 10,
			Strength: 2, Dexterity: 2, Speed: 2,
			MaxEnergy: 100, MaxHealth: 100, Health: 100,
		}
		d := &player.Player{
			Username: "bob", Level: 1,
			Defense: 2, Dexterity: 2, Speed: 2,
			MaxHealth: 100, Health: 100,
		}
		return a, d
	}

	a, d := base()
	out := Resolve(a, d, 0, 0, &scriptedSource{ints: []int{9, 9}}, testNow())
	if out.AttackerWon {
		t.Fatal("unarmed mirror match should go to the defender")
	}

	a, d = base()
	out = Resolve(a, d, 15, 0, &scriptedSource{ints: []int{9, 9}}, testNow())
	if !out.AttackerWon {
		t.Fatal("weapon advantage should win the mirror match")
	}
}
