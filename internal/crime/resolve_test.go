package crime

import (
	"testing"
	"time"

	"crimecity-server/internal/player"
)

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

func flatCrime() *CrimeType {
	// Fixed rewards keep the resolution deterministic without dice.
	return &CrimeType{
		Name:              "Pickpocketing",
		MinLevel:          1,
		EnergyCost:        5,
		MinCashReward:     100,
		MaxCashReward:     100,
		MinExpReward:      10,
		MaxExpReward:      10,
		JailRisk:          0.5,
		MinJailTime:       60,
		MaxJailTime:       60,
		BaseSuccessChance: 0.5,
	}
}

func TestSuccessChanceClamps(t *testing.T) {
	p := &player.Player{Level: 1}

	high := flatCrime()
	high.BaseSuccessChance = 2.0
	if got := SuccessChance(p, high); got != 0.95 {
		t.Errorf("chance = %v, want clamp to 0.95", got)
	}

	low := flatCrime()
	low.BaseSuccessChance = -1.0
	if got := SuccessChance(p, low); got != 0.10 {
		t.Errorf("chance = %v, want clamp to 0.10", got)
	}
}

func TestSuccessChanceStatsAndLevelBonus(t *testing.T) {
	ct := flatCrime()
	ct.DexterityFactor = 0.5

	p := &player.Player{Level: 1, Dexterity: 20}
	// 0.5 base + 20/100*0.5 stat contribution.
	if got := SuccessChance(p, ct); got != 0.6 {
		t.Errorf("chance = %v, want 0.6", got)
	}

	// Level bonus is 2% per level above the requirement, capped at 20%.
	p = &player.Player{Level: 6}
	if got := SuccessChance(p, flatCrime()); got != 0.6 {
		t.Errorf("chance with level bonus = %v, want 0.6", got)
	}
	p = &player.Player{Level: 50}
	if got := SuccessChance(p, flatCrime()); got != 0.7 {
		t.Errorf("capped level bonus chance = %v, want 0.7", got)
	}
}

func TestResolveGates(t *testing.T) {
	p := &player.Player{Level: 1, Energy: 3}
	ct := flatCrime()
	ct.MinLevel = 5

	_, err := Resolve(p, ct, &scriptedSource{}, testNow(), nil)
	if err == nil || err.Error() != "You need to be level 5 to commit this crime." {
		t.Errorf("level gate error = %v", err)
	}

	ct.MinLevel = 1
	_, err = Resolve(p, ct, &scriptedSource{}, testNow(), nil)
	if err == nil || err.Error() != "Not enough energy. You need 5 but have 3." {
		t.Errorf("energy gate error = %v", err)
	}
	if p.Energy != 3 {
		t.Errorf("energy deducted on a failed gate: %d", p.Energy)
	}
}

func TestResolveSuccess(t *testing.T) {
	p := &player.Player{Level: 1, Energy: 10, MaxEnergy: 100, MaxHealth: 100}
	ct := flatCrime()

	// Success roll under the chance, caught roll over the jail risk.
	rng := &scriptedSource{floats: []float64{0.1, 0.9}}
	out, err := Resolve(p, ct, rng, testNow(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if out.Result != ResultSuccess {
		t.Fatalf("result = %q, want %q", out.Result, ResultSuccess)
	}
	if p.Energy != 5 {
		t.Errorf("energy = %d, want 5", p.Energy)
	}
	if out.CashReward != 100 || p.Cash != 100 {
		t.Errorf("cash reward = %d, player cash = %d, want 100/100", out.CashReward, p.Cash)
	}
	if out.ExpReward != 10 || p.Experience != 10 {
		t.Errorf("exp reward = %d, player exp = %d, want 10/10", out.ExpReward, p.Experience)
	}
	if out.ItemRewardID != nil {
		t.Error("item reward granted with an empty pool")
	}
	if out.NotifyMessage != "Crime successful! You earned $100 and 10 XP." {
		t.Errorf("notify message = %q", out.NotifyMessage)
	}
}

func TestResolveSuccessWithItemReward(t *testing.T) {
	p := &player.Player{Level: 1, Energy: 10, MaxEnergy: 100, MaxHealth: 100}
	ct := flatCrime()
	ct.ItemRewardChance = 0.5
	ct.RewardPool = []int{7, 8, 9}

	// Success, not caught, item roll under the chance, pool pick index 2.
	rng := &scriptedSource{floats: []float64{0.1, 0.9, 0.2}, ints: []int{2}}
	out, err := Resolve(p, ct, rng, testNow(), func(itemID int) string {
		if itemID != 9 {
			t.Errorf("itemName called with %d, want 9", itemID)
		}
		return "a crowbar"
	})
	if err != nil {
		t.Fatal(err)
	}

	if out.ItemRewardID == nil || *out.ItemRewardID != 9 {
		t.Fatalf("item reward = %v, want 9", out.ItemRewardID)
	}
	if out.NotifyMessage != "Crime successful! You earned $100 and 10 XP. You also found: a crowbar!" {
		t.Errorf("notify message = %q", out.NotifyMessage)
	}
}

func TestResolveSuccessButCaught(t *testing.T) {
	p := &player.Player{Level: 1, Energy: 10, MaxEnergy: 100, MaxHealth: 100}
	ct := flatCrime()

	rng := &scriptedSource{floats: []float64{0.1, 0.4}}
	out, err := Resolve(p, ct, rng, testNow(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if out.Result != ResultJailed {
		t.Fatalf("result = %q, want %q", out.Result, ResultJailed)
	}
	if out.JailTime != 60 {
		t.Errorf("jail time = %d, want 60", out.JailTime)
	}
	if !p.InJail {
		t.Fatal("player should be jailed")
	}
	if want := testNow().Add(60 * time.Second); !p.JailReleaseAt.Equal(want) {
		t.Errorf("jail release = %v, want %v", p.JailReleaseAt, want)
	}
	if p.Cash != 0 {
		t.Errorf("caught attempt should pay nothing, cash = %d", p.Cash)
	}
	if out.NotifyMessage != "You committed the crime but got caught by law enforcement!" {
		t.Errorf("notify message = %q", out.NotifyMessage)
	}
}

func TestResolveFailureCaughtAtRaisedRisk(t *testing.T) {
	p := &player.Player{Level: 1, Energy: 10, MaxEnergy: 100, MaxHealth: 100}
	ct := flatCrime()

	// Caught roll of 0.7 clears the 0.5 jail risk but not the 0.75
	// applied to a failed attempt.
	rng := &scriptedSource{floats: []float64{0.9, 0.7}}
	out, err := Resolve(p, ct, rng, testNow(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if out.Result != ResultJailed {
		t.Fatalf("result = %q, want %q", out.Result, ResultJailed)
	}
	if out.NotifyMessage != "You failed the crime and got caught by law enforcement!" {
		t.Errorf("notify message = %q", out.NotifyMessage)
	}
}

func TestResolveFailureEscapes(t *testing.T) {
	p := &player.Player{Level: 1, Energy: 10, MaxEnergy: 100, MaxHealth: 100}
	ct := flatCrime()

	rng := &scriptedSource{floats: []float64{0.9, 0.8}}
	out, err := Resolve(p, ct, rng, testNow(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if out.Result != ResultFailed {
		t.Fatalf("result = %q, want %q", out.Result, ResultFailed)
	}
	if p.InJail {
		t.Error("escaped player should not be jailed")
	}
	if p.Energy != 5 {
		t.Errorf("energy = %d, failure still costs the attempt", p.Energy)
	}
	if out.NotifyMessage != "You failed to commit the crime but managed to escape without being noticed." {
		t.Errorf("notify message = %q", out.NotifyMessage)
	}
}
