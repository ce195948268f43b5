package player

import (
	"testing"
	"time"
)

func TestRegenerateEnergyKeepsRemainder(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &Player{
		Energy:           10,
		MaxEnergy:        100,
		LastEnergyRefill: start,
	}

	// 12 minutes is two whole ticks plus a 2 minute remainder.
	gained := p.RegenerateEnergy(start.Add(12 * time.Minute))
	if gained != 2 {
		t.Fatalf("gained = %d, want 2", gained)
	}
	if p.Energy != 12 {
		t.Errorf("energy = %d, want 12", p.Energy)
	}
	if want := start.Add(10 * time.Minute); !p.LastEnergyRefill.Equal(want) {
		t.Errorf("last refill = %v, want %v", p.LastEnergyRefill, want)
	}

	// Three more minutes completes the tick the remainder started.
	gained = p.RegenerateEnergy(start.Add(15 * time.Minute))
	if gained != 1 {
		t.Fatalf("second gain = %d, want 1", gained)
	}
	if p.Energy != 13 {
		t.Errorf("energy = %d, want 13", p.Energy)
	}
}

func TestRegenerateEnergyBelowOneTick(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &Player{
		Energy:           10,
		MaxEnergy:        100,
		LastEnergyRefill: start,
	}

	if gained := p.RegenerateEnergy(start.Add(4 * time.Minute)); gained != 0 {
		t.Fatalf("gained = %d, want 0", gained)
	}
	if !p.LastEnergyRefill.Equal(start) {
		t.Errorf("last refill moved despite no whole tick")
	}
}

func TestRegenerateEnergyCapsAtMax(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &Player{
		Energy:           98,
		MaxEnergy:        100,
		LastEnergyRefill: start,
	}

	// An hour's worth of ticks, but only two units of headroom.
	gained := p.RegenerateEnergy(start.Add(time.Hour))
	if gained != 2 {
		t.Fatalf("gained = %d, want 2", gained)
	}
	if p.Energy != 100 {
		t.Errorf("energy = %d, want 100", p.Energy)
	}
	// All whole ticks are consumed even at the cap.
	if want := start.Add(time.Hour); !p.LastEnergyRefill.Equal(want) {
		t.Errorf("last refill = %v, want %v", p.LastEnergyRefill, want)
	}
}

func TestRegenerateHealthSlowerInterval(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &Player{
		Health:           50,
		MaxHealth:        100,
		LastHealthRefill: start,
	}

	if gained := p.RegenerateHealth(start.Add(25 * time.Minute)); gained != 2 {
		t.Fatalf("gained = %d, want 2", gained)
	}
}

func TestGainExperienceCascadesLevels(t *testing.T) {
	p := &Player{
		Level:     1,
		MaxEnergy: 100,
		MaxHealth: 100,
		Energy:    3,
		Health:    40,
	}

	// 300 XP clears the 100 needed for level 2 and the 200 for level 3.
	levels := p.GainExperience(300)
	if levels != 2 {
		t.Fatalf("levels gained = %d, want 2", levels)
	}
	if p.Level != 3 {
		t.Errorf("level = %d, want 3", p.Level)
	}
	if p.Experience != 0 {
		t.Errorf("experience = %d, want 0", p.Experience)
	}
	if p.MaxEnergy != 110 || p.MaxHealth != 120 {
		t.Errorf("maximums = %d/%d, want 110/120", p.MaxEnergy, p.MaxHealth)
	}
	if p.Energy != p.MaxEnergy || p.Health != p.MaxHealth {
		t.Errorf("level-up should refill both pools, got %d/%d", p.Energy, p.Health)
	}
}

func TestGainExperienceNoLevelKeepsPools(t *testing.T) {
	p := &Player{
		Level:     2,
		MaxEnergy: 100,
		MaxHealth: 100,
		Energy:    3,
		Health:    40,
	}

	if levels := p.GainExperience(50); levels != 0 {
		t.Fatalf("levels gained = %d, want 0", levels)
	}
	if p.Energy != 3 || p.Health != 40 {
		t.Errorf("pools changed without a level-up: %d/%d", p.Energy, p.Health)
	}
	if p.Experience != 50 {
		t.Errorf("experience = %d, want 50", p.Experience)
	}
}

func TestReleaseIfDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	p := &Player{MaxHealth: 100}
	p.Hospitalize(past)
	p.Jail(future)

	if !p.ReleaseIfDue(now) {
		t.Fatal("expected a release")
	}
	if p.InHospital {
		t.Error("still in hospital past release time")
	}
	if p.Health != p.MaxHealth {
		t.Errorf("health = %d, want full restore to %d", p.Health, p.MaxHealth)
	}
	if !p.InJail {
		t.Error("released from jail before release time")
	}

	if p.ReleaseIfDue(now) {
		t.Error("second call reported a change with nothing due")
	}
}

func TestHospitalizeZeroesHealth(t *testing.T) {
	p := &Player{Health: 37, MaxHealth: 100}
	release := time.Now().Add(30 * time.Minute)

	p.Hospitalize(release)
	if p.Health != 0 {
		t.Errorf("health = %d, want 0", p.Health)
	}
	if !p.IsDetained() {
		t.Error("hospitalized player should be detained")
	}
}

func TestStatLookup(t *testing.T) {
	p := &Player{Strength: 1, Defense: 2, Speed: 3, Dexterity: 4, Intelligence: 5}

	for i, name := range TrainableStats {
		if got := p.Stat(name); got != i+1 {
			t.Errorf("Stat(%q) = %d, want %d", name, got, i+1)
		}
	}
	if got := p.Stat("charisma"); got != 0 {
		t.Errorf("Stat(unknown) = %d, want 0", got)
	}
}
