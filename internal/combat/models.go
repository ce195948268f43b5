package combat

import "time"

const (
	AttackEnergyCost = 5

	winnerHospitalMinutes = 30
	loserHospitalMinutes  = 20
)

// Combat is one resolved encounter between two players.
type Combat struct {
	ID               int        `json:"id"`
	AttackerID       int        `json:"attacker_id"`
	DefenderID       int        `json:"defender_id"`
	WinnerID         *int       `json:"winner_id,omitempty"`
	LocationID       *int       `json:"location_id,omitempty"`
	CashStolen       int64      `json:"cash_stolen"`
	ExperienceGained int        `json:"experience_gained"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`

	AttackerName string `json:"attacker_name,omitempty"`
	DefenderName string `json:"defender_name,omitempty"`

	Log []LogEntry `json:"log,omitempty"`
}

// LogEntry is one human-readable line of a combat's event sequence.
type LogEntry struct {
	ID        int       `json:"id"`
	CombatID  int       `json:"combat_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
