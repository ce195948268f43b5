package crime

import "time"

// Result values for one crime attempt. "interrupted" exists in stored data
// for older rows but is never produced by current resolution.
const (
	ResultSuccess     = "success"
	ResultFailed      = "failed"
	ResultJailed      = "jailed"
	ResultInterrupted = "interrupted"
)

// CrimeType defines one crime: its requirements, rewards, risks, and the
// stat weighting that feeds the success chance.
type CrimeType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	MinLevel   int `json:"min_level"`
	EnergyCost int `json:"energy_cost"`

	MinCashReward int64 `json:"min_cash_reward"`
	MaxCashReward int64 `json:"max_cash_reward"`
	MinExpReward  int   `json:"min_exp_reward"`
	MaxExpReward  int   `json:"max_exp_reward"`

	JailRisk    float64 `json:"jail_risk"`
	MinJailTime int     `json:"min_jail_time"`
	MaxJailTime int     `json:"max_jail_time"`

	ItemRewardChance float64 `json:"item_reward_chance"`

	StrengthFactor     float64 `json:"strength_factor"`
	DefenseFactor      float64 `json:"defense_factor"`
	SpeedFactor        float64 `json:"speed_factor"`
	DexterityFactor    float64 `json:"dexterity_factor"`
	IntelligenceFactor float64 `json:"intelligence_factor"`

	BaseSuccessChance float64 `json:"base_success_chance"`

	// RewardPool holds item IDs a successful attempt may grant one of.
	RewardPool []int `json:"reward_pool,omitempty"`
}

// CrimeResult records one resolved attempt.
type CrimeResult struct {
	ID          int    `json:"id"`
	PlayerID    int    `json:"player_id"`
	CrimeTypeID int    `json:"crime_type_id"`
	Result      string `json:"result"`

	CashReward int64 `json:"cash_reward"`
	ExpReward  int   `json:"exp_reward"`
	JailTime   int   `json:"jail_time"`

	ItemRewardID *int `json:"item_reward_id,omitempty"`
	LocationID   *int `json:"location_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	CrimeName string `json:"crime_name,omitempty"`
}

// Stats aggregates a player's lifetime crime record.
type Stats struct {
	TotalCrimes      int     `json:"total_crimes"`
	SuccessfulCrimes int     `json:"successful_crimes"`
	FailedCrimes     int     `json:"failed_crimes"`
	JailedCount      int     `json:"jailed_count"`
	SuccessRate      float64 `json:"success_rate"`
	TotalEarnings    int64   `json:"total_earnings"`
	TotalExp         int64   `json:"total_exp"`
}
