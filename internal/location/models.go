package location

type Location struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	District    *string `json:"district"`
	IsSafeZone  bool    `json:"is_safe_zone"`
	EnergyCost  int     `json:"energy_cost"`
	MinLevel    int     `json:"min_level"`
}

// Connection is a directed travel edge between two locations.
type Connection struct {
	ID           int   `json:"id"`
	FromID       int   `json:"from_location_id"`
	ToID         int   `json:"to_location_id"`
	TravelTime   int   `json:"travel_time"`
	TravelCost   int64 `json:"travel_cost"`
}
