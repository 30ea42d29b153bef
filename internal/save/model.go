// Package save defines the versioned persistence record for the
// reactor, the transport codec around it, and the bridge that projects
// a live simulation into the record and back.
package save

// CurrentVersion is the record version this build writes. Older
// versions load; newer versions are rejected.
const CurrentVersion = 1

// SaveData is the flat persistence record. Field names are part of the
// on-disk format and never change meaning across versions.
type SaveData struct {
	Version uint32    `json:"version"`
	Store   SaveStore `json:"store"`

	UpgradeLevels map[string]int `json:"upgrade_levels"`

	ReactorHeat float64 `json:"reactor_heat"`
	StoredPower float64 `json:"stored_power"`

	DepletedProtiumCount int  `json:"depleted_protium_count"`
	Paused               bool `json:"paused"`
	ReplaceMode          bool `json:"replace_mode"`

	TotalTicks    uint64 `json:"total_ticks"`
	PrestigeLevel int    `json:"prestige_level"`

	ShopPage               int `json:"shop_page"`
	SelectedComponentIndex int `json:"selected_component_index"`

	Components []SaveComponent `json:"components"`
}

// SaveStore is the resource-store slice of the record.
type SaveStore struct {
	Money                  float64 `json:"money"`
	TotalMoney             float64 `json:"total_money"`
	MoneyEarnedThisGame    float64 `json:"money_earned_this_game"`
	Power                  float64 `json:"power"`
	TotalPowerProduced     float64 `json:"total_power_produced"`
	PowerProducedThisGame  float64 `json:"power_produced_this_game"`
	Heat                   float64 `json:"heat"`
	TotalHeatDissipated    float64 `json:"total_heat_dissipated"`
	HeatDissipatedThisGame float64 `json:"heat_dissipated_this_game"`
	ExoticParticles        float64 `json:"exotic_particles"`
	TotalExoticParticles   float64 `json:"total_exotic_particles"`
}

// SaveComponent is one placed component in the record, identified by
// canonical name and grid position.
type SaveComponent struct {
	Name       string  `json:"name"`
	Heat       float64 `json:"heat"`
	Durability float64 `json:"durability"`
	Depleted   bool    `json:"depleted"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Z          int     `json:"z"`
}
