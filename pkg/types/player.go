package types

import (
	"time"

	"github.com/google/uuid"
)

// Position represents a player's primary position on the pitch
type Position string

const (
	PositionStriker       Position = "striker"
	PositionWinger        Position = "winger"
	PositionAttackingMid  Position = "attacking_mid"
	PositionCentralMid    Position = "central_mid"
	PositionDefensiveMid  Position = "defensive_mid"
	PositionFullBack      Position = "full_back"
	PositionCenterBack    Position = "center_back"
	PositionGoalkeeper    Position = "goalkeeper"
	PositionUnknown       Position = "unknown"
)

// MarketMultiplier returns the base market multiplier for a position.
// Unknown positions fall back to the defensive-mid baseline rather than
// failing silently on a string mismatch.
func (p Position) MarketMultiplier() float64 {
	switch p {
	case PositionStriker:
		return 1.4
	case PositionWinger:
		return 1.3
	case PositionAttackingMid:
		return 1.25
	case PositionCentralMid:
		return 1.1
	case PositionDefensiveMid:
		return 1.0
	case PositionFullBack:
		return 0.95
	case PositionCenterBack:
		return 0.9
	case PositionGoalkeeper:
		return 0.7
	default:
		return 1.0
	}
}

// PeakAge returns the age at which players in this position typically peak
func (p Position) PeakAge() int {
	switch p {
	case PositionGoalkeeper:
		return 30
	case PositionCenterBack:
		return 28
	case PositionFullBack, PositionDefensiveMid, PositionCentralMid:
		return 27
	default:
		return 26
	}
}

// IsDefensive reports whether the position earns clean-sheet credit
func (p Position) IsDefensive() bool {
	switch p {
	case PositionGoalkeeper, PositionCenterBack, PositionFullBack, PositionDefensiveMid:
		return true
	default:
		return false
	}
}

// League represents a competition tier for prestige weighting
type League string

const (
	LeaguePremierLeague League = "premier_league"
	LeagueLaLiga        League = "la_liga"
	LeagueBundesliga    League = "bundesliga"
	LeagueSerieA        League = "serie_a"
	LeagueLigue1        League = "ligue_1"
	LeagueEredivisie    League = "eredivisie"
	LeagueChampionship  League = "championship"
	LeagueOther         League = "other"
)

// PrestigeMultiplier returns the league prestige multiplier applied during valuation
func (l League) PrestigeMultiplier() float64 {
	switch l {
	case LeaguePremierLeague:
		return 1.3
	case LeagueLaLiga:
		return 1.25
	case LeagueBundesliga:
		return 1.2
	case LeagueSerieA:
		return 1.15
	case LeagueLigue1:
		return 1.1
	case LeagueEredivisie:
		return 0.95
	case LeagueChampionship:
		return 0.85
	default:
		return 0.8
	}
}

// Tier returns a coarse 1-4 tier used for comparable-transfer similarity
func (l League) Tier() int {
	switch l {
	case LeaguePremierLeague, LeagueLaLiga:
		return 1
	case LeagueBundesliga, LeagueSerieA, LeagueLigue1:
		return 2
	case LeagueEredivisie, LeagueChampionship:
		return 3
	default:
		return 4
	}
}

// PlayerRef is the roster-service view of a player consumed by every calculator
type PlayerRef struct {
	ID                      uuid.UUID `json:"id"`
	Name                    string    `json:"name"`
	Club                    string    `json:"club"`
	Position                Position  `json:"position"`
	League                  League    `json:"league"`
	Age                     int       `json:"age"`
	InternationalCaps       int       `json:"international_caps"`
	ContractMonthsRemaining int       `json:"contract_months_remaining"`
	ContractValue           float64   `json:"contract_value"`  // Current contract valuation, base currency
	MinutesShare            float64   `json:"minutes_share"`   // Share of available minutes played, 0-1
	LastUpdated             time.Time `json:"last_updated"`
}
