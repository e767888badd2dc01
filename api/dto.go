/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Complex response wrappers

MONEY FORMATTING:
  All monetary values are serialized as strings with two decimal places.
  Calculations run at full decimal precision; rounding happens only here,
  at the presentation boundary.

SEE ALSO:
  - handlers.go: Uses these types
  - portfolio/stats.go: Stats and Profile domain types
*/
package api

import (
	"github.com/warp/cost-engine/finance"
	"github.com/warp/cost-engine/portfolio"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ProductDTO represents a product in API responses.
type ProductDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ClientID string `json:"client_id,omitempty"`
}

// ClientDTO represents a service area (client) in API responses.
type ClientDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StatsDTO is the cost breakdown of a product or group over one window.
type StatsDTO struct {
	Contractor    string `json:"contractor"`
	NonContractor string `json:"non_contractor"`
	Additional    string `json:"additional"`
	Budget        string `json:"budget"`
	Savings       string `json:"savings"`
	Total         string `json:"total"`
	Remaining     string `json:"remaining"`
}

// ProfileDTO is the stats breakdown per time frame over an entity's active
// span. Time frame keys look like "2016-01-01~2016-01-31".
type ProfileDTO struct {
	Name        string              `json:"name"`
	ServiceArea *ClientDTO          `json:"service_area,omitempty"`
	TimeFrames  map[string]StatsDTO `json:"time_frames"`
}

// RateDTO is a person rate query result.
type RateDTO struct {
	PersonID string `json:"person_id"`
	Kind     string `json:"kind"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Rate     string `json:"rate"`
}

// CostDTO is a single cost figure over a window.
type CostDTO struct {
	ProductID string `json:"product_id"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Amount    string `json:"amount"`
}

// DemoLoadResponse reports what the demo loader seeded.
type DemoLoadResponse struct {
	People   int `json:"people"`
	Products int `json:"products"`
	Groups   int `json:"groups"`
	Tasks    int `json:"tasks"`
	Costs    int `json:"costs"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toProductDTO(p portfolio.Product) ProductDTO {
	return ProductDTO{
		ID:       string(p.ID),
		Name:     p.Name,
		ClientID: string(p.ClientID),
	}
}

func toStatsDTO(s portfolio.Stats) StatsDTO {
	return StatsDTO{
		Contractor:    finance.Round2(s.Contractor).StringFixed(2),
		NonContractor: finance.Round2(s.NonContractor).StringFixed(2),
		Additional:    finance.Round2(s.Additional).StringFixed(2),
		Budget:        finance.Round2(s.Budget).StringFixed(2),
		Savings:       finance.Round2(s.Savings).StringFixed(2),
		Total:         finance.Round2(s.Total).StringFixed(2),
		Remaining:     finance.Round2(s.Remaining).StringFixed(2),
	}
}

func toProfileDTO(p portfolio.Profile) ProfileDTO {
	dto := ProfileDTO{
		Name:       p.Name,
		TimeFrames: make(map[string]StatsDTO, len(p.TimeFrames)),
	}
	if p.ServiceArea != nil {
		dto.ServiceArea = &ClientDTO{ID: string(p.ServiceArea.ID), Name: p.ServiceArea.Name}
	}
	for frame, stats := range p.TimeFrames {
		dto.TimeFrames[frame] = toStatsDTO(stats)
	}
	return dto
}
