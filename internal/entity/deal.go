package entity

import (
	"context"
	"time"
)

const (
	DealStatusOpen   = "open"
	DealStatusWon    = "won"
	DealStatusLost   = "lost"
	DealStatusOnHold = "on-hold"
)

// Close probability is a coarse bucket, not a numeric probability.
const (
	CloseProbabilityLow    = "low"
	CloseProbabilityMedium = "medium"
	CloseProbabilityHigh   = "high"
)

// Deal is attached to either a lead or a customer, never both.
type Deal struct {
	ID               string    `json:"id"`
	OrganizationID   string    `json:"organization_id"`
	Name             string    `json:"name"`
	Value            float64   `json:"value"`
	Currency         string    `json:"currency"`
	CloseProbability string    `json:"close_probability"`
	Status           string    `json:"status"`
	StageID          string    `json:"stage_id,omitempty"`
	LeadID           string    `json:"lead_id,omitempty"`
	CustomerID       string    `json:"customer_id,omitempty"`
	OwnerID          string    `json:"owner_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// WeightedValue applies the bucket weighting used by forecasts:
// low 25%, medium 50%, high 75%, anything else 50%.
func (d *Deal) WeightedValue() float64 {
	switch d.CloseProbability {
	case CloseProbabilityLow:
		return d.Value * 0.25
	case CloseProbabilityHigh:
		return d.Value * 0.75
	default:
		return d.Value * 0.50
	}
}

type DealRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*Deal, error)
	UpdateStage(ctx context.Context, id, stageID string) error
	ListByOrganization(ctx context.Context, organizationID string) ([]*Deal, error)
}
