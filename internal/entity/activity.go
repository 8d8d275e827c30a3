package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	ActivityStatusScheduled = "scheduled"
	ActivityStatusCompleted = "completed"
	ActivityStatusCancelled = "cancelled"
)

// Activity logs an interaction, optionally linked to any of the other
// entities.
type Activity struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Subject        string    `json:"subject"`
	ActivityType   string    `json:"activity_type"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority,omitempty"`
	LeadID         string    `json:"lead_id,omitempty"`
	CustomerID     string    `json:"customer_id,omitempty"`
	DealID         string    `json:"deal_id,omitempty"`
	ContactID      string    `json:"contact_id,omitempty"`
	OwnerID        string    `json:"owner_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewActivity(organizationID, subject, activityType string) *Activity {
	return &Activity{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Subject:        subject,
		ActivityType:   activityType,
		Status:         ActivityStatusCompleted,
		CreatedAt:      time.Now(),
	}
}

type ActivityRepositoryInterface interface {
	Create(ctx context.Context, a *Activity) error
	ListByOrganization(ctx context.Context, organizationID string, ownerID string) ([]*Activity, error)
}
