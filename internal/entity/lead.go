package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lead statuses. A lead enters the funnel as "new" and leaves it either
// converted (closed-won) or dropped (closed-lost).
const (
	LeadStatusNew         = "new"
	LeadStatusContacted   = "contacted"
	LeadStatusQualified   = "qualified"
	LeadStatusProposal    = "proposal"
	LeadStatusNegotiation = "negotiation"
	LeadStatusClosedWon   = "closed-won"
	LeadStatusClosedLost  = "closed-lost"
)

type Lead struct {
	ID             string     `json:"id"`
	UniqueCode     string     `json:"unique_code,omitempty"`
	OrganizationID string     `json:"organization_id"`
	CompanyName    string     `json:"company_name"`
	CompanyCountry string     `json:"company_country,omitempty"`
	CompanyAddress string     `json:"company_address,omitempty"`
	POCName        string     `json:"poc_name"`
	POCTitle       string     `json:"poc_title,omitempty"`
	POCEmail       string     `json:"poc_email,omitempty"`
	POCPhone       string     `json:"poc_phone,omitempty"`
	Status         string     `json:"status"`
	LeadScore      int        `json:"lead_score"`
	EstimatedValue float64    `json:"estimated_value"`
	OwnerID        string     `json:"owner_id,omitempty"`
	Stale          bool       `json:"stale"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
}

func NewLead(organizationID, companyName, pocName string) *Lead {
	now := time.Now()
	return &Lead{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		CompanyName:    companyName,
		POCName:        pocName,
		Status:         LeadStatusNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsOpen reports whether the lead is still workable, i.e. not closed in
// either direction.
func (l *Lead) IsOpen() bool {
	return l.Status != LeadStatusClosedWon && l.Status != LeadStatusClosedLost
}

// SalesCycleDays is the whole number of days between capture and now.
func (l *Lead) SalesCycleDays(now time.Time) int {
	days := int(now.Sub(l.CreatedAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

type LeadRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*Lead, error)
	Upsert(ctx context.Context, lead *Lead) error
	UpdateStatus(ctx context.Context, id, status string) error
	MarkStale(ctx context.Context, olderThan time.Time) (int, error)
	FindSimilar(ctx context.Context, organizationID, companyName, pocEmail, pocPhone string, limit int) ([]*Lead, error)
}
