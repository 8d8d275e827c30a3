package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
	CustomerStatusChurned  = "churned"
)

// Customer is a converted business relationship. LeadID points back at the
// lead it was created from; at most one customer exists per lead.
type Customer struct {
	ID                   string    `json:"id"`
	LeadID               string    `json:"lead_id,omitempty"`
	UniqueCode           string    `json:"unique_code,omitempty"`
	OrganizationID       string    `json:"organization_id"`
	CompanyName          string    `json:"company_name"`
	CompanyCountry       string    `json:"company_country,omitempty"`
	CompanyAddress       string    `json:"company_address,omitempty"`
	POCName              string    `json:"poc_name"`
	POCTitle             string    `json:"poc_title,omitempty"`
	POCEmail             string    `json:"poc_email,omitempty"`
	POCPhone             string    `json:"poc_phone,omitempty"`
	Status               string    `json:"status"`
	ConversionDate       string    `json:"conversion_date"` // YYYY-MM-DD
	FirstDealValue       float64   `json:"first_deal_value"`
	SalesCycleLengthDays int       `json:"sales_cycle_length_days"`
	OwnerID              string    `json:"owner_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// NewCustomerFromLead carries the lead's company and point-of-contact fields
// over into a fresh active customer record.
func NewCustomerFromLead(lead *Lead, now time.Time) *Customer {
	return &Customer{
		ID:                   uuid.New().String(),
		LeadID:               lead.ID,
		OrganizationID:       lead.OrganizationID,
		CompanyName:          lead.CompanyName,
		CompanyCountry:       lead.CompanyCountry,
		CompanyAddress:       lead.CompanyAddress,
		POCName:              lead.POCName,
		POCTitle:             lead.POCTitle,
		POCEmail:             lead.POCEmail,
		POCPhone:             lead.POCPhone,
		Status:               CustomerStatusActive,
		ConversionDate:       now.Format("2006-01-02"),
		FirstDealValue:       lead.EstimatedValue,
		SalesCycleLengthDays: lead.SalesCycleDays(now),
		OwnerID:              lead.OwnerID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	FindByCompanyName(ctx context.Context, organizationID, companyName string) (*Customer, error)
	FindSimilar(ctx context.Context, organizationID, companyName, pocEmail, pocPhone string, limit int) ([]*Customer, error)
}
