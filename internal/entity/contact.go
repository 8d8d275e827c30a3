package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	OrganizationID  string    `json:"organization_id"`
	FullName        string    `json:"full_name"`
	Title           string    `json:"title,omitempty"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	IsPrimary       bool      `json:"is_primary"`
	IsDecisionMaker bool      `json:"is_decision_maker"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewPrimaryContact builds the decision-maker contact created alongside a
// customer during lead conversion.
func NewPrimaryContact(customer *Customer, now time.Time) *Contact {
	return &Contact{
		ID:              uuid.New().String(),
		CustomerID:      customer.ID,
		OrganizationID:  customer.OrganizationID,
		FullName:        customer.POCName,
		Title:           customer.POCTitle,
		Email:           customer.POCEmail,
		Phone:           customer.POCPhone,
		IsPrimary:       true,
		IsDecisionMaker: true,
		CreatedAt:       now,
	}
}

type ContactRepositoryInterface interface {
	Create(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id string) error
	FindSimilar(ctx context.Context, organizationID, email, phone string, limit int) ([]*Contact, error)
}
