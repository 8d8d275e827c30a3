package usecase

import "context"

// ConversionPublisher hands a completed conversion off to interested
// consumers (welcome mail, activity log). Publishing is best effort; the
// conversion itself never fails on it.
type ConversionPublisher interface {
	PublishConversion(ctx context.Context, payload ConversionPayload) error
}

// ConversionPayload is the event body emitted after a lead becomes a
// customer.
type ConversionPayload struct {
	LeadID         string `json:"lead_id"`
	CustomerID     string `json:"customer_id"`
	ContactID      string `json:"contact_id"`
	OrganizationID string `json:"organization_id"`
	CompanyName    string `json:"company_name"`
	POCName        string `json:"poc_name"`
	POCEmail       string `json:"poc_email"`
	ConvertedBy    string `json:"converted_by"`
	SalesCycleDays int    `json:"sales_cycle_days"`
}

// SessionService is the hosted auth subsystem behind the session boundary.
// This layer only rate-limits and logs around it.
type SessionService interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password, fullName string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	ResetPassword(ctx context.Context, email string) error
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	ExpiresIn    int    `json:"expires_in"`
}

type ConvertLeadInput struct {
	LeadID string `json:"lead_id"`
	UserID string `json:"user_id"`
}

type ConvertLeadOutput struct {
	CustomerID     string `json:"customer_id"`
	ContactID      string `json:"contact_id"`
	SalesCycleDays int    `json:"sales_cycle_days"`
	AuditLog       string `json:"audit_log"`
}
