package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/satiscrm/crm-api/internal/entity"
	"github.com/satiscrm/crm-api/internal/security"
)

// ConvertLeadUseCase turns a qualified lead into a customer plus primary
// contact and closes the lead as won. The three writes run as a compensated
// sequence: a failed step rolls the earlier ones back, so a conversion
// either lands completely or leaves the lead untouched and retryable.
type ConvertLeadUseCase struct {
	leads     entity.LeadRepositoryInterface
	customers entity.CustomerRepositoryInterface
	contacts  entity.ContactRepositoryInterface
	publisher ConversionPublisher
	validator *security.Validator
	logger    *log.Logger
	now       func() time.Time
}

func NewConvertLeadUseCase(
	leads entity.LeadRepositoryInterface,
	customers entity.CustomerRepositoryInterface,
	contacts entity.ContactRepositoryInterface,
	publisher ConversionPublisher,
	logger *log.Logger,
) *ConvertLeadUseCase {
	return &ConvertLeadUseCase{
		leads:     leads,
		customers: customers,
		contacts:  contacts,
		publisher: publisher,
		validator: security.NewDefaultValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *ConvertLeadUseCase) Execute(ctx context.Context, input ConvertLeadInput) (*ConvertLeadOutput, error) {
	if input.LeadID == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "invalid lead ID"}
	}
	if input.UserID == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "invalid user ID"}
	}

	uc.logger.Info("lead conversion started", "lead_id", input.LeadID, "user_id", input.UserID)

	lead, err := uc.leads.FindByID(ctx, input.LeadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: "lead not found or access denied"}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to load lead: " + err.Error()}
	}

	// Only qualified leads convert; everything else fails closed.
	switch lead.Status {
	case entity.LeadStatusQualified:
	case entity.LeadStatusClosedWon:
		return nil, &DomainError{Code: CodeInvalidStatus, Message: "lead has already been converted"}
	case entity.LeadStatusClosedLost:
		return nil, &DomainError{Code: CodeInvalidStatus, Message: "cannot convert a lost lead"}
	default:
		return nil, &DomainError{Code: CodeInvalidStatus, Message: "only qualified leads can be converted to customers"}
	}

	existing, err := uc.customers.FindByCompanyName(ctx, lead.OrganizationID, lead.CompanyName)
	if err != nil && !errors.Is(err, entity.ErrCustomerNotFound) {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "duplicate check failed: " + err.Error()}
	}
	if existing != nil {
		return nil, &DomainError{
			Code:    CodeDuplicateCustomer,
			Message: fmt.Sprintf("customer already exists: %s", existing.CompanyName),
		}
	}

	now := uc.now()
	customer := entity.NewCustomerFromLead(lead, now)
	customer.CompanyName = uc.validator.Sanitize(lead.CompanyName)
	customer.CompanyCountry = uc.validator.Sanitize(lead.CompanyCountry)
	customer.CompanyAddress = uc.validator.Sanitize(lead.CompanyAddress)
	customer.POCName = uc.validator.Sanitize(lead.POCName)
	customer.POCTitle = uc.validator.Sanitize(lead.POCTitle)

	contact := entity.NewPrimaryContact(customer, now)

	txn := NewTransaction(uc.logger)

	txn.AddOperation("create_customer", func(ctx context.Context) error {
		return uc.customers.Create(ctx, customer)
	})
	txn.AddCompensation("delete_customer", func(ctx context.Context) error {
		return uc.customers.Delete(ctx, customer.ID)
	})

	txn.AddOperation("create_primary_contact", func(ctx context.Context) error {
		return uc.contacts.Create(ctx, contact)
	})
	txn.AddCompensation("delete_primary_contact", func(ctx context.Context) error {
		return uc.contacts.Delete(ctx, contact.ID)
	})

	txn.AddOperation("close_lead_won", func(ctx context.Context) error {
		return uc.leads.UpdateStatus(ctx, lead.ID, entity.LeadStatusClosedWon)
	})

	if err := txn.Execute(ctx); err != nil {
		uc.logger.Error("lead conversion failed", "lead_id", lead.ID, "err", err)
		return nil, &TechnicalError{Code: CodeDatabase, Message: "conversion failed: " + err.Error()}
	}

	uc.logger.Info("lead conversion completed",
		"lead_id", lead.ID,
		"customer_id", customer.ID,
		"contact_id", contact.ID,
		"user_id", input.UserID,
		"sales_cycle_days", customer.SalesCycleLengthDays)

	if uc.publisher != nil {
		payload := ConversionPayload{
			LeadID:         lead.ID,
			CustomerID:     customer.ID,
			ContactID:      contact.ID,
			OrganizationID: lead.OrganizationID,
			CompanyName:    customer.CompanyName,
			POCName:        customer.POCName,
			POCEmail:       customer.POCEmail,
			ConvertedBy:    input.UserID,
			SalesCycleDays: customer.SalesCycleLengthDays,
		}
		if err := uc.publisher.PublishConversion(ctx, payload); err != nil {
			// The conversion is already durable; the event is best effort.
			uc.logger.Warn("conversion event publish failed", "lead_id", lead.ID, "err", err)
		}
	}

	return &ConvertLeadOutput{
		CustomerID:     customer.ID,
		ContactID:      contact.ID,
		SalesCycleDays: customer.SalesCycleLengthDays,
		AuditLog:       fmt.Sprintf("Lead %s converted to customer %s by user %s", lead.ID, customer.ID, input.UserID),
	}, nil
}
