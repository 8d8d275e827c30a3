package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/satiscrm/crm-api/internal/entity"
)

func newConvertFixture() (*ConvertLeadUseCase, *MockLeadRepository, *MockCustomerRepository, *MockContactRepository, *MockConversionPublisher) {
	leads := new(MockLeadRepository)
	customers := new(MockCustomerRepository)
	contacts := new(MockContactRepository)
	publisher := new(MockConversionPublisher)

	uc := NewConvertLeadUseCase(leads, customers, contacts, publisher, log.New(io.Discard))
	return uc, leads, customers, contacts, publisher
}

func qualifiedLead(createdAt time.Time) *entity.Lead {
	return &entity.Lead{
		ID:             "lead-123",
		OrganizationID: "org-1",
		CompanyName:    "Acme Corp",
		POCName:        "Jane Smith",
		POCEmail:       "jane@acme.com",
		Status:         entity.LeadStatusQualified,
		EstimatedValue: 25000,
		OwnerID:        "user-1",
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func TestConvertLeadSuccess(t *testing.T) {
	ctx := context.Background()
	uc, leads, customers, contacts, publisher := newConvertFixture()

	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	lead := qualifiedLead(now.AddDate(0, 0, -10))

	leads.On("FindByID", ctx, "lead-123").Return(lead, nil)
	customers.On("FindByCompanyName", ctx, "org-1", "Acme Corp").Return(nil, entity.ErrCustomerNotFound)
	customers.On("Create", ctx, mock.MatchedBy(func(c *entity.Customer) bool {
		return c.LeadID == "lead-123" &&
			c.CompanyName == "Acme Corp" &&
			c.ConversionDate == "2025-06-20" &&
			c.FirstDealValue == 25000 &&
			c.SalesCycleLengthDays == 10
	})).Return(nil)
	contacts.On("Create", ctx, mock.MatchedBy(func(c *entity.Contact) bool {
		return c.FullName == "Jane Smith" && c.IsPrimary && c.IsDecisionMaker
	})).Return(nil)
	leads.On("UpdateStatus", ctx, "lead-123", entity.LeadStatusClosedWon).Return(nil)
	publisher.On("PublishConversion", ctx, mock.MatchedBy(func(p ConversionPayload) bool {
		return p.LeadID == "lead-123" && p.ConvertedBy == "user-7" && p.SalesCycleDays == 10
	})).Return(nil)

	output, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "lead-123", UserID: "user-7"})

	assert.NoError(t, err)
	assert.NotEmpty(t, output.CustomerID)
	assert.NotEmpty(t, output.ContactID)
	assert.Equal(t, 10, output.SalesCycleDays)
	assert.Contains(t, output.AuditLog, "lead-123")
	assert.Contains(t, output.AuditLog, "user-7")

	leads.AssertExpectations(t)
	customers.AssertExpectations(t)
	contacts.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestConvertLeadNotQualified(t *testing.T) {
	ctx := context.Background()
	uc, leads, customers, _, _ := newConvertFixture()

	lead := qualifiedLead(time.Now())
	lead.Status = entity.LeadStatusContacted
	leads.On("FindByID", ctx, "lead-123").Return(lead, nil)

	output, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "lead-123", UserID: "user-7"})

	assert.Nil(t, output)
	assert.True(t, IsDomainError(err))
	assert.EqualError(t, err, "only qualified leads can be converted to customers")
	customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConvertLeadAlreadyConverted(t *testing.T) {
	ctx := context.Background()
	uc, leads, _, _, _ := newConvertFixture()

	lead := qualifiedLead(time.Now())
	lead.Status = entity.LeadStatusClosedWon
	leads.On("FindByID", ctx, "lead-123").Return(lead, nil)

	_, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "lead-123", UserID: "user-7"})

	assert.True(t, IsDomainError(err))
	assert.EqualError(t, err, "lead has already been converted")
}

func TestConvertLeadLost(t *testing.T) {
	ctx := context.Background()
	uc, leads, _, _, _ := newConvertFixture()

	lead := qualifiedLead(time.Now())
	lead.Status = entity.LeadStatusClosedLost
	leads.On("FindByID", ctx, "lead-123").Return(lead, nil)

	_, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "lead-123", UserID: "user-7"})

	assert.True(t, IsDomainError(err))
	assert.EqualError(t, err, "cannot convert a lost lead")
}

func TestConvertLeadNotFound(t *testing.T) {
	ctx := context.Background()
	uc, leads, _, _, _ := newConvertFixture()

	leads.On("FindByID", ctx, "missing").Return(nil, entity.ErrLeadNotFound)

	_, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "missing", UserID: "user-7"})

	assert.True(t, IsDomainError(err))
	assert.EqualError(t, err, "lead not found or access denied")
}

func TestConvertLeadEmptyInput(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _, _ := newConvertFixture()

	_, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "", UserID: "user-7"})
	assert.EqualError(t, err, "invalid lead ID")

	_, err = uc.Execute(ctx, ConvertLeadInput{LeadID: "lead-123", UserID: ""})
	assert.EqualError(t, err, "invalid user ID")
}

func TestConvertLeadDuplicateCompany(t *testing.T) {
	ctx := context.Background()
	uc, leads, customers, _, _ := newConvertFixture()

	lead := qualifiedLead(time.Now())
	leads.On("FindByID", ctx, "lead-123").Return(lead, nil)
	customers.On("FindByCompanyName", ctx, "org-1", "Acme Corp").
		Return(&entity.Customer{ID: "cust-9", CompanyName: "Acme Corp"}, nil)

	output, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "lead-123", UserID: "user-7"})

	assert.Nil(t, output)
	assert.True(t, IsDomainError(err))
	assert.EqualError(t, err, "customer already exists: Acme Corp")
	customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConvertLeadContactFailureRollsBackCustomer(t *testing.T) {
	ctx := context.Background()
	uc, leads, customers, contacts, _ := newConvertFixture()

	lead := qualifiedLead(time.Now())
	leads.On("FindByID", ctx, "lead-123").Return(lead, nil)
	customers.On("FindByCompanyName", ctx, "org-1", "Acme Corp").Return(nil, entity.ErrCustomerNotFound)
	customers.On("Create", ctx, mock.Anything).Return(nil)
	contacts.On("Create", ctx, mock.Anything).Return(errors.New("contact insert failed"))
	customers.On("Delete", ctx, mock.Anything).Return(nil)

	output, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "lead-123", UserID: "user-7"})

	assert.Nil(t, output)
	assert.True(t, IsTechnicalError(err))
	customers.AssertCalled(t, "Delete", ctx, mock.Anything)
	// The lead stays qualified; the status update never ran.
	leads.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestConvertLeadPublishFailureStillSucceeds(t *testing.T) {
	ctx := context.Background()
	uc, leads, customers, contacts, publisher := newConvertFixture()

	lead := qualifiedLead(time.Now())
	leads.On("FindByID", ctx, "lead-123").Return(lead, nil)
	customers.On("FindByCompanyName", ctx, "org-1", "Acme Corp").Return(nil, entity.ErrCustomerNotFound)
	customers.On("Create", ctx, mock.Anything).Return(nil)
	contacts.On("Create", ctx, mock.Anything).Return(nil)
	leads.On("UpdateStatus", ctx, "lead-123", entity.LeadStatusClosedWon).Return(nil)
	publisher.On("PublishConversion", ctx, mock.Anything).Return(errors.New("broker down"))

	output, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "lead-123", UserID: "user-7"})

	assert.NoError(t, err)
	assert.NotNil(t, output)
}

func TestConvertLeadSanitizesTextFields(t *testing.T) {
	ctx := context.Background()
	uc, leads, customers, contacts, publisher := newConvertFixture()

	lead := qualifiedLead(time.Now())
	lead.CompanyName = "Acme <b>Corp</b>"
	lead.POCName = "Jane'; DROP TABLE--"

	leads.On("FindByID", ctx, "lead-123").Return(lead, nil)
	customers.On("FindByCompanyName", ctx, "org-1", "Acme <b>Corp</b>").Return(nil, entity.ErrCustomerNotFound)
	customers.On("Create", ctx, mock.MatchedBy(func(c *entity.Customer) bool {
		return c.CompanyName == "Acme bCorp/b" && c.POCName == "Jane DROP TABLE"
	})).Return(nil)
	contacts.On("Create", ctx, mock.Anything).Return(nil)
	leads.On("UpdateStatus", ctx, "lead-123", entity.LeadStatusClosedWon).Return(nil)
	publisher.On("PublishConversion", ctx, mock.Anything).Return(nil)

	_, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "lead-123", UserID: "user-7"})

	assert.NoError(t, err)
	customers.AssertExpectations(t)
}
