package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/satiscrm/crm-api/internal/entity"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockLeadRepository) MarkStale(ctx context.Context, olderThan time.Time) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) FindSimilar(ctx context.Context, organizationID, companyName, pocEmail, pocPhone string, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, organizationID, companyName, pocEmail, pocPhone, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

// MockCustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCompanyName(ctx context.Context, organizationID, companyName string) (*entity.Customer, error) {
	args := m.Called(ctx, organizationID, companyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindSimilar(ctx context.Context, organizationID, companyName, pocEmail, pocPhone string, limit int) ([]*entity.Customer, error) {
	args := m.Called(ctx, organizationID, companyName, pocEmail, pocPhone, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Customer), args.Error(1)
}

// MockContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactRepository) FindSimilar(ctx context.Context, organizationID, email, phone string, limit int) ([]*entity.Contact, error) {
	args := m.Called(ctx, organizationID, email, phone, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Contact), args.Error(1)
}

// MockDealRepository
type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) FindByID(ctx context.Context, id string) (*entity.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Deal), args.Error(1)
}

func (m *MockDealRepository) UpdateStage(ctx context.Context, id, stageID string) error {
	args := m.Called(ctx, id, stageID)
	return args.Error(0)
}

func (m *MockDealRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Deal, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Deal), args.Error(1)
}

// MockStageRepository
type MockStageRepository struct {
	mock.Mock
}

func (m *MockStageRepository) ListActive(ctx context.Context) ([]*entity.PipelineStage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.PipelineStage), args.Error(1)
}

// MockActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByOrganization(ctx context.Context, organizationID string, ownerID string) ([]*entity.Activity, error) {
	args := m.Called(ctx, organizationID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Activity), args.Error(1)
}

// MockConversionPublisher
type MockConversionPublisher struct {
	mock.Mock
}

func (m *MockConversionPublisher) PublishConversion(ctx context.Context, payload ConversionPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockSessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockSessionService) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	args := m.Called(ctx, email, password, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockSessionService) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *MockSessionService) ResetPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
