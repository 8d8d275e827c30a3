package usecase

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/satiscrm/crm-api/internal/entity"
)

func pipelineFixture() []*entity.PipelineStage {
	return []*entity.PipelineStage{
		{ID: "s0", Name: "Prospect", OrderIndex: 0, IsActive: true},
		{ID: "s1", Name: "Qualified", OrderIndex: 1, IsActive: true},
		{ID: "s2", Name: "Proposal", OrderIndex: 2, IsActive: true},
		{ID: "s3", Name: "Negotiation", OrderIndex: 3, IsActive: true},
		{ID: "s4", Name: "Closed", OrderIndex: 4, IsActive: true},
	}
}

func newTransitionFixture() (*StageTransitionValidator, *MockStageRepository, *MockDealRepository) {
	stages := new(MockStageRepository)
	deals := new(MockDealRepository)
	v := NewStageTransitionValidator(stages, deals, log.New(io.Discard))
	return v, stages, deals
}

func TestValidateTransitionAdjacentStage(t *testing.T) {
	ctx := context.Background()
	v, stages, _ := newTransitionFixture()
	stages.On("ListActive", ctx).Return(pipelineFixture(), nil)

	result := v.ValidateTransition(ctx, "deal-1", "s1", "s2", "user-1")

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Warnings)
}

func TestValidateTransitionSkipTwoStagesAllowed(t *testing.T) {
	ctx := context.Background()
	v, stages, _ := newTransitionFixture()
	stages.On("ListActive", ctx).Return(pipelineFixture(), nil)

	result := v.ValidateTransition(ctx, "deal-1", "s0", "s2", "user-1")

	assert.True(t, result.IsValid)
}

func TestValidateTransitionSkipThreeStagesRejected(t *testing.T) {
	ctx := context.Background()
	v, stages, _ := newTransitionFixture()
	stages.On("ListActive", ctx).Return(pipelineFixture(), nil)

	result := v.ValidateTransition(ctx, "deal-1", "s0", "s3", "user-1")

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "cannot skip multiple stages in pipeline")
}

func TestValidateTransitionBackwardIsWarning(t *testing.T) {
	ctx := context.Background()
	v, stages, _ := newTransitionFixture()
	stages.On("ListActive", ctx).Return(pipelineFixture(), nil)

	result := v.ValidateTransition(ctx, "deal-1", "s2", "s0", "user-1")

	assert.True(t, result.IsValid)
	assert.Contains(t, result.Warnings, "moving deal backward in pipeline")
}

func TestValidateTransitionUnknownStage(t *testing.T) {
	ctx := context.Background()
	v, stages, _ := newTransitionFixture()
	stages.On("ListActive", ctx).Return(pipelineFixture(), nil)

	result := v.ValidateTransition(ctx, "deal-1", "s1", "ghost", "user-1")

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "new stage not found")
}

func TestMoveDealStagePersistsAllowedMove(t *testing.T) {
	ctx := context.Background()
	v, stages, deals := newTransitionFixture()

	stages.On("ListActive", ctx).Return(pipelineFixture(), nil)
	deals.On("FindByID", ctx, "deal-1").Return(&entity.Deal{ID: "deal-1", StageID: "s2"}, nil)
	deals.On("UpdateStage", ctx, "deal-1", "s0").Return(nil)

	warnings, err := v.MoveDealStage(ctx, "deal-1", "s0", "user-1")

	assert.NoError(t, err)
	assert.Equal(t, []string{"moving deal backward in pipeline"}, warnings)
	deals.AssertExpectations(t)
}

func TestMoveDealStageRejectedMoveDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	v, stages, deals := newTransitionFixture()

	stages.On("ListActive", ctx).Return(pipelineFixture(), nil)
	deals.On("FindByID", ctx, "deal-1").Return(&entity.Deal{ID: "deal-1", StageID: "s0"}, nil)

	_, err := v.MoveDealStage(ctx, "deal-1", "s4", "user-1")

	assert.True(t, IsDomainError(err))
	assert.EqualError(t, err, "cannot skip multiple stages in pipeline")

	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeStageSkip, domainErr.Code)
	deals.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestMoveDealStageUnknownStageIsNotFound(t *testing.T) {
	ctx := context.Background()
	v, stages, deals := newTransitionFixture()

	stages.On("ListActive", ctx).Return(pipelineFixture(), nil)
	deals.On("FindByID", ctx, "deal-1").Return(&entity.Deal{ID: "deal-1", StageID: "s1"}, nil)

	_, err := v.MoveDealStage(ctx, "deal-1", "ghost", "user-1")

	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeNotFound, domainErr.Code)
	assert.EqualError(t, err, "new stage not found")
	deals.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestMoveDealStageDealNotFound(t *testing.T) {
	ctx := context.Background()
	v, _, deals := newTransitionFixture()

	deals.On("FindByID", ctx, "missing").Return(nil, entity.ErrDealNotFound)

	_, err := v.MoveDealStage(ctx, "missing", "s1", "user-1")

	assert.True(t, IsDomainError(err))
	assert.EqualError(t, err, "deal not found")
}
