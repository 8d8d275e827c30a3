package usecase

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/satiscrm/crm-api/internal/entity"
)

// maxStageDelta is how many ordinal positions a deal may move per update, in
// either direction. A heuristic guard against fat-finger stage jumps, not a
// full state machine.
const maxStageDelta = 2

// StageTransitionValidator decides whether a pipeline-stage change is
// permitted and applies it. Deal stage mutations go through MoveDealStage
// only, so the check cannot be bypassed by callers.
type StageTransitionValidator struct {
	stages entity.StageRepositoryInterface
	deals  entity.DealRepositoryInterface
	logger *log.Logger
}

func NewStageTransitionValidator(
	stages entity.StageRepositoryInterface,
	deals entity.DealRepositoryInterface,
	logger *log.Logger,
) *StageTransitionValidator {
	return &StageTransitionValidator{stages: stages, deals: deals, logger: logger}
}

// ValidateTransition checks a proposed move between two stage ids. Skipping
// more than two positions is an error; moving backward is a warning.
func (v *StageTransitionValidator) ValidateTransition(ctx context.Context, dealID, currentStageID, newStageID, userID string) CheckResult {
	var errs, warnings []string

	stages, err := v.stages.ListActive(ctx)
	if err != nil {
		errs = append(errs, "unable to load sales stages")
		return newCheckResult(errs, warnings)
	}

	currentIndex, newIndex := -1, -1
	for _, s := range stages {
		if s.ID == currentStageID {
			currentIndex = s.OrderIndex
		}
		if s.ID == newStageID {
			newIndex = s.OrderIndex
		}
	}

	if currentIndex == -1 {
		errs = append(errs, "current stage not found")
	}
	if newIndex == -1 {
		errs = append(errs, "new stage not found")
	}

	if currentIndex != -1 && newIndex != -1 {
		delta := newIndex - currentIndex
		if delta < 0 {
			delta = -delta
		}
		if delta > maxStageDelta {
			errs = append(errs, "cannot skip multiple stages in pipeline")
		}
		if newIndex < currentIndex {
			warnings = append(warnings, "moving deal backward in pipeline")
		}
	}

	result := newCheckResult(errs, warnings)
	v.logger.Info("stage transition attempted",
		"deal_id", dealID,
		"current_stage", currentStageID,
		"new_stage", newStageID,
		"user_id", userID,
		"is_valid", result.IsValid)
	return result
}

// MoveDealStage validates the transition and, when permitted, persists the
// deal's new stage. Warnings are returned alongside success so the caller
// can surface them.
func (v *StageTransitionValidator) MoveDealStage(ctx context.Context, dealID, newStageID, userID string) ([]string, error) {
	deal, err := v.deals.FindByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, entity.ErrDealNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: "deal not found"}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to load deal: " + err.Error()}
	}

	result := v.ValidateTransition(ctx, dealID, deal.StageID, newStageID, userID)
	if !result.IsValid {
		code := CodeStageSkip
		switch result.Errors[0] {
		case "current stage not found", "new stage not found":
			code = CodeNotFound
		}
		return result.Warnings, &DomainError{Code: code, Message: result.Errors[0]}
	}

	if err := v.deals.UpdateStage(ctx, dealID, newStageID); err != nil {
		return result.Warnings, &TechnicalError{Code: CodeDatabase, Message: "failed to update stage: " + err.Error()}
	}
	return result.Warnings, nil
}
