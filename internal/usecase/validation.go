package usecase

import (
	"context"
	"errors"

	"github.com/satiscrm/crm-api/internal/entity"
)

// CheckResult carries blocking errors alongside non-blocking warnings for
// advisory pre-checks.
type CheckResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func newCheckResult(errs, warnings []string) CheckResult {
	if errs == nil {
		errs = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return CheckResult{IsValid: len(errs) == 0, Errors: errs, Warnings: warnings}
}

// ValidateLeadForConversion is the advisory pre-flight shown to the user
// before the conversion workflow runs. Closed leads are errors; a
// not-yet-qualified status or foreign ownership are warnings only — the
// hard gate lives in ConvertLeadUseCase.
func (uc *ConvertLeadUseCase) ValidateLeadForConversion(ctx context.Context, leadID, userID string) CheckResult {
	var errs, warnings []string

	if leadID == "" {
		errs = append(errs, "invalid lead ID")
	}
	if userID == "" {
		errs = append(errs, "invalid user ID")
	}
	if len(errs) > 0 {
		return newCheckResult(errs, warnings)
	}

	lead, err := uc.leads.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			errs = append(errs, "lead not found or access denied")
		} else {
			errs = append(errs, "validation error: "+err.Error())
		}
		return newCheckResult(errs, warnings)
	}

	switch lead.Status {
	case entity.LeadStatusClosedWon:
		errs = append(errs, "lead has already been converted")
	case entity.LeadStatusClosedLost:
		errs = append(errs, "cannot convert a lost lead")
	case entity.LeadStatusQualified:
	default:
		warnings = append(warnings, "lead is not qualified - consider qualifying first")
	}

	if lead.OwnerID != "" && lead.OwnerID != userID {
		warnings = append(warnings, "you are not the owner of this lead")
	}

	return newCheckResult(errs, warnings)
}
