package usecase

import "errors"

// DomainError is a business-rule refusal: validation, precondition or
// conflict. It is safe to show its message to the caller.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps a downstream persistence or infrastructure failure
// with context.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// Error codes surfaced by the use cases.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeDuplicateCustomer = "DUPLICATE_CUSTOMER"
	CodeStageSkip         = "STAGE_SKIP"
	CodeDatabase          = "DATABASE_ERROR"
)
