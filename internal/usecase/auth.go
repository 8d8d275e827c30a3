package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/satiscrm/crm-api/internal/security"
)

// AuthUseCase wraps the hosted auth subsystem with rate limiting and
// logging. Authentication itself is fully delegated; nothing here stores
// credentials.
type AuthUseCase struct {
	sessions      SessionService
	loginLimiter  *security.RateLimiter
	signupLimiter *security.RateLimiter
	logger        *log.Logger
}

// Login allows 5 attempts per 15 minutes, signup 3 per hour, both keyed by
// email address.
func NewAuthUseCase(sessions SessionService, logger *log.Logger) *AuthUseCase {
	return &AuthUseCase{
		sessions:      sessions,
		loginLimiter:  security.NewRateLimiter(5, 15*time.Minute),
		signupLimiter: security.NewRateLimiter(3, 60*time.Minute),
		logger:        logger,
	}
}

func (uc *AuthUseCase) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if decision := uc.loginLimiter.Allow(email); !decision.Allowed {
		return nil, rateLimitedError(decision.RemainingTime)
	}

	session, err := uc.sessions.SignIn(ctx, email, password)
	if err != nil {
		uc.logger.Warn("sign-in rejected", "err", err)
		return nil, &DomainError{Code: "AUTH_FAILED", Message: "invalid email or password"}
	}

	uc.logger.Info("user signed in", "user_id", session.UserID)
	return session, nil
}

func (uc *AuthUseCase) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	if decision := uc.signupLimiter.Allow(email); !decision.Allowed {
		return nil, rateLimitedError(decision.RemainingTime)
	}

	session, err := uc.sessions.SignUp(ctx, email, password, fullName)
	if err != nil {
		uc.logger.Warn("sign-up rejected", "err", err)
		return nil, &DomainError{Code: "AUTH_FAILED", Message: "sign-up failed: " + err.Error()}
	}

	uc.logger.Info("user signed up", "user_id", session.UserID)
	return session, nil
}

func (uc *AuthUseCase) SignOut(ctx context.Context, accessToken string) error {
	if err := uc.sessions.SignOut(ctx, accessToken); err != nil {
		return &TechnicalError{Code: "AUTH_BACKEND", Message: "sign-out failed: " + err.Error()}
	}
	return nil
}

func (uc *AuthUseCase) ResetPassword(ctx context.Context, email string) error {
	if decision := uc.loginLimiter.Allow(email); !decision.Allowed {
		return rateLimitedError(decision.RemainingTime)
	}
	if err := uc.sessions.ResetPassword(ctx, email); err != nil {
		return &TechnicalError{Code: "AUTH_BACKEND", Message: "password reset failed: " + err.Error()}
	}
	uc.logger.Info("password reset requested")
	return nil
}

func rateLimitedError(remaining time.Duration) error {
	minutes := int(remaining.Minutes()) + 1
	return &DomainError{
		Code:    "RATE_LIMITED",
		Message: fmt.Sprintf("too many attempts, try again in %d minutes", minutes),
	}
}
