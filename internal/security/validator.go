// Package security holds the input-hygiene layer: field sanitization,
// per-identifier rate limiting and upload screening. Sanitization here is
// substring removal, defense in depth for form input — it is not a
// substitute for context-aware escaping at render time.
package security

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Result struct {
	IsValid        bool     `json:"is_valid"`
	Errors         []string `json:"errors"`
	SanitizedValue string   `json:"sanitized_value"`
}

type Config struct {
	EnableXSSProtection          bool
	EnableSQLInjectionProtection bool
	MaxLength                    int
	Required                     bool
	AllowedCharacters            *regexp.Regexp
	BlockedPatterns              []*regexp.Regexp
}

var (
	reJSProtocol    = regexp.MustCompile(`(?i)javascript:`)
	reEventHandler  = regexp.MustCompile(`(?i)on\w+=`)
	reAngleBrackets = regexp.MustCompile(`[<>]`)
	reQuotes        = regexp.MustCompile(`['";]`)
	reLineComment   = regexp.MustCompile(`--`)
	reBlockComment  = regexp.MustCompile(`/\*`)
)

var defaultBlockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+=`),
	regexp.MustCompile(`(?i)eval\(`),
	regexp.MustCompile(`(?i)expression\(`),
	regexp.MustCompile(`(?i)<iframe`),
	regexp.MustCompile(`(?i)<object`),
	regexp.MustCompile(`(?i)<embed`),
	regexp.MustCompile(`(?i)union\s+select`),
	regexp.MustCompile(`(?i)drop\s+table`),
	regexp.MustCompile(`(?i)delete\s+from`),
	regexp.MustCompile(`(?i)insert\s+into`),
	regexp.MustCompile(`(?i)update\s+set`),
}

// DefaultConfig mirrors the defaults applied to free-text form fields.
func DefaultConfig() Config {
	return Config{
		EnableXSSProtection:          true,
		EnableSQLInjectionProtection: true,
		MaxLength:                    1000,
		Required:                     true,
		AllowedCharacters:            regexp.MustCompile(`^[a-zA-Z0-9\s\-_.@çğıöşüÇĞIİÖŞÜ]+$`),
		BlockedPatterns:              defaultBlockedPatterns,
	}
}

type Validator struct {
	config Config
}

func NewValidator(config Config) *Validator {
	if config.MaxLength == 0 {
		config.MaxLength = 1000
	}
	if config.BlockedPatterns == nil {
		config.BlockedPatterns = defaultBlockedPatterns
	}
	return &Validator{config: config}
}

func NewDefaultValidator() *Validator {
	return NewValidator(DefaultConfig())
}

// ValidateAndSanitize checks one raw value against the validator's config and
// returns the sanitized value together with every human-readable error found.
// It never panics; the result is always populated.
func (v *Validator) ValidateAndSanitize(input, fieldName string) Result {
	if fieldName == "" {
		fieldName = "field"
	}

	if input == "" {
		if v.config.Required {
			return Result{
				IsValid:        false,
				Errors:         []string{fmt.Sprintf("%s is required", fieldName)},
				SanitizedValue: "",
			}
		}
		return Result{IsValid: true, Errors: []string{}, SanitizedValue: ""}
	}

	var errs []string
	sanitized := input

	if len(input) > v.config.MaxLength {
		errs = append(errs, fmt.Sprintf("%s must be less than %d characters", fieldName, v.config.MaxLength))
	}

	if v.config.EnableXSSProtection {
		sanitized = StripXSS(sanitized)

		// Blocked patterns are matched against the raw input and reported
		// as errors; they do not alter the sanitized value further.
		for _, pattern := range v.config.BlockedPatterns {
			if pattern.MatchString(input) {
				errs = append(errs, fmt.Sprintf("%s contains potentially dangerous content", fieldName))
				break
			}
		}
	}

	if v.config.EnableSQLInjectionProtection {
		sanitized = StripSQLTokens(sanitized)
	}

	if v.config.AllowedCharacters != nil && !v.config.AllowedCharacters.MatchString(sanitized) {
		errs = append(errs, fmt.Sprintf("%s contains invalid characters", fieldName))
	}

	if errs == nil {
		errs = []string{}
	}
	return Result{
		IsValid:        len(errs) == 0,
		Errors:         errs,
		SanitizedValue: sanitized,
	}
}

// StripXSS removes angle brackets, javascript: prefixes and inline event
// handler attributes. Replacements run until a fixed point so removal cannot
// splice a stripped token back together ("jjavascript:avascript:"); the
// result is idempotent.
func StripXSS(input string) string {
	if input == "" {
		return ""
	}
	s := input
	for {
		next := reAngleBrackets.ReplaceAllString(s, "")
		next = reJSProtocol.ReplaceAllString(next, "")
		next = reEventHandler.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// StripSQLTokens removes quote, semicolon and comment tokens, iterating to a
// fixed point for the same splicing reason as StripXSS ("-/*-" leaves "--"
// after one pass).
func StripSQLTokens(input string) string {
	if input == "" {
		return ""
	}
	s := input
	for {
		next := reQuotes.ReplaceAllString(s, "")
		next = reLineComment.ReplaceAllString(next, "")
		next = reBlockComment.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// ValidateEmail applies an email-shaped character allowlist on top of the
// base checks.
func (v *Validator) ValidateEmail(email string) Result {
	cfg := v.config
	cfg.AllowedCharacters = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	cfg.MaxLength = 254
	return NewValidator(cfg).ValidateAndSanitize(email, "Email")
}

func (v *Validator) ValidatePhone(phone string) Result {
	cfg := v.config
	cfg.AllowedCharacters = regexp.MustCompile(`^\+?[1-9][\d\s\-()]{7,15}$`)
	cfg.MaxLength = 20
	return NewValidator(cfg).ValidateAndSanitize(phone, "Phone")
}

// ValidateCurrency accepts a non-negative decimal amount with at most two
// fraction digits.
func (v *Validator) ValidateCurrency(amount string) Result {
	cfg := v.config
	cfg.AllowedCharacters = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	cfg.MaxLength = 15
	result := NewValidator(cfg).ValidateAndSanitize(amount, "Amount")

	if result.IsValid {
		value, err := strconv.ParseFloat(result.SanitizedValue, 64)
		if err != nil || value < 0 {
			result.IsValid = false
			result.Errors = append(result.Errors, "Amount must be a positive number")
		}
	}
	return result
}

func (v *Validator) ValidateCompanyName(name string) Result {
	cfg := v.config
	cfg.AllowedCharacters = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.&çğıöşüÇĞIİÖŞÜ]+$`)
	cfg.MaxLength = 100
	return NewValidator(cfg).ValidateAndSanitize(name, "Company Name")
}

// Sanitize is a convenience that returns only the cleaned value, for callers
// that persist best-effort sanitized copies of already-validated fields.
func (v *Validator) Sanitize(input string) string {
	s := input
	if v.config.EnableXSSProtection {
		s = StripXSS(s)
	}
	if v.config.EnableSQLInjectionProtection {
		s = StripSQLTokens(s)
	}
	return s
}
