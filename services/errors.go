package services

import "errors"

var (
	// ErrProfileNotFound is returned when the user has not completed onboarding.
	ErrProfileNotFound = errors.New("plan profile not found")
	// ErrInvalidInput wraps every request validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrQuotaExceeded is returned when the daily AI generation quota is used up.
	ErrQuotaExceeded = errors.New("daily AI generation quota exceeded")
	// ErrAIUnavailable wraps LLM failures and unusable LLM output.
	ErrAIUnavailable = errors.New("AI service unavailable")
)
