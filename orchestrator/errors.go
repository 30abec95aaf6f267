package orchestrator

import "errors"

var (
	ErrNotMounted              = errors.New("orchestrator is not mounted")
	ErrNotConnected            = errors.New("plan profile not connected")
	ErrAIDisabled              = errors.New("AI mode is disabled")
	ErrGenerationInFlight      = errors.New("a plan generation is already in progress")
	ErrSaveInFlight            = errors.New("a save is already in progress")
	ErrNoCandidate             = errors.New("no AI plan to save")
	ErrNotAwaitingConfirmation = errors.New("no save is awaiting confirmation")
	ErrInvalidTransition       = errors.New("operation not allowed in current state")
	ErrIndexOutOfRange         = errors.New("day or exercise index out of range")
	ErrNoPendingAlternatives   = errors.New("no alternatives requested for this exercise")
	ErrInvalidWeekDates        = errors.New("conflict check needs the seven dates of one Monday-first week")
)
