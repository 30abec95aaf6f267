package orchestrator

import "fluxwell/models"

// State is the orchestrator's current phase. Exactly one of the types below.
type State interface {
	// Name returns a short, stable name for logs and displays.
	Name() string
	isState()
}

// Idle is the state before Mount and after Unmount.
type Idle struct{}

// LoadingStatus is the initial or user-requested load.
type LoadingStatus struct{}

// NotConnected means the user has not completed onboarding.
type NotConnected struct{}

// AIDisabled means the plan is shown in manual (assist) mode.
type AIDisabled struct{}

// NeedsGeneration means an automatic generation is about to start for AnchorDate
// (empty when the cycle is triggered by an empty plan rather than the anchor day).
type NeedsGeneration struct {
	AnchorDate string
}

// PlanReady shows the committed plan, plus a pending AI candidate when Candidate is set.
type PlanReady struct {
	Candidate *models.AIGeneratedPlan
}

// Generating means an AI generation request is in flight.
type Generating struct {
	AnchorDate string
}

// AwaitingConfirmation means saving Candidate would overwrite the days in Conflicts.
type AwaitingConfirmation struct {
	Candidate *models.AIGeneratedPlan
	Conflicts []models.ConflictEntry
}

// Saving means Candidate is being committed.
type Saving struct {
	Candidate *models.AIGeneratedPlan
	Force     bool
}

// Reloading follows a successful commit.
type Reloading struct{}

func (Idle) Name() string                 { return "idle" }
func (LoadingStatus) Name() string        { return "loading" }
func (NotConnected) Name() string         { return "not_connected" }
func (AIDisabled) Name() string           { return "ai_disabled" }
func (NeedsGeneration) Name() string      { return "needs_generation" }
func (PlanReady) Name() string            { return "plan_ready" }
func (Generating) Name() string           { return "generating" }
func (AwaitingConfirmation) Name() string { return "awaiting_confirmation" }
func (Saving) Name() string               { return "saving" }
func (Reloading) Name() string            { return "reloading" }

func (Idle) isState()                 {}
func (LoadingStatus) isState()        {}
func (NotConnected) isState()         {}
func (AIDisabled) isState()           {}
func (NeedsGeneration) isState()      {}
func (PlanReady) isState()            {}
func (Generating) isState()           {}
func (AwaitingConfirmation) isState() {}
func (Saving) isState()               {}
func (Reloading) isState()            {}

// candidateOf returns the pending candidate carried by s, if any.
func candidateOf(s State) *models.AIGeneratedPlan {
	switch st := s.(type) {
	case PlanReady:
		return st.Candidate
	case AwaitingConfirmation:
		return st.Candidate
	case Saving:
		return st.Candidate
	}
	return nil
}

// withCandidate returns s carrying plan instead of its current candidate.
func withCandidate(s State, plan *models.AIGeneratedPlan) State {
	switch st := s.(type) {
	case AwaitingConfirmation:
		st.Candidate = plan
		return st
	case Saving:
		st.Candidate = plan
		return st
	}
	return PlanReady{Candidate: plan}
}
