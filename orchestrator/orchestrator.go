package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"fluxwell/clock"
	"fluxwell/models"
	"fluxwell/utils"

	"golang.org/x/sync/errgroup"
)

const maxNotifications = 20

// SaveOptions controls a save.
type SaveOptions struct {
	// ForceReplace overwrites committed days without a conflict check.
	ForceReplace bool
}

// SaveOutcome tells the caller what a save did.
type SaveOutcome int

const (
	SaveFailed SaveOutcome = iota
	SaveCommitted
	SaveNeedsConfirmation
)

func (s SaveOutcome) String() string {
	switch s {
	case SaveCommitted:
		return "committed"
	case SaveNeedsConfirmation:
		return "needs_confirmation"
	default:
		return "failed"
	}
}

// Options wires an Orchestrator. Store, Generator and Checker are required.
type Options struct {
	Store     PlanStore
	Generator PlanGenerator
	Checker   ConflictChecker
	ModeCache ModeCache // Defaults to a MemoryModeCache
	Notifier  Notifier  // Defaults to LogNotifier; must not call back into the Orchestrator
	Clock     clock.Clock
}

// View is a consistent copy of the orchestrator's state for display.
type View struct {
	State               State
	Week                models.WeekPlan
	Today               *models.TodaySession
	Candidate           *models.AIGeneratedPlan
	Conflicts           []models.ConflictEntry
	AIMode              models.AIMode
	AnchorWeekday       int
	AnchorDate          string
	LastGeneratedAnchor string
	HasProfile          bool
	Generating          bool
	Saving              bool
	PendingAlternatives *PendingAlternatives
	LastError           error
	Notifications       []Notification
}

// Orchestrator coordinates loading the committed week, AI generation, conflict
// checks, confirmation and commit for one user. It is safe for concurrent use;
// network calls are made without holding the internal lock.
type Orchestrator struct {
	store     PlanStore
	generator PlanGenerator
	detector  *ConflictDetector
	cache     ModeCache
	notifier  Notifier
	clock     clock.Clock

	mu                  sync.Mutex
	state               State
	week                models.WeekPlan
	today               *models.TodaySession
	aiMode              models.AIMode
	anchorWeekday       int
	lastGeneratedAnchor string
	hasProfile          bool
	pending             *PendingAlternatives
	lastErr             error
	notifications       []Notification

	generating                 bool
	saving                     bool
	suppressAutoGenerationOnce bool
	skipConflictCheckOnce      bool

	mounted bool
	epoch   uint64
}

// New creates an Orchestrator in the Idle state.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		store:     opts.Store,
		generator: opts.Generator,
		detector:  NewConflictDetector(opts.Checker),
		cache:     opts.ModeCache,
		notifier:  opts.Notifier,
		clock:     opts.Clock,
		state:     Idle{},
		aiMode:    models.AIModeAssist,
	}
	if o.cache == nil {
		o.cache = NewMemoryModeCache()
	}
	if o.notifier == nil {
		o.notifier = LogNotifier{}
	}
	if o.clock == nil {
		o.clock = &clock.RealClock{}
	}
	now := o.clock.Now()
	o.week = models.NewEmptyWeek(now, now)
	return o
}

// Mount restores the cached AI mode, then loads status, week plan and today's session.
// A load failure leaves an empty, date-correct week and is returned.
func (o *Orchestrator) Mount(ctx context.Context) error {
	o.mu.Lock()
	o.epoch++
	o.mounted = true
	o.generating = false
	o.saving = false
	if mode, ok := o.cache.Load(); ok {
		o.aiMode = mode
	}
	now := o.clock.Now()
	o.week = models.NewEmptyWeek(now, now)
	o.today = todayFromWeek(o.week)
	o.setStateLocked(LoadingStatus{})
	epoch := o.epoch
	o.mu.Unlock()

	return o.load(ctx, epoch, nil)
}

// Unmount detaches the orchestrator. Results of requests still in flight are discarded.
func (o *Orchestrator) Unmount() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.epoch++
	o.mounted = false
	o.generating = false
	o.saving = false
	o.pending = nil
	o.setStateLocked(Idle{})
}

// Reload fetches the committed plan again. A pending candidate survives the reload.
func (o *Orchestrator) Reload(ctx context.Context) error {
	o.mu.Lock()
	if err := o.checkMountedLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	if o.saving {
		o.mu.Unlock()
		return ErrSaveInFlight
	}
	var keep *models.AIGeneratedPlan
	switch o.state.(type) {
	case PlanReady, AwaitingConfirmation:
		keep = candidateOf(o.state)
	}
	o.setStateLocked(LoadingStatus{})
	epoch := o.epoch
	o.mu.Unlock()

	return o.load(ctx, epoch, keep)
}

// Generate requests a new AI candidate for the current week.
func (o *Orchestrator) Generate(ctx context.Context) error {
	o.mu.Lock()
	if err := o.checkMountedLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	if o.generating {
		o.mu.Unlock()
		return ErrGenerationInFlight
	}
	if !o.aiMode.Enabled() {
		o.mu.Unlock()
		return ErrAIDisabled
	}
	switch o.state.(type) {
	case PlanReady, NeedsGeneration:
	default:
		name := o.state.Name()
		o.mu.Unlock()
		return fmt.Errorf("%w: cannot generate while %s", ErrInvalidTransition, name)
	}
	req, err := o.beginGenerateLocked()
	o.mu.Unlock()
	if err != nil {
		return err
	}
	return o.runGenerate(ctx, req)
}

// SetAIEnabled persists the AI mode on the server, then applies it locally. Turning AI on
// starts a generation when one is needed unless a save just completed. Turning it off
// drops the candidate.
func (o *Orchestrator) SetAIEnabled(ctx context.Context, enabled bool) error {
	o.mu.Lock()
	if err := o.checkMountedLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	if _, ok := o.state.(NotConnected); ok {
		o.mu.Unlock()
		return ErrNotConnected
	}
	if o.saving {
		o.mu.Unlock()
		return ErrSaveInFlight
	}
	epoch := o.epoch
	wasEnabled := o.aiMode.Enabled()
	o.mu.Unlock()

	mode := models.AIModeFromEnabled(enabled)
	if err := o.store.SetAIMode(ctx, mode); err != nil {
		o.mu.Lock()
		if o.currentLocked(epoch) {
			o.lastErr = err
			o.notifyLocked(LevelError, "Could not change AI mode", err)
		}
		o.mu.Unlock()
		return fmt.Errorf("set AI mode: %w", err)
	}

	o.mu.Lock()
	if !o.currentLocked(epoch) {
		o.mu.Unlock()
		return ErrNotMounted
	}
	o.aiMode = mode
	o.storeModeLocked()

	if !enabled {
		o.pending = nil
		o.skipConflictCheckOnce = false
		o.setStateLocked(AIDisabled{})
		o.mu.Unlock()
		return nil
	}
	if wasEnabled {
		o.mu.Unlock()
		return nil
	}
	if o.suppressAutoGenerationOnce {
		o.suppressAutoGenerationOnce = false
		log.Printf("INFO: [Orchestrator] Auto-generation suppressed once after save.")
		o.setStateLocked(PlanReady{})
		o.mu.Unlock()
		return nil
	}
	req, started := o.autoGenerateLocked()
	o.mu.Unlock()
	if started {
		// Failures are surfaced as notifications.
		_ = o.runGenerate(ctx, req)
	}
	return nil
}

// SetAnchorWeekday persists a new anchor weekday (0 = Monday) and reloads.
func (o *Orchestrator) SetAnchorWeekday(ctx context.Context, weekday int) error {
	if !utils.IsValidWeekday(weekday) {
		return fmt.Errorf("%w: anchor weekday %d", ErrIndexOutOfRange, weekday)
	}
	o.mu.Lock()
	if err := o.checkMountedLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	epoch := o.epoch
	o.mu.Unlock()

	if err := o.store.SetAnchorWeekday(ctx, weekday); err != nil {
		o.mu.Lock()
		if o.currentLocked(epoch) {
			o.lastErr = err
			o.notifyLocked(LevelError, "Could not change the anchor weekday", err)
		}
		o.mu.Unlock()
		return fmt.Errorf("set anchor weekday: %w", err)
	}
	return o.Reload(ctx)
}

// Save commits the pending candidate. Without ForceReplace, and unless the user just
// confirmed, it first checks the week for committed days and stops at
// AwaitingConfirmation when any exist.
func (o *Orchestrator) Save(ctx context.Context, opts SaveOptions) (SaveOutcome, error) {
	o.mu.Lock()
	if err := o.checkMountedLocked(); err != nil {
		o.mu.Unlock()
		return SaveFailed, err
	}
	if o.saving {
		o.mu.Unlock()
		return SaveFailed, ErrSaveInFlight
	}
	var candidate *models.AIGeneratedPlan
	switch o.state.(type) {
	case PlanReady, AwaitingConfirmation:
		candidate = candidateOf(o.state)
	}
	if candidate == nil {
		o.mu.Unlock()
		return SaveFailed, ErrNoCandidate
	}
	force := opts.ForceReplace || o.skipConflictCheckOnce
	o.skipConflictCheckOnce = false
	o.saving = true
	o.setStateLocked(Saving{Candidate: candidate, Force: force})
	epoch := o.epoch
	weekDates := utils.WeekDatesUTC(o.clock.Now())
	o.mu.Unlock()

	if !force {
		conflicts, err := o.detector.Detect(ctx, weekDates)
		if err != nil {
			log.Printf("WARN: [Orchestrator] Conflict check failed, continuing without confirmation: %v", err)
			conflicts = nil
		}
		if len(conflicts) > 0 {
			o.mu.Lock()
			defer o.mu.Unlock()
			if !o.currentLocked(epoch) {
				return SaveFailed, ErrNotMounted
			}
			o.saving = false
			o.setStateLocked(AwaitingConfirmation{Candidate: candidate, Conflicts: conflicts})
			o.notifyLocked(LevelWarning, fmt.Sprintf("%d day(s) already have a plan; confirm to replace them", len(conflicts)), nil)
			return SaveNeedsConfirmation, nil
		}
	}

	if _, err := o.store.UpdateWeekPlan(ctx, BuildWeekUpdate(candidate, weekDates[0])); err != nil {
		o.mu.Lock()
		defer o.mu.Unlock()
		if !o.currentLocked(epoch) {
			return SaveFailed, ErrNotMounted
		}
		o.saving = false
		o.lastErr = err
		o.setStateLocked(PlanReady{Candidate: candidate})
		o.notifyLocked(LevelError, "Could not save the AI plan", err)
		return SaveFailed, fmt.Errorf("save week plan: %w", err)
	}

	modeErr := o.store.SetAIMode(ctx, models.AIModeAssist)

	o.mu.Lock()
	if !o.currentLocked(epoch) {
		o.mu.Unlock()
		log.Printf("INFO: [Orchestrator] Plan committed after unmount; local state discarded.")
		return SaveCommitted, nil
	}
	o.saving = false
	o.aiMode = models.AIModeAssist
	o.storeModeLocked()
	o.suppressAutoGenerationOnce = true
	o.pending = nil
	o.lastErr = nil
	if modeErr != nil {
		o.notifyLocked(LevelWarning, "Plan saved, but AI mode could not be turned off on the server", modeErr)
	}
	o.notifyLocked(LevelInfo, "AI plan saved", nil)
	o.setStateLocked(Reloading{})
	o.mu.Unlock()

	// Reload failures are surfaced through notifications; the commit itself succeeded.
	_ = o.load(ctx, epoch, nil)
	return SaveCommitted, nil
}

// Confirm accepts the pending replacement and saves with ForceReplace.
func (o *Orchestrator) Confirm(ctx context.Context) (SaveOutcome, error) {
	o.mu.Lock()
	if _, ok := o.state.(AwaitingConfirmation); !ok {
		o.mu.Unlock()
		return SaveFailed, ErrNotAwaitingConfirmation
	}
	o.skipConflictCheckOnce = true
	o.mu.Unlock()
	return o.Save(ctx, SaveOptions{ForceReplace: true})
}

// Cancel abandons the pending replacement. The candidate and the committed plan are kept.
func (o *Orchestrator) Cancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, ok := o.state.(AwaitingConfirmation)
	if !ok {
		return ErrNotAwaitingConfirmation
	}
	o.skipConflictCheckOnce = false
	o.setStateLocked(PlanReady{Candidate: st.Candidate})
	o.notifyLocked(LevelInfo, "Save cancelled", nil)
	return nil
}

// RequestAlternatives looks up replacements for one exercise of the candidate and keeps
// them as the pending alternatives.
func (o *Orchestrator) RequestAlternatives(ctx context.Context, dayIndex, exerciseIndex int) (*models.AlternativesResponse, error) {
	o.mu.Lock()
	if err := o.checkMountedLocked(); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	candidate := o.editableCandidateLocked()
	if err := checkIndices(candidate, dayIndex, exerciseIndex); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	day := candidate.Week[dayIndex]
	exercise := day.Exercises[exerciseIndex]
	epoch := o.epoch
	o.mu.Unlock()

	resp, err := o.generator.SuggestAlternatives(ctx, models.AlternativesRequest{Exercise: exercise, Focus: day.Focus})

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.currentLocked(epoch) {
		return nil, ErrNotMounted
	}
	if err != nil {
		o.lastErr = err
		o.notifyLocked(LevelError, "Could not load alternatives", err)
		return nil, fmt.Errorf("suggest alternatives: %w", err)
	}
	o.pending = &PendingAlternatives{
		DayIndex:      dayIndex,
		ExerciseIndex: exerciseIndex,
		ExerciseID:    exercise.ExerciseID,
		Options:       append([]models.ExerciseOut(nil), resp.Alternatives...),
		Rationale:     resp.Rationale,
	}
	return resp, nil
}

// SelectAlternative replaces the candidate's exercise at (dayIndex, exerciseIndex) with alt.
// Only the in-memory candidate changes.
func (o *Orchestrator) SelectAlternative(dayIndex, exerciseIndex int, alt models.ExerciseOut) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.checkMountedLocked(); err != nil {
		return err
	}
	return o.replaceLocked(dayIndex, exerciseIndex, alt)
}

// PickAlternative applies option n of the pending alternatives.
func (o *Orchestrator) PickAlternative(n int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.checkMountedLocked(); err != nil {
		return err
	}
	p := o.pending
	if p == nil {
		return ErrNoPendingAlternatives
	}
	if n < 0 || n >= len(p.Options) {
		return fmt.Errorf("%w: alternative %d", ErrIndexOutOfRange, n)
	}
	candidate := o.editableCandidateLocked()
	if checkIndices(candidate, p.DayIndex, p.ExerciseIndex) != nil ||
		candidate.Week[p.DayIndex].Exercises[p.ExerciseIndex].ExerciseID != p.ExerciseID {
		o.pending = nil
		return ErrNoPendingAlternatives
	}
	return o.replaceLocked(p.DayIndex, p.ExerciseIndex, p.Options[n])
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.clock.Now()
	week := cloneWeek(o.week)
	week.ApplyDayFlags(now)

	v := View{
		State:               o.state,
		Week:                week,
		AIMode:              o.aiMode,
		AnchorWeekday:       o.anchorWeekday,
		AnchorDate:          utils.FormatISODate(utils.AnchorDateUTC(now, o.anchorWeekday)),
		LastGeneratedAnchor: o.lastGeneratedAnchor,
		HasProfile:          o.hasProfile,
		Generating:          o.generating,
		Saving:              o.saving,
		LastError:           o.lastErr,
		Notifications:       append([]Notification(nil), o.notifications...),
	}
	if candidate := candidateOf(o.state); candidate != nil {
		v.Candidate = clonePlan(candidate)
		v.State = withCandidate(o.state, v.Candidate)
	}
	if st, ok := o.state.(AwaitingConfirmation); ok {
		v.Conflicts = append([]models.ConflictEntry(nil), st.Conflicts...)
	}
	if o.today != nil {
		today := *o.today
		today.Exercises = append([]models.PlanExercise{}, o.today.Exercises...)
		v.Today = &today
	}
	if o.pending != nil {
		p := *o.pending
		p.Options = append([]models.ExerciseOut(nil), o.pending.Options...)
		v.PendingAlternatives = &p
	}
	return v
}

// load fetches status, week and today's session concurrently and applies them if
// epoch is still current. keep is a candidate to preserve across the reload.
func (o *Orchestrator) load(ctx context.Context, epoch uint64, keep *models.AIGeneratedPlan) error {
	var (
		status   *models.PlanStatus
		week     *models.WeekPlanResponse
		weekErr  error
		today    *models.TodaySession
		todayErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		s, err := o.store.GetStatus(ctx)
		if err != nil {
			return fmt.Errorf("load plan status: %w", err)
		}
		if s == nil {
			return errors.New("load plan status: empty response")
		}
		status = s
		return nil
	})
	g.Go(func() error {
		week, weekErr = o.store.GetWeekPlan(ctx)
		return nil
	})
	g.Go(func() error {
		today, todayErr = o.store.GetTodaySession(ctx)
		return nil
	})
	statusErr := g.Wait()

	o.mu.Lock()
	if !o.currentLocked(epoch) {
		o.mu.Unlock()
		log.Printf("INFO: [Orchestrator] Discarding load result after unmount.")
		return ErrNotMounted
	}
	now := o.clock.Now()
	empty := models.NewEmptyWeek(now, now)

	if statusErr == nil && !status.HasProfile {
		o.hasProfile = false
		o.week = empty
		o.today = todayFromWeek(empty)
		o.lastErr = nil
		o.setStateLocked(NotConnected{})
		o.mu.Unlock()
		return nil
	}

	loadErr := statusErr
	if loadErr == nil && weekErr != nil {
		loadErr = fmt.Errorf("load week plan: %w", weekErr)
	}
	if loadErr == nil && week == nil {
		loadErr = errors.New("load week plan: empty response")
	}
	if loadErr != nil {
		o.week = empty
		o.today = todayFromWeek(empty)
		o.lastErr = loadErr
		o.notifyLocked(LevelError, "Could not load your plan", loadErr)
		if o.aiMode.Enabled() {
			o.setStateLocked(PlanReady{Candidate: keep})
		} else {
			o.setStateLocked(AIDisabled{})
		}
		o.mu.Unlock()
		return loadErr
	}

	o.hasProfile = true
	o.week = alignWeek(week.WeekPlan, empty)
	if todayErr == nil && today != nil {
		o.today = today
	} else {
		log.Printf("WARN: [Orchestrator] Today's session unavailable, using the week plan instead: %v", todayErr)
		o.today = todayFromWeek(o.week)
	}
	o.aiMode = models.AIModeFromEnabled(week.AIEnabled)
	o.storeModeLocked()
	o.anchorWeekday = week.AIAnchorWeekday
	if !utils.IsValidWeekday(o.anchorWeekday) {
		o.anchorWeekday = 0
	}
	o.lastGeneratedAnchor = week.LastGeneratedAnchor
	o.lastErr = nil

	if !o.aiMode.Enabled() {
		o.pending = nil
		o.skipConflictCheckOnce = false
		o.setStateLocked(AIDisabled{})
		o.mu.Unlock()
		return nil
	}
	// The post-save reload sees AI off, so the flag waits for the next AI-on reconciliation.
	suppressed := o.suppressAutoGenerationOnce
	o.suppressAutoGenerationOnce = false
	if keep != nil || suppressed {
		if suppressed {
			log.Printf("INFO: [Orchestrator] Auto-generation suppressed once after save.")
		}
		o.setStateLocked(PlanReady{Candidate: keep})
		o.mu.Unlock()
		return nil
	}

	req, started := o.autoGenerateLocked()
	o.mu.Unlock()
	if started {
		// Failures are surfaced as notifications.
		_ = o.runGenerate(ctx, req)
	}
	return nil
}

type generateRequest struct {
	epoch      uint64
	anchorDate string
	previous   *models.AIGeneratedPlan
}

// autoGenerateLocked starts a generation when ShouldGenerate holds, otherwise it
// settles in PlanReady.
func (o *Orchestrator) autoGenerateLocked() (generateRequest, bool) {
	now := o.clock.Now()
	today := utils.FormatISODate(now)
	anchor := utils.FormatISODate(utils.AnchorDateUTC(now, o.anchorWeekday))
	if !ShouldGenerate(o.aiMode.Enabled(), o.week.TotalExercises(), today, anchor, o.lastGeneratedAnchor) {
		o.setStateLocked(PlanReady{})
		return generateRequest{}, false
	}
	anchorDate := ""
	if today == anchor {
		anchorDate = anchor
	}
	o.setStateLocked(NeedsGeneration{AnchorDate: anchorDate})
	req, err := o.beginGenerateLocked()
	if err != nil {
		if errors.Is(err, ErrGenerationInFlight) {
			o.setStateLocked(Generating{AnchorDate: anchorDate})
		}
		return generateRequest{}, false
	}
	return req, true
}

// beginGenerateLocked marks a generation in flight. The anchor date is sent only on the
// anchor day so the server records the cycle as generated.
func (o *Orchestrator) beginGenerateLocked() (generateRequest, error) {
	if o.generating {
		return generateRequest{}, ErrGenerationInFlight
	}
	if !o.aiMode.Enabled() {
		return generateRequest{}, ErrAIDisabled
	}
	now := o.clock.Now()
	req := generateRequest{epoch: o.epoch, previous: candidateOf(o.state)}
	if anchor := utils.AnchorDateUTC(now, o.anchorWeekday); utils.FormatISODate(now) == utils.FormatISODate(anchor) {
		req.anchorDate = utils.FormatISODate(anchor)
	}
	o.generating = true
	o.setStateLocked(Generating{AnchorDate: req.anchorDate})
	return req, nil
}

func (o *Orchestrator) runGenerate(ctx context.Context, req generateRequest) error {
	plan, err := o.generator.GenerateWeekPlan(ctx, req.anchorDate)
	if err == nil && plan == nil {
		err = errors.New("empty plan response")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.currentLocked(req.epoch) {
		log.Printf("INFO: [Orchestrator] Discarding generation result after unmount.")
		return ErrNotMounted
	}
	o.generating = false
	if err != nil {
		o.lastErr = err
		o.notifyLocked(LevelError, "AI plan generation failed", err)
		if _, ok := o.state.(Generating); ok {
			o.setStateLocked(PlanReady{Candidate: req.previous})
		}
		return fmt.Errorf("generate week plan: %w", err)
	}

	switch o.state.(type) {
	case Generating, NeedsGeneration, PlanReady:
	default:
		log.Printf("INFO: [Orchestrator] Discarding generation result in state %s.", o.state.Name())
		return nil
	}
	if !o.aiMode.Enabled() {
		log.Printf("INFO: [Orchestrator] Discarding generation result, AI mode was turned off.")
		return nil
	}
	if req.anchorDate != "" {
		o.lastGeneratedAnchor = req.anchorDate
	}
	o.lastErr = nil
	o.pending = nil
	o.setStateLocked(PlanReady{Candidate: plan})
	o.notifyLocked(LevelInfo, fmt.Sprintf("AI plan ready (%d days)", len(plan.Week)), nil)
	return nil
}

func (o *Orchestrator) editableCandidateLocked() *models.AIGeneratedPlan {
	switch o.state.(type) {
	case PlanReady, AwaitingConfirmation:
		return candidateOf(o.state)
	}
	return nil
}

func (o *Orchestrator) replaceLocked(dayIndex, exerciseIndex int, alt models.ExerciseOut) error {
	updated, err := ReplaceExercise(o.editableCandidateLocked(), dayIndex, exerciseIndex, alt)
	if err != nil {
		return err
	}
	o.state = withCandidate(o.state, updated)
	o.pending = nil
	return nil
}

func (o *Orchestrator) checkMountedLocked() error {
	if !o.mounted {
		return ErrNotMounted
	}
	return nil
}

func (o *Orchestrator) currentLocked(epoch uint64) bool {
	return o.mounted && o.epoch == epoch
}

func (o *Orchestrator) setStateLocked(s State) {
	if o.state == nil || o.state.Name() != s.Name() {
		prev := "none"
		if o.state != nil {
			prev = o.state.Name()
		}
		log.Printf("INFO: [Orchestrator] State %s -> %s", prev, s.Name())
	}
	o.state = s
}

func (o *Orchestrator) storeModeLocked() {
	if err := o.cache.Store(o.aiMode); err != nil {
		log.Printf("WARN: [Orchestrator] Failed to cache AI mode: %v", err)
	}
}

func (o *Orchestrator) notifyLocked(level NotificationLevel, message string, err error) {
	n := Notification{Level: level, Message: message, Err: err, At: o.clock.Now()}
	o.notifications = append(o.notifications, n)
	if len(o.notifications) > maxNotifications {
		o.notifications = o.notifications[len(o.notifications)-maxNotifications:]
	}
	o.notifier.Notify(n)
}

func todayFromWeek(week models.WeekPlan) *models.TodaySession {
	for _, d := range week.Days {
		if d.IsToday {
			return &models.TodaySession{
				Date:      d.Date,
				Weekday:   d.Weekday,
				Name:      d.Name,
				PlanType:  d.PlanType,
				Exercises: append([]models.PlanExercise{}, d.Exercises...),
			}
		}
	}
	return nil
}
