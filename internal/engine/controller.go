// Package engine drives a player through one stage at a time: loading,
// answer checking, hints, navigation, and the stage summary. All presentation
// work is emitted as effect commands; the engine itself never touches audio
// or visuals.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vtinadev/leoplay/internal/domain"
	"github.com/vtinadev/leoplay/internal/effects"
	"github.com/vtinadev/leoplay/internal/reward"
)

// State is the controller's stage-level state.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateBlocked State = "blocked"
	StateError   State = "error"
)

// BlockedMessage is shown when the access predicate denies a level.
const BlockedMessage = "Este nivel aún no está disponible"

// Source resolves stages. The stage resolver satisfies it; tests substitute
// fakes, including deliberately slow ones.
type Source interface {
	Resolve(level string, stageNumber int) (*domain.ResolvedStage, error)
}

// AccessFunc decides whether a level may be played. Consulted at stage-load
// time only.
type AccessFunc func(level string) bool

// CheckMeta carries per-submission options.
type CheckMeta struct {
	// SuppressAdvance skips the automatic advance after a correct answer.
	SuppressAdvance bool
}

// Options configures a Controller.
type Options struct {
	AdvanceDelay    time.Duration // default DefaultAdvanceDelay
	PointsPerAnswer int           // default domain.PointsPerCorrect
	HintThreshold   int           // default domain.HintThreshold
	Schedule        ScheduleFunc  // default time.AfterFunc wrapper
	Clock           func() time.Time
	Logger          *slog.Logger
	OnStageComplete func(*domain.StageSummary)
}

// Controller owns the result entries and the cursor for the stage being
// played. All mutation happens under one mutex; the evaluator and resolver
// never share state with it.
type Controller struct {
	source     Source
	access     AccessFunc
	rewards    reward.Service
	dispatcher effects.Dispatcher
	evaluator  *domain.AnswerEvaluator
	hints      *domain.HintSelector
	logger     *slog.Logger

	advanceDelay    time.Duration
	points          int
	schedule        ScheduleFunc
	clock           func() time.Time
	onStageComplete func(*domain.StageSummary)

	// loadToken versions stage loads; only the newest load may install its
	// result.
	loadToken atomic.Int64

	mu            sync.Mutex
	state         State
	stateMessage  string
	level         string
	stageNumber   int
	resolved      *domain.ResolvedStage
	results       []*domain.ResultEntry
	index         int
	summary       *domain.StageSummary
	cancelAdvance CancelFunc
	advanceGen    int
	closed        bool
}

// New creates a controller. source is required; access, rewards and
// dispatcher may be nil (deny nothing, count nothing, drop effects).
func New(source Source, access AccessFunc, rewards reward.Service, dispatcher effects.Dispatcher, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.AdvanceDelay <= 0 {
		opts.AdvanceDelay = DefaultAdvanceDelay
	}
	if opts.PointsPerAnswer <= 0 {
		opts.PointsPerAnswer = domain.PointsPerCorrect
	}
	if opts.Schedule == nil {
		opts.Schedule = scheduleAfter
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Controller{
		source:          source,
		access:          access,
		rewards:         rewards,
		dispatcher:      dispatcher,
		evaluator:       domain.NewAnswerEvaluator(logger),
		hints:           domain.NewHintSelectorWithThreshold(opts.HintThreshold),
		logger:          logger,
		advanceDelay:    opts.AdvanceDelay,
		points:          opts.PointsPerAnswer,
		schedule:        opts.Schedule,
		clock:           opts.Clock,
		onStageComplete: opts.OnStageComplete,
		state:           StateLoading,
	}
}

// LoadStage loads the given stage. A denied access predicate yields the
// Blocked state with a notice, not an error. A load that is superseded by a
// newer LoadStage call before it completes is discarded without touching
// controller state.
func (c *Controller) LoadStage(ctx context.Context, level string, stageNumber int) error {
	token := c.loadToken.Add(1)

	c.mu.Lock()
	c.cancelAdvanceLocked()
	c.state = StateLoading
	c.stateMessage = ""
	c.level = level
	c.stageNumber = stageNumber
	c.summary = nil
	c.mu.Unlock()

	if c.access != nil && !c.access(level) {
		c.mu.Lock()
		if token != c.loadToken.Load() {
			c.mu.Unlock()
			return nil
		}
		c.state = StateBlocked
		c.stateMessage = BlockedMessage
		c.resolved = nil
		c.results = nil
		c.index = 0
		c.mu.Unlock()

		c.dispatch(ctx, effects.Notice(BlockedMessage))
		c.logger.Info("stage load blocked", "level", level, "stage", stageNumber)
		return nil
	}

	resolved, err := c.source.Resolve(level, stageNumber)

	c.mu.Lock()
	if token != c.loadToken.Load() {
		c.mu.Unlock()
		c.logger.Debug("discarding stale stage load", "level", level, "stage", stageNumber)
		return nil
	}
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateError
		c.stateMessage = fmt.Sprintf("contenido no disponible: %v", err)
		c.resolved = nil
		c.results = nil
		c.index = 0
		c.logger.Error("stage load failed", "level", level, "stage", stageNumber, "error", err)
		return err
	}

	c.resolved = resolved
	c.results = make([]*domain.ResultEntry, len(resolved.Exercises))
	for i := range c.results {
		c.results[i] = &domain.ResultEntry{Status: domain.StatusPending}
	}
	c.index = 0
	c.state = StateReady

	c.logger.Info("stage loaded",
		"level", level,
		"stage", resolved.StageIndex+1,
		"subtype", resolved.Subtype,
		"exercises", len(resolved.Exercises),
	)
	return nil
}

// CheckAnswer evaluates the submitted answer against the current exercise.
// It returns the verdict plus the effect commands the submission produced;
// the same commands are also handed to the controller's dispatcher.
func (c *Controller) CheckAnswer(ctx context.Context, answer domain.Answer, meta CheckMeta) (bool, []effects.Command) {
	c.mu.Lock()

	ex, entry := c.currentLocked()
	if ex == nil {
		c.mu.Unlock()
		return false, nil
	}

	ok := c.evaluator.Evaluate(ex, answer)
	now := c.clock()
	var commands []effects.Command

	if ok {
		firstSuccess := !entry.Rewarded
		entry.Status = domain.StatusOK
		entry.Attempts++
		entry.UpdatedAt = &now

		commands = append(commands, effects.Celebration(ex.ID, ex.FeedbackStyle, ex.OnCorrect))
		if firstSuccess {
			entry.Rewarded = true
			if c.rewards != nil {
				c.rewards.AddPoints(c.points)
			}
			commands = append(commands, effects.Points(c.points))
		}

		if !meta.SuppressAdvance {
			c.scheduleAdvanceLocked()
		}
	} else {
		priorFailures := entry.Attempts
		entry.Status = domain.StatusFail
		entry.Attempts++
		entry.UpdatedAt = &now

		message := domain.DefaultFeedbackMessage
		hintReady := c.hints.Ready(priorFailures)
		if hintReady {
			hint := c.hints.Select(ex)
			message = hint.Message
			commands = append(commands, effects.Feedback(ex.ID, message))
			if ex.CanRetry() {
				commands = append(commands, effects.HintFeedback(ex.ID, hint.Message, hint.Suggestion))
			}
		} else {
			commands = append(commands, effects.Feedback(ex.ID, message))
		}
	}

	for i := range commands {
		commands[i].Level = c.level
		commands[i].Exercise = ex.ID
	}
	c.mu.Unlock()

	c.dispatch(ctx, commands...)
	c.logger.Debug("answer checked", "exercise", ex.ID, "ok", ok)
	return ok, commands
}

// PlayCurrentAudio requests playback of the current exercise's audio clip.
// Exercises without audio produce nothing; the return value reports whether
// a play request was emitted.
func (c *Controller) PlayCurrentAudio(ctx context.Context) bool {
	c.mu.Lock()
	ex, _ := c.currentLocked()
	if ex == nil || ex.Audio == "" {
		c.mu.Unlock()
		return false
	}
	cmd := effects.AudioPlay(ex.Audio)
	cmd.Level = c.level
	cmd.Exercise = ex.ID
	c.mu.Unlock()

	c.dispatch(ctx, cmd)
	return true
}

// StartListening requests voice capture for the current exercise. Only
// voice-mode exercises listen; the return value reports whether capture was
// requested.
func (c *Controller) StartListening(ctx context.Context) bool {
	c.mu.Lock()
	ex, _ := c.currentLocked()
	if ex == nil || ex.Mode != "voice" {
		c.mu.Unlock()
		return false
	}
	cmd := effects.ListenStart()
	cmd.Level = c.level
	cmd.Exercise = ex.ID
	c.mu.Unlock()

	c.dispatch(ctx, cmd)
	return true
}

// StopListening ends any in-flight voice capture.
func (c *Controller) StopListening(ctx context.Context) {
	c.dispatch(ctx, effects.ListenStop())
}

// Skip marks the current exercise skipped without touching its attempt count
// and moves on.
func (c *Controller) Skip(ctx context.Context) {
	c.mu.Lock()
	_, entry := c.currentLocked()
	if entry == nil {
		c.mu.Unlock()
		return
	}
	now := c.clock()
	entry.Status = domain.StatusSkipped
	entry.UpdatedAt = &now
	c.mu.Unlock()

	c.Advance(ctx)
}

// Repeat resets the current exercise to pending with zero attempts. The
// reward mark survives, so re-answering a repeated exercise never awards
// points twice.
func (c *Controller) Repeat(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, entry := c.currentLocked()
	if entry == nil {
		return
	}
	c.cancelAdvanceLocked()
	entry.Reset()
}

// GoTo moves the cursor to index if it is in bounds, stopping in-flight media
// first.
func (c *Controller) GoTo(ctx context.Context, index int) {
	c.mu.Lock()
	if c.state != StateReady || index < 0 || index >= len(c.results) {
		c.mu.Unlock()
		return
	}
	c.cancelAdvanceLocked()
	c.index = index
	c.mu.Unlock()

	c.dispatch(ctx, effects.AudioStop(), effects.ListenStop())
}

// Prev moves one exercise back.
func (c *Controller) Prev(ctx context.Context) {
	c.mu.Lock()
	index := c.index - 1
	c.mu.Unlock()
	c.GoTo(ctx, index)
}

// Advance moves one exercise forward; past the last exercise it finishes the
// stage.
func (c *Controller) Advance(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return
	}
	next := c.index + 1
	last := next >= len(c.results)
	c.mu.Unlock()

	if last {
		c.FinishStage(ctx)
		return
	}
	c.GoTo(ctx, next)
}

// Next is Advance under the name the navigation surface uses.
func (c *Controller) Next(ctx context.Context) {
	c.Advance(ctx)
}

// FinishStage computes the stage summary, emits the stage celebration, and
// invokes the stage-complete callback. Finishing an already-finished stage is
// a no-op.
func (c *Controller) FinishStage(ctx context.Context) *domain.StageSummary {
	c.mu.Lock()
	if c.state != StateReady || c.resolved == nil || c.summary != nil {
		summary := c.summary
		c.mu.Unlock()
		return summary
	}
	c.cancelAdvanceLocked()

	summary := domain.BuildStageSummary(c.level, c.resolved.StageIndex+1, c.resolved, c.results, c.clock())
	c.summary = summary
	level := c.level
	c.mu.Unlock()

	commands := []effects.Command{
		effects.AudioStop(),
		effects.ListenStop(),
		effects.Celebration("stage", "high", "fiesta"),
	}
	for i := range commands {
		commands[i].Level = level
	}
	c.dispatch(ctx, commands...)

	if c.onStageComplete != nil {
		c.onStageComplete(summary)
	}
	c.logger.Info("stage finished",
		"level", summary.Level,
		"stage", summary.Stage,
		"stars", summary.Stars,
		"score", summary.Score,
	)
	return summary
}

// Close cancels any scheduled advance and stops the controller.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelAdvanceLocked()
	c.closed = true
}

// State returns the stage-level state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StateMessage returns the user-facing message for Blocked and Error states.
func (c *Controller) StateMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateMessage
}

// Current returns the exercise under the cursor, or nil outside Ready.
func (c *Controller) Current() *domain.Exercise {
	c.mu.Lock()
	defer c.mu.Unlock()
	ex, _ := c.currentLocked()
	return ex
}

// Index returns the 0-based cursor position.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Total returns the number of exercises in the loaded stage.
func (c *Controller) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// CanAdvance reports whether the current exercise has been resolved (ok or
// skipped).
func (c *Controller) CanAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, entry := c.currentLocked()
	if entry == nil {
		return false
	}
	return entry.Status == domain.StatusOK || entry.Status == domain.StatusSkipped
}

// Results returns a snapshot of the result entries.
func (c *Controller) Results() []domain.ResultEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ResultEntry, len(c.results))
	for i, entry := range c.results {
		out[i] = *entry
	}
	return out
}

// Summary returns the stage summary, nil until FinishStage has run.
func (c *Controller) Summary() *domain.StageSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary
}

// Resolved returns the loaded stage, nil outside Ready.
func (c *Controller) Resolved() *domain.ResolvedStage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolved
}

// currentLocked must be called with the lock held.
func (c *Controller) currentLocked() (*domain.Exercise, *domain.ResultEntry) {
	if c.state != StateReady || c.resolved == nil || c.index >= len(c.resolved.Exercises) {
		return nil, nil
	}
	return c.resolved.Exercises[c.index], c.results[c.index]
}

// scheduleAdvanceLocked must be called with the lock held. The scheduled
// callback re-checks the load token and cursor, so a stale timer that was
// not cancelled in time still cannot advance a different exercise.
func (c *Controller) scheduleAdvanceLocked() {
	c.cancelAdvanceLocked()

	token := c.loadToken.Load()
	index := c.index
	gen := c.advanceGen
	c.cancelAdvance = c.schedule(c.advanceDelay, func() {
		c.mu.Lock()
		stale := c.closed ||
			gen != c.advanceGen ||
			token != c.loadToken.Load() ||
			c.index != index ||
			c.state != StateReady
		if !stale {
			c.cancelAdvance = nil
		}
		c.mu.Unlock()
		if stale {
			return
		}
		c.Advance(context.Background())
	})
}

// cancelAdvanceLocked must be called with the lock held. Bumping the
// generation invalidates a timer that already fired and is waiting on the
// lock, which Stop alone cannot prevent.
func (c *Controller) cancelAdvanceLocked() {
	c.advanceGen++
	if c.cancelAdvance != nil {
		c.cancelAdvance()
		c.cancelAdvance = nil
	}
}

func (c *Controller) dispatch(ctx context.Context, commands ...effects.Command) {
	if c.dispatcher == nil || len(commands) == 0 {
		return
	}
	if err := c.dispatcher.Dispatch(ctx, commands...); err != nil {
		c.logger.Warn("effect dispatch failed", "error", err)
	}
}
