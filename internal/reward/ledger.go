// Package reward tracks points and stars earned during play. It is the
// in-process accounting collaborator the progression engine reports to;
// persisting the totals anywhere is somebody else's job.
package reward

import (
	"sync"
	"time"
)

// Service receives point awards from the progression engine.
type Service interface {
	AddPoints(amount int)
}

// StageResult is the recorded outcome of one finished stage.
type StageResult struct {
	Stars       int       `json:"stars"`
	Score       int       `json:"score"`
	Done        bool      `json:"done"`
	CompletedAt time.Time `json:"completedAt"`
}

// Progress describes how far a player is through one level.
type Progress struct {
	TotalStages     int          `json:"totalStages"`
	CompletedStages int          `json:"completedStages"`
	NextStage       int          `json:"nextStage"` // 1-based
	Percent         float64      `json:"percent"`
	LastStage       *StageResult `json:"lastStage,omitempty"`
}

// Ledger is the in-memory reward book: total points, total stars, and the
// per-level stage results the star total is derived from.
type Ledger struct {
	mu     sync.Mutex
	points int
	stars  int
	stages map[string]map[int]StageResult
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{stages: make(map[string]map[int]StageResult)}
}

// AddPoints credits points.
func (l *Ledger) AddPoints(amount int) {
	l.mu.Lock()
	l.points += amount
	l.mu.Unlock()
}

// Points returns the current point total.
func (l *Ledger) Points() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.points
}

// Stars returns the current star total.
func (l *Ledger) Stars() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stars
}

// SetStageResult records a stage outcome and recomputes the star total. A
// replayed stage overwrites its previous result, so stars reflect the latest
// run of each stage rather than accumulating.
func (l *Ledger) SetStageResult(level string, stage int, result StageResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stages[level] == nil {
		l.stages[level] = make(map[int]StageResult)
	}
	l.stages[level][stage] = result
	l.recomputeStars()
}

// recomputeStars must be called with the lock held.
func (l *Ledger) recomputeStars() {
	total := 0
	for _, stages := range l.stages {
		for _, result := range stages {
			total += result.Stars
		}
	}
	l.stars = total
}

// StageResultFor returns the recorded result of one stage.
func (l *Ledger) StageResultFor(level string, stage int) (StageResult, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	result, ok := l.stages[level][stage]
	return result, ok
}

// Progress summarizes completion of a level with totalStages stages.
func (l *Ledger) Progress(level string, totalStages int) Progress {
	l.mu.Lock()
	defer l.mu.Unlock()

	if totalStages <= 0 {
		totalStages = 1
	}

	completed := 0
	var last *StageResult
	for _, result := range l.stages[level] {
		if !result.Done {
			continue
		}
		completed++
		if last == nil || result.CompletedAt.After(last.CompletedAt) {
			r := result
			last = &r
		}
	}

	next := completed + 1
	if next > totalStages {
		next = totalStages
	}

	return Progress{
		TotalStages:     totalStages,
		CompletedStages: completed,
		NextStage:       next,
		Percent:         float64(completed) / float64(totalStages),
		LastStage:       last,
	}
}

// Reset wipes all totals and stage results.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.points = 0
	l.stars = 0
	l.stages = make(map[string]map[int]StageResult)
	l.mu.Unlock()
}

// AccessByCompletion builds a level-access predicate over the ledger: the
// first level in order is always open, and each later level opens once every
// stage of the previous one is done. totalStagesOf reports a level's stage
// count.
func AccessByCompletion(ledger *Ledger, order []string, totalStagesOf func(level string) int) func(level string) bool {
	return func(level string) bool {
		for i, id := range order {
			if id != level {
				continue
			}
			if i == 0 {
				return true
			}
			prev := order[i-1]
			progress := ledger.Progress(prev, totalStagesOf(prev))
			return progress.CompletedStages >= progress.TotalStages
		}
		return false
	}
}
