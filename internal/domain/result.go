package domain

import "time"

// Status is the tracked outcome of one exercise within a stage.
type Status string

const (
	StatusPending Status = "pending"
	StatusOK      Status = "ok"
	StatusFail    Status = "fail"
	StatusSkipped Status = "skipped"
)

// ResultEntry tracks the outcome and attempt count for one exercise in the
// current stage. Rewarded survives a reset so points are granted at most
// once per exercise per stage load.
type ResultEntry struct {
	Status    Status     `json:"status"`
	Attempts  int        `json:"attempts"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Rewarded  bool       `json:"-"`
}

// Reset returns the entry to its initial pending state.
func (r *ResultEntry) Reset() {
	r.Status = StatusPending
	r.Attempts = 0
	r.UpdatedAt = nil
}

// Cleared reports whether the exercise no longer blocks advancing.
func (r *ResultEntry) Cleared() bool {
	return r.Status == StatusOK || r.Status == StatusSkipped
}
