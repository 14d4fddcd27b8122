package domain

import "time"

// Scoring constants for stage completion.
const (
	PointsPerCorrect = 10
	twoStarAccuracy  = 0.6
)

// ResultSnapshot is one exercise's outcome inside a stage summary.
type ResultSnapshot struct {
	Index     int        `json:"index"` // 1-based
	Status    Status     `json:"status"`
	Attempts  int        `json:"attempts"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// StageSummary is the immutable snapshot produced when a stage finishes.
type StageSummary struct {
	Level       string           `json:"level"`
	Stage       int              `json:"stage"`
	Total       int              `json:"total"`
	OK          int              `json:"ok"`
	Fail        int              `json:"fail"`
	Skipped     int              `json:"skipped"`
	Pending     int              `json:"pending"`
	Accuracy    float64          `json:"accuracy"`
	Stars       int              `json:"stars"`
	Score       int              `json:"score"`
	CompletedAt time.Time        `json:"completedAt"`
	StageMeta   StageMeta        `json:"stageMeta"`
	LevelMeta   LevelMeta        `json:"levelMeta"`
	Subtype     string           `json:"subtype"`
	StageIndex  int              `json:"stageIndex"`
	TotalStages int              `json:"totalStages"`
	Results     []ResultSnapshot `json:"results"`
}

// BuildStageSummary aggregates the result entries of a finished stage.
// Stars: 3 for a perfect run, 2 from 60% accuracy, 1 below that.
func BuildStageSummary(level string, stage int, resolved *ResolvedStage, results []*ResultEntry, now time.Time) *StageSummary {
	s := &StageSummary{
		Level:       level,
		Stage:       stage,
		Total:       len(results),
		CompletedAt: now,
		StageIndex:  stage,
		TotalStages: len(results),
		Results:     make([]ResultSnapshot, 0, len(results)),
	}
	if resolved != nil {
		s.StageMeta = resolved.StageMeta
		s.LevelMeta = resolved.LevelMeta
		s.Subtype = resolved.Subtype
		s.StageIndex = resolved.StageIndex
		s.TotalStages = resolved.TotalStages
	}

	for i, entry := range results {
		switch entry.Status {
		case StatusOK:
			s.OK++
		case StatusFail:
			s.Fail++
		case StatusSkipped:
			s.Skipped++
		default:
			s.Pending++
		}
		s.Results = append(s.Results, ResultSnapshot{
			Index:     i + 1,
			Status:    entry.Status,
			Attempts:  entry.Attempts,
			UpdatedAt: entry.UpdatedAt,
		})
	}

	if s.Total > 0 {
		s.Accuracy = float64(s.OK) / float64(s.Total)
	}
	switch {
	case s.Accuracy == 1:
		s.Stars = 3
	case s.Accuracy >= twoStarAccuracy:
		s.Stars = 2
	default:
		s.Stars = 1
	}
	s.Score = s.OK * PointsPerCorrect

	return s
}
