package reward

import (
	"testing"
	"time"
)

func TestLedger_Points(t *testing.T) {
	l := NewLedger()

	l.AddPoints(10)
	l.AddPoints(10)
	if got := l.Points(); got != 20 {
		t.Errorf("Points() = %d; want 20", got)
	}
}

func TestLedger_StarsFromStageResults(t *testing.T) {
	l := NewLedger()
	now := time.Now()

	l.SetStageResult("level1", 1, StageResult{Stars: 3, Done: true, CompletedAt: now})
	l.SetStageResult("level1", 2, StageResult{Stars: 2, Done: true, CompletedAt: now})
	l.SetStageResult("level2", 1, StageResult{Stars: 1, Done: true, CompletedAt: now})

	if got := l.Stars(); got != 6 {
		t.Errorf("Stars() = %d; want 6", got)
	}

	// Replaying a stage overwrites, not accumulates.
	l.SetStageResult("level1", 1, StageResult{Stars: 1, Done: true, CompletedAt: now})
	if got := l.Stars(); got != 4 {
		t.Errorf("Stars() after replay = %d; want 4", got)
	}
}

func TestLedger_Progress(t *testing.T) {
	l := NewLedger()
	base := time.Now()

	l.SetStageResult("level1", 1, StageResult{Stars: 3, Done: true, CompletedAt: base})
	l.SetStageResult("level1", 2, StageResult{Stars: 2, Done: true, CompletedAt: base.Add(time.Minute)})

	p := l.Progress("level1", 4)
	if p.CompletedStages != 2 {
		t.Errorf("CompletedStages = %d; want 2", p.CompletedStages)
	}
	if p.NextStage != 3 {
		t.Errorf("NextStage = %d; want 3", p.NextStage)
	}
	if p.Percent != 0.5 {
		t.Errorf("Percent = %v; want 0.5", p.Percent)
	}
	if p.LastStage == nil || p.LastStage.Stars != 2 {
		t.Errorf("LastStage = %+v; want the most recent result", p.LastStage)
	}
}

func TestLedger_ProgressCapsNextStage(t *testing.T) {
	l := NewLedger()
	now := time.Now()
	for stage := 1; stage <= 3; stage++ {
		l.SetStageResult("level1", stage, StageResult{Stars: 3, Done: true, CompletedAt: now})
	}

	p := l.Progress("level1", 3)
	if p.NextStage != 3 {
		t.Errorf("NextStage = %d; want capped at 3", p.NextStage)
	}
	if p.Percent != 1 {
		t.Errorf("Percent = %v; want 1", p.Percent)
	}
}

func TestLedger_Reset(t *testing.T) {
	l := NewLedger()
	l.AddPoints(30)
	l.SetStageResult("level1", 1, StageResult{Stars: 3, Done: true, CompletedAt: time.Now()})

	l.Reset()

	if l.Points() != 0 || l.Stars() != 0 {
		t.Errorf("after Reset: points %d stars %d; want zeros", l.Points(), l.Stars())
	}
	if p := l.Progress("level1", 4); p.CompletedStages != 0 {
		t.Errorf("after Reset: CompletedStages = %d; want 0", p.CompletedStages)
	}
}

func TestAccessByCompletion(t *testing.T) {
	l := NewLedger()
	order := []string{"level1", "level2", "level3"}
	stagesOf := func(string) int { return 2 }
	canAccess := AccessByCompletion(l, order, stagesOf)

	if !canAccess("level1") {
		t.Error("first level must always be open")
	}
	if canAccess("level2") {
		t.Error("level2 must stay locked before level1 is finished")
	}
	if canAccess("unknown") {
		t.Error("unknown levels are never accessible")
	}

	now := time.Now()
	l.SetStageResult("level1", 1, StageResult{Stars: 2, Done: true, CompletedAt: now})
	l.SetStageResult("level1", 2, StageResult{Stars: 3, Done: true, CompletedAt: now})

	if !canAccess("level2") {
		t.Error("level2 should unlock once level1 is complete")
	}
	if canAccess("level3") {
		t.Error("level3 must stay locked until level2 is complete")
	}
}
