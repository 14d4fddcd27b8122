package domain

// StageInfo is the presentation-facing metadata of a resolved stage, with
// every fallback already applied.
type StageInfo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Animal      string `json:"animal,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Stars       int    `json:"stars,omitempty"`
	StageLabel  string `json:"stageLabel,omitempty"` // "2 / 4"
}

// ResolvedStage is one stage's worth of exercises, cloned from the catalog
// and annotated with contextual metadata. Mutating it never touches the
// shared catalog.
type ResolvedStage struct {
	StageIndex  int         `json:"stageIndex"` // 0-based
	TotalStages int         `json:"totalStages"`
	Subtype     string      `json:"subtype"`
	StageMeta   StageMeta   `json:"stageMeta"`
	LevelMeta   LevelMeta   `json:"levelMeta"`
	Meta        StageInfo   `json:"meta"`
	Exercises   []*Exercise `json:"exercises"`
}
