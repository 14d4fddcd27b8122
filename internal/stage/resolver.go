// Package stage turns a level definition plus a 1-based stage number into a
// ResolvedStage: the cloned, annotated exercise batch the progression engine
// runs.
package stage

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vtinadev/leoplay/internal/domain"
)

// Source supplies level definitions. The content registry satisfies it.
type Source interface {
	Level(id string) (*domain.LevelDefinition, error)
}

// Resolver resolves stages against a content source.
type Resolver struct {
	source Source
	logger *slog.Logger
}

// NewResolver creates a stage resolver.
func NewResolver(source Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{source: source, logger: logger}
}

// Resolve selects the stage for stageNumber within the level. Out-of-range
// stage numbers clamp to the nearest valid stage instead of failing; a level
// without a definition or without any subtype order is a StageConfigError.
func (r *Resolver) Resolve(level string, stageNumber int) (*domain.ResolvedStage, error) {
	def, err := r.source.Level(level)
	if err != nil {
		return nil, domain.NewStageConfigError(level, err)
	}

	order := def.SubtypeOrder()
	if len(order) == 0 {
		return nil, domain.NewStageConfigError(level, domain.ErrNoSubtypes)
	}

	stageIndex := clamp(stageNumber-1, 0, len(order)-1)
	subtype := order[stageIndex]

	exercises, ok := def.Subtypes[subtype]
	if !ok {
		return nil, domain.NewStageConfigError(level,
			fmt.Errorf("subtype %s: %w", subtype, domain.ErrNoStage))
	}

	levelMeta := def.Meta
	levelMeta.TotalStages = len(order)
	stageMeta := def.StageMeta[subtype]

	resolved := &domain.ResolvedStage{
		StageIndex:  stageIndex,
		TotalStages: len(order),
		Subtype:     subtype,
		StageMeta:   stageMeta,
		LevelMeta:   levelMeta,
		Meta:        buildStageInfo(levelMeta, stageMeta, subtype, stageIndex, len(order)),
		Exercises:   make([]*domain.Exercise, 0, len(exercises)),
	}

	for i, ex := range exercises {
		clone := ex.Clone()
		if clone.Type == "" {
			clone.Type = domain.ExerciseType(subtype)
		}
		clone.Subtype = subtype
		clone.Level = level
		clone.StageIndex = stageIndex + 1
		clone.OrderIndex = i + 1
		lm := levelMeta
		clone.LevelMeta = &lm
		sm := stageMeta
		clone.StageMeta = &sm
		resolved.Exercises = append(resolved.Exercises, clone)
	}

	r.logger.Debug("stage resolved",
		"level", level,
		"stage", stageIndex+1,
		"subtype", subtype,
		"exercises", len(resolved.Exercises),
	)
	return resolved, nil
}

func buildStageInfo(levelMeta domain.LevelMeta, stageMeta domain.StageMeta, subtype string, stageIndex, totalStages int) domain.StageInfo {
	title := stageMeta.Title
	if title == "" {
		name := levelMeta.LevelName
		if name == "" {
			name = "Nivel"
		}
		title = name + " · " + Humanize(subtype)
	}

	description := stageMeta.Goal
	if description == "" {
		description = levelMeta.Description
	}

	return domain.StageInfo{
		Title:       title,
		Description: description,
		Animal:      levelMeta.Animal,
		Icon:        levelMeta.Icon,
		Color:       levelMeta.Color,
		Stars:       levelMeta.Stars,
		StageLabel:  fmt.Sprintf("%d / %d", stageIndex+1, totalStages),
	}
}

// Humanize turns a subtype key into display text: underscores become spaces
// and each word is capitalized.
func Humanize(subtype string) string {
	words := strings.Split(strings.ReplaceAll(subtype, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
