package content

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vtinadev/leoplay/internal/domain"
)

// MaxExercisesPerSubtype is the soft cap per stage. Crossing it yields a
// warning, never an error: long stages tire young players but still work.
const MaxExercisesPerSubtype = 4

// SubtypeSummary is the validation outcome for one (level, stage, subtype)
// bucket.
type SubtypeSummary struct {
	Level    string   `json:"level"`
	Stage    int      `json:"stage"` // 1-based
	Subtype  string   `json:"subtype"`
	Count    int      `json:"count"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// Report aggregates the validation of a whole catalog.
type Report struct {
	Valid     bool             `json:"valid"`
	Summaries []SubtypeSummary `json:"summary"`
}

// ErrorCount returns the total number of errors across all summaries.
func (r *Report) ErrorCount() int {
	n := 0
	for _, s := range r.Summaries {
		n += len(s.Errors)
	}
	return n
}

// WarningCount returns the total number of warnings across all summaries.
func (r *Report) WarningCount() int {
	n := 0
	for _, s := range r.Summaries {
		n += len(s.Warnings)
	}
	return n
}

// Validator harmonizes and validates a catalog. Each Validate call owns its
// own id registry, so concurrent validations of different catalogs never
// interfere and repeated runs start clean.
type Validator struct {
	logger *slog.Logger
}

// NewValidator creates a catalog validator.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger}
}

// Validate harmonizes every exercise in place and checks the catalog against
// the per-type requirements. Harmonization only fills missing fields, so
// validating an already-validated catalog is a no-op with an identical report.
func (v *Validator) Validate(catalog Catalog) *Report {
	report := &Report{Valid: true}
	seenIDs := make(map[string]struct{})

	levels := make([]string, 0, len(catalog))
	for key := range catalog {
		levels = append(levels, key)
	}
	sort.Strings(levels)

	for _, levelKey := range levels {
		def := catalog[levelKey]
		if def == nil || len(def.Subtypes) == 0 {
			report.Valid = false
			report.Summaries = append(report.Summaries, SubtypeSummary{
				Level:  levelKey,
				Errors: []string{fmt.Sprintf("nivel %s carece de subtypes", levelKey)},
			})
			continue
		}

		for stageIndex, subtypeKey := range def.SubtypeOrder() {
			summary := SubtypeSummary{
				Level:   levelKey,
				Stage:   stageIndex + 1,
				Subtype: subtypeKey,
			}

			exercises, ok := def.Subtypes[subtypeKey]
			if !ok {
				summary.Errors = append(summary.Errors,
					fmt.Sprintf("%s/%s no existe en subtypes", levelKey, subtypeKey))
				report.Valid = false
				report.Summaries = append(report.Summaries, summary)
				continue
			}
			summary.Count = len(exercises)

			if len(exercises) > MaxExercisesPerSubtype {
				summary.Warnings = append(summary.Warnings,
					fmt.Sprintf("%s/%s tiene %d ejercicios (máx: %d)",
						levelKey, subtypeKey, len(exercises), MaxExercisesPerSubtype))
			}

			for index, ex := range exercises {
				v.checkExercise(ex, levelKey, subtypeKey, index, seenIDs, &summary)
			}

			if len(summary.Errors) > 0 {
				report.Valid = false
			}
			report.Summaries = append(report.Summaries, summary)
		}
	}

	v.logger.Info("catalog validated",
		"levels", len(levels),
		"valid", report.Valid,
		"errors", report.ErrorCount(),
		"warnings", report.WarningCount(),
	)
	return report
}

func (v *Validator) checkExercise(ex *domain.Exercise, levelKey, subtypeKey string, index int, seenIDs map[string]struct{}, summary *SubtypeSummary) {
	if ex == nil {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("ejercicio %d inválido en %s/%s", index+1, levelKey, subtypeKey))
		return
	}

	switch {
	case ex.ID == "":
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("falta ID en %s/%s[%d]", levelKey, subtypeKey, index))
	default:
		if _, dup := seenIDs[ex.ID]; dup {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("ID duplicado: %s", ex.ID))
		} else {
			seenIDs[ex.ID] = struct{}{}
		}
	}

	harmonizeExercise(ex, subtypeKey)

	for _, req := range requiredFieldsByType[ex.Type] {
		if !req.satisfiedBy(ex) {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("%s: falta %s", ex.ID, formatRequirement(req)))
		}
	}
}

func formatRequirement(req requirement) string {
	if len(req) == 1 {
		return req[0]
	}
	return "[" + strings.Join(req, ", ") + "]"
}

// harmonizeExercise fills the alias fields so the canonical ones are always
// populated after validation. Every assignment is fill-if-missing: authored
// values are never overwritten, which makes harmonization idempotent.
func harmonizeExercise(ex *domain.Exercise, subtypeKey string) {
	if ex.Type == "" {
		ex.Type = domain.ExerciseType(subtypeKey)
	}

	if ex.Prompt == "" {
		ex.Prompt = firstNonEmpty(ex.Question, ex.Sentence, ex.Instruction)
	}
	if ex.Question == "" {
		ex.Question = ex.Prompt
	}
	if ex.Sentence == "" {
		ex.Sentence = ex.Prompt
	}

	if !ex.Correct.IsSet() {
		ex.Correct = firstSetValue(ex.Answer, ex.ExpectedAnswer)
	}
	if !ex.Answer.IsSet() {
		ex.Answer = firstSetValue(ex.Correct, ex.ExpectedAnswer)
	}
	if !ex.ExpectedAnswer.IsSet() {
		ex.ExpectedAnswer = firstSetValue(ex.Answer, ex.Correct)
	}
	if len(ex.CorrectOrder) == 0 && ex.Correct.IsList() {
		ex.CorrectOrder = ex.Correct.List()
	}

	if ex.AllowRetry == nil {
		retry := true
		ex.AllowRetry = &retry
	}
	if ex.FeedbackStyle == "" {
		ex.FeedbackStyle = domain.DefaultFeedbackStyle
	}
	if ex.OnCorrect == "" {
		ex.OnCorrect = domain.DefaultOnCorrect
	}
	if ex.OnError == "" {
		ex.OnError = domain.DefaultOnError
	}

	for i, pair := range ex.Pairs {
		if pair != nil && pair.ID == "" {
			pair.ID = fmt.Sprintf("%s-pair-%d", ex.ID, i+1)
		}
	}
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func firstSetValue(candidates ...domain.Value) domain.Value {
	for _, c := range candidates {
		if c.IsSet() {
			return c
		}
	}
	return domain.Value{}
}
