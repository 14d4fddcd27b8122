package domain

import (
	"fmt"
	"log/slog"
	"strings"
)

// matchFunc checks one exercise variant against a submitted answer.
type matchFunc func(*Exercise, Answer) bool

// AnswerEvaluator decides whether a submitted answer matches an exercise.
// It is pure: no state is mutated and it never panics. A custom validator
// that fails is logged and treated as "no match".
//
// Dispatch order, first applicable rule wins:
//  1. custom validator
//  2. correct as sequence
//  3. correct as scalar
//  4. answer / expectedAnswer scalar
//  5. answerPattern substring
//  6. correctOrder sequence
//  7. accent composite (correctSyllable + accentType)
//  8. per-type variant table
//  9. pairs
//
// All string comparisons use the normalized form: trimmed, lowercased. An
// expected value that normalizes to empty never matches.
type AnswerEvaluator struct {
	logger *slog.Logger
	byType map[ExerciseType]matchFunc
}

// NewAnswerEvaluator builds an evaluator with the full variant table.
func NewAnswerEvaluator(logger *slog.Logger) *AnswerEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerEvaluator{
		logger: logger,
		byType: map[ExerciseType]matchFunc{
			TypeUnscrambleWord:    matchUnscrambleWord,
			TypeCompleteWord:      matchCompleteWord,
			TypeChooseCorrectWord: matchChooseCorrectWord,
			TypeSyllableOrder:     matchSyllableOrder,
			TypePuzzleOrder:       matchPuzzleOrder,
			TypeImageWordMatch:    matchImageWordMatch,
			TypeReadAndAnswer:     matchReadAndAnswer,
		},
	}
}

// Evaluate reports whether answer matches exercise.
func (e *AnswerEvaluator) Evaluate(ex *Exercise, answer Answer) bool {
	if ex == nil {
		return false
	}

	if ex.Validator != nil {
		ok, err := runValidator(ex, answer)
		if err != nil {
			e.logger.Warn("custom validator failed",
				"exercise", ex.ID,
				"error", err,
			)
			return false
		}
		return ok
	}

	if ex.Correct.IsSet() {
		if ex.Correct.IsList() {
			return sequencesMatch(ex.Correct.List(), answer.AsSequence())
		}
		return normalizedEqual(answer.Joined(","), ex.Correct.Scalar())
	}

	if ex.Answer.IsSet() {
		return normalizedEqual(answer.Joined(","), ex.Answer.Scalar())
	}
	if ex.ExpectedAnswer.IsSet() {
		return normalizedEqual(answer.Joined(","), ex.ExpectedAnswer.Scalar())
	}

	if ex.AnswerPattern != "" {
		attempt := Normalize(answer.Joined(" "))
		pattern := Normalize(ex.AnswerPattern)
		return pattern != "" && strings.Contains(attempt, pattern)
	}

	if len(ex.CorrectOrder) > 0 {
		return sequencesMatch(ex.CorrectOrder, answer.AsSequence())
	}

	if ex.CorrectSyllable != "" && ex.AccentType != "" && answer.IsComposite() {
		return normalizedEqual(answer.Syllable, ex.CorrectSyllable) &&
			normalizedEqual(answer.AccentType, ex.AccentType)
	}

	if match, ok := e.byType[ex.Type]; ok {
		return match(ex, answer)
	}

	if len(ex.Pairs) > 0 {
		return matchPairs(ex, answer)
	}

	return false
}

// runValidator wraps the custom validator so a panic degrades to an error
// instead of crashing the caller.
func runValidator(ex *Exercise, answer Answer) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("validator panic: %v", r)
		}
	}()
	return ex.Validator(answer, ex)
}

// Normalize converts a value to its comparison form: surrounding whitespace
// trimmed and lowercased.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizedEqual compares got against want in normalized form. An empty
// expected value never matches.
func normalizedEqual(got, want string) bool {
	w := Normalize(want)
	return w != "" && Normalize(got) == w
}

// sequencesMatch requires elementwise normalized equality and a non-empty
// expectation.
func sequencesMatch(want, got []string) bool {
	if len(want) == 0 || len(want) != len(got) {
		return false
	}
	for i := range want {
		if Normalize(want[i]) != Normalize(got[i]) {
			return false
		}
	}
	return true
}

// solutionOf resolves the expected word for the word-game variants:
// solution, then correct, then answer.
func solutionOf(ex *Exercise) string {
	for _, v := range []Value{ex.Solution, ex.Correct, ex.Answer} {
		if v.IsSet() {
			return v.Scalar()
		}
	}
	return ""
}

func matchUnscrambleWord(ex *Exercise, answer Answer) bool {
	// Letters arrive as an ordered selection and join into the word.
	return normalizedEqual(answer.Joined(""), solutionOf(ex))
}

func matchCompleteWord(ex *Exercise, answer Answer) bool {
	return normalizedEqual(answer.Text, solutionOf(ex))
}

func matchChooseCorrectWord(ex *Exercise, answer Answer) bool {
	want := ex.Correct.Scalar()
	if want == "" {
		want = ex.Answer.Scalar()
	}
	return normalizedEqual(answer.Text, want)
}

func matchSyllableOrder(ex *Exercise, answer Answer) bool {
	return sequencesMatch(ex.CorrectOrder, answer.Sequence)
}

func matchPuzzleOrder(ex *Exercise, answer Answer) bool {
	want := ex.CorrectOrder
	if len(want) == 0 && ex.Solution.IsSet() {
		want = ex.Solution.List()
	}
	return sequencesMatch(want, answer.Sequence)
}

func matchImageWordMatch(ex *Exercise, answer Answer) bool {
	want := ex.Correct.Scalar()
	if want == "" {
		want = ex.Answer.Scalar()
	}
	if want == "" {
		want = ex.Word
	}
	return normalizedEqual(answer.Text, want)
}

func matchReadAndAnswer(ex *Exercise, answer Answer) bool {
	want := ex.Correct.Scalar()
	if want == "" {
		want = ex.Answer.Scalar()
	}
	return normalizedEqual(answer.Text, want)
}

// matchPairs succeeds when any configured pair matches the submitted
// left/right selection.
func matchPairs(ex *Exercise, answer Answer) bool {
	if !answer.IsPair() {
		return false
	}
	for _, pair := range ex.Pairs {
		if pair == nil {
			continue
		}
		if normalizedEqual(answer.Left, pair.Left()) && normalizedEqual(answer.Right, pair.Right()) {
			return true
		}
	}
	return false
}
