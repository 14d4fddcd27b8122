package domain

// HintThreshold is the number of prior failures after which the feedback
// message switches to the authored hint and a progressive hint is derived.
const HintThreshold = 2

// Feedback messages used when the content does not provide its own.
const (
	DefaultFeedbackMessage = "Casi, mira otra vez"
	FallbackHintMessage    = "Observa con calma, se revelará una pista."
)

// Hint is the payload surfaced after repeated failures: the hint message and
// optionally the first step of the solution.
type Hint struct {
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// HintSelector derives progressive hints per exercise type. It holds only
// its readiness threshold; the progression engine decides when to ask.
type HintSelector struct {
	threshold int
}

// NewHintSelector creates a hint selector with the default threshold.
func NewHintSelector() *HintSelector {
	return NewHintSelectorWithThreshold(HintThreshold)
}

// NewHintSelectorWithThreshold creates a hint selector that becomes ready
// after the given number of prior failures. Values below 1 fall back to the
// default.
func NewHintSelectorWithThreshold(threshold int) *HintSelector {
	if threshold < 1 {
		threshold = HintThreshold
	}
	return &HintSelector{threshold: threshold}
}

// Ready reports whether the attempt count has reached the hint threshold.
func (s *HintSelector) Ready(attempts int) bool {
	return attempts >= s.threshold
}

// Select builds the hint for an exercise: the authored hint text (or the
// calm fallback) plus a type-specific first-step suggestion when one can be
// derived from the solution data.
func (s *HintSelector) Select(ex *Exercise) Hint {
	h := Hint{Message: ex.Hint}
	if h.Message == "" {
		h.Message = FallbackHintMessage
	}
	h.Suggestion = s.suggestion(ex)
	return h
}

func (s *HintSelector) suggestion(ex *Exercise) string {
	switch ex.Type {
	case TypeUnscrambleWord:
		if word := solutionOf(ex); word != "" {
			return firstRune(word)
		}
		if len(ex.Letters) > 0 {
			return ex.Letters[0]
		}
	case TypeCompleteWord:
		if word := solutionOf(ex); word != "" {
			return firstRune(word)
		}
	case TypeSyllableOrder:
		if len(ex.CorrectOrder) > 0 {
			return ex.CorrectOrder[0]
		}
	case TypePuzzleOrder:
		if len(ex.CorrectOrder) > 0 {
			return ex.CorrectOrder[0]
		}
		if list := ex.Solution.List(); len(list) > 0 {
			return list[0]
		}
	}
	return ""
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
