package domain

import "testing"

func TestHintSelector_Ready(t *testing.T) {
	s := NewHintSelector()

	if s.Ready(0) || s.Ready(1) {
		t.Error("Ready() should be false below the threshold")
	}
	if !s.Ready(2) || !s.Ready(5) {
		t.Error("Ready() should be true at and above the threshold")
	}
}

func TestHintSelector_AuthoredMessageWins(t *testing.T) {
	s := NewHintSelector()
	ex := &Exercise{ID: "h-1", Hint: "Empieza por la vocal."}

	h := s.Select(ex)
	if h.Message != "Empieza por la vocal." {
		t.Errorf("Select() message = %q; want authored hint", h.Message)
	}
}

func TestHintSelector_FallbackMessage(t *testing.T) {
	s := NewHintSelector()

	h := s.Select(&Exercise{ID: "h-2"})
	if h.Message != FallbackHintMessage {
		t.Errorf("Select() message = %q; want %q", h.Message, FallbackHintMessage)
	}
}

func TestHintSelector_Suggestions(t *testing.T) {
	s := NewHintSelector()

	tests := []struct {
		name string
		ex   *Exercise
		want string
	}{
		{
			name: "unscramble first letter of solution",
			ex:   &Exercise{ID: "s-1", Type: TypeUnscrambleWord, Solution: StringValue("árbol")},
			want: "á",
		},
		{
			name: "unscramble falls back to first tile",
			ex:   &Exercise{ID: "s-2", Type: TypeUnscrambleWord, Letters: []string{"m", "a"}},
			want: "m",
		},
		{
			name: "complete word first letter",
			ex:   &Exercise{ID: "s-3", Type: TypeCompleteWord, Solution: StringValue("casa")},
			want: "c",
		},
		{
			name: "syllable order first syllable",
			ex:   &Exercise{ID: "s-4", Type: TypeSyllableOrder, CorrectOrder: []string{"ca", "sa"}},
			want: "ca",
		},
		{
			name: "puzzle order prefers correctOrder",
			ex:   &Exercise{ID: "s-5", Type: TypePuzzleOrder, CorrectOrder: []string{"el", "sol"}, Solution: ListValue("x")},
			want: "el",
		},
		{
			name: "puzzle order falls back to solution",
			ex:   &Exercise{ID: "s-6", Type: TypePuzzleOrder, Solution: ListValue("la", "luna")},
			want: "la",
		},
		{
			name: "no suggestion for untyped exercises",
			ex:   &Exercise{ID: "s-7", Correct: StringValue("sol")},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Select(tt.ex).Suggestion; got != tt.want {
				t.Errorf("Select() suggestion = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestHintSelector_CustomThreshold(t *testing.T) {
	s := NewHintSelectorWithThreshold(1)

	if s.Ready(0) {
		t.Error("Ready(0) should be false below the threshold")
	}
	if !s.Ready(1) {
		t.Error("Ready(1) should be true at threshold 1")
	}

	// Non-positive thresholds fall back to the default.
	d := NewHintSelectorWithThreshold(0)
	if d.Ready(1) {
		t.Error("Ready(1) should be false with the default threshold")
	}
	if !d.Ready(HintThreshold) {
		t.Error("Ready() should be true at the default threshold")
	}
}
