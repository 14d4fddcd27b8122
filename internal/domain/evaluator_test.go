package domain

import (
	"errors"
	"testing"
)

func TestEvaluate_NormalizesCaseAndWhitespace(t *testing.T) {
	e := NewAnswerEvaluator(nil)
	ex := &Exercise{ID: "sol-1", Correct: StringValue("Sol")}

	if !e.Evaluate(ex, TextAnswer(" sol ")) {
		t.Error("Evaluate() should match answers differing only in case and whitespace")
	}
	if e.Evaluate(ex, TextAnswer("luna")) {
		t.Error("Evaluate() should reject a different word")
	}
}

func TestEvaluate_CorrectSequence(t *testing.T) {
	e := NewAnswerEvaluator(nil)
	ex := &Exercise{ID: "order-1", Correct: ListValue("el", "gato", "duerme")}

	if !e.Evaluate(ex, SequenceAnswer("El", " gato", "duerme")) {
		t.Error("sequence answer should match elementwise")
	}
	if e.Evaluate(ex, SequenceAnswer("el", "gato")) {
		t.Error("shorter sequence should not match")
	}
	if e.Evaluate(ex, TextAnswer("el")) {
		t.Error("wrapped scalar should not match a longer sequence")
	}
}

func TestEvaluate_SingleElementSequenceWrapsScalar(t *testing.T) {
	e := NewAnswerEvaluator(nil)
	ex := &Exercise{ID: "wrap-1", Correct: ListValue("sol")}

	if !e.Evaluate(ex, TextAnswer("sol")) {
		t.Error("scalar answer should be wrapped and match a one-element sequence")
	}
}

func TestEvaluate_AnswerAndExpectedAnswerAliases(t *testing.T) {
	e := NewAnswerEvaluator(nil)

	byAnswer := &Exercise{ID: "a-1", Answer: StringValue("perro")}
	if !e.Evaluate(byAnswer, TextAnswer("PERRO")) {
		t.Error("answer field should be matched")
	}

	byExpected := &Exercise{ID: "a-2", ExpectedAnswer: StringValue("gato")}
	if !e.Evaluate(byExpected, TextAnswer("gato ")) {
		t.Error("expectedAnswer field should be matched")
	}
}

func TestEvaluate_AnswerPatternSubstring(t *testing.T) {
	e := NewAnswerEvaluator(nil)
	ex := &Exercise{ID: "p-1", AnswerPattern: "buenos días"}

	if !e.Evaluate(ex, TextAnswer("Hola, Buenos Días a todos")) {
		t.Error("pattern should match as a substring")
	}
	if !e.Evaluate(ex, SequenceAnswer("buenos", "días")) {
		t.Error("sequence answers join with spaces before pattern matching")
	}
	if e.Evaluate(ex, TextAnswer("hola")) {
		t.Error("missing pattern should not match")
	}
}

func TestEvaluate_CorrectOrder(t *testing.T) {
	e := NewAnswerEvaluator(nil)
	ex := &Exercise{ID: "o-1", CorrectOrder: []string{"ma", "ri", "po", "sa"}}

	if !e.Evaluate(ex, SequenceAnswer("ma", "ri", "po", "sa")) {
		t.Error("matching order should succeed")
	}
	if e.Evaluate(ex, SequenceAnswer("sa", "po", "ri", "ma")) {
		t.Error("wrong order should fail")
	}
}

func TestEvaluate_AccentComposite(t *testing.T) {
	e := NewAnswerEvaluator(nil)
	ex := &Exercise{
		ID:              "ac-1",
		Word:            "árbol",
		CorrectSyllable: "ár",
		AccentType:      "grave",
	}

	if !e.Evaluate(ex, AccentAnswer("ÁR", "Grave")) {
		t.Error("composite answer should match syllable and accent type")
	}
	if e.Evaluate(ex, AccentAnswer("bol", "grave")) {
		t.Error("wrong syllable should fail")
	}
	if e.Evaluate(ex, TextAnswer("ár")) {
		t.Error("non-composite answer should not satisfy an accent exercise")
	}
}

func TestEvaluate_TypedVariants(t *testing.T) {
	e := NewAnswerEvaluator(nil)

	tests := []struct {
		name   string
		ex     *Exercise
		answer Answer
		want   bool
	}{
		{
			name:   "unscramble joins letters",
			ex:     &Exercise{ID: "u-1", Type: TypeUnscrambleWord, Letters: []string{"o", "s", "l"}, Solution: StringValue("sol")},
			answer: SequenceAnswer("s", "o", "l"),
			want:   true,
		},
		{
			name:   "unscramble wrong order",
			ex:     &Exercise{ID: "u-2", Type: TypeUnscrambleWord, Letters: []string{"o", "s", "l"}, Solution: StringValue("sol")},
			answer: SequenceAnswer("o", "s", "l"),
			want:   false,
		},
		{
			name:   "unscramble falls back to correct",
			ex:     &Exercise{ID: "u-3", Type: TypeUnscrambleWord, Letters: []string{"a", "m"}},
			answer: SequenceAnswer("m", "a"),
			want:   false, // no solution configured anywhere
		},
		{
			name:   "complete word scalar",
			ex:     &Exercise{ID: "c-1", Type: TypeCompleteWord, Solution: StringValue("casa")},
			answer: TextAnswer(" Casa"),
			want:   true,
		},
		{
			name:   "choose correct word",
			ex:     &Exercise{ID: "ch-1", Type: TypeChooseCorrectWord, Options: []string{"vaca", "baca"}},
			answer: TextAnswer("vaca"),
			want:   false, // no correct configured
		},
		{
			name:   "syllable order",
			ex:     &Exercise{ID: "s-1", Type: TypeSyllableOrder, Syllables: []string{"sa", "ca"}, CorrectOrder: []string{"ca", "sa"}},
			answer: SequenceAnswer("ca", "sa"),
			want:   true,
		},
		{
			name:   "syllable order requires a sequence",
			ex:     &Exercise{ID: "s-2", Type: TypeSyllableOrder, CorrectOrder: []string{"ca", "sa"}},
			answer: TextAnswer("casa"),
			want:   false,
		},
		{
			name:   "puzzle order uses solution when correctOrder absent",
			ex:     &Exercise{ID: "pz-1", Type: TypePuzzleOrder, Segments: []string{"b", "a"}, Solution: ListValue("a", "b")},
			answer: SequenceAnswer("a", "b"),
			want:   true,
		},
		{
			name:   "image word match falls back to word",
			ex:     &Exercise{ID: "i-1", Type: TypeImageWordMatch, Image: "img/sol.png", Word: "sol"},
			answer: TextAnswer("Sol"),
			want:   true,
		},
		{
			name:   "read and answer",
			ex:     &Exercise{ID: "r-1", Type: TypeReadAndAnswer, Text: "Leo lee.", Correct: StringValue("Leo")},
			answer: TextAnswer("leo"),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Evaluate(tt.ex, tt.answer); got != tt.want {
				t.Errorf("Evaluate() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_Pairs(t *testing.T) {
	e := NewAnswerEvaluator(nil)
	ex := &Exercise{
		ID:   "pair-1",
		Type: TypePairSynonyms,
		Pairs: []*Pair{
			{ID: "pair-1-pair-1", Word: "feliz", Synonym: "contento"},
			{ID: "pair-1-pair-2", Word: "rápido", Synonym: "veloz"},
		},
	}

	if !e.Evaluate(ex, PairAnswer("Feliz", "contento ")) {
		t.Error("matching pair should succeed")
	}
	if !e.Evaluate(ex, PairAnswer("rápido", "veloz")) {
		t.Error("any configured pair can match")
	}
	if e.Evaluate(ex, PairAnswer("feliz", "veloz")) {
		t.Error("crossed pair should fail")
	}
	if e.Evaluate(ex, TextAnswer("feliz")) {
		t.Error("non-pair answer should fail")
	}
}

func TestEvaluate_PairAliases(t *testing.T) {
	e := NewAnswerEvaluator(nil)
	ex := &Exercise{
		ID:   "sp-1",
		Type: TypeSingularPlural,
		Pairs: []*Pair{
			{ID: "sp-1-pair-1", Singular: "flor", Plural: "flores"},
		},
	}

	if !e.Evaluate(ex, PairAnswer("flor", "flores")) {
		t.Error("singular/plural aliases should resolve")
	}
}

func TestEvaluate_CustomValidator(t *testing.T) {
	e := NewAnswerEvaluator(nil)

	ex := &Exercise{
		ID:      "v-1",
		Correct: StringValue("ignored"),
		Validator: func(a Answer, _ *Exercise) (bool, error) {
			return a.Text == "magic", nil
		},
	}
	if !e.Evaluate(ex, TextAnswer("magic")) {
		t.Error("custom validator should decide the result")
	}
	if e.Evaluate(ex, TextAnswer("ignored")) {
		t.Error("custom validator takes precedence over correct")
	}
}

func TestEvaluate_CustomValidatorErrorDegradesToNoMatch(t *testing.T) {
	e := NewAnswerEvaluator(nil)

	failing := &Exercise{
		ID: "v-2",
		Validator: func(Answer, *Exercise) (bool, error) {
			return true, errors.New("boom")
		},
	}
	if e.Evaluate(failing, TextAnswer("anything")) {
		t.Error("validator error should degrade to no match")
	}

	panicking := &Exercise{
		ID: "v-3",
		Validator: func(Answer, *Exercise) (bool, error) {
			panic("kaboom")
		},
	}
	if e.Evaluate(panicking, TextAnswer("anything")) {
		t.Error("validator panic should degrade to no match")
	}
}

func TestEvaluate_EmptyExpectedNeverMatches(t *testing.T) {
	e := NewAnswerEvaluator(nil)

	tests := []struct {
		name string
		ex   *Exercise
	}{
		{"empty correct", &Exercise{ID: "e-1", Correct: StringValue("  ")}},
		{"empty answer field", &Exercise{ID: "e-2", Answer: StringValue("")}},
		{"no correctness data", &Exercise{ID: "e-3"}},
		{"empty solution", &Exercise{ID: "e-4", Type: TypeCompleteWord}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if e.Evaluate(tt.ex, TextAnswer("")) {
				t.Error("empty expected value must not match an empty answer")
			}
			if e.Evaluate(tt.ex, TextAnswer("algo")) {
				t.Error("empty expected value must not match any answer")
			}
		})
	}
}

func TestEvaluate_NilExercise(t *testing.T) {
	e := NewAnswerEvaluator(nil)
	if e.Evaluate(nil, TextAnswer("x")) {
		t.Error("nil exercise never matches")
	}
}
