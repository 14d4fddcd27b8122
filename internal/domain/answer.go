package domain

import (
	"encoding/json"
	"strings"
)

// Answer is a submitted response. Exactly one shape is populated per
// submission: free text, an ordered sequence, an accent composite
// (syllable + accent type), or a pair selection (left + right).
type Answer struct {
	Text       string   `json:"text,omitempty"`
	Sequence   []string `json:"sequence,omitempty"`
	Syllable   string   `json:"syllable,omitempty"`
	AccentType string   `json:"accentType,omitempty"`
	Left       string   `json:"left,omitempty"`
	Right      string   `json:"right,omitempty"`
}

// UnmarshalJSON accepts "type" as an alias for "accentType", since accent
// submissions historically used the shorter key.
func (a *Answer) UnmarshalJSON(data []byte) error {
	type answerWire Answer
	aux := struct {
		*answerWire
		Type string `json:"type,omitempty"`
	}{answerWire: (*answerWire)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.AccentType == "" {
		a.AccentType = aux.Type
	}
	return nil
}

// TextAnswer wraps free text.
func TextAnswer(text string) Answer {
	return Answer{Text: text}
}

// SequenceAnswer wraps an ordered selection.
func SequenceAnswer(items ...string) Answer {
	return Answer{Sequence: items}
}

// AccentAnswer wraps a syllable plus accent-type composite.
func AccentAnswer(syllable, accentType string) Answer {
	return Answer{Syllable: syllable, AccentType: accentType}
}

// PairAnswer wraps a left/right pair selection.
func PairAnswer(left, right string) Answer {
	return Answer{Left: left, Right: right}
}

// IsSequence reports whether the answer is an ordered selection.
func (a Answer) IsSequence() bool { return a.Sequence != nil }

// IsComposite reports whether the answer is an accent composite.
func (a Answer) IsComposite() bool { return a.Syllable != "" || a.AccentType != "" }

// IsPair reports whether the answer is a pair selection.
func (a Answer) IsPair() bool { return a.Left != "" || a.Right != "" }

// AsSequence returns the sequence form, wrapping a text answer as a
// one-element sequence.
func (a Answer) AsSequence() []string {
	if a.Sequence != nil {
		return a.Sequence
	}
	return []string{a.Text}
}

// Joined flattens the answer to a single string using sep between sequence
// elements.
func (a Answer) Joined(sep string) string {
	if a.Sequence != nil {
		return strings.Join(a.Sequence, sep)
	}
	return a.Text
}
