package domain

// ExerciseType tags the schema variant of an exercise record. Lowercase
// snake-case tags come from the classic template catalog; the uppercase
// tags are the newer word-game variants.
type ExerciseType string

const (
	TypeQuestionSentence  ExerciseType = "question_sentence"
	TypeCompleteSentence  ExerciseType = "complete_sentence"
	TypeOrderSentence     ExerciseType = "order_sentence"
	TypeMultipleChoice    ExerciseType = "multiple_choice"
	TypePairSynonyms      ExerciseType = "pair_synonyms"
	TypePairAntonyms      ExerciseType = "pair_antonyms"
	TypeSynonyms          ExerciseType = "synonyms"
	TypeAntonyms          ExerciseType = "antonyms"
	TypeSentenceSelection ExerciseType = "sentence_selection"
	TypeAudioQuestion     ExerciseType = "audio_question"
	TypeReadWithAudio     ExerciseType = "read_with_audio"
	TypeAudioChoice       ExerciseType = "audio_choice"
	TypeAudioWrite        ExerciseType = "audio_write"
	TypeTextWrite         ExerciseType = "text_write"
	TypeTenseClassify     ExerciseType = "tense_classify"
	TypeSingularPlural    ExerciseType = "singular_plural"
	TypeDescribeImage     ExerciseType = "describe_image"
	TypeAccentGame        ExerciseType = "accent_game"
	TypeAccentClassify    ExerciseType = "accent_classify"
	TypeAccentDrag        ExerciseType = "accent_drag"
	TypePunctuationGame   ExerciseType = "punctuation_game"
	TypeFinalExam         ExerciseType = "final_exam"

	TypeUnscrambleWord    ExerciseType = "UNSCRAMBLE_WORD"
	TypeCompleteWord      ExerciseType = "COMPLETE_WORD"
	TypeChooseCorrectWord ExerciseType = "CHOOSE_CORRECT_WORD"
	TypeSyllableOrder     ExerciseType = "SYLLABLE_ORDER"
	TypeImageWordMatch    ExerciseType = "IMAGE_WORD_MATCH"
	TypeReadAndAnswer     ExerciseType = "READ_AND_ANSWER"
	TypePuzzleOrder       ExerciseType = "PUZZLE_ORDER"
)

// Default hook names assigned during harmonization.
const (
	DefaultOnCorrect     = "celebrate"
	DefaultOnError       = "gentleRetry"
	DefaultFeedbackStyle = "calm"
)

// ValidatorFunc is an optional programmatic correctness check attached to an
// exercise at runtime. It cannot be expressed in content files.
type ValidatorFunc func(Answer, *Exercise) (bool, error)

// Exercise is one task instance from the content catalog. Authors use a loose
// schema with several field aliases; the content validator harmonizes the
// aliases so that after validation the canonical fields are always populated.
type Exercise struct {
	ID   string       `yaml:"id" json:"id"`
	Type ExerciseType `yaml:"type,omitempty" json:"type"`

	// Prompt aliases. Harmonization keeps them mutually consistent.
	Prompt      string `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	Question    string `yaml:"question,omitempty" json:"question,omitempty"`
	Sentence    string `yaml:"sentence,omitempty" json:"sentence,omitempty"`
	Instruction string `yaml:"instruction,omitempty" json:"instruction,omitempty"`

	// Reading passages.
	Text         string `yaml:"text,omitempty" json:"text,omitempty"`
	Context      string `yaml:"context,omitempty" json:"context,omitempty"`
	Reading      string `yaml:"reading,omitempty" json:"reading,omitempty"`
	FallbackText string `yaml:"fallbackText,omitempty" json:"fallbackText,omitempty"`

	Options []string `yaml:"options,omitempty" json:"options,omitempty"`

	// Correctness data. Correct/Answer/ExpectedAnswer are aliases of one
	// another; CorrectOrder and Solution serve the ordering and word-game
	// variants.
	Correct        Value    `yaml:"correct,omitempty" json:"correct,omitempty"`
	Answer         Value    `yaml:"answer,omitempty" json:"answer,omitempty"`
	ExpectedAnswer Value    `yaml:"expectedAnswer,omitempty" json:"expectedAnswer,omitempty"`
	CorrectOrder   []string `yaml:"correctOrder,omitempty" json:"correctOrder,omitempty"`
	Solution       Value    `yaml:"solution,omitempty" json:"solution,omitempty"`
	AnswerPattern  string   `yaml:"answerPattern,omitempty" json:"answerPattern,omitempty"`

	// Word-game material.
	Word            string   `yaml:"word,omitempty" json:"word,omitempty"`
	Letters         []string `yaml:"letters,omitempty" json:"letters,omitempty"`
	Syllables       []string `yaml:"syllables,omitempty" json:"syllables,omitempty"`
	Segments        []string `yaml:"segments,omitempty" json:"segments,omitempty"`
	Pieces          []string `yaml:"pieces,omitempty" json:"pieces,omitempty"`
	Words           []string `yaml:"words,omitempty" json:"words,omitempty"`
	CorrectSyllable string   `yaml:"correctSyllable,omitempty" json:"correctSyllable,omitempty"`
	AccentType      string   `yaml:"accentType,omitempty" json:"accentType,omitempty"`

	Pairs []*Pair `yaml:"pairs,omitempty" json:"pairs,omitempty"`

	// Media references. Empty means absent; the validator normalizes these
	// so presentation collaborators can rely on the fields existing.
	Audio      string `yaml:"audio,omitempty" json:"audio"`
	Image      string `yaml:"image,omitempty" json:"image"`
	Background string `yaml:"background,omitempty" json:"background"`

	Hint          string `yaml:"hint,omitempty" json:"hint,omitempty"`
	AllowRetry    *bool  `yaml:"allowRetry,omitempty" json:"allowRetry,omitempty"`
	MaxAttempts   int    `yaml:"maxAttempts,omitempty" json:"maxAttempts,omitempty"` // 0 = unbounded
	FeedbackStyle string `yaml:"feedbackStyle,omitempty" json:"feedbackStyle,omitempty"`
	OnCorrect     string `yaml:"onCorrect,omitempty" json:"onCorrect,omitempty"`
	OnError       string `yaml:"onError,omitempty" json:"onError,omitempty"`
	Mode          string `yaml:"mode,omitempty" json:"mode,omitempty"` // "voice" for speech-driven exercises

	// Stage annotations, set by the stage resolver on cloned copies only.
	Subtype    string     `yaml:"-" json:"subtype,omitempty"`
	Level      string     `yaml:"-" json:"level,omitempty"`
	StageIndex int        `yaml:"-" json:"stageIndex,omitempty"` // 1-based
	OrderIndex int        `yaml:"-" json:"orderIndex,omitempty"` // 1-based
	LevelMeta  *LevelMeta `yaml:"-" json:"levelMeta,omitempty"`
	StageMeta  *StageMeta `yaml:"-" json:"stageMeta,omitempty"`

	Validator ValidatorFunc `yaml:"-" json:"-"`
}

// CanRetry reports whether the exercise allows further attempts after a
// failure. Unset means true.
func (e *Exercise) CanRetry() bool {
	return e.AllowRetry == nil || *e.AllowRetry
}

// Clone returns a deep copy. Stage resolution hands clones to the progression
// engine so result tracking never mutates the shared catalog.
func (e *Exercise) Clone() *Exercise {
	if e == nil {
		return nil
	}
	c := *e
	c.Options = cloneStrings(e.Options)
	c.CorrectOrder = cloneStrings(e.CorrectOrder)
	c.Letters = cloneStrings(e.Letters)
	c.Syllables = cloneStrings(e.Syllables)
	c.Segments = cloneStrings(e.Segments)
	c.Pieces = cloneStrings(e.Pieces)
	c.Words = cloneStrings(e.Words)
	c.Correct = e.Correct.Clone()
	c.Answer = e.Answer.Clone()
	c.ExpectedAnswer = e.ExpectedAnswer.Clone()
	c.Solution = e.Solution.Clone()
	if e.AllowRetry != nil {
		v := *e.AllowRetry
		c.AllowRetry = &v
	}
	if len(e.Pairs) > 0 {
		c.Pairs = make([]*Pair, len(e.Pairs))
		for i, p := range e.Pairs {
			c.Pairs[i] = p.Clone()
		}
	}
	if e.LevelMeta != nil {
		lm := *e.LevelMeta
		c.LevelMeta = &lm
	}
	if e.StageMeta != nil {
		sm := *e.StageMeta
		c.StageMeta = &sm
	}
	return &c
}

// Pair is one left/right match in a pairing exercise. The left and right
// sides use different field names depending on the exercise family
// (synonyms, antonyms, singular/plural, statement/response).
type Pair struct {
	ID        string `yaml:"id,omitempty" json:"id"`
	Word      string `yaml:"word,omitempty" json:"word,omitempty"`
	Singular  string `yaml:"singular,omitempty" json:"singular,omitempty"`
	Statement string `yaml:"statement,omitempty" json:"statement,omitempty"`
	Synonym   string `yaml:"synonym,omitempty" json:"synonym,omitempty"`
	Antonym   string `yaml:"antonym,omitempty" json:"antonym,omitempty"`
	Plural    string `yaml:"plural,omitempty" json:"plural,omitempty"`
	Response  string `yaml:"response,omitempty" json:"response,omitempty"`
	Match     string `yaml:"match,omitempty" json:"match,omitempty"`
}

// Left resolves the left-side alias: word, singular, statement.
func (p *Pair) Left() string {
	for _, v := range []string{p.Word, p.Singular, p.Statement} {
		if v != "" {
			return v
		}
	}
	return ""
}

// Right resolves the right-side alias: synonym, antonym, plural, response, match.
func (p *Pair) Right() string {
	for _, v := range []string{p.Synonym, p.Antonym, p.Plural, p.Response, p.Match} {
		if v != "" {
			return v
		}
	}
	return ""
}

// Clone returns a copy of the pair.
func (p *Pair) Clone() *Pair {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
