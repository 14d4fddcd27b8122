package content

import "github.com/vtinadev/leoplay/internal/domain"

// requirement is one structural demand on an exercise: a single field name, or
// an any-of list of alias field names where at least one must carry a value.
type requirement []string

func (r requirement) satisfiedBy(ex *domain.Exercise) bool {
	for _, field := range r {
		if fieldHasValue(ex, field) {
			return true
		}
	}
	return false
}

func one(field string) requirement       { return requirement{field} }
func anyOf(fields ...string) requirement { return requirement(fields) }

// requiredFieldsByType maps each exercise type to the fields an authored
// record must provide after harmonization. Types absent from the table carry
// no structural requirements beyond an id.
var requiredFieldsByType = map[domain.ExerciseType][]requirement{
	domain.TypeQuestionSentence:  {anyOf("question", "prompt", "sentence"), one("options"), anyOf("correct", "answer")},
	domain.TypeCompleteSentence:  {anyOf("prompt", "question", "sentence"), one("options"), anyOf("correct", "answer")},
	domain.TypeOrderSentence:     {one("words"), anyOf("correct", "correctOrder")},
	domain.TypeMultipleChoice:    {anyOf("question", "prompt"), one("options"), anyOf("correct", "answer")},
	domain.TypePairSynonyms:      {one("pairs")},
	domain.TypePairAntonyms:      {one("pairs")},
	domain.TypeUnscrambleWord:    {one("letters"), anyOf("solution", "answer", "correct")},
	domain.TypeCompleteWord:      {anyOf("solution", "answer", "correct"), anyOf("prompt", "question", "instruction")},
	domain.TypeChooseCorrectWord: {anyOf("question", "prompt"), one("options"), anyOf("correct", "answer")},
	domain.TypeSyllableOrder:     {one("syllables"), anyOf("correctOrder", "solution")},
	domain.TypeImageWordMatch:    {anyOf("image", "prompt"), one("options"), anyOf("correct", "answer")},
	domain.TypeReadAndAnswer:     {anyOf("text", "context", "reading"), one("options"), anyOf("correct", "answer")},
	domain.TypePuzzleOrder:       {anyOf("segments", "pieces"), anyOf("correctOrder", "solution")},
	domain.TypeSynonyms:          {one("pairs")},
	domain.TypeAntonyms:          {one("pairs")},
	domain.TypeSentenceSelection: {anyOf("prompt", "question", "instruction"), one("options"), anyOf("correct", "answer")},
	domain.TypeAudioQuestion:     {anyOf("question", "prompt"), one("options"), anyOf("correct", "answer")},
	domain.TypeReadWithAudio:     {one("text")},
	domain.TypeAudioChoice:       {anyOf("question", "prompt"), one("options"), anyOf("correct", "answer")},
	domain.TypeAudioWrite:        {anyOf("instruction", "prompt", "fallbackText"), anyOf("answer", "expectedAnswer")},
	domain.TypeTextWrite:         {anyOf("instruction", "prompt"), anyOf("answer", "answerPattern")},
	domain.TypeTenseClassify:     {anyOf("sentence", "prompt"), one("options"), anyOf("correct", "answer")},
	domain.TypeSingularPlural:    {one("pairs")},
	domain.TypeDescribeImage:     {anyOf("instruction", "prompt", "question"), one("options"), anyOf("correct", "answer")},
	domain.TypeAccentGame:        {one("word"), one("syllables"), one("correctSyllable"), one("accentType")},
	domain.TypeAccentClassify:    {one("word"), one("accentType")},
	domain.TypeAccentDrag:        {one("word"), one("syllables"), one("correctSyllable")},
	domain.TypePunctuationGame:   {one("sentence"), one("options"), anyOf("correct", "answer")},
	domain.TypeFinalExam:         {anyOf("question", "prompt"), one("options"), anyOf("correct", "answer")},
}

// fieldHasValue reports whether the named authoring field carries a value.
func fieldHasValue(ex *domain.Exercise, field string) bool {
	switch field {
	case "prompt":
		return ex.Prompt != ""
	case "question":
		return ex.Question != ""
	case "sentence":
		return ex.Sentence != ""
	case "instruction":
		return ex.Instruction != ""
	case "text":
		return ex.Text != ""
	case "context":
		return ex.Context != ""
	case "reading":
		return ex.Reading != ""
	case "fallbackText":
		return ex.FallbackText != ""
	case "options":
		return len(ex.Options) > 0
	case "correct":
		return ex.Correct.IsSet()
	case "answer":
		return ex.Answer.IsSet()
	case "expectedAnswer":
		return ex.ExpectedAnswer.IsSet()
	case "correctOrder":
		return len(ex.CorrectOrder) > 0
	case "solution":
		return ex.Solution.IsSet()
	case "answerPattern":
		return ex.AnswerPattern != ""
	case "word":
		return ex.Word != ""
	case "words":
		return len(ex.Words) > 0
	case "letters":
		return len(ex.Letters) > 0
	case "syllables":
		return len(ex.Syllables) > 0
	case "segments":
		return len(ex.Segments) > 0
	case "pieces":
		return len(ex.Pieces) > 0
	case "correctSyllable":
		return ex.CorrectSyllable != ""
	case "accentType":
		return ex.AccentType != ""
	case "image":
		return ex.Image != ""
	case "pairs":
		return len(ex.Pairs) > 0
	default:
		return false
	}
}
