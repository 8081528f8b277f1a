package search

import "github.com/jonwraymond/studysearch/content"

// Default weights.
const (
	DefaultTitleWeight          = 4.0
	DefaultMultiWordTitleWeight = 2.0
	DefaultMultiWordBodyWeight  = 0.5
	DefaultVocabularyWeight     = 2.0
	DefaultSectionWeight        = 1.5
	DefaultFactWeight           = 1.2
	DefaultOtherWeight          = 1.0
)

// Weights combine field scores into an entry score. The zero Weights means
// DefaultWeights; once any weight is set, a zero weight switches its term off.
// Start from DefaultWeights to change a single weight.
type Weights struct {
	// Title multiplies the whole-query title score.
	Title float64 `toml:"title" json:"title" validate:"gte=0"`
	// MultiWordTitle multiplies each per-word title score.
	MultiWordTitle float64 `toml:"multi_word_title" json:"multiWordTitle" validate:"gte=0"`
	// MultiWordBody multiplies each per-word body score.
	MultiWordBody float64 `toml:"multi_word_body" json:"multiWordBody" validate:"gte=0"`

	KindVocabulary float64 `toml:"vocabulary" json:"vocabulary" validate:"gte=0"`
	KindSection    float64 `toml:"section" json:"section" validate:"gte=0"`
	KindFact       float64 `toml:"fact" json:"fact" validate:"gte=0"`
	KindOther      float64 `toml:"other" json:"other" validate:"gte=0"`
}

// DefaultWeights returns the standard weights.
func DefaultWeights() Weights {
	return Weights{
		Title:          DefaultTitleWeight,
		MultiWordTitle: DefaultMultiWordTitleWeight,
		MultiWordBody:  DefaultMultiWordBodyWeight,
		KindVocabulary: DefaultVocabularyWeight,
		KindSection:    DefaultSectionWeight,
		KindFact:       DefaultFactWeight,
		KindOther:      DefaultOtherWeight,
	}
}

// WithDefaults returns DefaultWeights when w is the zero Weights, and w
// unchanged otherwise.
func (w Weights) WithDefaults() Weights {
	if w == (Weights{}) {
		return DefaultWeights()
	}
	return w
}

// Kind returns the multiplier for entries of kind k.
func (w Weights) Kind(k content.Kind) float64 {
	switch k {
	case content.KindVocabulary:
		return w.KindVocabulary
	case content.KindSection:
		return w.KindSection
	case content.KindFact:
		return w.KindFact
	default:
		return w.KindOther
	}
}

// Score is the breakdown of an entry's score.
type Score struct {
	// Title is the weighted title contribution.
	Title float64
	// Text is the weighted body contribution.
	Text float64
	// Total is (Title + Text) scaled by the kind weight, or 0 when the entry
	// does not match.
	Total float64
}

// Matched reports whether the entry matched at all.
func (s Score) Matched() bool { return s.Total > 0 }

// TitleDominant reports whether the title outscored the body. Snippets are
// taken from the start of the body in that case.
func (s Score) TitleDominant() bool { return s.Title > s.Text }

// Score scores an entry with the given title and body fields.
func (w Weights) Score(title, body Field, kind content.Kind, q Query) Score {
	s := Score{
		Title: title.Score(q.Lower) * w.Title,
		Text:  body.Score(q.Lower),
	}
	if q.MultiWord() {
		for _, word := range q.Words {
			s.Title += title.Score(word) * w.MultiWordTitle
			s.Text += body.Score(word) * w.MultiWordBody
		}
	}
	if sum := s.Title + s.Text; sum > 0 {
		s.Total = sum * w.Kind(kind)
	}
	return s
}
