package content

// Kind is the category of a content record.
type Kind string

const (
	// KindSection is a page section of a topic.
	KindSection Kind = "section"
	// KindVocabulary is a vocabulary term with its definition.
	KindVocabulary Kind = "vocab"
	// KindFact is a labelled key fact.
	KindFact Kind = "fact"
	// KindQuiz is a quiz prompt, standalone or attached to a section.
	KindQuiz Kind = "quiz"
)

// Kinds lists every record kind in display order.
var Kinds = []Kind{KindSection, KindVocabulary, KindFact, KindQuiz}

// Label returns the human-readable name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindSection:
		return "Section"
	case KindVocabulary:
		return "Vocabulary"
	case KindFact:
		return "Key Fact"
	case KindQuiz:
		return "Quiz"
	default:
		return string(k)
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSection, KindVocabulary, KindFact, KindQuiz:
		return true
	}
	return false
}

// ParseKind maps a kind name or label ("vocab", "Vocabulary") to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if s == string(k) || s == k.Label() {
			return k, true
		}
	}
	if s == "vocabulary" {
		return KindVocabulary, true
	}
	return "", false
}

// Provenance labels describe where inside a group a record came from.
const (
	ProvenanceSection       = "Section"
	ProvenanceCheckQuestion = "Check Question"
	ProvenanceVocabulary    = "Vocabulary"
	ProvenanceFact          = "Key Fact"
	ProvenanceQuiz          = "Quiz"
)

// Record is one searchable piece of content. Records are immutable once
// produced by a Group.
type Record struct {
	// GroupKey identifies the content group the record belongs to.
	GroupKey string `json:"groupKey"`
	// SubKey locates the record inside its group (section id); empty when the
	// record has no finer location.
	SubKey string `json:"subKey,omitempty"`
	// Kind is the record category.
	Kind Kind `json:"kind"`
	// Title is the short, heavily weighted field.
	Title string `json:"title"`
	// Body is the long field. It may contain markup.
	Body string `json:"body"`
	// Provenance is a display label for the record's origin.
	Provenance string `json:"provenance"`
}
