package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Error values for consistent error handling by callers.
var (
	ErrGroupNotFound  = errors.New("content group not found")
	ErrInvalidGroup   = errors.New("invalid content group")
	ErrInvalidGroupID = errors.New("invalid content group id")
	ErrInvalidItem    = errors.New("invalid content item")
	ErrFetchFailed    = errors.New("content fetch failed")
)

// OptionSeparator joins quiz options into a single searchable body.
const OptionSeparator = " | "

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Group is the document a source returns for one content group. Every list
// is optional.
type Group struct {
	Sections      []Section  `json:"sections,omitempty" yaml:"sections"`
	Vocabulary    []Term     `json:"vocabulary,omitempty" yaml:"vocabulary"`
	KeyFacts      []Fact     `json:"keyFacts,omitempty" yaml:"keyFacts"`
	QuizQuestions []Question `json:"quizQuestions,omitempty" yaml:"quizQuestions"`
}

// Section is a page section. Content is markup. A section without an ID
// yields records with an empty SubKey, which link to the group itself.
type Section struct {
	ID            string    `json:"id,omitempty" yaml:"id"`
	Title         string    `json:"title" yaml:"title" validate:"required"`
	Content       string    `json:"content,omitempty" yaml:"content"`
	CheckQuestion *Question `json:"checkQuestion,omitempty" yaml:"checkQuestion" validate:"-"`
}

// Term is a vocabulary entry.
type Term struct {
	Term       string `json:"term" yaml:"term" validate:"required"`
	Definition string `json:"definition,omitempty" yaml:"definition"`
}

// Fact is a labelled key fact. Value accepts strings, numbers and booleans.
type Fact struct {
	Label string `json:"label" yaml:"label" validate:"required"`
	Value Text   `json:"value,omitempty" yaml:"value"`
}

// Question is a quiz prompt with its answer options.
type Question struct {
	Question    string   `json:"question" yaml:"question" validate:"required"`
	Options     []string `json:"options,omitempty" yaml:"options"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation"`
}

// Text is a string that also decodes from JSON or YAML numbers and booleans.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(x)
	case json.Number:
		*t = Text(x.String())
	case bool:
		*t = Text(strconv.FormatBool(x))
	default:
		return fmt.Errorf("%w: expected scalar text value, got %T", ErrInvalidGroup, v)
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: expected scalar text value at line %d", ErrInvalidGroup, node.Line)
	}
	if node.Tag == "!!null" {
		*t = ""
		return nil
	}
	*t = Text(node.Value)
	return nil
}

// DecodeJSON decodes a JSON group document.
func DecodeJSON(data []byte) (*Group, error) {
	var g Group
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGroup, err)
	}
	return &g, nil
}

// DecodeYAML decodes a YAML group document.
func DecodeYAML(data []byte) (*Group, error) {
	var g Group
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGroup, err)
	}
	return &g, nil
}

// Records validates the group's items and flattens them into records for
// groupKey, in source order: each section followed by its check question,
// then vocabulary, then key facts, then standalone quiz questions.
//
// Invalid items are skipped. The returned error, when non-nil, joins one
// ErrInvalidItem error per skipped item; the records are still usable.
func (g *Group) Records(groupKey string) ([]Record, error) {
	if g == nil {
		return nil, nil
	}

	var (
		records = make([]Record, 0, g.size())
		errs    []error
	)
	invalid := func(path string, err error) {
		errs = append(errs, fmt.Errorf("%w: %s %s: %s", ErrInvalidItem, groupKey, path, describe(err)))
	}

	for i, s := range g.Sections {
		s.ID = strings.TrimSpace(s.ID)
		s.Title = strings.TrimSpace(s.Title)
		if err := validate.Struct(s); err != nil {
			invalid(fmt.Sprintf("sections[%d]", i), err)
			continue
		}
		records = append(records, Record{
			GroupKey:   groupKey,
			SubKey:     s.ID,
			Kind:       KindSection,
			Title:      s.Title,
			Body:       s.Content,
			Provenance: ProvenanceSection,
		})

		if s.CheckQuestion == nil {
			continue
		}
		q := *s.CheckQuestion
		q.Question = strings.TrimSpace(q.Question)
		if err := validate.Struct(q); err != nil {
			invalid(fmt.Sprintf("sections[%d].checkQuestion", i), err)
			continue
		}
		records = append(records, Record{
			GroupKey:   groupKey,
			SubKey:     s.ID,
			Kind:       KindQuiz,
			Title:      q.Question,
			Body:       strings.Join(q.Options, OptionSeparator),
			Provenance: ProvenanceCheckQuestion,
		})
	}

	for i, v := range g.Vocabulary {
		v.Term = strings.TrimSpace(v.Term)
		if err := validate.Struct(v); err != nil {
			invalid(fmt.Sprintf("vocabulary[%d]", i), err)
			continue
		}
		records = append(records, Record{
			GroupKey:   groupKey,
			Kind:       KindVocabulary,
			Title:      v.Term,
			Body:       v.Definition,
			Provenance: ProvenanceVocabulary,
		})
	}

	for i, f := range g.KeyFacts {
		f.Label = strings.TrimSpace(f.Label)
		if err := validate.Struct(f); err != nil {
			invalid(fmt.Sprintf("keyFacts[%d]", i), err)
			continue
		}
		records = append(records, Record{
			GroupKey:   groupKey,
			Kind:       KindFact,
			Title:      f.Label,
			Body:       string(f.Value),
			Provenance: ProvenanceFact,
		})
	}

	for i, q := range g.QuizQuestions {
		q.Question = strings.TrimSpace(q.Question)
		if err := validate.Struct(q); err != nil {
			invalid(fmt.Sprintf("quizQuestions[%d]", i), err)
			continue
		}
		records = append(records, Record{
			GroupKey:   groupKey,
			Kind:       KindQuiz,
			Title:      q.Question,
			Body:       strings.Join(q.Options, OptionSeparator),
			Provenance: ProvenanceQuiz,
		})
	}

	return records, errors.Join(errs...)
}

func (g *Group) size() int {
	n := len(g.Sections) + len(g.Vocabulary) + len(g.KeyFacts) + len(g.QuizQuestions)
	for _, s := range g.Sections {
		if s.CheckQuestion != nil {
			n++
		}
	}
	return n
}

// describe renders validator errors as "field is tag" pairs.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+" is "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
