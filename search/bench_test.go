package search

import (
	"strings"
	"testing"

	"github.com/jonwraymond/studysearch/content"
)

var benchBody = strings.Repeat("Restriction enzymes cut DNA at specific recognition sites. ", 30)

func BenchmarkScoreField(b *testing.B) {
	for b.Loop() {
		_ = ScoreField(benchBody, "recognition")
	}
}

func BenchmarkField_Score(b *testing.B) {
	f := NewField(benchBody)

	for b.Loop() {
		_ = f.Score("recognition")
	}
}

func BenchmarkWeights_Score_MultiWord(b *testing.B) {
	w := DefaultWeights()
	title := NewField("Restriction Enzymes")
	body := NewField(benchBody)
	q, _ := ParseQuery("restriction sites")

	for b.Loop() {
		_ = w.Score(title, body, content.KindSection, q)
	}
}
