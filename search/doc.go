// Package search scores how well a query matches a piece of text.
//
// It exists to:
//   - Keep the ranking rules in one pure, deterministic place
//   - Let the index precompute folded text once at build time
//
// # Scoring
//
// [ScoreField] returns 0 when the folded field does not contain the query.
// Otherwise the field scores a base of 1 plus additive bonuses:
//
//	exact match        +10  (ExactBonus)
//	prefix match        +5  (PrefixBonus)
//	word boundary       +3  (BoundaryBonus)
//	short field (<60)   +2  (ShortFieldBonus)
//	medium field (<200) +1  (MediumFieldBonus)
//
// # Weights
//
// [Weights] combine title and body scores into an entry score and scale it by
// the entry's kind:
//
//	w := search.DefaultWeights()
//	q, ok := search.ParseQuery("restriction enzyme")
//	if ok {
//	    s := w.Score(search.NewField(title), search.NewField(body), content.KindVocabulary, q)
//	    fmt.Println(s.Total)
//	}
//
// # Thread Safety
//
// All functions are pure. [Field] and [Query] values are immutable and safe to
// share between goroutines.
package search
