package infer

import (
	"strings"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

// ConstraintType categorises a user-asserted hint.
type ConstraintType string

const (
	ConstraintRegion   ConstraintType = "region"
	ConstraintCountry  ConstraintType = "country"
	ConstraintWineType ConstraintType = "wine_type"
	ConstraintGrape    ConstraintType = "grape"
)

// Constraint is a user-asserted hint parsed from supplementary free text,
// distinct from an anchor. Constraints are consumed once to adjust a score
// and then discarded.
type Constraint struct {
	Type       ConstraintType `json:"type"`
	Value      string         `json:"value"`
	Confidence float64        `json:"confidence"` // in [0, 1]
}

// Base confidence of an explicit vocabulary match in a hint, before any
// hedging discount.
const hintBaseConfidence = 0.9

// hedgeMultiplier discounts constraints when the hint contains hedging
// language.
const hedgeMultiplier = 0.7

var hedgePhrases = []string{
	"maybe",
	"i think",
	"possibly",
	"not sure",
	"perhaps",
	"might be",
}

// ParseHints extracts weighted constraints from supplementary user text.
//
// The full string is tried before comma/semicolon-split sub-phrases so
// multi-word region names are not prematurely fragmented. Category priority
// is region > country > wine type > grape, first match per category wins. A
// region match also asserts its country as a secondary constraint.
func ParseHints(lex *lexicon.Lexicon, text string) []Constraint {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	confidence := hintBaseConfidence
	folded := lexicon.Fold(text)
	for _, h := range hedgePhrases {
		if strings.Contains(folded, h) {
			confidence *= hedgeMultiplier
			break
		}
	}

	// Match on the folded form with hedging language removed, so "maybe
	// Burgundy" still resolves. Lookups are case- and accent-insensitive, and
	// matches return the canonical table spelling.
	cleaned := folded
	for _, h := range hedgePhrases {
		cleaned = strings.ReplaceAll(cleaned, h, " ")
	}
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return nil
	}

	candidates := []string{cleaned}
	for _, part := range strings.FieldsFunc(cleaned, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		part = strings.TrimSpace(part)
		if part != "" && part != cleaned {
			candidates = append(candidates, part)
		}
	}

	var out []Constraint
	seen := map[ConstraintType]bool{}
	add := func(t ConstraintType, value string, conf float64) {
		if seen[t] {
			return
		}
		seen[t] = true
		out = append(out, Constraint{Type: t, Value: value, Confidence: conf})
	}

	for _, cand := range candidates {
		if !seen[ConstraintRegion] {
			if r, ok := lex.Region(cand); ok {
				add(ConstraintRegion, r.Name, confidence)
				// Secondary inference: a region asserts its country too.
				add(ConstraintCountry, r.Country, confidence*0.8)
			}
		}
		if !seen[ConstraintCountry] {
			if c, ok := lex.Country(cand); ok {
				add(ConstraintCountry, c, confidence)
			}
		}
		if !seen[ConstraintWineType] {
			if t, ok := lex.WineType(cand); ok {
				add(ConstraintWineType, string(t), confidence)
			}
		}
		if !seen[ConstraintGrape] {
			if g, ok := lex.Grape(cand); ok {
				add(ConstraintGrape, g.Name, confidence)
			}
		}
	}
	return out
}

// Score-adjustment magnitudes per constraint. Contradicting an explicit user
// assertion is penalised harder than agreement is rewarded.
const (
	constraintAgreeBonus      = 5.0
	constraintConflictPenalty = 10.0
)

// AdjustScore nudges a confidence score by how well the record satisfies the
// user's constraints. Constraints the record cannot be compared against
// (missing field) leave the score unchanged. The result is clamped to
// [0, 100].
func AdjustScore(score int, rec *model.ParsedWineRecord, cons []Constraint) int {
	adjusted := float64(score)
	for _, c := range cons {
		agrees, comparable := fieldAgrees(rec, c)
		if !comparable {
			continue
		}
		if agrees {
			adjusted += constraintAgreeBonus * c.Confidence
		} else {
			adjusted -= constraintConflictPenalty * c.Confidence
		}
	}
	if adjusted < 0 {
		return 0
	}
	if adjusted > 100 {
		return 100
	}
	return int(adjusted + 0.5)
}
