package scoring

import (
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

// Fuzzy similarity floor for confirming an anchor against a record field.
const fuzzyMatchThreshold = 0.75

// Thresholds are the ordered score cut-offs mapping a confidence score to an
// action. Suggest and UserChoice may coincide.
type Thresholds struct {
	AutoPopulate int
	Suggest      int
	UserChoice   int
}

// DefaultThresholds returns the standard 85/60/60 ladder.
func DefaultThresholds() Thresholds {
	return Thresholds{AutoPopulate: 85, Suggest: 60, UserChoice: 60}
}

// ActionFor maps a score onto an action. The mapping is monotonic: a higher
// score never yields a weaker action.
func (t Thresholds) ActionFor(score int) model.Action {
	switch {
	case score >= t.AutoPopulate:
		return model.ActionAutoPopulate
	case score >= t.Suggest:
		return model.ActionSuggest
	default:
		return model.ActionUserChoice
	}
}

// AnchorMatch records whether the model's output confirmed one anchor.
type AnchorMatch struct {
	Anchor  Anchor
	Matched bool
	// Field names the record field that confirmed the anchor.
	Field string
}

// Trace is the structured breakdown behind a score, kept for observability
// and for callers that surface "why this confidence".
type Trace struct {
	Anchors           []AnchorMatch
	MatchedWeight     float64
	TotalWeight       float64
	AnchorScore       float64
	SpecificityCap    float64
	CompletenessBonus int
	ImageFallback     bool
	Degradation       float64
	Final             int
}

// Result is a scored identification.
type Result struct {
	Score  int
	Action model.Action
	Trace  Trace
}

// Scorer scores parsed records against anchor sets. Safe for concurrent use.
type Scorer struct {
	lex        *lexicon.Lexicon
	thresholds Thresholds
}

// NewScorer creates a Scorer over the given lexicon and thresholds.
func NewScorer(lex *lexicon.Lexicon, th Thresholds) *Scorer {
	return &Scorer{lex: lex, thresholds: th}
}

// Thresholds returns the configured action cut-offs.
func (s *Scorer) Thresholds() Thresholds { return s.thresholds }

// Score computes the confidence score for rec against the user's anchors.
// imageInput switches the no-anchor case to the completeness-based fallback;
// degradation in (0,1) proportionally reduces the final score for soft image
// quality issues (zero means no degradation).
func (s *Scorer) Score(rec *model.ParsedWineRecord, anchors []Anchor, imageInput bool, degradation float64) Result {
	trace := Trace{Degradation: degradation}

	total := TotalWeight(anchors)
	trace.TotalWeight = total

	var final float64
	if total == 0 && imageInput {
		// Pure image input has nothing to verify against, so score from how
		// complete the answer is, blended with the model's self-estimate. An
		// un-grounded image identification never reaches auto-accept.
		trace.ImageFallback = true
		completeness := float64(rec.PopulatedFields()) / float64(model.FieldCount) * 100
		final = completeness*0.7 + float64(rec.ModelConfidence)*0.3
		if final > 70 {
			final = 70
		}
		trace.AnchorScore = final
	} else {
		var matched float64
		for _, a := range anchors {
			ok, field := s.matchAnchor(rec, a)
			if ok {
				matched += a.Weight
			}
			trace.Anchors = append(trace.Anchors, AnchorMatch{Anchor: a, Matched: ok, Field: field})
		}
		trace.MatchedWeight = matched

		// An uninformative input is neither confident nor unconfident.
		anchorScore := 50.0
		if total > 0 {
			anchorScore = matched / total * 100
		}
		trace.AnchorScore = anchorScore

		specCap := 50 + total*15
		if specCap > 95 {
			specCap = 95
		}
		if specCap < 50 {
			specCap = 50
		}
		trace.SpecificityCap = specCap

		final = anchorScore
		if final > specCap {
			final = specCap
		}

		bonus := rec.PopulatedFields()
		trace.CompletenessBonus = bonus
		final += float64(bonus)
	}

	if degradation > 0 && degradation < 1 {
		final *= degradation
	}
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}

	score := int(final + 0.5)
	trace.Final = score

	s.logTrace(rec, trace)
	return Result{Score: score, Action: s.thresholds.ActionFor(score), Trace: trace}
}

// matchAnchor decides whether the record confirms one anchor and which field
// did so.
func (s *Scorer) matchAnchor(rec *model.ParsedWineRecord, a Anchor) (bool, string) {
	switch a.Kind {
	case AnchorVintage:
		if rec.Vintage != nil && strconv.Itoa(*rec.Vintage) == a.Text {
			return true, "vintage"
		}
	case AnchorType:
		if rec.WineType != "" && string(rec.WineType) == a.Canonical {
			return true, "wine_type"
		}
	case AnchorGrape:
		for _, g := range rec.Grapes {
			if lexicon.Key(g) == lexicon.Key(a.Canonical) || similarity(lexicon.Fold(g), a.Text) >= fuzzyMatchThreshold {
				return true, "grapes"
			}
		}
	case AnchorRegion:
		region := lexicon.Fold(rec.Region)
		if region != "" && (region == lexicon.Fold(a.Canonical) || similarity(region, a.Text) >= fuzzyMatchThreshold) {
			return true, "region"
		}
	case AnchorCountry:
		country := rec.Country
		if canonical, ok := s.lex.Country(country); ok {
			country = canonical
		}
		if country != "" && country == a.Canonical {
			return true, "country"
		}
	case AnchorAppellation:
		if app := lexicon.Fold(rec.Appellation); app != "" &&
			(app == lexicon.Fold(a.Canonical) || similarity(app, a.Text) >= fuzzyMatchThreshold) {
			return true, "appellation"
		}
		// Cross-check: the appellation name appearing inside the producer or
		// wine name separates "the producer is named for the appellation"
		// from "the producer merely comes from there".
		if strings.Contains(s.combinedName(rec), a.Text) {
			return true, "producer"
		}
	case AnchorNameToken:
		combined := s.combinedName(rec)
		if combined == "" {
			return false, ""
		}
		if strings.Contains(combined, a.Text) {
			return true, "producer"
		}
		for _, word := range strings.Fields(combined) {
			if similarity(word, a.Text) >= fuzzyMatchThreshold {
				return true, "producer"
			}
		}
	}
	return false, ""
}

func (s *Scorer) combinedName(rec *model.ParsedWineRecord) string {
	return strings.TrimSpace(lexicon.Fold(rec.Producer + " " + rec.WineName))
}

// similarity is normalized Levenshtein similarity in [0,1].
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return 1 - float64(matchr.Levenshtein(a, b))/float64(longest)
}

func (s *Scorer) logTrace(rec *model.ParsedWineRecord, trace Trace) {
	fields := []zap.Field{
		zap.Float64("matched_weight", trace.MatchedWeight),
		zap.Float64("total_weight", trace.TotalWeight),
		zap.Float64("anchor_score", trace.AnchorScore),
		zap.Float64("specificity_cap", trace.SpecificityCap),
		zap.Int("completeness_bonus", trace.CompletenessBonus),
		zap.Bool("image_fallback", trace.ImageFallback),
		zap.Int("final", trace.Final),
	}
	for _, m := range trace.Anchors {
		if !m.Matched {
			fields = append(fields, zap.String("unmatched_"+string(m.Anchor.Kind), m.Anchor.Text))
		}
	}
	zap.L().Debug("scored identification", fields...)
}
