package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarbook/vinident/internal/infer"
	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

func testScorer() *Scorer {
	return NewScorer(lexicon.Default(), DefaultThresholds())
}

// margauxRecord is the model output shared by the identification scenarios,
// run through the inference engine the way the pipeline does.
func margauxRecord(t *testing.T) *model.ParsedWineRecord {
	t.Helper()
	vintage := 2019
	rec := &model.ParsedWineRecord{
		Producer: "Château Margaux",
		Vintage:  &vintage,
		Region:   "Bordeaux",
		Country:  "France",
		Grapes:   []string{"Cabernet Sauvignon", "Merlot"},
	}
	out, _ := infer.Complete(context.Background(), lexicon.Default(), rec)
	return out
}

func TestScore_SpecificInputAgainstMatchingRecord(t *testing.T) {
	t.Parallel()

	anchors := extract(t, "chateau margaux 2019")
	res := testScorer().Score(margauxRecord(t), anchors, false, 0)

	assert.GreaterOrEqual(t, res.Score, 80)
	assert.Equal(t, model.ActionAutoPopulate, res.Action)
	assert.InDelta(t, res.Trace.TotalWeight, res.Trace.MatchedWeight, 1e-9, "every anchor should match")
}

func TestScore_VagueInputCappedBelowAutoPopulate(t *testing.T) {
	t.Parallel()

	anchors := extract(t, "red wine from bordeaux")
	res := testScorer().Score(margauxRecord(t), anchors, false, 0)

	assert.GreaterOrEqual(t, res.Score, 50)
	assert.LessOrEqual(t, res.Score, 80)
	assert.Contains(t, []model.Action{model.ActionSuggest, model.ActionUserChoice}, res.Action)
	assert.Less(t, res.Trace.SpecificityCap, 85.0, "vague input must be capped out of auto_populate range")
}

func TestScore_WrongRecordScoresStrictlyLower(t *testing.T) {
	t.Parallel()

	anchors := extract(t, "chateau margaux 2019")
	scorer := testScorer()

	right := scorer.Score(margauxRecord(t), anchors, false, 0)

	vintage := 2019
	wrong := &model.ParsedWineRecord{
		Producer: "Château Palmer",
		Vintage:  &vintage,
		Region:   "Bordeaux",
		Country:  "France",
		Grapes:   []string{"Cabernet Sauvignon", "Merlot"},
	}
	wrongOut, _ := infer.Complete(context.Background(), lexicon.Default(), wrong)
	res := scorer.Score(wrongOut, anchors, false, 0)

	assert.Less(t, res.Trace.MatchedWeight, res.Trace.TotalWeight)
	assert.Less(t, res.Score, right.Score)
}

func TestScore_NoAnchorsDefaultsTo50(t *testing.T) {
	t.Parallel()

	res := testScorer().Score(&model.ParsedWineRecord{}, nil, false, 0)
	assert.Equal(t, 50, res.Score)
	assert.InDelta(t, 50.0, res.Trace.AnchorScore, 1e-9)
}

func TestScore_SpecificityCapBounds(t *testing.T) {
	t.Parallel()

	scorer := testScorer()
	rec := margauxRecord(t)

	// Non-decreasing in total anchor weight, bounded to [50, 95].
	var prev float64 = 0
	inputs := []string{
		"bottle",
		"red",
		"red wine from bordeaux",
		"chateau margaux 2019",
		"chateau margaux grand vin pauillac merlot cabernet sauvignon bordeaux france 2019",
	}
	for _, in := range inputs {
		res := scorer.Score(rec, extract(t, in), false, 0)
		assert.GreaterOrEqual(t, res.Trace.SpecificityCap, 50.0, in)
		assert.LessOrEqual(t, res.Trace.SpecificityCap, 95.0, in)
		assert.GreaterOrEqual(t, res.Trace.SpecificityCap, prev, in)
		prev = res.Trace.SpecificityCap
	}
}

func TestScore_MatchMonotonicity(t *testing.T) {
	t.Parallel()

	anchors := extract(t, "chateau margaux 2019")
	scorer := testScorer()

	// Vintage unmatched vs matched; flipping it to matched must not lower
	// the score.
	wrongVintage := 2015
	worse := margauxRecord(t)
	worse.Vintage = &wrongVintage

	lo := scorer.Score(worse, anchors, false, 0)
	hi := scorer.Score(margauxRecord(t), anchors, false, 0)
	assert.GreaterOrEqual(t, hi.Score, lo.Score)
}

func TestScore_ImageFallbackCappedAt70(t *testing.T) {
	t.Parallel()

	scorer := testScorer()
	full := margauxRecord(t)
	full.WineName = "Grand Vin"
	full.ModelConfidence = 100

	res := scorer.Score(full, nil, true, 0)
	assert.LessOrEqual(t, res.Score, 70)
	assert.True(t, res.Trace.ImageFallback)

	sparse := &model.ParsedWineRecord{Producer: "Someone", ModelConfidence: 100}
	res = scorer.Score(sparse, nil, true, 0)
	assert.LessOrEqual(t, res.Score, 70)
	assert.Less(t, res.Score, 70, "a sparse record should score below the cap")
}

func TestScore_ImageDegradationApplied(t *testing.T) {
	t.Parallel()

	scorer := testScorer()
	full := margauxRecord(t)
	full.WineName = "Grand Vin"
	full.ModelConfidence = 100

	clean := scorer.Score(full, nil, true, 0)
	degraded := scorer.Score(full, nil, true, 0.85)
	assert.Less(t, degraded.Score, clean.Score)
}

func TestScore_ImageWithSupplementaryAnchorsUsesAnchorPath(t *testing.T) {
	t.Parallel()

	anchors := extract(t, "chateau margaux 2019")
	res := testScorer().Score(margauxRecord(t), anchors, true, 0)
	assert.False(t, res.Trace.ImageFallback)
	assert.Greater(t, res.Score, 70)
}

func TestActionFor_Monotonic(t *testing.T) {
	t.Parallel()

	th := DefaultThresholds()
	rank := map[model.Action]int{
		model.ActionUserChoice:   0,
		model.ActionSuggest:      1,
		model.ActionAutoPopulate: 2,
	}

	prev := -1
	for score := 0; score <= 100; score++ {
		r := rank[th.ActionFor(score)]
		require.GreaterOrEqual(t, r, prev, "action weakened at score %d", score)
		prev = r
	}

	assert.Equal(t, model.ActionAutoPopulate, th.ActionFor(85))
	assert.Equal(t, model.ActionSuggest, th.ActionFor(84))
	assert.Equal(t, model.ActionSuggest, th.ActionFor(60))
	assert.Equal(t, model.ActionUserChoice, th.ActionFor(59))
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, similarity("margaux", "margaux"), 1e-9)
	assert.Greater(t, similarity("margaux", "margeaux"), fuzzyMatchThreshold)
	assert.Less(t, similarity("margaux", "palmer"), fuzzyMatchThreshold)
	assert.Zero(t, similarity("", "margaux"))
}
