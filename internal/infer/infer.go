// Package infer fills gaps in a parsed wine record from the lexical
// knowledge base and parses user-supplied hints into weighted constraints.
//
// Every filled field records its provenance so downstream consumers can
// distinguish "the model said this" from "we inferred this".
package infer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

// Complete applies the fixed, ordered inference rules to rec and returns an
// enriched copy plus the list of inferences applied. The input record is not
// mutated.
//
// Rule order: region roll-up, appellation to region/country, region to
// country, grape colour to wine type. Later rules see the effects of earlier
// ones, so "Margaux" rolls up to Bordeaux before Bordeaux derives France.
func Complete(ctx context.Context, lex *lexicon.Lexicon, rec *model.ParsedWineRecord) (*model.ParsedWineRecord, []model.Inference) {
	out := rec.Clone()
	var applied []model.Inference

	record := func(rule, field, value string) {
		applied = append(applied, model.Inference{Rule: rule, Field: field, Value: value})
	}

	// A village-level region rolls up to its parent, keeping the village as
	// the appellation.
	if out.Region != "" {
		ru := lex.RollUpRegion(out.Region)
		if ru.Appellation != "" && ru.Region != out.Region {
			out.Region = ru.Region
			record(model.InferenceRegionRollUp, "region", ru.Region)
			if out.Appellation == "" {
				out.Appellation = ru.Appellation
				record(model.InferenceRegionRollUp, "appellation", ru.Appellation)
			}
			if out.Country == "" && ru.Country != "" {
				out.Country = ru.Country
				record(model.InferenceRegionRollUp, "country", ru.Country)
			}
		}
	}

	if out.Appellation != "" && (out.Region == "" || out.Country == "") {
		if app, ok := lex.Appellation(ctx, out.Appellation); ok {
			if out.Region == "" && app.Region != "" {
				out.Region = app.Region
				record(model.InferenceAppellationRegion, "region", app.Region)
			}
			if out.Country == "" && app.Country != "" {
				out.Country = app.Country
				record(model.InferenceAppellationCountry, "country", app.Country)
			}
		}
	}

	if out.Region != "" && out.Country == "" {
		if r, ok := lex.Region(out.Region); ok {
			out.Country = r.Country
			record(model.InferenceRegionCountry, "country", r.Country)
		}
	}

	if out.WineType == "" && len(out.Grapes) > 0 {
		// First grape with a known berry colour wins.
		for _, g := range out.Grapes {
			color, ok := lex.GrapeColorOf(g)
			if !ok {
				continue
			}
			switch color {
			case lexicon.GrapeRed:
				out.WineType = model.WineTypeRed
			case lexicon.GrapeWhite:
				out.WineType = model.WineTypeWhite
			}
			record(model.InferenceGrapeWineType, "wine_type", string(out.WineType))
			break
		}
	}

	if len(applied) > 0 {
		zap.L().Debug("inference rules applied",
			zap.Int("count", len(applied)),
			zap.Any("inferences", applied))
	}
	return out, applied
}

// fieldAgrees reports whether the record's value for a constraint type agrees
// with the asserted value. The third return is false when the record has no
// value to compare.
func fieldAgrees(rec *model.ParsedWineRecord, c Constraint) (agrees, comparable bool) {
	switch c.Type {
	case ConstraintRegion:
		if rec.Region == "" {
			return false, false
		}
		return foldEqual(rec.Region, c.Value) || foldContains(rec.Region, c.Value) || foldContains(c.Value, rec.Region), true
	case ConstraintCountry:
		if rec.Country == "" {
			return false, false
		}
		return foldEqual(rec.Country, c.Value), true
	case ConstraintWineType:
		if rec.WineType == "" {
			return false, false
		}
		return foldEqual(string(rec.WineType), c.Value), true
	case ConstraintGrape:
		if len(rec.Grapes) == 0 {
			return false, false
		}
		for _, g := range rec.Grapes {
			if foldEqual(g, c.Value) {
				return true, true
			}
		}
		return false, true
	}
	return false, false
}

func foldEqual(a, b string) bool {
	return lexicon.Fold(a) == lexicon.Fold(b)
}

func foldContains(haystack, needle string) bool {
	return strings.Contains(lexicon.Fold(haystack), lexicon.Fold(needle))
}
