package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cellarbook/vinident/internal/infer"
	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

// systemPrompt is shared by every tier so the prompt cache stays warm across
// escalations.
const systemPrompt = `You are a wine identification assistant. Given a description or photo of a wine, identify it and respond with a single JSON object, no prose, using exactly these keys:
{"producer": string|null, "wine_name": string|null, "vintage": number|null, "region": string|null, "country": string|null, "wine_type": "Red"|"White"|"Rosé"|"Sparkling"|"Dessert"|"Fortified"|null, "grapes": [string], "appellation": string|null, "confidence": number}
confidence is your own 0-100 estimate of how certain the identification is. Use null for any field you cannot determine. Do not guess a vintage that is not stated or visible.`

// buildPrompt renders the user message for one model call: the input text,
// any structured constraints recovered from the supplementary hint (or the
// hint verbatim when nothing structured was found), and the best prior
// result as context for re-identification tiers.
func buildPrompt(req Request, lex *lexicon.Lexicon) string {
	var b strings.Builder

	if req.Image != nil {
		b.WriteString("Identify the wine in this photo.")
		if s := strings.TrimSpace(req.Image.SupplementaryText); s != "" {
			writeHint(&b, s, lex)
		}
	} else {
		fmt.Fprintf(&b, "Identify this wine: %s", req.Text)
	}

	if s := strings.TrimSpace(req.Supplementary); s != "" {
		writeHint(&b, s, lex)
	}

	if req.Prior != nil {
		prior, _ := json.Marshal(req.Prior)
		fmt.Fprintf(&b, "\n\nA previous attempt produced this partial identification; refine or correct it:\n%s", prior)
	}
	if len(req.LockedFields) > 0 {
		fmt.Fprintf(&b, "\nThe user has confirmed these fields; keep them exactly as given: %s",
			strings.Join(req.LockedFields, ", "))
	}

	return b.String()
}

// writeHint appends the user's supplementary text, structured when the
// lexicon recognises something in it and raw otherwise.
func writeHint(b *strings.Builder, hint string, lex *lexicon.Lexicon) {
	cons := infer.ParseHints(lex, hint)
	if len(cons) == 0 {
		fmt.Fprintf(b, "\nAdditional context from the user: %s", hint)
		return
	}
	b.WriteString("\nThe user asserts:")
	for _, c := range cons {
		fmt.Fprintf(b, " %s=%s (confidence %.2f);", c.Type, c.Value, c.Confidence)
	}
}

// describeResult summarises a parsed record for log lines.
func describeResult(rec *model.ParsedWineRecord) string {
	if rec == nil {
		return "<nil>"
	}
	parts := make([]string, 0, 4)
	if rec.Producer != "" {
		parts = append(parts, rec.Producer)
	}
	if rec.WineName != "" {
		parts = append(parts, rec.WineName)
	}
	if rec.Vintage != nil {
		parts = append(parts, fmt.Sprintf("%d", *rec.Vintage))
	}
	if rec.Region != "" {
		parts = append(parts, rec.Region)
	}
	if len(parts) == 0 {
		return "<empty>"
	}
	return strings.Join(parts, " ")
}
