package gateway

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

const minVintageYear = 1900

var yearRe = regexp.MustCompile(`(19|20)\d{2}`)

// normalizeRecord maps a tolerant raw decode onto the canonical record:
// trimmed strings, a bounded 4-digit vintage, canonical country and wine-type
// spellings, de-duplicated grapes, clamped confidence.
func normalizeRecord(raw *rawRecord, lex *lexicon.Lexicon) *model.ParsedWineRecord {
	rec := &model.ParsedWineRecord{
		Producer:    strings.TrimSpace(raw.Producer),
		WineName:    strings.TrimSpace(raw.WineName),
		Region:      strings.TrimSpace(raw.Region),
		Appellation: strings.TrimSpace(raw.Appellation),
	}
	if rec.WineName == "" {
		rec.WineName = strings.TrimSpace(raw.Name)
	}

	rec.Vintage = parseVintage(raw.Vintage)

	if country := strings.TrimSpace(raw.Country); country != "" {
		if canonical, ok := lex.Country(country); ok {
			rec.Country = canonical
		} else {
			rec.Country = country
		}
	}

	typeText := strings.TrimSpace(raw.WineType)
	if typeText == "" {
		typeText = strings.TrimSpace(raw.Type)
	}
	if typeText != "" {
		if t, ok := lex.WineType(typeText); ok {
			rec.WineType = t
		} else if t := model.WineType(typeText); t.IsValid() {
			rec.WineType = t
		}
	}

	rec.Grapes = parseGrapes(raw.Grapes)
	rec.ModelConfidence = parseConfidence(raw.Confidence)
	return rec
}

// parseVintage extracts a 4-digit year from a JSON number or free-form
// string, bounded to [1900, currentYear+2]. Anything else is nil.
func parseVintage(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}

	var year int
	var num float64
	var str string
	switch {
	case json.Unmarshal(raw, &num) == nil:
		year = int(num)
	case json.Unmarshal(raw, &str) == nil:
		m := yearRe.FindString(str)
		if m == "" {
			return nil
		}
		year, _ = strconv.Atoi(m)
	default:
		return nil
	}

	if year < minVintageYear || year > time.Now().Year()+2 {
		return nil
	}
	return &year
}

// parseGrapes accepts a JSON string array or a comma-joined string and
// returns a trimmed, order-preserving, de-duplicated list.
func parseGrapes(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	var joined string
	switch {
	case json.Unmarshal(raw, &list) == nil:
	case json.Unmarshal(raw, &joined) == nil:
		list = strings.Split(joined, ",")
	default:
		return nil
	}

	var out []string
	seen := make(map[string]bool, len(list))
	for _, g := range list {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		key := lexicon.Key(g)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g)
	}
	return out
}

// parseConfidence accepts a JSON number or numeric string and clamps to
// [0, 100]. A fractional value in (0, 1] is treated as a ratio.
func parseConfidence(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var num float64
	var str string
	switch {
	case json.Unmarshal(raw, &num) == nil:
	case json.Unmarshal(raw, &str) == nil:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return 0
		}
		num = parsed
	default:
		return 0
	}

	if num > 0 && num <= 1 {
		num *= 100
	}
	switch {
	case num < 0:
		return 0
	case num > 100:
		return 100
	default:
		return int(num + 0.5)
	}
}
