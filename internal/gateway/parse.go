package gateway

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

// rawRecord is the tolerant decode target for model output. Field types are
// loose on purpose: vintage and confidence arrive as numbers or strings
// depending on the model's mood, grapes as an array or a comma-joined string,
// and key names vary between snake_case and bare forms.
type rawRecord struct {
	Producer    string          `json:"producer"`
	WineName    string          `json:"wine_name"`
	Name        string          `json:"name"`
	Vintage     json.RawMessage `json:"vintage"`
	Region      string          `json:"region"`
	Country     string          `json:"country"`
	WineType    string          `json:"wine_type"`
	Type        string          `json:"type"`
	Grapes      json.RawMessage `json:"grapes"`
	Appellation string          `json:"appellation"`
	Confidence  json.RawMessage `json:"confidence"`
}

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)```")

// extractJSON pulls a JSON object out of model output. Attempts, in order:
// the content as-is, the body of a fenced code block, the first balanced
// {...} span.
func extractJSON(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, eris.Wrap(model.ErrJSONParse, "gateway: empty model output")
	}

	if json.Valid([]byte(content)) && strings.HasPrefix(content, "{") {
		return []byte(content), nil
	}

	if m := fencedBlockRe.FindStringSubmatch(content); m != nil {
		inner := strings.TrimSpace(m[1])
		if json.Valid([]byte(inner)) {
			return []byte(inner), nil
		}
	}

	if span := firstObjectSpan(content); span != "" && json.Valid([]byte(span)) {
		return []byte(span), nil
	}

	return nil, eris.Wrap(model.ErrJSONParse, "gateway: no JSON object in model output")
}

// firstObjectSpan returns the first balanced top-level {...} span, tracking
// string literals so braces inside values do not confuse the count.
func firstObjectSpan(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// ParseRecord turns raw model output into a canonical record via tolerant
// JSON extraction and normalization.
func ParseRecord(content string, lex *lexicon.Lexicon) (*model.ParsedWineRecord, error) {
	data, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(model.ErrJSONParse, "gateway: decode model output")
	}
	return normalizeRecord(&raw, lex), nil
}
