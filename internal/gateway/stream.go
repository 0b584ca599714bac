package gateway

import (
	"encoding/json"
	"regexp"
	"strings"
	"sync"
)

// FieldFunc receives one identification field as soon as its value is
// complete in the model's streamed output. Implementations must not block;
// they are invoked from the stream-reading goroutine.
type FieldFunc func(field, value string)

var (
	streamScalarRe = regexp.MustCompile(`"(producer|wine_name|name|vintage|region|country|wine_type|type|appellation|confidence)"\s*:\s*(?:("(?:[^"\\]|\\.)*")|(-?\d+(?:\.\d+)?)\s*[,}])`)
	streamArrayRe  = regexp.MustCompile(`"(grapes)"\s*:\s*(\[[^\]]*\])`)
)

// fieldScanner watches accumulating stream text for completed "key": value
// pairs and emits each field exactly once. The observed raw tokens double as
// the recovery source when the final payload turns out to be truncated or
// unparseable.
type fieldScanner struct {
	mu      sync.Mutex
	buf     strings.Builder
	fields  map[string]json.RawMessage
	onField FieldFunc
}

func newFieldScanner(onField FieldFunc) *fieldScanner {
	return &fieldScanner{
		fields:  make(map[string]json.RawMessage),
		onField: onField,
	}
}

// feed appends a stream delta and scans for newly completed fields.
func (s *fieldScanner) feed(delta string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.WriteString(delta)
	text := s.buf.String()

	for _, m := range streamScalarRe.FindAllStringSubmatch(text, -1) {
		field := m[1]
		if _, done := s.fields[field]; done {
			continue
		}
		token := m[2]
		if token == "" {
			token = m[3]
		}
		s.emit(field, token)
	}
	for _, m := range streamArrayRe.FindAllStringSubmatch(text, -1) {
		if _, done := s.fields[m[1]]; done {
			continue
		}
		s.emit(m[1], m[2])
	}
}

// emit records the raw token and invokes the callback with a display value.
// Caller holds s.mu.
func (s *fieldScanner) emit(field, token string) {
	s.fields[field] = json.RawMessage(token)
	if s.onField == nil {
		return
	}

	display := token
	switch token[0] {
	case '"':
		var str string
		if json.Unmarshal([]byte(token), &str) == nil {
			display = str
		}
	case '[':
		var list []string
		if json.Unmarshal([]byte(token), &list) == nil {
			display = strings.Join(list, ", ")
		}
	}
	if display != "" {
		s.onField(field, display)
	}
}

// content returns the full accumulated stream text.
func (s *fieldScanner) content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// recovered reassembles a JSON object from the fields observed during the
// stream. Returns nil when nothing usable was seen.
func (s *fieldScanner) recovered() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.fields) == 0 {
		return nil
	}
	data, err := json.Marshal(s.fields)
	if err != nil {
		return nil
	}
	return data
}
