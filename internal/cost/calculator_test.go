package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"haiku": {
				Input: 0.80, Output: 4.00,
				CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
			"sonnet": {
				Input: 3.00, Output: 15.00,
				CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
		},
		OpenAI: map[string]ModelRate{
			"mini": {Input: 0.15, Output: 0.60},
		},
	}
}

func TestClaude(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	tests := []struct {
		name       string
		model      string
		input      int
		output     int
		cacheWrite int
		cacheRead  int
		want       float64
	}{
		{
			name:  "haiku simple",
			model: "haiku",
			input: 1000000, output: 100000,
			want: 0.80 + 0.40,
		},
		{
			name:  "sonnet with cache write",
			model: "sonnet",
			input: 100000, output: 10000, cacheWrite: 1000000,
			want: 0.30 + 0.15 + (3.00 * 1.25),
		},
		{
			name:  "haiku cache read discount",
			model: "haiku",
			cacheRead: 1000000,
			want:      0.80 * 0.1,
		},
		{
			name:  "unknown model is free",
			model: "mystery",
			input: 1000000,
			want:  0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := calc.Claude(tt.model, tt.input, tt.output, tt.cacheWrite, tt.cacheRead)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestOpenAI(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	assert.InDelta(t, 0.15+0.06, calc.OpenAI("mini", 1000000, 100000), 1e-9)
	assert.Zero(t, calc.OpenAI("mystery", 1000000, 100000))
}
