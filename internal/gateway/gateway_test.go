package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarbook/vinident/internal/classify"
	"github.com/cellarbook/vinident/internal/cost"
	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

// fakeProvider scripts one response per call.
type fakeProvider struct {
	name      string
	content   string
	err       error
	streamErr error
	deltas    []string
	available bool

	lastPrompt string
	calls      int
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) Complete(_ context.Context, _, prompt string, opts Options) (*RawResponse, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return &RawResponse{Content: f.content, Model: opts.Model, InputTokens: 100, OutputTokens: 50}, nil
}

func (f *fakeProvider) CompleteWithImage(ctx context.Context, system, prompt string, _ *classify.ImageInput, opts Options) (*RawResponse, error) {
	return f.Complete(ctx, system, prompt, opts)
}

func (f *fakeProvider) StreamComplete(_ context.Context, _, prompt string, opts Options, onText func(string)) (*RawResponse, error) {
	f.calls++
	f.lastPrompt = prompt
	for _, d := range f.deltas {
		onText(d)
	}
	if f.streamErr != nil {
		return &RawResponse{Model: opts.Model}, f.streamErr
	}
	return &RawResponse{Content: f.content, Model: opts.Model}, nil
}

func newTestGateway(p Provider) *Gateway {
	return New(cost.NewCalculator(cost.DefaultRates()), lexicon.Default(), p)
}

func TestProcess_Text(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{
		name:      "anthropic",
		available: true,
		content:   `{"producer": "Château Margaux", "vintage": "2019", "region": "Bordeaux", "country": "french", "wine_type": "red", "confidence": 92}`,
	}
	g := newTestGateway(fake)

	res, err := g.Process(context.Background(), Request{
		Text: "chateau margaux 2019",
		Opts: Options{Provider: "anthropic", Model: "claude-haiku-4-5-20251001"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Château Margaux", res.Parsed.Producer)
	require.NotNil(t, res.Parsed.Vintage)
	assert.Equal(t, 2019, *res.Parsed.Vintage)
	assert.Equal(t, "France", res.Parsed.Country)
	assert.Equal(t, model.WineTypeRed, res.Parsed.WineType)
	assert.Equal(t, "anthropic", res.Provider)
	assert.Greater(t, res.CostUSD, 0.0)
	assert.Contains(t, fake.lastPrompt, "chateau margaux 2019")
}

func TestProcess_SupplementaryHintInjection(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{name: "anthropic", available: true, content: `{"producer": "X"}`}
	g := newTestGateway(fake)

	_, err := g.Process(context.Background(), Request{
		Text:          "old red label",
		Supplementary: "maybe Rioja",
		Opts:          Options{Provider: "anthropic"},
	})
	require.NoError(t, err)
	assert.Contains(t, fake.lastPrompt, "region=Rioja")
	assert.Contains(t, fake.lastPrompt, "country=Spain")

	// Unstructured hints go in verbatim.
	_, err = g.Process(context.Background(), Request{
		Text:          "old red label",
		Supplementary: "bought at the airport",
		Opts:          Options{Provider: "anthropic"},
	})
	require.NoError(t, err)
	assert.Contains(t, fake.lastPrompt, "bought at the airport")
}

func TestProcess_PriorContextAndLockedFields(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{name: "anthropic", available: true, content: `{"producer": "X"}`}
	g := newTestGateway(fake)

	vintage := 2019
	_, err := g.Process(context.Background(), Request{
		Text:         "chateau margaux 2019",
		Prior:        &model.ParsedWineRecord{Producer: "Château Margaux", Vintage: &vintage},
		LockedFields: []string{"vintage"},
		Opts:         Options{Provider: "anthropic"},
	})
	require.NoError(t, err)
	assert.Contains(t, fake.lastPrompt, "Château Margaux")
	assert.Contains(t, fake.lastPrompt, "keep them exactly as given: vintage")
}

func TestProcess_UnknownProvider(t *testing.T) {
	t.Parallel()

	g := newTestGateway(&fakeProvider{name: "anthropic", available: true})
	_, err := g.Process(context.Background(), Request{Text: "x", Opts: Options{Provider: "nope"}})
	require.Error(t, err)
	assert.Equal(t, model.ErrKindProviderUnavailable, model.KindOf(err))
}

func TestProcess_UnavailableProvider(t *testing.T) {
	t.Parallel()

	g := newTestGateway(&fakeProvider{name: "anthropic", available: false})
	_, err := g.Process(context.Background(), Request{Text: "x", Opts: Options{Provider: "anthropic"}})
	require.Error(t, err)
	assert.Equal(t, model.ErrKindProviderUnavailable, model.KindOf(err))
	assert.False(t, g.Available("anthropic"))
}

func TestProcess_ParseFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{name: "anthropic", available: true, content: "sorry, no idea"}
	g := newTestGateway(fake)

	_, err := g.Process(context.Background(), Request{Text: "x", Opts: Options{Provider: "anthropic"}})
	require.Error(t, err)
	assert.Equal(t, model.ErrKindJSONParse, model.KindOf(err))
}

func TestProcessStream_FieldCallbacks(t *testing.T) {
	t.Parallel()

	payload := `{"producer": "Château Margaux", "vintage": 2019, "confidence": 90}`
	fake := &fakeProvider{
		name:      "anthropic",
		available: true,
		content:   payload,
		deltas:    []string{`{"producer": "Château `, `Margaux", "vintage": 2019, `, `"confidence": 90}`},
	}
	g := newTestGateway(fake)

	var fields []string
	res, err := g.ProcessStream(context.Background(), Request{
		Text: "chateau margaux 2019",
		Opts: Options{Provider: "anthropic"},
	}, func(field, _ string) {
		fields = append(fields, field)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"producer", "vintage", "confidence"}, fields)
	assert.Equal(t, "Château Margaux", res.Parsed.Producer)
}

func TestProcessStream_TruncatedPayloadRecovery(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{
		name:      "anthropic",
		available: true,
		deltas:    []string{`{"producer": "Château Margaux", "region": "Bordeaux", "wine_na`},
		streamErr: errors.New("connection dropped"),
	}
	g := newTestGateway(fake)

	res, err := g.ProcessStream(context.Background(), Request{
		Text: "margaux",
		Opts: Options{Provider: "anthropic"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Château Margaux", res.Parsed.Producer)
	assert.Equal(t, "Bordeaux", res.Parsed.Region)
}

func TestProcessStream_NothingRecoverable(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{
		name:      "anthropic",
		available: true,
		deltas:    []string{"garbage"},
		streamErr: errors.New("connection dropped"),
	}
	g := newTestGateway(fake)

	_, err := g.ProcessStream(context.Background(), Request{
		Text: "margaux",
		Opts: Options{Provider: "anthropic"},
	}, nil)
	require.Error(t, err)
	assert.Equal(t, model.ErrKindStreaming, model.KindOf(err))
}
