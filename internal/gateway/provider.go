package gateway

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/cellarbook/vinident/internal/classify"
	"github.com/cellarbook/vinident/internal/resilience"
)

// Options controls a single model call. Zero values fall back to the
// provider's defaults.
type Options struct {
	Provider    string
	Model       string
	Temperature *float64
	MaxTokens   int
	Timeout     time.Duration
}

// RawResponse is the provider-neutral result of one completion call, before
// any parsing.
type RawResponse struct {
	Content          string
	Model            string
	InputTokens      int
	OutputTokens     int
	CacheWriteTokens int
	CacheReadTokens  int
}

// Provider abstracts one model provider behind the operations the engine
// needs. Implementations rate-limit their own calls and report availability
// through a circuit breaker, so a provider that keeps failing gates itself
// out of the escalation ladder.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, prompt string, opts Options) (*RawResponse, error)
	CompleteWithImage(ctx context.Context, system, prompt string, img *classify.ImageInput, opts Options) (*RawResponse, error)

	// StreamComplete invokes onText for every incremental text delta. A
	// mid-stream failure returns the partial content accumulated so far
	// along with the error.
	StreamComplete(ctx context.Context, system, prompt string, opts Options, onText func(delta string)) (*RawResponse, error)

	Available() bool
}

// guard wraps the shared per-call plumbing: rate limiting before the call,
// circuit breaker accounting after.
type guard struct {
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
}

func newGuard(rps float64, burst int) guard {
	cfg := resilience.DefaultCircuitBreakerConfig()
	cfg.ShouldTrip = resilience.IsTransient
	return guard{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: resilience.NewCircuitBreaker(cfg),
	}
}

func (g guard) run(ctx context.Context, fn func(ctx context.Context) (*RawResponse, error)) (*RawResponse, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return resilience.ExecuteVal(ctx, g.breaker, fn)
}

func (g guard) healthy() bool { return g.breaker.Healthy() }

// withTimeout applies the per-tier timeout when one is set.
func withTimeout(ctx context.Context, opts Options) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return ctx, func() {}
}
