package gateway

import (
	"context"

	"github.com/cellarbook/vinident/internal/classify"
	"github.com/cellarbook/vinident/pkg/openai"
)

// openaiProvider adapts the OpenAI-compatible client to the Provider
// interface. It is the tier-2 alternate when the primary provider
// underperforms or is unavailable.
type openaiProvider struct {
	client openai.Client
	guard  guard
}

// NewOpenAIProvider wraps an OpenAI client with rate limiting and a circuit
// breaker.
func NewOpenAIProvider(client openai.Client) Provider {
	return &openaiProvider{
		client: client,
		guard:  newGuard(2, 4),
	}
}

func (p *openaiProvider) Name() string { return "openai" }

func (p *openaiProvider) Available() bool { return p.guard.healthy() }

func (p *openaiProvider) Complete(ctx context.Context, system, prompt string, opts Options) (*RawResponse, error) {
	return p.complete(ctx, system, openai.TextMessage("user", prompt), opts)
}

func (p *openaiProvider) CompleteWithImage(ctx context.Context, system, prompt string, img *classify.ImageInput, opts Options) (*RawResponse, error) {
	return p.complete(ctx, system, openai.VisionMessage(prompt, img.MIMEType, img.Data), opts)
}

// StreamComplete degrades to a single blocking completion: the alternate
// provider is never used for the streaming tier, so incremental delivery is
// approximated by one callback with the full payload.
func (p *openaiProvider) StreamComplete(ctx context.Context, system, prompt string, opts Options, onText func(delta string)) (*RawResponse, error) {
	resp, err := p.Complete(ctx, system, prompt, opts)
	if err != nil {
		return resp, err
	}
	if onText != nil && resp.Content != "" {
		onText(resp.Content)
	}
	return resp, nil
}

func (p *openaiProvider) complete(ctx context.Context, system string, user openai.Message, opts Options) (*RawResponse, error) {
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	return p.guard.run(ctx, func(ctx context.Context) (*RawResponse, error) {
		req := openai.ChatCompletionRequest{
			Model:       opts.Model,
			Temperature: opts.Temperature,
			Messages: []openai.Message{
				openai.TextMessage("system", system),
				user,
			},
			ResponseFormat: &openai.ResponseFormat{Type: "json_object"},
		}
		if opts.MaxTokens > 0 {
			mt := opts.MaxTokens
			req.MaxTokens = &mt
		}

		resp, err := p.client.ChatCompletion(ctx, req)
		if err != nil {
			return nil, err
		}
		return &RawResponse{
			Content:      resp.Choices[0].Message.Content,
			Model:        resp.Model,
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		}, nil
	})
}
