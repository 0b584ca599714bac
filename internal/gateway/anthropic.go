package gateway

import (
	"context"

	"github.com/cellarbook/vinident/internal/classify"
	"github.com/cellarbook/vinident/pkg/anthropic"
)

const anthropicDefaultModel = "claude-haiku-4-5-20251001"

// anthropicProvider adapts the Anthropic client to the Provider interface.
type anthropicProvider struct {
	client anthropic.Client
	guard  guard
}

// NewAnthropicProvider wraps an Anthropic client with rate limiting and a
// circuit breaker.
func NewAnthropicProvider(client anthropic.Client) Provider {
	return &anthropicProvider{
		client: client,
		guard:  newGuard(2, 4),
	}
}

func (p *anthropicProvider) Name() string { return "anthropic" }

func (p *anthropicProvider) Available() bool { return p.guard.healthy() }

func (p *anthropicProvider) Complete(ctx context.Context, system, prompt string, opts Options) (*RawResponse, error) {
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	return p.guard.run(ctx, func(ctx context.Context) (*RawResponse, error) {
		resp, err := p.client.CreateMessage(ctx, p.buildRequest(system, prompt, nil, opts))
		if err != nil {
			return nil, err
		}
		return fromAnthropicResponse(resp), nil
	})
}

func (p *anthropicProvider) CompleteWithImage(ctx context.Context, system, prompt string, img *classify.ImageInput, opts Options) (*RawResponse, error) {
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	return p.guard.run(ctx, func(ctx context.Context) (*RawResponse, error) {
		resp, err := p.client.CreateMessage(ctx, p.buildRequest(system, prompt, img, opts))
		if err != nil {
			return nil, err
		}
		return fromAnthropicResponse(resp), nil
	})
}

func (p *anthropicProvider) StreamComplete(ctx context.Context, system, prompt string, opts Options, onText func(delta string)) (*RawResponse, error) {
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	return p.guard.run(ctx, func(ctx context.Context) (*RawResponse, error) {
		resp, err := p.client.StreamMessage(ctx, p.buildRequest(system, prompt, nil, opts), onText)
		if resp == nil {
			return nil, err
		}
		// Partial content survives a mid-stream failure so the caller can
		// salvage fields already emitted.
		return fromAnthropicResponse(resp), err
	})
}

func (p *anthropicProvider) buildRequest(system, prompt string, img *classify.ImageInput, opts Options) anthropic.MessageRequest {
	model := opts.Model
	if model == "" {
		model = anthropicDefaultModel
	}
	maxTokens := int64(opts.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 1024
	}

	msg := anthropic.Message{Role: "user", Content: prompt}
	if img != nil {
		msg.Image = &anthropic.ImageBlock{MediaType: img.MIMEType, Data: img.Data}
	}

	return anthropic.MessageRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      anthropic.BuildCachedSystemBlocks(system),
		Messages:    []anthropic.Message{msg},
		Temperature: opts.Temperature,
	}
}

func fromAnthropicResponse(resp *anthropic.MessageResponse) *RawResponse {
	return &RawResponse{
		Content:          resp.Text(),
		Model:            resp.Model,
		InputTokens:      int(resp.Usage.InputTokens),
		OutputTokens:     int(resp.Usage.OutputTokens),
		CacheWriteTokens: int(resp.Usage.CacheCreationInputTokens),
		CacheReadTokens:  int(resp.Usage.CacheReadInputTokens),
	}
}
