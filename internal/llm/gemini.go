package llm

import (
	"context"
	"encoding/json"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiOptions are the generation settings sent with every request.
type GeminiOptions struct {
	APIKey          string
	Model           string
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}

func DefaultGeminiOptions(apiKey string) GeminiOptions {
	return GeminiOptions{
		APIKey:          apiKey,
		Model:           "gemini-2.5-flash",
		Temperature:     0.7,
		TopP:            0.95,
		MaxOutputTokens: 2048,
	}
}

// GeminiClient is a thin wrapper around the official genai client.
// Rate limiting, retries and logging are applied via Middleware.
type GeminiClient struct {
	cli  *genai.Client
	opts GeminiOptions
}

func NewGeminiClient(ctx context.Context, opts GeminiOptions) (*GeminiClient, error) {
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, opts: opts}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.opts.Model }
func (g *GeminiClient) Close() error { return nil }

// GenerateJSON asks for application/json and returns the model text as-is.
// Callers are expected to clean and validate it.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(g.opts.Temperature),
		TopP:             genai.Ptr(g.opts.TopP),
		MaxOutputTokens:  g.opts.MaxOutputTokens,
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.opts.Model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: composePrompt(prompt, input)}}}},
		cfg,
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, NewPermanentError(ErrInvalidJSON)
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return nil, NewPermanentError(ErrInvalidJSON)
	}
	return json.RawMessage(sb.String()), nil
}
