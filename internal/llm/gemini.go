package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var geminiAliases = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.5-pro",
}

// GeminiProvider talks to the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiProvider{client: client, model: alias(cfg.Model, geminiAliases)}, nil
}

func (p *GeminiProvider) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	cfg := &genai.GenerateContentConfig{MaxOutputTokens: int32(pr.MaxTokens)}
	if pr.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(pr.Temperature))
	}
	if pr.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(pr.System, genai.RoleUser)
	}
	if pr.Format != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = pr.Format.Schema
	}

	res, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(pr.User), cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, classifyStatus(apiErr.Code, err)
		}
		return nil, &UnavailableError{Err: err}
	}

	c := Completion{Model: p.model, StopReason: StopEnd}
	if len(res.Candidates) > 0 && res.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		c.StopReason = StopMaxTokens
	}
	if u := res.UsageMetadata; u != nil {
		c.Usage = Usage{InputTokens: int(u.PromptTokenCount), OutputTokens: int(u.CandidatesTokenCount)}
	}
	return finish(pr, res.Text(), c)
}

func (p *GeminiProvider) ModelID() string { return p.model }
