// Package gemini narrates turns with Google's Gemini models.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"vexal/internal/adapter/narrative"
	"vexal/internal/app/ports"
)

const (
	ProviderName = "gemini"
	DefaultModel = "gemini-2.5-flash"
)

type Provider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

var _ ports.NarrativeGenerator = (*Provider)(nil)

func New(ctx context.Context, apiKey, model string) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: api key must not be empty")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(narrative.SystemPrompt())}}
	m.SetTemperature(narrative.Temperature)
	m.SetMaxOutputTokens(narrative.MaxTokens)
	return &Provider{client: client, model: m}, nil
}

func (p *Provider) Close() error {
	return p.client.Close()
}

func (p *Provider) Generate(ctx context.Context, req ports.NarrativeRequest) (ports.Narrative, error) {
	prompt, err := narrative.RenderTurn(req)
	if err != nil {
		return ports.Narrative{}, err
	}
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ports.Narrative{}, fmt.Errorf("gemini: generate content: %w", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return ports.Narrative{}, err
	}
	out := narrative.ParseReply(text)
	out.Provider = ProviderName
	return out, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: no content returned")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("gemini: no text parts in response")
	}
	return b.String(), nil
}
