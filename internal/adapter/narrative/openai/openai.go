// Package openai narrates turns with the OpenAI chat completions API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"vexal/internal/adapter/narrative"
	"vexal/internal/app/ports"
)

const (
	ProviderName = "openai"
	DefaultModel = "gpt-4o-mini"
)

type Provider struct {
	client oai.Client
	model  string
}

var _ ports.NarrativeGenerator = (*Provider)(nil)

type config struct {
	baseURL string
	timeout time.Duration
}

type Option func(*config)

func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

func New(apiKey, model string, opts ...Option) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai: api key must not be empty")
	}
	if model == "" {
		model = DefaultModel
	}
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: cfg.timeout}))
	}
	return &Provider{client: oai.NewClient(reqOpts...), model: model}, nil
}

func (p *Provider) Generate(ctx context.Context, req ports.NarrativeRequest) (ports.Narrative, error) {
	params, err := p.buildParams(req)
	if err != nil {
		return ports.Narrative{}, err
	}
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return ports.Narrative{}, fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return ports.Narrative{}, fmt.Errorf("openai: empty completion")
	}
	out := narrative.ParseReply(resp.Choices[0].Message.Content)
	out.Provider = ProviderName
	return out, nil
}

// buildParams sends the state summary as prior assistant context so the
// model keeps its narration consistent with the numbers.
func (p *Provider) buildParams(req ports.NarrativeRequest) (oai.ChatCompletionNewParams, error) {
	prompt, err := narrative.RenderTurn(req)
	if err != nil {
		return oai.ChatCompletionNewParams{}, err
	}
	messages := []oai.ChatCompletionMessageParamUnion{oai.SystemMessage(narrative.SystemPrompt())}
	if req.Summary != "" {
		messages = append(messages, oai.AssistantMessage(req.Summary))
	}
	messages = append(messages, oai.UserMessage(prompt))

	return oai.ChatCompletionNewParams{
		Model:               shared.ChatModel(p.model),
		Messages:            messages,
		Temperature:         param.NewOpt(narrative.Temperature),
		MaxCompletionTokens: param.NewOpt(int64(narrative.MaxTokens)),
	}, nil
}
