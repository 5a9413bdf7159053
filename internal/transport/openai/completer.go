package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/partdex/internal/domain"
	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
	"github.com/kailas-cloud/partdex/internal/metrics"
)

// Completer generates one-sentence match explanations via the
// OpenAI-compatible chat completion API.
type Completer struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// CompleterConfig holds the completion provider settings.
type CompleterConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Logger    *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion provider.
func NewCompleter(cfg *CompleterConfig) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Completer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    cfg.Logger,
	}
}

// Explain asks the model why a matched part fits the user's query and
// returns a one-sentence rationale.
func (c *Completer) Explain(ctx context.Context, query string, p dompart.Part) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: explainPrompt(query, p)},
		},
	})
	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", parseCompletionError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrCompletionProviderError)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(c.model, "success").Inc()
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// explainPrompt builds the Korean match-explanation prompt.
func explainPrompt(query string, p dompart.Part) string {
	var b strings.Builder
	fmt.Fprintf(&b, "사용자가 %q를 검색했습니다.\n", query)
	b.WriteString("다음 부품이 매칭되었습니다:\n")
	fmt.Fprintf(&b, "- 부품명: %s\n", p.Name())
	fmt.Fprintf(&b, "- 카테고리: %s\n", p.Category())
	fmt.Fprintf(&b, "- 제조사: %s\n", p.Manufacturer())
	fmt.Fprintf(&b, "- 설명: %s\n", p.Description())
	b.WriteString("\n이 부품이 사용자의 니즈에 맞는 이유를 한 문장으로 간단히 설명해주세요.")
	return b.String()
}

// parseCompletionError wraps every API failure with
// domain.ErrCompletionProviderError so callers can degrade per item.
func parseCompletionError(err error) error {
	wrap := domain.ErrCompletionProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w", wrap)
}
