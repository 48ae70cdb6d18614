// Package openai adapts the OpenAI-compatible chat API for natural-language
// filter interpretation.
package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/campus-maps/vendmap/internal/domain"
)

// systemPrompt pins the model to the filter vocabulary. The reply is parsed
// downstream with the same tolerance as hand-typed query parameters, so the
// prompt only has to keep the model on the JSON shape, not perfect.
const systemPrompt = `You translate a request about campus vending machines into a JSON object.
Use only these keys, omitting any the request does not mention:
"q" (free text), "services" (array: snacks, drinks, water, coffee, food, candy, ice cream),
"payment_methods" (array: card, cash, mobile), "provider" (array of vendor names),
"campus", "zip", "status", "special_access" (true or false).
Respond with the JSON object only.`

// Interpreter turns free text into a filter JSON object via chat completion.
type Interpreter struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the interpretation provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewInterpreter creates an OpenAI-compatible interpretation provider.
func NewInterpreter(cfg *Config) *Interpreter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Interpreter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Interpret returns the model's raw JSON reply. All provider failures wrap
// domain.ErrInterpretFailed for correct 502 mapping.
func (i *Interpreter) Interpret(ctx context.Context, text string) (string, error) {
	resp, err := i.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: i.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response: %w", domain.ErrInterpretFailed)
	}
	return resp.Choices[0].Message.Content, nil
}

// parseAPIError extracts a readable error from the API response. Everything
// wraps domain.ErrInterpretFailed.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("interpretation API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrInterpretFailed)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("interpretation API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrInterpretFailed)
	}

	return fmt.Errorf("interpretation request: %v: %w", err, domain.ErrInterpretFailed)
}
