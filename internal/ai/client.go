package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/InfinityAbhi/Growth-High-AI/internal/config"
	"github.com/InfinityAbhi/Growth-High-AI/internal/logger"
	"github.com/InfinityAbhi/Growth-High-AI/internal/model"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const _chatCompletionsURL = "/chat/completions"

// ErrUpstream marks a failed call to the language-model API. Callers decide
// whether to fall back, the client never fabricates a completion.
var ErrUpstream = errors.New("upstream ai request failed")

// Client is a thin proxy to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	c       *resty.Client
	limiter ratelimit.Limiter
	cfg     config.AIConfig

	logger logger.Logger
}

func NewClient(cfg config.AIConfig, apiKey string, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(cfg.Address).
		SetAuthToken(apiKey)

	return &Client{
		c:       client,
		limiter: ratelimit.New(cfg.RequestsPerMinute, ratelimit.Per(time.Minute)),
		cfg:     cfg,
		logger:  logger,
	}
}

// Complete sends one chat completion and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []model.ChatMessage, temperature float64, maxTokens int) (string, error) {
	if temperature <= 0 {
		temperature = c.cfg.Temperature
	}
	if maxTokens <= 0 {
		maxTokens = c.cfg.MaxTokens
	}

	c.limiter.Take()

	req := c.c.R().
		SetBody(model.ChatRequest{
			Model:       c.cfg.Model,
			Messages:    messages,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		}).
		SetResult(&model.ChatResponse{}).
		SetError(&model.ChatErrorResponse{}).
		SetContext(ctx)

	resp, err := req.Post(_chatCompletionsURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUpstream, err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if resp.IsError() {
		if response, ok := resp.Error().(*model.ChatErrorResponse); ok && response.Error.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrUpstream, response.Error.Message)
		}
		return "", fmt.Errorf("%w: status %s", ErrUpstream, resp.Status())
	}
	if resp.IsSuccess() {
		response := resp.Result().(*model.ChatResponse)
		if len(response.Choices) == 0 {
			return "", fmt.Errorf("%w: empty choices", ErrUpstream)
		}
		return response.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w: unexpected status %s", ErrUpstream, resp.Status())
}
