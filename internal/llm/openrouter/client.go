package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/llm"
	"github.com/kitbuilder587/agro-advisor/internal/provider"
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client - запасной генеративный провайдер через OpenRouter chat completions
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "google/gemini-flash-1.5"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", provider.StripURL(err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("HTTP-Referer", "https://github.com/kitbuilder587/agro-advisor")
	httpReq.Header.Set("X-Title", "Agro Advisor")

	body, statusCode, err := provider.Do(c.client, httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrRequestFailed, err)
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return "", llm.ErrAuthFailed
	// 402 - закончились кредиты на аккаунте
	case statusCode == http.StatusPaymentRequired || statusCode == http.StatusTooManyRequests:
		return "", llm.ErrRateLimit
	default:
		c.logger.Error("openrouter request failed",
			zap.Int("status", statusCode),
			zap.String("body", provider.Truncate(body, 512)),
		)
		return "", fmt.Errorf("%w: status %d", llm.ErrRequestFailed, statusCode)
	}

	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", llm.ErrRequestFailed, err)
	}

	// ошибка апстрим-модели приходит с кодом 200
	if resp.Error != nil {
		c.logger.Error("openrouter upstream error",
			zap.Any("code", resp.Error.Code),
			zap.String("message", resp.Error.Message),
		)
		return "", fmt.Errorf("%w: %s", llm.ErrRequestFailed, resp.Error.Message)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", llm.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

var _ llm.Client = (*Client)(nil)
