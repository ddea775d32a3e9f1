package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kitbuilder587/agro-advisor/internal/llm"
	"github.com/kitbuilder587/agro-advisor/internal/provider"
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client - генерация текста через Gemini API
type Client struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, llm.ErrNotConfigured
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}, nil
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", c.mapError(err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return llm.ErrAuthFailed
		case http.StatusTooManyRequests:
			return llm.ErrRateLimit
		}
		c.logger.Error("gemini request failed",
			zap.Int("status", apiErr.Code),
			zap.String("api_status", apiErr.Status),
			zap.String("message", apiErr.Message),
		)
		return fmt.Errorf("%w: status %d", llm.ErrRequestFailed, apiErr.Code)
	}
	return fmt.Errorf("%w: %v", llm.ErrRequestFailed, provider.StripURL(err))
}

var _ llm.Client = (*Client)(nil)
