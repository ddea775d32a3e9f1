package llm

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured = errors.New("llm provider not configured")
	ErrAuthFailed    = errors.New("authentication failed")
	ErrRequestFailed = errors.New("request failed")
	ErrEmptyResponse = errors.New("empty response")
	ErrRateLimit     = errors.New("rate limit exceeded")
)

// Client - генеративный провайдер: модель задается в конфиге клиента, на вход промпт
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Disabled struct{}

func (Disabled) Complete(ctx context.Context, prompt string) (string, error) {
	return "", ErrNotConfigured
}

var _ Client = Disabled{}
