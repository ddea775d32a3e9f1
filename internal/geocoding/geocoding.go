package geocoding

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured = errors.New("geocoding provider not configured")
	ErrUnauthorized  = errors.New("invalid API key")
	ErrRateLimit     = errors.New("rate limit exceeded")
	ErrRequestFailed = errors.New("geocoding request failed")
	ErrNoResults     = errors.New("no results found")
)

type Client interface {
	Geocode(ctx context.Context, req Request) (*Response, error)
}

type Request struct {
	Query string
	Limit int
}

type Response struct {
	Results []Result
}

type Result struct {
	Lat       float64
	Lng       float64
	Formatted string
}

// Disabled - вариант без ключа API, всегда отказывает
type Disabled struct{}

func (Disabled) Geocode(ctx context.Context, req Request) (*Response, error) {
	return nil, ErrNotConfigured
}

var _ Client = Disabled{}
