package weather

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured  = errors.New("weather provider not configured")
	ErrUnauthorized   = errors.New("invalid API key")
	ErrRateLimit      = errors.New("rate limit exceeded")
	ErrRequestFailed  = errors.New("weather request failed")
	ErrMalformedReply = errors.New("malformed weather payload")
)

// Client отдает только текущие условия, без прогноза и качества воздуха
type Client interface {
	Current(ctx context.Context, lat, lng float64) (*Conditions, error)
}

type Conditions struct {
	TempC     float64
	Humidity  int
	Condition string
	WindKPH   float64
}

type Disabled struct{}

func (Disabled) Current(ctx context.Context, lat, lng float64) (*Conditions, error) {
	return nil, ErrNotConfigured
}

var _ Client = Disabled{}
