package opencage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/geocoding"
	"github.com/kitbuilder587/agro-advisor/internal/provider"
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.opencagedata.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type opencageResponse struct {
	Status  opencageStatus   `json:"status"`
	Results []opencageResult `json:"results"`
}

type opencageStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type opencageResult struct {
	Geometry struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"geometry"`
	Formatted string `json:"formatted"`
}

func (c *Client) Geocode(ctx context.Context, req geocoding.Request) (*geocoding.Response, error) {
	if req.Limit <= 0 {
		req.Limit = 1
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("key", c.apiKey)
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("no_annotations", "1")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/geocode/v1/json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", provider.StripURL(err))
	}

	body, statusCode, err := provider.Do(c.client, httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", geocoding.ErrRequestFailed, err)
	}

	// opencage дублирует код в теле, проверяем оба
	var ocResp opencageResponse
	if statusCode == http.StatusOK {
		if err := json.Unmarshal(body, &ocResp); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		statusCode = ocResp.Status.Code
	}

	switch statusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, geocoding.ErrUnauthorized
	case http.StatusPaymentRequired, http.StatusTooManyRequests:
		return nil, geocoding.ErrRateLimit
	default:
		c.logger.Error("opencage request failed",
			zap.Int("status", statusCode),
			zap.String("body", provider.Truncate(body, 512)),
		)
		return nil, fmt.Errorf("%w: status %d", geocoding.ErrRequestFailed, statusCode)
	}

	if len(ocResp.Results) == 0 {
		return nil, geocoding.ErrNoResults
	}

	return toResponse(&ocResp), nil
}

func toResponse(resp *opencageResponse) *geocoding.Response {
	results := make([]geocoding.Result, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = geocoding.Result{
			Lat:       r.Geometry.Lat,
			Lng:       r.Geometry.Lng,
			Formatted: r.Formatted,
		}
	}
	return &geocoding.Response{Results: results}
}

var _ geocoding.Client = (*Client)(nil)
