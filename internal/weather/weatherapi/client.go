package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/provider"
	"github.com/kitbuilder587/agro-advisor/internal/weather"
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client - клиент WeatherAPI.com (current.json)
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.weatherapi.com"
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

type currentResponse struct {
	Current *struct {
		TempC     *float64 `json:"temp_c"`
		Humidity  *int     `json:"humidity"`
		WindKPH   *float64 `json:"wind_kph"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Current(ctx context.Context, lat, lng float64) (*weather.Conditions, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("aqi", "no")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/current.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", provider.StripURL(err))
	}

	body, statusCode, err := provider.Do(c.client, httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrRequestFailed, err)
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return nil, weather.ErrUnauthorized
	case statusCode == http.StatusTooManyRequests:
		return nil, weather.ErrRateLimit
	default:
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		c.logger.Error("weatherapi request failed",
			zap.Int("status", statusCode),
			zap.Int("api_code", apiErr.Error.Code),
			zap.String("api_message", apiErr.Error.Message),
		)
		return nil, fmt.Errorf("%w: status %d", weather.ErrRequestFailed, statusCode)
	}

	var resp currentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrMalformedReply, err)
	}

	cur := resp.Current
	if cur == nil || cur.TempC == nil || cur.Humidity == nil || cur.WindKPH == nil || cur.Condition.Text == "" {
		return nil, weather.ErrMalformedReply
	}

	return &weather.Conditions{
		TempC:     *cur.TempC,
		Humidity:  *cur.Humidity,
		Condition: cur.Condition.Text,
		WindKPH:   *cur.WindKPH,
	}, nil
}

var _ weather.Client = (*Client)(nil)
