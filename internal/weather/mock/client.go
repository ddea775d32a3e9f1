package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/agro-advisor/internal/weather"
)

type Client struct {
	mu sync.Mutex

	Conditions weather.Conditions
	Error      error
	Delay      time.Duration
	Panic      bool

	CallCount int
	LastLat   float64
	LastLng   float64
}

func New() *Client {
	return &Client{
		Conditions: weather.Conditions{TempC: 31.4, Humidity: 42, Condition: "Sunny", WindKPH: 12.6},
	}
}

func (c *Client) WithConditions(cond weather.Conditions) *Client {
	c.Conditions = cond
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Current(ctx context.Context, lat, lng float64) (*weather.Conditions, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastLat = lat
	c.LastLng = lng
	c.mu.Unlock()

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Delay):
		}
	}

	if c.Panic {
		panic("mock weather panic")
	}

	if c.Error != nil {
		return nil, c.Error
	}

	cond := c.Conditions
	return &cond, nil
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

var _ weather.Client = (*Client)(nil)
