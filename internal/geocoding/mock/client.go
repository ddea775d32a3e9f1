package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/agro-advisor/internal/geocoding"
)

type Client struct {
	mu sync.Mutex

	Results []geocoding.Result
	Error   error
	Delay   time.Duration
	Panic   bool

	CallCount int
	LastQuery string
}

func New() *Client {
	return &Client{
		Results: []geocoding.Result{
			{Lat: 26.9155, Lng: 75.819, Formatted: "Jaipur, Rajasthan, India"},
		},
	}
}

func (c *Client) WithResults(results ...geocoding.Result) *Client {
	c.Results = results
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

func (c *Client) Geocode(ctx context.Context, req geocoding.Request) (*geocoding.Response, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastQuery = req.Query
	c.mu.Unlock()

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Delay):
		}
	}

	if c.Panic {
		panic("mock geocoder panic")
	}

	if c.Error != nil {
		return nil, c.Error
	}

	if len(c.Results) == 0 {
		return nil, geocoding.ErrNoResults
	}

	results := c.Results
	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return &geocoding.Response{Results: results}, nil
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

var _ geocoding.Client = (*Client)(nil)
