package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/agro-advisor/internal/llm"
)

type Client struct {
	mu sync.Mutex

	Response string
	Error    error
	Delay    time.Duration
	Panic    bool

	CallCount  int
	LastPrompt string
	AllPrompts []string
}

func New() *Client {
	return &Client{
		Response: "Irrigate the wheat plots this evening and hold off on fertilizer until Thursday.",
	}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
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

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastPrompt = prompt
	c.AllPrompts = append(c.AllPrompts, prompt)
	c.mu.Unlock()

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.Delay):
		}
	}

	if c.Panic {
		panic("mock llm panic")
	}

	if c.Error != nil {
		return "", c.Error
	}

	return c.Response, nil
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastPrompt = ""
	c.AllPrompts = nil
}

var _ llm.Client = (*Client)(nil)
