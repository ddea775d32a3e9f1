package mock

import (
	"context"
	"sync"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
	"github.com/kitbuilder587/agro-advisor/internal/market"
)

type Client struct {
	mu sync.Mutex

	Table domain.MarketPrices
	Error error
	Panic bool

	CallCount  int
	LastRegion string
}

func New() *Client {
	return &Client{
		Table: domain.MarketPrices{
			domain.CommodityWheat:    "₹2,275/quintal",
			domain.CommodityCorn:     "₹2,090/quintal",
			domain.CommoditySoybeans: "₹4,600/quintal",
		},
	}
}

func (c *Client) WithTable(table domain.MarketPrices) *Client {
	c.Table = table
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) Prices(ctx context.Context, region string) (domain.MarketPrices, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastRegion = region
	c.mu.Unlock()

	if c.Panic {
		panic("mock market panic")
	}
	if c.Error != nil {
		return nil, c.Error
	}
	return c.Table.Clone(), nil
}

var _ market.Client = (*Client)(nil)
