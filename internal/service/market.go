package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
	"github.com/kitbuilder587/agro-advisor/internal/market"
	"github.com/kitbuilder587/agro-advisor/internal/metrics"
)

const providerMarket = "market"

var errIncompleteTable = errors.New("price table misses required commodities")

type PriceBoard struct {
	client  market.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewPriceBoard(client market.Client, logger *zap.Logger, m *metrics.Metrics) *PriceBoard {
	if client == nil {
		client = market.NotIntegrated{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceBoard{
		client:  client,
		logger:  logger,
		metrics: m,
	}
}

func (p *PriceBoard) Fetch(ctx context.Context, region string) (out Outcome[domain.MarketPrices]) {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.RecordProvider(providerMarket, out.Live, time.Since(start))
		}
	}()
	defer recoverTo(&out, FallbackPrices(), p.logger, providerMarket)

	prices, err := p.client.Prices(ctx, region)
	if err == nil && !prices.HasRequired() {
		err = errIncompleteTable
	}
	if err != nil {
		// NotIntegrated - штатный режим, не предупреждение
		if errors.Is(err, market.ErrNotIntegrated) {
			p.logger.Debug("market prices not integrated, using fallback", zap.String("region", region))
		} else {
			p.logger.Warn("market fallback used",
				zap.String("region", region),
				zap.Error(err),
			)
		}
		return degraded(FallbackPrices())
	}

	return live(prices.Clone())
}
