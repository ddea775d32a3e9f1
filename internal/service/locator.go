package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
	"github.com/kitbuilder587/agro-advisor/internal/geocoding"
	"github.com/kitbuilder587/agro-advisor/internal/metrics"
)

const providerGeocoding = "geocoding"

// LocatorConfig берется как есть, (0, 0) тоже валидная точка
type LocatorConfig struct {
	FallbackLat float64
	FallbackLng float64
}

func DefaultLocatorConfig() LocatorConfig {
	return LocatorConfig{FallbackLat: DefaultFallbackLat, FallbackLng: DefaultFallbackLng}
}

// Locator переводит текст локации в координаты и никогда не возвращает ошибку
type Locator struct {
	client  geocoding.Client
	config  LocatorConfig
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewLocator(client geocoding.Client, cfg LocatorConfig, logger *zap.Logger, m *metrics.Metrics) *Locator {
	if client == nil {
		client = geocoding.Disabled{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{
		client:  client,
		config:  cfg,
		logger:  logger,
		metrics: m,
	}
}

func (l *Locator) fallback(locationText string) domain.Coordinates {
	return domain.Coordinates{
		Lat:              l.config.FallbackLat,
		Lng:              l.config.FallbackLng,
		FormattedAddress: locationText,
	}
}

func (l *Locator) Resolve(ctx context.Context, locationText string) (out Outcome[domain.Coordinates]) {
	start := time.Now()
	defer func() {
		if l.metrics != nil {
			l.metrics.RecordProvider(providerGeocoding, out.Live, time.Since(start))
		}
	}()
	defer recoverTo(&out, l.fallback(locationText), l.logger, providerGeocoding)

	resp, err := l.client.Geocode(ctx, geocoding.Request{Query: locationText, Limit: 1})
	if err == nil && (resp == nil || len(resp.Results) == 0) {
		err = geocoding.ErrNoResults
	}
	if err != nil {
		l.logger.Warn("geocoding fallback used",
			zap.String("location", locationText),
			zap.Error(err),
		)
		return degraded(l.fallback(locationText))
	}

	top := resp.Results[0]
	l.logger.Info("location resolved",
		zap.String("location", locationText),
		zap.Float64("lat", top.Lat),
		zap.Float64("lng", top.Lng),
	)

	return live(domain.Coordinates{
		Lat:              top.Lat,
		Lng:              top.Lng,
		FormattedAddress: top.Formatted,
	})
}
