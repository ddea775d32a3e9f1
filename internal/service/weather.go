package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
	"github.com/kitbuilder587/agro-advisor/internal/metrics"
	"github.com/kitbuilder587/agro-advisor/internal/weather"
)

const providerWeather = "weather"

// WeatherReporter запрашивает текущие условия и форматирует их для промпта
type WeatherReporter struct {
	client  weather.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewWeatherReporter(client weather.Client, logger *zap.Logger, m *metrics.Metrics) *WeatherReporter {
	if client == nil {
		client = weather.Disabled{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeatherReporter{
		client:  client,
		logger:  logger,
		metrics: m,
	}
}

func (w *WeatherReporter) Fetch(ctx context.Context, lat, lng float64) (out Outcome[domain.WeatherSnapshot]) {
	start := time.Now()
	defer func() {
		if w.metrics != nil {
			w.metrics.RecordProvider(providerWeather, out.Live, time.Since(start))
		}
	}()
	defer recoverTo(&out, FallbackWeather(), w.logger, providerWeather)

	cond, err := w.client.Current(ctx, lat, lng)
	if err == nil && cond == nil {
		err = weather.ErrMalformedReply
	}
	if err != nil {
		w.logger.Warn("weather fallback used",
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
			zap.Error(err),
		)
		return degraded(FallbackWeather())
	}

	w.logger.Debug("weather fetched", zap.String("condition", cond.Condition))
	return live(formatConditions(cond))
}

func formatConditions(c *weather.Conditions) domain.WeatherSnapshot {
	return domain.WeatherSnapshot{
		Temperature: strconv.FormatFloat(c.TempC, 'f', -1, 64) + "°C",
		Humidity:    fmt.Sprintf("%d%%", c.Humidity),
		Description: c.Condition,
		WindSpeed:   strconv.FormatFloat(c.WindKPH, 'f', -1, 64) + " kph",
	}
}
