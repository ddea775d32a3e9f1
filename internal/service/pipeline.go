package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
	"github.com/kitbuilder587/agro-advisor/internal/metrics"
)

// AdvisoryService - то, чем пользуются HTTP и телеграм
type AdvisoryService interface {
	Handle(ctx context.Context, req *domain.AdvisoryRequest) (*domain.AdvisoryResponse, error)
}

// IdentityDirectory - внешний справочник пользователей
type IdentityDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

type PipelineDeps struct {
	Directory IdentityDirectory
	Locator   *Locator
	Weather   *WeatherReporter
	Prices    *PriceBoard
	Advisor   *Advisor
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// Pipeline: identity -> geocode -> (weather || prices) -> prompt -> advice -> ответ.
// Ошибкой заканчиваются только валидация и поиск пользователя.
type Pipeline struct {
	directory IdentityDirectory
	locator   *Locator
	weather   *WeatherReporter
	prices    *PriceBoard
	advisor   *Advisor
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Locator == nil {
		deps.Locator = NewLocator(nil, DefaultLocatorConfig(), deps.Logger, deps.Metrics)
	}
	if deps.Weather == nil {
		deps.Weather = NewWeatherReporter(nil, deps.Logger, deps.Metrics)
	}
	if deps.Prices == nil {
		deps.Prices = NewPriceBoard(nil, deps.Logger, deps.Metrics)
	}
	if deps.Advisor == nil {
		deps.Advisor = NewAdvisor(nil, deps.Logger, deps.Metrics)
	}

	return &Pipeline{
		directory: deps.Directory,
		locator:   deps.Locator,
		weather:   deps.Weather,
		prices:    deps.Prices,
		advisor:   deps.Advisor,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
	}
}

func (p *Pipeline) Handle(ctx context.Context, req *domain.AdvisoryRequest) (*domain.AdvisoryResponse, error) {
	startTime := time.Now()

	if p.metrics != nil {
		p.metrics.IncRequestsInFlight()
		defer p.metrics.DecRequestsInFlight()
	}

	if err := req.Validate(); err != nil {
		p.record("validation_error", startTime)
		return nil, err
	}
	req.Sanitize()

	identity, err := p.directory.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			p.record("user_not_found", startTime)
			return nil, err
		}
		p.record("error", startTime)
		return nil, fmt.Errorf("identity lookup: %w", err)
	}

	p.logger.Info("processing advisory request",
		zap.String("email", identity.Email),
		zap.String("location", identity.Location),
		zap.Int("query_length", len(req.Query)),
	)

	coords := p.locator.Resolve(ctx, identity.Location)

	var (
		conditions Outcome[domain.WeatherSnapshot]
		prices     Outcome[domain.MarketPrices]
	)
	settle(ctx,
		func(ctx context.Context) {
			conditions = p.weather.Fetch(ctx, coords.Value.Lat, coords.Value.Lng)
		},
		func(ctx context.Context) {
			prices = p.prices.Fetch(ctx, identity.Location)
		},
	)

	prompt := BuildPrompt(req.Query, identity.Location, conditions.Value, prices.Value, coords.Value)
	advice := p.advisor.Generate(ctx, prompt)

	resp := &domain.AdvisoryResponse{
		Advice:      advice.Value,
		Location:    identity.Location,
		Coordinates: coords.Value,
		DataCollected: domain.DataCollected{
			Weather:   conditions.Live,
			CropPrice: prices.Live,
			Maps:      coords.Live,
		},
	}

	status := "success"
	if !coords.Live || !conditions.Live || !prices.Live || !advice.Live {
		status = "degraded"
	}
	p.record(status, startTime)

	p.logger.Info("advisory request processed",
		zap.String("email", identity.Email),
		zap.Bool("maps", coords.Live),
		zap.Bool("weather", conditions.Live),
		zap.Bool("crop_price", prices.Live),
		zap.Bool("advice_live", advice.Live),
		zap.Duration("duration", time.Since(startTime)),
	)

	return resp, nil
}

func (p *Pipeline) record(status string, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordRequest("query", status, time.Since(start))
	}
}

var _ AdvisoryService = (*Pipeline)(nil)
