package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/agro-advisor/internal/config"
	"github.com/kitbuilder587/agro-advisor/internal/geocoding"
	"github.com/kitbuilder587/agro-advisor/internal/geocoding/opencage"
	"github.com/kitbuilder587/agro-advisor/internal/httpapi"
	"github.com/kitbuilder587/agro-advisor/internal/llm"
	"github.com/kitbuilder587/agro-advisor/internal/llm/gemini"
	llmMock "github.com/kitbuilder587/agro-advisor/internal/llm/mock"
	"github.com/kitbuilder587/agro-advisor/internal/llm/openrouter"
	"github.com/kitbuilder587/agro-advisor/internal/market"
	"github.com/kitbuilder587/agro-advisor/internal/metrics"
	"github.com/kitbuilder587/agro-advisor/internal/ratelimit"
	"github.com/kitbuilder587/agro-advisor/internal/repository"
	"github.com/kitbuilder587/agro-advisor/internal/repository/postgres"
	"github.com/kitbuilder587/agro-advisor/internal/service"
	"github.com/kitbuilder587/agro-advisor/internal/telegram"
	"github.com/kitbuilder587/agro-advisor/internal/weather"
	"github.com/kitbuilder587/agro-advisor/internal/weather/weatherapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agro-advisor: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)

	users, closeRepo, err := buildUserRepository(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	llmClient, err := buildLLM(ctx, cfg.LLM, logger)
	if err != nil {
		return err
	}

	userService := service.NewUserService(users, logger)
	pipeline := service.NewPipeline(service.PipelineDeps{
		Directory: userService,
		Locator: service.NewLocator(buildGeocoder(cfg.Geocoding, logger), service.LocatorConfig{
			FallbackLat: cfg.Fallback.Lat,
			FallbackLng: cfg.Fallback.Lng,
		}, logger, m),
		Weather: service.NewWeatherReporter(buildWeather(cfg.Weather, logger), logger, m),
		Prices:  service.NewPriceBoard(market.NotIntegrated{}, logger, m),
		Advisor: service.NewAdvisor(llmClient, logger, m),
		Logger:  logger,
		Metrics: m,
	})

	var limiter *ratelimit.Limiter[string]
	if cfg.RateLimit.Enabled() {
		limiter = ratelimit.New[string](ratelimit.Config{RequestsPerMinute: cfg.RateLimit.RequestsPerMinute})
		defer limiter.Stop()
	}

	api := httpapi.NewServer(httpapi.Deps{
		Advisory: pipeline,
		Users:    userService,
		Logger:   logger,
		Metrics:  m,
		Limiter:  limiter,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var bot *telegram.Bot
	if cfg.Telegram.Token != "" {
		bot, err = telegram.New(telegram.BotConfig{
			Token:             cfg.Telegram.Token,
			Debug:             cfg.Log.Level == "debug",
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			SessionTTL:        cfg.Telegram.SessionTTL,
		}, userService, pipeline, logger, m)
		if err != nil {
			return err
		}
	} else {
		logger.Info("TELEGRAM_BOT_TOKEN not set, chat surface disabled")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server started", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if bot != nil {
		g.Go(func() error {
			if err := bot.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("service stopped with error", zap.Error(err))
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

func buildUserRepository(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (repository.UserRepository, func(), error) {
	if cfg.URL == "" {
		logger.Warn("DATABASE_URL not set, users are kept in memory")
		return repository.NewMemoryUserRepository(), func() {}, nil
	}

	db, err := postgres.New(ctx, cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	logger.Info("connected to postgres")
	return postgres.NewUserRepo(db), db.Close, nil
}

// без ключа сразу выбираем Disabled: адаптер уйдет в fallback без сетевых вызовов
func buildGeocoder(cfg config.GeocodingConfig, logger *zap.Logger) geocoding.Client {
	if cfg.APIKey == "" {
		logger.Warn("OPENCAGE_API_KEY not set, geocoding will use fallback coordinates")
		return geocoding.Disabled{}
	}
	return opencage.New(opencage.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}, logger)
}

func buildWeather(cfg config.WeatherConfig, logger *zap.Logger) weather.Client {
	if cfg.APIKey == "" {
		logger.Warn("WEATHER_API_KEY not set, weather will use fallback snapshot")
		return weather.Disabled{}
	}
	return weatherapi.New(weatherapi.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}, logger)
}

func buildLLM(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (llm.Client, error) {
	switch cfg.Provider {
	case config.ProviderMock:
		logger.Info("using mock advisory provider")
		return llmMock.New(), nil

	case config.ProviderOpenRouter:
		if cfg.OpenRouter.APIKey == "" {
			logger.Warn("OPENROUTER_API_KEY not set, advice will use fallback text")
			return llm.Disabled{}, nil
		}
		return openrouter.New(openrouter.Config{
			APIKey:  cfg.OpenRouter.APIKey,
			Model:   cfg.OpenRouter.Model,
			BaseURL: cfg.OpenRouter.BaseURL,
			Timeout: cfg.Timeout,
		}, logger), nil

	default:
		if cfg.Gemini.APIKey == "" {
			logger.Warn("GEMINI_API_KEY not set, advice will use fallback text")
			return llm.Disabled{}, nil
		}
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: cfg.Timeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		logger.Info("using gemini advisory provider", zap.String("model", client.Model()))
		return client, nil
	}
}
