package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/llm"
	"github.com/kitbuilder587/agro-advisor/internal/metrics"
)

const providerLLM = "llm"

type Advisor struct {
	client  llm.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewAdvisor(client llm.Client, logger *zap.Logger, m *metrics.Metrics) *Advisor {
	if client == nil {
		client = llm.Disabled{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{
		client:  client,
		logger:  logger,
		metrics: m,
	}
}

// Generate возвращает текст провайдера как есть; пустой ответ считается отказом
func (a *Advisor) Generate(ctx context.Context, prompt string) (out Outcome[string]) {
	start := time.Now()
	defer func() {
		if a.metrics != nil {
			a.metrics.RecordProvider(providerLLM, out.Live, time.Since(start))
		}
	}()
	defer recoverTo(&out, FallbackAdvice, a.logger, providerLLM)

	text, err := a.client.Complete(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		a.logger.Warn("advice fallback used", zap.Error(err))
		return degraded(FallbackAdvice)
	}

	return live(text)
}
