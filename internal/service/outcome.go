package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Outcome - значение адаптера и признак того, что оно пришло от реального провайдера
type Outcome[T any] struct {
	Value T
	Live  bool
}

func live[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Live: true}
}

func degraded[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// settle запускает все задачи и ждет каждую. Задачи ошибок не возвращают:
// свой fallback каждая подставляет сама, поэтому контекст группы не отменяется.
func settle(ctx context.Context, tasks ...func(ctx context.Context)) {
	var g errgroup.Group
	for _, task := range tasks {
		g.Go(func() error {
			task(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

// recoverTo превращает панику внутри адаптера в fallback. Вызывать только через defer.
func recoverTo[T any](out *Outcome[T], fallback T, logger *zap.Logger, provider string) {
	if r := recover(); r != nil {
		logger.Error("provider panic recovered",
			zap.String("provider", provider),
			zap.Any("panic", r),
		)
		*out = degraded(fallback)
	}
}
