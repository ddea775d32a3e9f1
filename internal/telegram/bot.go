package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/metrics"
	"github.com/kitbuilder587/agro-advisor/internal/ratelimit"
	"github.com/kitbuilder587/agro-advisor/internal/service"
	"github.com/kitbuilder587/agro-advisor/internal/session"
)

type BotConfig struct {
	Token             string
	Debug             bool
	RequestsPerMinute int
	SessionTTL        time.Duration
}

type Bot struct {
	api         *tgbotapi.BotAPI
	users       service.UserService
	advisory    service.AdvisoryService
	sessions    *session.Store[int64, string]
	logger      *zap.Logger
	metrics     *metrics.Metrics
	handler     *Handler
	rateLimiter *ratelimit.Limiter[int64]
	wg          sync.WaitGroup

	// send подменяется в тестах
	send func(chatID int64, text string) error
}

func New(cfg BotConfig, users service.UserService, advisory service.AdvisoryService, logger *zap.Logger, m *metrics.Metrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	api.Debug = cfg.Debug

	bot := newBot(api, cfg, users, advisory, logger, m)

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
	)

	return bot, nil
}

func newBot(api *tgbotapi.BotAPI, cfg BotConfig, users service.UserService, advisory service.AdvisoryService, logger *zap.Logger, m *metrics.Metrics) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}

	bot := &Bot{
		api:      api,
		users:    users,
		advisory: advisory,
		sessions: session.New[int64, string](cfg.SessionTTL),
		logger:   logger,
		metrics:  m,
	}
	// 0 - без лимита, как и для HTTP
	if cfg.RequestsPerMinute > 0 {
		bot.rateLimiter = ratelimit.New[int64](ratelimit.Config{RequestsPerMinute: cfg.RequestsPerMinute})
	}
	bot.send = bot.sendHTML
	bot.handler = NewHandler(bot)
	return bot
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopping, waiting for handlers to finish")
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			b.Close()
			b.logger.Info("all handlers finished")
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.wg.Add(1)
			go func(upd tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// Close останавливает фоновые очистки лимитера и сессий
func (b *Bot) Close() {
	if b.rateLimiter != nil {
		b.rateLimiter.Stop()
	}
	b.sessions.Stop()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			chatID := int64(0)
			if update.Message != nil && update.Message.Chat != nil {
				chatID = update.Message.Chat.ID
			}
			b.logger.Error("panic in update handler",
				zap.Any("panic", r),
				zap.Int64("chat_id", chatID),
			)
			if b.metrics != nil {
				b.metrics.RecordRequest("message", "panic", time.Since(startTime))
			}
		}
	}()

	b.handler.HandleMessage(ctx, update.Message)

	if b.metrics != nil {
		reqType := "command"
		if update.Message != nil && !update.Message.IsCommand() {
			reqType = "chat_query"
		}
		b.metrics.RecordRequest(reqType, "processed", time.Since(startTime))
	}
}

func (b *Bot) Send(chatID int64, text string) error {
	return b.send(chatID, text)
}

func (b *Bot) sendHTML(chatID int64, text string) error {
	if b.api == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendTyping(chatID int64) {
	if b.api == nil {
		return
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	b.api.Send(action)
}

func (b *Bot) RecordRateLimitHit() {
	if b.metrics != nil {
		b.metrics.RecordRateLimitHit("telegram")
	}
}
