package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
)

const telegramMessageLimit = 4096

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.logger.Info("received message",
		zap.Int64("chat_id", msg.Chat.ID),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}
	h.handleQuery(ctx, msg)
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "register":
		h.handleRegister(ctx, msg)
	case "login":
		h.handleLogin(ctx, msg)
	case "logout":
		h.handleLogout(ctx, msg)
	case "whoami":
		h.handleWhoami(ctx, msg)
	default:
		h.bot.Send(msg.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if email, ok := h.bot.sessions.Get(msg.Chat.ID); ok {
		h.bot.Send(msg.Chat.ID, "Welcome back! You are logged in as <b>"+escape(email)+"</b>.\n\nAsk me anything about your farm.")
		return
	}

	h.bot.Send(msg.Chat.ID, "Welcome to the farm advisor!\n\n"+
		"Log in with /login your@email.com or create an account with\n"+
		"/register Name; email; Location\n\n"+
		"Use /help to see all commands.")
}

func (h *Handler) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	helpText := `<b>Commands:</b>

/start - Greeting
/help - Show this help
/register Name; email; Location - Create an account
/login email - Link this chat to your account
/logout - Unlink this chat
/whoami - Show the linked account

<b>How to use:</b>
After logging in just send your question, for example:
• "Should I irrigate my wheat this week?"
• "Is it a good time to sell soybeans?"

The advice uses the current weather and market prices for your location.`

	h.bot.Send(msg.Chat.ID, helpText)
}

func (h *Handler) handleRegister(ctx context.Context, msg *tgbotapi.Message) {
	identity := ParseRegistration(msg.CommandArguments())

	if err := h.bot.users.Register(ctx, &identity); err != nil {
		if !isClientError(err) {
			h.bot.logger.Error("telegram registration failed", zap.Error(err))
		}
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.sessions.Set(msg.Chat.ID, identity.Email)
	h.bot.Send(msg.Chat.ID, "Account created and linked to this chat.\n\n"+FormatIdentity(&identity))
}

func (h *Handler) handleLogin(ctx context.Context, msg *tgbotapi.Message) {
	email := ParseEmailArg(msg.CommandArguments())

	identity, err := h.bot.users.Login(ctx, email)
	if err != nil {
		if !isClientError(err) {
			h.bot.logger.Error("telegram login failed", zap.Error(err))
		}
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.sessions.Set(msg.Chat.ID, identity.Email)
	h.bot.Send(msg.Chat.ID, "Login successful.\n\n"+FormatIdentity(identity))
}

func (h *Handler) handleLogout(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.sessions.Delete(msg.Chat.ID)
	h.bot.Send(msg.Chat.ID, "Logged out. Use /login to link an account again.")
}

func (h *Handler) handleWhoami(ctx context.Context, msg *tgbotapi.Message) {
	email, ok := h.bot.sessions.Get(msg.Chat.ID)
	if !ok {
		h.bot.Send(msg.Chat.ID, notLoggedIn)
		return
	}

	identity, err := h.bot.users.FindByEmail(ctx, email)
	if err != nil {
		// учетку могли удалить, сессия больше не валидна
		if errors.Is(err, domain.ErrUserNotFound) {
			h.bot.sessions.Delete(msg.Chat.ID)
		}
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.Send(msg.Chat.ID, FormatIdentity(identity))
}

const notLoggedIn = "Please log in first: /login your@email.com"

func (h *Handler) handleQuery(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if h.bot.rateLimiter != nil && !h.bot.rateLimiter.Allow(chatID) {
		h.bot.logger.Warn("rate limit exceeded",
			zap.Int64("chat_id", chatID),
			zap.Time("reset_at", h.bot.rateLimiter.ResetTime(chatID)),
		)
		h.bot.RecordRateLimitHit()
		h.bot.Send(chatID, "Too many requests. Please wait a minute.")
		return
	}

	email, ok := h.bot.sessions.Get(chatID)
	if !ok {
		h.bot.Send(chatID, notLoggedIn)
		return
	}

	h.bot.SendTyping(chatID)

	req := &domain.AdvisoryRequest{
		Query: msg.Text,
		Email: email,
	}

	response, err := h.bot.advisory.Handle(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.bot.sessions.Delete(chatID)
		}
		if !isClientError(err) {
			h.bot.logger.Error("advisory request failed",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
		}
		h.bot.Send(chatID, mapErrorToMessage(err))
		return
	}

	for _, m := range SplitMessage(FormatAdvice(response), telegramMessageLimit) {
		if err := h.bot.Send(chatID, m); err != nil {
			h.bot.logger.Error("failed to send message", zap.Error(err))
		}
	}
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrMissingFields) ||
		errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrUserExists) ||
		errors.Is(err, domain.ErrMissingEmail) ||
		errors.Is(err, domain.ErrMissingRegistration)
}

func mapErrorToMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return "Please type your question."
	case errors.Is(err, domain.ErrUserNotFound):
		return "User not found. Register with /register Name; email; Location"
	case errors.Is(err, domain.ErrUserExists):
		return "User already exists with this email. Use /login instead."
	case errors.Is(err, domain.ErrMissingEmail):
		return "Email is required: /login your@email.com"
	case errors.Is(err, domain.ErrMissingRegistration):
		return "Name, email and location are required: /register Name; email; Location"
	default:
		return "Something went wrong. Please try again later."
	}
}
