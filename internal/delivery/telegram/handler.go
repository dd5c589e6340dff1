package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quizdeck/internal/domain/entities"
	"github.com/aliskhannn/quizdeck/internal/service"
	"github.com/aliskhannn/quizdeck/internal/viewer"
)

// Bot is the part of the Telegram Bot API the handler talks to.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64, username, languageCode string) error
}

type CatalogService interface {
	Tiles() []entities.CatalogTile
}

type SessionService interface {
	Open(ctx context.Context, key string, entryIndex int) (viewer.Screen, error)
	Dispatch(key string, ev viewer.Event, onReveal service.RevealFunc) (viewer.Screen, viewer.Effect, error)
	Screen(key string) viewer.Screen
}

type Handler struct {
	bot            Bot
	logger         *zap.Logger
	catalogService CatalogService
	sessionService SessionService
	userService    UserService // nil when no database is configured
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	catalogService CatalogService,
	sessionService SessionService,
	userService UserService,
) *Handler {
	return &Handler{
		bot:            bot,
		logger:         logger,
		catalogService: catalogService,
		sessionService: sessionService,
		userService:    userService,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return nil
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

// sessionKey keeps one viewer per chat.
func sessionKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	if from := update.Message.From; from != nil && h.userService != nil {
		err := h.userService.EnsureUser(ctx, from.ID, chatID, from.UserName, from.LanguageCode)
		if err != nil {
			h.logger.Error("failed to ensure user",
				zap.Int64("user_id", from.ID),
				zap.Error(err),
			)
		}
	}

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			h.send(newHTMLMessage(chatID, msgWelcome))
			_ = h.withErrorHandling(h.catalogHandler())(ctx, chatID)

		case "catalog":
			_ = h.withErrorHandling(h.catalogHandler())(ctx, chatID)

		case "help":
			h.send(newHTMLMessage(chatID, msgHelp))

		case "jump":
			_ = h.withErrorHandling(h.jumpHandler())(ctx, chatID)

		default:
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}

		return
	}

	_ = h.withErrorHandling(h.numberHandler(update.Message.Text))(ctx, chatID)
}

// sendScreen sends screen as a new message.
func (h *Handler) sendScreen(chatID int64, screen viewer.Screen) {
	text, kb := renderScreen(screen, h.catalogService.Tiles(), -1)
	msg := newHTMLMessage(chatID, text)
	msg.ReplyMarkup = kb
	h.send(msg)
}

// editScreen redraws screen in place of an earlier message.
func (h *Handler) editScreen(chatID int64, messageID int, screen viewer.Screen, page int) {
	text, kb := renderScreen(screen, h.catalogService.Tiles(), page)
	h.send(newHTMLEdit(chatID, messageID, text, kb))
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
