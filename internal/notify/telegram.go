package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// TelegramNotifier доставляет уведомления через Telegram.
// Токен пользователя - это ID его чата с ботом.
type TelegramNotifier struct {
	bot    *bot.Bot
	logger *zap.Logger
}

func NewTelegramNotifier(token string, logger *zap.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{bot: b, logger: logger}, nil
}

// Notify отправляет сообщение в чат пользователя
func (n *TelegramNotifier) Notify(ctx context.Context, token, title, body string) error {
	chatID, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return fmt.Errorf("parse chat id: %w", err)
	}

	_, err = n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   title + "\n\n" + body,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	n.logger.Debug("Notification sent",
		zap.Int64("chat_id", chatID),
		zap.String("title", title))

	return nil
}
