package service

import (
	"context"
	"fmt"

	"okx_exec_proxy/internal/modules/config"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type botSender interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
}

// Telegram - пассивный нотифайер в сервисный чат. Без токена или chat_id
// сообщения только пишутся в лог.
type Telegram struct {
	bot    botSender
	chatID int64
	log    *zap.Logger
}

func NewTelegram(cfg *config.Config, log *zap.Logger) (*Telegram, error) {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Telegram{chatID: cfg.Telegram.ChatID, log: log.Named("notifier")}
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		t.log.Info("telegram notifier disabled, log only")
		return t, nil
	}

	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	t.bot = b
	return t, nil
}

func (t *Telegram) Enabled() bool { return t != nil && t.bot != nil && t.chatID != 0 }

func (t *Telegram) SendService(ctx context.Context, format string, args ...any) {
	if t == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if !t.Enabled() {
		t.log.Info("service message", zap.String("text", msg))
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		t.log.Warn("telegram send failed", zap.Error(err), zap.String("text", msg))
	}
}
