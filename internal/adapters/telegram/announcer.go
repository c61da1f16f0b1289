package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/infra/metrics"
)

// Sender is the part of *tgbotapi.BotAPI the announcer uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Announcer posts highlight messages to a fixed chat.
type Announcer struct {
	bot    Sender
	chatID int64
}

var _ domain.Announcer = (*Announcer)(nil)

// NewAnnouncer creates an announcer for chatID.
func NewAnnouncer(bot Sender, chatID int64) *Announcer {
	return &Announcer{bot: bot, chatID: chatID}
}

// Announce sends text as HTML, split into Telegram-sized parts.
func (a *Announcer) Announce(ctx context.Context, text string) error {
	for i, part := range SplitMessage(text) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(a.chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		start := time.Now()
		_, err := a.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", strconv.FormatInt(a.chatID, 10), start, err)
		if err != nil {
			return fmt.Errorf("send part %d: %w", i+1, err)
		}
	}
	return nil
}
