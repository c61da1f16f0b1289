package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestAnnouncerSendsHTMLParts(t *testing.T) {
	sender := &fakeSender{}
	a := NewAnnouncer(sender, -100123)

	long := strings.Repeat("• <b>item</b>\n", 600)
	if err := a.Announce(context.Background(), long); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) < 2 {
		t.Fatalf("expected the message to be split, got %d parts", len(sender.sent))
	}
	for _, msg := range sender.sent {
		if msg.ChatID != -100123 {
			t.Fatalf("unexpected chat id %d", msg.ChatID)
		}
		if msg.ParseMode != tgbotapi.ModeHTML {
			t.Fatalf("expected HTML parse mode, got %q", msg.ParseMode)
		}
		if len([]rune(msg.Text)) > messageLimit {
			t.Fatalf("part exceeds limit: %d", len([]rune(msg.Text)))
		}
	}
}

func TestAnnouncerPropagatesErrors(t *testing.T) {
	a := NewAnnouncer(&fakeSender{err: errors.New("forbidden")}, 1)
	if err := a.Announce(context.Background(), "oi"); err == nil {
		t.Fatal("expected error")
	}
}
