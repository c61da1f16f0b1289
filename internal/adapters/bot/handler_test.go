package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"menu-highlights/internal/domain"
)

func TestParseDayCallback(t *testing.T) {
	tests := []struct {
		data string
		day  domain.WeekDay
		ok   bool
	}{
		{"day:0", domain.Sunday, true},
		{"day:6", domain.Saturday, true},
		{"day:7", 0, false},
		{"day:x", 0, false},
		{"menu:3", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			day, ok := parseDayCallback(tt.data)
			if ok != tt.ok || day != tt.day {
				t.Fatalf("parseDayCallback(%q) = %v, %v", tt.data, day, ok)
			}
		})
	}
}

func sampleSnapshot() domain.Snapshot {
	week := domain.NewWeeklySchedule()
	week[domain.Friday] = []domain.ScheduleItem{
		{ID: "a", Product: domain.Product{ID: 1, Name: "X-Burger", Price: 35.90}, Discount: domain.Discount{Type: domain.DiscountPercentage, Value: 15}, FinalPrice: 30.52, Active: true},
		{ID: "b", Product: domain.Product{ID: 2, Name: "Pizza", Price: 28.90}, Discount: domain.Discount{Type: domain.DiscountFixed, Value: 5}, FinalPrice: 23.90, Active: true},
		{ID: "c", Product: domain.Product{ID: 3, Name: "Suco", Price: 9.50}, Discount: domain.Discount{Type: domain.DiscountPercentage, Value: 10}, FinalPrice: 8.55, Active: false},
	}
	return domain.Snapshot{
		Config:         domain.HighlightsConfig{Title: "Destaques da Semana", Active: true},
		WeeklySchedule: week,
	}
}

func TestFormatWeekSummary(t *testing.T) {
	text := FormatWeekSummary(sampleSnapshot())
	if !strings.Contains(text, "Sex: 2 destaque(s), a partir de R$ 23,90") {
		t.Fatalf("unexpected summary:\n%s", text)
	}
	if !strings.Contains(text, "Dom: sem destaques") {
		t.Fatalf("empty days should be listed:\n%s", text)
	}

	paused := sampleSnapshot()
	paused.Config.Active = false
	if got := FormatWeekSummary(paused); !strings.Contains(got, "pausados") {
		t.Fatalf("unexpected paused summary %q", got)
	}
}

type fakeAPI struct {
	sent     []tgbotapi.MessageConfig
	requests int
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type stubRepo struct {
	snap domain.Snapshot
	err  error
}

func (r stubRepo) LoadSnapshot(context.Context, string) (domain.Snapshot, error) { return r.snap, r.err }

func (r stubRepo) SaveSnapshot(context.Context, string, domain.Snapshot) error { return nil }

func TestTodayCommandUsesLocalDate(t *testing.T) {
	api := &fakeAPI{}
	h := NewHandler(api, zerolog.Nop(), stubRepo{snap: sampleSnapshot()}, "main", time.UTC)
	h.now = func() time.Time { return time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC) } // a Friday

	h.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Text: "/hoje",
		Chat: &tgbotapi.Chat{ID: 42},
	}})
	if len(api.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(api.sent))
	}
	msg := api.sent[0]
	if msg.ChatID != 42 || !strings.Contains(msg.Text, "X-Burger") || strings.Contains(msg.Text, "Suco") {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.ReplyMarkup == nil {
		t.Fatal("expected the day keyboard")
	}
}

func TestDayCallbackWithoutHighlights(t *testing.T) {
	api := &fakeAPI{}
	h := NewHandler(api, zerolog.Nop(), stubRepo{snap: sampleSnapshot()}, "main", nil)

	h.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    "day:1",
		From:    &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}},
	}})
	if len(api.sent) != 1 || !strings.Contains(api.sent[0].Text, "Nenhum destaque para Segunda-feira") {
		t.Fatalf("unexpected messages %+v", api.sent)
	}
	if api.requests != 1 {
		t.Fatalf("callback should be answered, got %d requests", api.requests)
	}
}

func TestNoSnapshotYet(t *testing.T) {
	api := &fakeAPI{}
	h := NewHandler(api, zerolog.Nop(), stubRepo{err: domain.ErrSnapshotNotFound}, "main", nil)
	h.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Text: "/semana", Chat: &tgbotapi.Chat{ID: 1}}})
	if len(api.sent) != 1 || !strings.Contains(api.sent[0].Text, "Ainda não há destaques") {
		t.Fatalf("unexpected messages %+v", api.sent)
	}
}
