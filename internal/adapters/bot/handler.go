package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"menu-highlights/internal/adapters/telegram"
	"menu-highlights/internal/domain"
	"menu-highlights/internal/infra/metrics"
	"menu-highlights/internal/usecase/announce"
	"menu-highlights/internal/usecase/discount"
)

const dayCallbackPrefix = "day:"

// API is the part of *tgbotapi.BotAPI the handler uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler answers customers asking for the published highlights.
type Handler struct {
	bot        API
	log        zerolog.Logger
	snapshots  domain.SnapshotRepo
	snapshotID string
	loc        *time.Location
	now        func() time.Time
}

// NewHandler creates the handler. Dates are resolved in loc.
func NewHandler(bot API, log zerolog.Logger, snapshots domain.SnapshotRepo, snapshotID string, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		bot:        bot,
		log:        log,
		snapshots:  snapshots,
		snapshotID: snapshotID,
		loc:        loc,
		now:        time.Now,
	}
}

// HandleUpdate dispatches an incoming update.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		h.handleMessage(ctx, upd.Message)
	} else if upd.CallbackQuery != nil {
		h.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	switch {
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		h.reply(msg.Chat.ID, helpMessage, daysKeyboard())
	case strings.HasPrefix(text, "/hoje"):
		h.replyDay(ctx, msg.Chat.ID, domain.WeekDayOf(h.now().In(h.loc)))
	case strings.HasPrefix(text, "/semana"):
		h.replyWeek(ctx, msg.Chat.ID)
	default:
		h.reply(msg.Chat.ID, "Comando desconhecido. Use /help", nil)
	}
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if day, ok := parseDayCallback(cb.Data); ok && cb.Message != nil {
		h.replyDay(ctx, cb.Message.Chat.ID, day)
	}
	start := time.Now()
	_, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, ""))
	metrics.ObserveNetworkRequest("telegram_bot", "answer_callback", strconv.FormatInt(cb.From.ID, 10), start, err)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to answer callback")
	}
}

func (h *Handler) replyDay(ctx context.Context, chatID int64, day domain.WeekDay) {
	snap, ok := h.loadSnapshot(ctx, chatID)
	if !ok {
		return
	}
	text := announce.FormatDay(snap.Config, day, snap.WeeklySchedule[day])
	if text == "" {
		text = fmt.Sprintf("Nenhum destaque para %s.", day.Name())
	}
	h.reply(chatID, text, daysKeyboard())
}

func (h *Handler) replyWeek(ctx context.Context, chatID int64) {
	snap, ok := h.loadSnapshot(ctx, chatID)
	if !ok {
		return
	}
	h.reply(chatID, FormatWeekSummary(snap), daysKeyboard())
}

func (h *Handler) loadSnapshot(ctx context.Context, chatID int64) (domain.Snapshot, bool) {
	snap, err := h.snapshots.LoadSnapshot(ctx, h.snapshotID)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		h.reply(chatID, "Ainda não há destaques publicados.", nil)
		return domain.Snapshot{}, false
	}
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load snapshot")
		h.reply(chatID, "Não foi possível carregar os destaques. Tente novamente.", nil)
		return domain.Snapshot{}, false
	}
	return snap, true
}

// FormatWeekSummary lists how many active highlights each day has and the best price of the day.
func FormatWeekSummary(snap domain.Snapshot) string {
	if !snap.Config.Active {
		return "Os destaques estão pausados no momento."
	}
	var b strings.Builder
	b.WriteString("🗓 <b>" + html.EscapeString(snap.Config.Title) + "</b>\n")
	for _, info := range domain.WeekDays {
		active := 0
		best := -1.0
		for _, item := range snap.WeeklySchedule[info.ID] {
			if !item.Active {
				continue
			}
			active++
			if best < 0 || item.FinalPrice < best {
				best = item.FinalPrice
			}
		}
		if active == 0 {
			fmt.Fprintf(&b, "%s: sem destaques\n", info.Abbrev)
			continue
		}
		fmt.Fprintf(&b, "%s: %d destaque(s), a partir de %s\n", info.Abbrev, active, discount.FormatPrice(best))
	}
	return strings.TrimSpace(b.String())
}

func parseDayCallback(data string) (domain.WeekDay, bool) {
	if !strings.HasPrefix(data, dayCallbackPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(data, dayCallbackPrefix))
	if err != nil {
		return 0, false
	}
	day, err := domain.ParseWeekDay(n)
	if err != nil {
		return 0, false
	}
	return day, true
}

func daysKeyboard() *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, info := range domain.WeekDays {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(info.Abbrev, dayCallbackPrefix+strconv.Itoa(int(info.ID))))
		if len(row) == 4 {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func (h *Handler) reply(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	parts := telegram.SplitMessage(text)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		if i == len(parts)-1 && keyboard != nil {
			msg.ReplyMarkup = keyboard
		}
		start := time.Now()
		_, err := h.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", strconv.FormatInt(chatID, 10), start, err)
		if err != nil {
			h.log.Error().Err(err).Msg("failed to send message")
			return
		}
	}
}

const helpMessage = `<b>Destaques do cardápio</b>
/hoje: promoções de hoje
/semana: resumo da semana
Ou escolha um dia abaixo.`
