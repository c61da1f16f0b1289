package announce

import (
	"fmt"
	"html"
	"strings"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/usecase/discount"
)

// FormatDay renders the day's active items as a Telegram HTML message.
// It returns "" when the configuration is inactive or nothing is active that day.
func FormatDay(cfg domain.HighlightsConfig, day domain.WeekDay, items []domain.ScheduleItem) string {
	if !cfg.Active || !day.Valid() {
		return ""
	}

	var lines []string
	for _, item := range items {
		if !item.Active {
			continue
		}
		lines = append(lines, formatItem(item))
	}
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⭐ <b>%s</b> · %s\n", escapeHTML(cfg.Title), escapeHTML(day.Name()))
	if desc := strings.TrimSpace(cfg.Description); desc != "" {
		b.WriteString("<i>" + escapeHTML(desc) + "</i>\n")
	}
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))
	return strings.TrimSpace(b.String())
}

func formatItem(item domain.ScheduleItem) string {
	line := fmt.Sprintf("• <b>%s</b>: <s>%s</s> → <b>%s</b> (%s)",
		escapeHTML(item.Product.Name),
		discount.FormatPrice(item.Product.Price),
		discount.FormatPrice(item.FinalPrice),
		escapeHTML(discount.FormatDiscount(item.Discount)),
	)
	if desc := strings.TrimSpace(item.Product.Description); desc != "" {
		line += "\n  " + escapeHTML(desc)
	}
	return line
}

func escapeHTML(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
