package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/pkg/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxMessageLen = 4090

// AlertType represents the type of alert
type AlertType string

const (
	AboveTarget AlertType = "ABOVE_TARGET"
	BelowTarget AlertType = "BELOW_TARGET"
)

// AlertTypeFor maps a watch condition to the alert it raises.
func AlertTypeFor(condition entity.Condition) AlertType {
	if condition == entity.ConditionAtOrBelow {
		return BelowTarget
	}
	return AboveTarget
}

// FormatTargetReachedForTelegram formats one matched check result.
func FormatTargetReachedForTelegram(result entity.CheckResult, at time.Time) string {
	var builder strings.Builder

	var title, emoji string
	switch AlertTypeFor(result.Entry.Condition) {
	case AboveTarget:
		title = "Target reached (at or above)"
		emoji = "🎉"
	case BelowTarget:
		title = "Target reached (at or below)"
		emoji = "🔻"
	}

	label := result.Entry.Symbol
	if result.Entry.Name != "" {
		label = fmt.Sprintf("%s %s", result.Entry.Symbol, result.Entry.Name)
	}

	builder.WriteString(fmt.Sprintf("%s \\[%s] %s\n", emoji, escapeMarkdown(label), title))
	if result.Quote.Price != nil {
		builder.WriteString(fmt.Sprintf("💰 Price: %s %s target: %s\n",
			utils.FormatPrice(*result.Quote.Price), result.Entry.Condition, utils.FormatPrice(result.Entry.TargetPrice)))
	}
	builder.WriteString(fmt.Sprintf("🏷 %s\n", escapeMarkdown(result.Entry.Category)))
	builder.WriteString(fmt.Sprintf("%s\n", utils.PrettyDate(at)))
	return builder.String()
}

// escapeMarkdown escapes the characters that open an entity in Telegram's
// legacy Markdown, so free text never breaks message parsing.
func escapeMarkdown(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}

// FormatPassMatchesForTelegram formats every match of a pass into as few
// messages as possible, each below the Telegram size limit.
func FormatPassMatchesForTelegram(results []entity.CheckResult, at time.Time) []string {
	if len(results) == 0 {
		return nil
	}

	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		if part == 1 {
			currentMessage.WriteString("🔔 *Watchlist alerts* 🔔\n\n")
		} else {
			currentMessage.WriteString(fmt.Sprintf("---*Watchlist alerts part %d*---\n\n", part))
		}
	}

	startNewPart()
	for _, r := range results {
		entry := FormatTargetReachedForTelegram(r, at) + "\n"
		if currentMessage.Len()+len(entry) > maxMessageLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entry)
	}
	messages = append(messages, currentMessage.String())

	return messages
}
