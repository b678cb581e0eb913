package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
)

// eventKeyboard offers quick actions for a single event.
func eventKeyboard(eventID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔔 15 phút", fmt.Sprintf("remind:%d:15", eventID)),
			tgbotapi.NewInlineKeyboardButtonData("🔔 1 giờ", fmt.Sprintf("remind:%d:60", eventID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Xoá", fmt.Sprintf("del:%d", eventID)),
		),
	)
}

// buildEventListKeyboard attaches a delete button per event, capped so
// the keyboard stays usable on busy days.
func (b *Bot) buildEventListKeyboard(events []*domain.Event) *tgbotapi.InlineKeyboardMarkup {
	const maxButtons = 8

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, e := range events {
		if i >= maxButtons {
			break
		}
		title := e.Title
		if len([]rune(title)) > 20 {
			title = string([]rune(title)[:20]) + "…"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+title, fmt.Sprintf("del:%d", e.ID)),
		))
	}

	if len(rows) == 0 {
		return nil
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}
