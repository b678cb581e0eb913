package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
)

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	user, err := b.storage.GetUserByTelegramID(msg.From.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	if user == nil {
		user = b.registerUser(msg.From)
		if user == nil {
			b.SendMessage(chatID, "❌ Không đăng ký được tài khoản, thử lại sau nhé")
			return
		}
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg, user)
		return
	}

	// Free text goes to the assistant
	answer, err := b.assistantService.Ask(user.ID, text)
	if err != nil {
		log.Printf("Error answering question for user %d: %v", user.ID, err)
		b.SendMessage(chatID, "❌ Có lỗi xảy ra, thử lại sau nhé")
		return
	}

	b.SendMessage(chatID, renderMarkers(answer.Answer))
}

// registerUser creates an account on first contact
func (b *Bot) registerUser(from *tgbotapi.User) *domain.User {
	name := from.FirstName
	if from.LastName != "" {
		name += " " + from.LastName
	}

	role := domain.RoleMember
	if b.cfg.IsAdminUser(from.ID) {
		role = domain.RoleAdmin
	}

	newUser := &domain.User{
		TelegramID: from.ID,
		Name:       name,
		Role:       role,
	}

	if err := b.storage.CreateUser(newUser); err != nil {
		log.Printf("Error registering user: %v", err)
		return nil
	}

	log.Printf("Registered user: %s (ID: %d)", name, from.ID)
	return newUser
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID

	user, _ := b.storage.GetUserByTelegramID(callback.From.ID)
	if user == nil {
		user = b.registerUser(callback.From)
		if user == nil {
			b.api.Request(tgbotapi.NewCallback(callback.ID, "Lỗi đăng ký"))
			return
		}
	}

	parts := strings.Split(callback.Data, ":")

	switch parts[0] {
	case "del":
		if len(parts) < 2 {
			return
		}
		eventID := atoi(parts[1])
		if err := b.eventService.Delete(eventID, user.ID); err != nil {
			b.api.Request(tgbotapi.NewCallback(callback.ID, "❌ "+err.Error()))
			return
		}
		b.api.Request(tgbotapi.NewCallback(callback.ID, "🗑 Đã xoá sự kiện"))
		edit := tgbotapi.NewEditMessageText(chatID, callback.Message.MessageID, "🗑 Sự kiện đã được xoá")
		b.api.Send(edit)

	case "remind":
		// remind:eventID:minutesBefore
		if len(parts) < 3 {
			return
		}
		eventID := atoi(parts[1])
		minutes, _ := strconv.Atoi(parts[2])

		reminder, err := b.reminderService.CreateBefore(eventID, user.ID, minutes, domain.ReminderTelegram)
		if err != nil {
			b.api.Request(tgbotapi.NewCallback(callback.ID, "❌ "+err.Error()))
			return
		}

		b.api.Request(tgbotapi.NewCallback(callback.ID, "🔔 Đã đặt lời nhắc"))
		b.SendMessage(chatID, fmt.Sprintf("🔔 Sẽ nhắc bạn lúc %s", reminder.RemindAt.In(b.cfg.Timezone).Format("02/01 15:04")))

	case "rdel":
		if len(parts) < 2 {
			return
		}
		reminderID := atoi(parts[1])
		if err := b.reminderService.Delete(reminderID, user.ID); err != nil {
			b.api.Request(tgbotapi.NewCallback(callback.ID, "❌ "+err.Error()))
			return
		}
		b.api.Request(tgbotapi.NewCallback(callback.ID, "🗑 Đã xoá lời nhắc"))

	default:
		b.api.Request(tgbotapi.NewCallback(callback.ID, ""))
	}
}

func atoi(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
