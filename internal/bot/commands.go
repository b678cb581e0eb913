package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/assistant"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
)

func (b *Bot) handleCommand(msg *tgbotapi.Message, user *domain.User) {
	chatID := msg.Chat.ID
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())

	switch cmd {
	case "start":
		b.cmdStart(chatID, user)
	case "help":
		b.cmdHelp(chatID)
	case "today":
		b.cmdToday(chatID, user)
	case "week":
		b.cmdWeek(chatID, user)
	case "add":
		b.cmdAdd(chatID, user, args)
	case "del":
		b.cmdDel(chatID, user, args)
	case "remind":
		b.cmdRemind(chatID, user, args)
	case "suggest":
		b.cmdSuggest(chatID, user, args)
	case "priority":
		b.cmdPriority(chatID, user)
	case "categories":
		b.cmdCategories(chatID, user, args)
	case "feedback":
		b.cmdFeedback(chatID, user, args)
	case "sync":
		b.cmdSync(chatID, user)
	default:
		b.SendMessage(chatID, "Lệnh không hợp lệ. /help để xem danh sách lệnh")
	}
}

func (b *Bot) cmdStart(chatID int64, user *domain.User) {
	b.SendMessage(chatID, fmt.Sprintf("👋 Chào %s!\n\nMình là trợ lý lịch trình Time-lence. Cứ hỏi tự nhiên, ví dụ:\n• <i>Khi nào tôi rảnh?</i>\n• <i>Liệt kê sự kiện hôm nay</i>\n• <i>Hôm nay tôi có bận không?</i>\n\n/help — danh sách lệnh", user.Name))
}

func (b *Bot) cmdHelp(chatID int64) {
	text := `<b>Lệnh:</b>

<b>Lịch trình</b>
/today — sự kiện hôm nay
/week — lịch 7 ngày tới
/add Tiêu đề | 02/01 15:04 | 60 — thêm sự kiện (thời lượng tính bằng phút)
/del ID — xoá sự kiện
/remind ID phút — đặt lời nhắc trước sự kiện

<b>Trợ lý</b>
/suggest [phút] — tìm thời gian trống
/priority — sự kiện cần ưu tiên

<b>Khác</b>
/categories — danh mục
/feedback nội_dung — gửi góp ý
/sync — nhập lịch từ CalDAV

💡 Gõ câu hỏi bất kỳ, mình sẽ trả lời dựa trên lịch của bạn`

	b.SendMessage(chatID, text)
}

func (b *Bot) cmdToday(chatID int64, user *domain.User) {
	events, err := b.eventService.ListToday(user.ID)
	if err != nil {
		b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
		return
	}

	text := "<b>📅 Hôm nay:</b>\n\n" + b.eventService.FormatEventList(events)

	if len(events) > 0 {
		keyboard := b.buildEventListKeyboard(events)
		if keyboard != nil {
			b.SendMessageWithKeyboard(chatID, text, *keyboard)
			return
		}
	}
	b.SendMessage(chatID, text)
}

func (b *Bot) cmdWeek(chatID int64, user *domain.User) {
	events, err := b.eventService.ListWeek(user.ID)
	if err != nil {
		b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
		return
	}

	text := "<b>🗓 7 ngày tới:</b>\n\n" + b.eventService.FormatEventList(events)
	b.SendMessage(chatID, text)
}

// cmdAdd parses "Tiêu đề | 02/01 15:04 | 60 | danh mục"
func (b *Bot) cmdAdd(chatID int64, user *domain.User, args string) {
	if args == "" {
		b.SendMessage(chatID, "Cú pháp: /add Tiêu đề | 02/01 15:04 | 60 | danh mục (danh mục không bắt buộc)")
		return
	}

	parts := strings.Split(args, "|")
	if len(parts) < 3 {
		b.SendMessage(chatID, "Thiếu thông tin. Cú pháp: /add Tiêu đề | 02/01 15:04 | 60")
		return
	}

	title := strings.TrimSpace(parts[0])
	startStr := strings.TrimSpace(parts[1])
	durationStr := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(parts[2]), "phút"))

	now := time.Now().In(b.cfg.Timezone)
	start, err := time.ParseInLocation("02/01 15:04", startStr, b.cfg.Timezone)
	if err != nil {
		b.SendMessage(chatID, "Không hiểu thời gian. Dùng định dạng 02/01 15:04")
		return
	}
	start = start.AddDate(now.Year(), 0, 0)

	duration, err := strconv.Atoi(durationStr)
	if err != nil || duration <= 0 {
		b.SendMessage(chatID, "Thời lượng phải là số phút, ví dụ 60")
		return
	}

	event := &domain.Event{
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(time.Duration(duration) * time.Minute),
	}

	if len(parts) >= 4 {
		categoryName := strings.TrimSpace(parts[3])
		if categoryName != "" {
			category, err := b.categoryService.GetOrCreate(user.ID, categoryName)
			if err != nil {
				log.Printf("Error resolving category %q: %v", categoryName, err)
			} else {
				event.CategoryID = &category.ID
			}
		}
	}

	created, err := b.eventService.Create(user.ID, event)
	if err != nil {
		b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
		return
	}

	text := fmt.Sprintf("✅ Đã thêm sự kiện\n\n<b>#%d %s</b>\n🕐 %s", created.ID, created.Title, created.FormatDateTime())
	b.SendMessageWithKeyboard(chatID, text, eventKeyboard(created.ID))
}

func (b *Bot) cmdDel(chatID int64, user *domain.User, args string) {
	if args == "" {
		b.SendMessage(chatID, "Chỉ định ID sự kiện: /del 1")
		return
	}

	eventID, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		b.SendMessage(chatID, "ID sự kiện không hợp lệ")
		return
	}

	if err := b.eventService.Delete(eventID, user.ID); err != nil {
		b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
		return
	}

	b.SendMessage(chatID, "🗑 Đã xoá sự kiện #"+args)
}

// cmdRemind sets a reminder ("/remind ID phút") or lists the reminders
// of an event ("/remind ID") with delete buttons.
func (b *Bot) cmdRemind(chatID int64, user *domain.User, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		b.SendMessage(chatID, "Cú pháp: /remind ID phút — hoặc /remind ID để xem lời nhắc")
		return
	}

	eventID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		b.SendMessage(chatID, "ID sự kiện không hợp lệ")
		return
	}

	if len(fields) >= 2 {
		minutes, err := strconv.Atoi(fields[1])
		if err != nil || minutes <= 0 {
			b.SendMessage(chatID, "Số phút phải là số dương")
			return
		}
		reminder, err := b.reminderService.CreateBefore(eventID, user.ID, minutes, domain.ReminderTelegram)
		if err != nil {
			b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
			return
		}
		b.SendMessage(chatID, fmt.Sprintf("🔔 Sẽ nhắc bạn lúc %s", reminder.RemindAt.In(b.cfg.Timezone).Format("02/01 15:04")))
		return
	}

	event, err := b.eventService.Get(eventID)
	if err != nil {
		b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
		return
	}
	if event == nil || event.UserID != user.ID {
		b.SendMessage(chatID, "Không tìm thấy sự kiện")
		return
	}

	reminders, err := b.reminderService.ListByEvent(eventID)
	if err != nil {
		b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
		return
	}
	if len(reminders) == 0 {
		b.SendMessage(chatID, fmt.Sprintf("<b>%s</b> chưa có lời nhắc nào. Đặt bằng /remind %d phút", event.Title, eventID))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>🔔 Lời nhắc cho %s:</b>\n\n", event.Title))
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range reminders {
		status := ""
		if r.IsSent() {
			status = " ✅"
		}
		sb.WriteString(fmt.Sprintf("• %s%s\n", r.RemindAt.In(b.cfg.Timezone).Format("02/01 15:04"), status))
		if !r.IsSent() {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("🗑 %s", r.RemindAt.In(b.cfg.Timezone).Format("02/01 15:04")),
					fmt.Sprintf("rdel:%d", r.ID),
				),
			))
		}
	}

	if len(rows) > 0 {
		b.SendMessageWithKeyboard(chatID, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
		return
	}
	b.SendMessage(chatID, sb.String())
}

func (b *Bot) cmdSuggest(chatID int64, user *domain.User, args string) {
	duration := 60
	if args != "" {
		if v, err := strconv.Atoi(args); err == nil && v > 0 {
			duration = v
		}
	}

	suggestions, err := b.assistantService.Suggest(user.ID, duration)
	if err != nil {
		b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
		return
	}

	b.SendMessage(chatID, b.assistantService.FormatSuggestions(suggestions, duration))
}

func (b *Bot) cmdPriority(chatID int64, user *domain.User) {
	now := time.Now().In(b.cfg.Timezone)
	analysis, err := b.assistantService.AnalyzeDay(user.ID, now)
	if err != nil {
		b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
		return
	}

	if len(analysis.Data) == 0 {
		b.SendMessage(chatID, "Hôm nay không có sự kiện nào để đánh giá 🎉")
		return
	}

	var sb strings.Builder
	sb.WriteString("<b>⭐ Sự kiện hôm nay theo độ ưu tiên:</b>\n\n")
	for _, se := range analysis.Data {
		sb.WriteString(fmt.Sprintf("%s <b>%s</b> (%d điểm)\n", se.Level.Emoji(), se.Title, se.Total))
		for _, reason := range se.Reasons {
			sb.WriteString("   • " + reason + "\n")
		}
	}

	critical := analysis.Categorized[assistant.LevelCritical]
	if len(critical) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️ %d sự kiện ở mức khẩn cấp", len(critical)))
	}

	b.SendMessage(chatID, sb.String())
}

// cmdCategories lists categories; "/categories del ID" removes one.
func (b *Bot) cmdCategories(chatID int64, user *domain.User, args string) {
	if rest, ok := strings.CutPrefix(args, "del "); ok {
		categoryID, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
		if err != nil {
			b.SendMessage(chatID, "ID danh mục không hợp lệ")
			return
		}
		if err := b.categoryService.Delete(categoryID, user.ID); err != nil {
			b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
			return
		}
		b.SendMessage(chatID, "🗑 Đã xoá danh mục")
		return
	}

	categories, err := b.categoryService.List(user.ID)
	if err != nil {
		b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
		return
	}

	b.SendMessage(chatID, "<b>📂 Danh mục:</b>\n\n"+b.categoryService.FormatCategoryList(categories))
}

func (b *Bot) cmdFeedback(chatID int64, user *domain.User, args string) {
	if args == "" {
		if user.IsAdmin() {
			b.listFeedback(chatID, user)
			return
		}
		b.SendMessage(chatID, "Cú pháp: /feedback nội dung góp ý")
		return
	}

	if _, err := b.feedbackService.Submit(user.ID, args); err != nil {
		b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
		return
	}

	b.SendMessage(chatID, "💌 Cảm ơn góp ý của bạn!")
}

func (b *Bot) listFeedback(chatID int64, user *domain.User) {
	entries, err := b.feedbackService.ListAll(user)
	if err != nil {
		b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
		return
	}
	if len(entries) == 0 {
		b.SendMessage(chatID, "Chưa có góp ý nào")
		return
	}

	var sb strings.Builder
	sb.WriteString("<b>💌 Góp ý:</b>\n\n")
	for _, f := range entries {
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", f.Subject, f.CreatedAt.Format("02/01")))
		if f.Message != "" {
			sb.WriteString("  " + f.Message + "\n")
		}
	}
	b.SendMessage(chatID, sb.String())
}

func (b *Bot) cmdSync(chatID int64, user *domain.User) {
	if !b.eventService.IsImportConfigured() {
		b.SendMessage(chatID, "CalDAV chưa được cấu hình")
		return
	}

	b.SendMessage(chatID, "⏳ Đang nhập lịch...")

	result, err := b.eventService.ImportFromCalDAV(user.ID)
	if err != nil {
		b.SendMessage(chatID, "❌ Lỗi: "+err.Error())
		return
	}

	text := fmt.Sprintf("✅ Nhập lịch xong\n\n➕ Mới: %d\n🔄 Cập nhật: %d\n🗑 Xoá: %d", result.Added, result.Updated, result.Deleted)
	if len(result.Errors) > 0 {
		text += fmt.Sprintf("\n⚠️ Lỗi: %d", len(result.Errors))
		log.Printf("CalDAV import errors for user %d: %v", user.ID, result.Errors)
	}
	b.SendMessage(chatID, text)
}
