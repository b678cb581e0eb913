package bot

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/config"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/service"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/storage"
)

type Bot struct {
	api              *tgbotapi.BotAPI
	cfg              *config.Config
	storage          *storage.Storage
	eventService     *service.EventService
	reminderService  *service.ReminderService
	categoryService  *service.CategoryService
	feedbackService  *service.FeedbackService
	assistantService *service.AssistantService
	server           *http.Server
}

func New(cfg *config.Config, storage *storage.Storage, eventSvc *service.EventService, reminderSvc *service.ReminderService, categorySvc *service.CategoryService, feedbackSvc *service.FeedbackService, assistantSvc *service.AssistantService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("Authorized as @%s", api.Self.UserName)

	bot := &Bot{
		api:              api,
		cfg:              cfg,
		storage:          storage,
		eventService:     eventSvc,
		reminderService:  reminderSvc,
		categoryService:  categorySvc,
		feedbackService:  feedbackSvc,
		assistantService: assistantSvc,
	}

	bot.setCommands()

	return bot, nil
}

func (b *Bot) setCommands() {
	commands := []tgbotapi.BotCommand{
		{Command: "today", Description: "📅 Sự kiện hôm nay"},
		{Command: "week", Description: "🗓 Lịch tuần này"},
		{Command: "add", Description: "➕ Thêm sự kiện"},
		{Command: "suggest", Description: "🕐 Tìm thời gian trống"},
		{Command: "priority", Description: "⭐ Sự kiện ưu tiên"},
		{Command: "help", Description: "❓ Hướng dẫn"},
	}

	cfg := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(cfg); err != nil {
		log.Printf("Failed to set commands: %v", err)
	}
}

func (b *Bot) SetupWebhook() error {
	webhookURL := b.cfg.WebhookURL + "/bot"

	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return fmt.Errorf("create webhook: %w", err)
	}

	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	info, err := b.api.GetWebhookInfo()
	if err != nil {
		return fmt.Errorf("get webhook info: %w", err)
	}

	if info.LastErrorDate != 0 {
		log.Printf("Webhook last error: %s", info.LastErrorMessage)
	}

	log.Printf("Webhook set to: %s", webhookURL)
	return nil
}

func (b *Bot) Start(ctx context.Context) error {
	updates := b.api.ListenForWebhook("/bot")

	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// REST API for the web client
	b.SetupAPI()

	b.server = &http.Server{
		Addr:    ":" + b.cfg.ServerPort,
		Handler: nil, // use DefaultServeMux
	}

	go func() {
		log.Printf("Starting webhook server on :%s", b.cfg.ServerPort)
		if err := b.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			go b.handleUpdate(update)
		}
	}
}

func (b *Bot) Stop(ctx context.Context) error {
	if b.server != nil {
		return b.server.Shutdown(ctx)
	}
	return nil
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = keyboard
	_, err := b.api.Send(msg)
	return err
}

// renderMarkers converts the assistant's **bold** markers to Telegram HTML
func renderMarkers(text string) string {
	var sb strings.Builder
	open := false
	for {
		idx := strings.Index(text, "**")
		if idx < 0 {
			sb.WriteString(text)
			break
		}
		sb.WriteString(text[:idx])
		if open {
			sb.WriteString("</b>")
		} else {
			sb.WriteString("<b>")
		}
		open = !open
		text = text[idx+2:]
	}
	if open {
		// Unbalanced marker, close it to keep valid HTML
		sb.WriteString("</b>")
	}
	return sb.String()
}
