package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/config"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/service"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/storage"
)

type MessageSender interface {
	SendMessage(chatID int64, text string) error
}

type Scheduler struct {
	cron             *cron.Cron
	cfg              *config.Config
	storage          *storage.Storage
	assistantService *service.AssistantService
	reminderService  *service.ReminderService
	sender           MessageSender
}

func New(cfg *config.Config, storage *storage.Storage, assistantSvc *service.AssistantService, reminderSvc *service.ReminderService) *Scheduler {
	c := cron.New(cron.WithLocation(cfg.Timezone))

	return &Scheduler{
		cron:             c,
		cfg:              cfg,
		storage:          storage,
		assistantService: assistantSvc,
		reminderService:  reminderSvc,
	}
}

func (s *Scheduler) SetSender(sender MessageSender) {
	s.sender = sender
}

func (s *Scheduler) Start(ctx context.Context) error {
	// MORNING_TIME is "HH:MM"
	parts := strings.SplitN(s.cfg.MorningTime, ":", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid MORNING_TIME: %s", s.cfg.MorningTime)
	}
	morningSpec := fmt.Sprintf("%s %s * * *", parts[1], parts[0])
	if _, err := s.cron.AddFunc(morningSpec, s.morningBriefing); err != nil {
		return fmt.Errorf("add morning briefing: %w", err)
	}

	if _, err := s.cron.AddFunc("* * * * *", s.checkReminders); err != nil {
		return fmt.Errorf("add reminder check: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s, morning: %s)", s.cfg.Timezone, s.cfg.MorningTime)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) morningBriefing() {
	if s.sender == nil {
		return
	}

	users, err := s.storage.ListUsers()
	if err != nil {
		log.Printf("Error listing users for briefing: %v", err)
		return
	}

	for _, u := range users {
		digest, err := s.assistantService.DailyDigest(u.ID)
		if err != nil {
			log.Printf("Error building digest for user %d: %v", u.ID, err)
			continue
		}

		text := "☀️ <b>Chào buổi sáng!</b>\n\n" + digest
		if err := s.sender.SendMessage(u.TelegramID, text); err != nil {
			log.Printf("Error sending briefing to %d: %v", u.TelegramID, err)
		}
	}
}

func (s *Scheduler) checkReminders() {
	if s.sender == nil {
		return
	}

	reminders, err := s.reminderService.GetDue()
	if err != nil {
		log.Printf("Error getting due reminders: %v", err)
		return
	}

	for _, r := range reminders {
		if err := s.dispatchReminder(r); err != nil {
			log.Printf("Error dispatching reminder %d: %v", r.ID, err)
			continue
		}

		if err := s.reminderService.MarkSent(r.ID); err != nil {
			log.Printf("Error marking reminder %d as sent: %v", r.ID, err)
		}
	}
}

func (s *Scheduler) dispatchReminder(r *domain.EventReminder) error {
	event, err := s.storage.GetEvent(r.EventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		// Event was deleted, drop the reminder silently
		return s.storage.DeleteReminder(r.ID)
	}

	user, err := s.storage.GetUserByID(event.UserID)
	if err != nil || user == nil {
		return fmt.Errorf("get user %d: %w", event.UserID, err)
	}

	text := fmt.Sprintf("🔔 <b>Nhắc nhở</b>\n\n%s\n🕐 %s", event.Title, event.FormatDateTime())
	if event.Location != "" {
		text += "\n📍 " + event.Location
	}

	return s.sender.SendMessage(user.TelegramID, text)
}
