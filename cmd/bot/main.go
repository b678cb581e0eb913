package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/config"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/bot"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/clients/caldav"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/scheduler"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/service"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	caldavClient := caldav.NewClient(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword)
	caldavClient.SetCalendarID(cfg.CalDAVCalendar)

	eventSvc := service.NewEventService(store, caldavClient, cfg.CalDAVCalendar, cfg.Timezone)
	reminderSvc := service.NewReminderService(store, cfg.Timezone)
	categorySvc := service.NewCategoryService(store)
	feedbackSvc := service.NewFeedbackService(store)
	assistantSvc := service.NewAssistantService(store, cfg.Timezone)

	tgBot, err := bot.New(cfg, store, eventSvc, reminderSvc, categorySvc, feedbackSvc, assistantSvc)
	if err != nil {
		log.Fatalf("Failed to init bot: %v", err)
	}

	if err := tgBot.SetupWebhook(); err != nil {
		log.Fatalf("Failed to setup webhook: %v", err)
	}

	sched := scheduler.New(cfg, store, assistantSvc, reminderSvc)
	sched.SetSender(tgBot)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	go func() {
		if err := tgBot.Start(ctx); err != nil {
			log.Printf("Bot error: %v", err)
		}
	}()

	log.Println("Time-lence started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := tgBot.Stop(shutdownCtx); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Time-lence stopped")
}
