package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/usecase"
	"github.com/muratcankoptayyy/tevkil-platform/internal/conf"
	"github.com/muratcankoptayyy/tevkil-platform/internal/data"
	"github.com/muratcankoptayyy/tevkil-platform/internal/service"
)

const queueName = "tevkil.urgent-alerts"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := conf.LoadFromEnv()
	if cfg.AMQP.URL == "" {
		log.Fatal("AMQP_URL is required")
	}

	sms := data.NewSMSRepo(data.SMSConfig{
		Username: cfg.SMS.Username,
		Password: cfg.SMS.Password,
		Sender:   cfg.SMS.Sender,
	})
	if sms == nil {
		log.Fatal("NETGSM_USERNAME and NETGSM_PASSWORD are required")
	}

	store, err := data.OpenStore(cfg.Database.URL, cfg.Database.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	consumer, err := data.NewEventConsumer(cfg.AMQP.URL, cfg.AMQP.Exchange, queueName, string(domain.EventListingCreated))
	if err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}
	defer consumer.Close()

	wa := data.NewWhatsAppRepo(data.NewWhatsAppClient(cfg.ToDataOptions().WhatsApp))
	notifier := usecase.NewNotificationUsecase(wa, sms, nil, usecase.NewReplies(cfg.ToBotConfig()))
	alerts := service.NewUrgentAlertService(data.NewAccountRepo(store), notifier)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("[Worker] Waiting for %s events on %s\n", domain.EventListingCreated, queueName)
	if err := consumer.Run(ctx, alerts.HandleEvent); err != nil {
		log.Fatalf("Consumer error: %v", err)
	}
	fmt.Println("[Worker] Stopped")
}
