package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/muratcankoptayyy/tevkil-platform/internal/api"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz"
	"github.com/muratcankoptayyy/tevkil-platform/internal/conf"
	"github.com/muratcankoptayyy/tevkil-platform/internal/data"
	"github.com/muratcankoptayyy/tevkil-platform/internal/server"
	"github.com/muratcankoptayyy/tevkil-platform/internal/service"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize repository layer
	repos, err := data.NewRepositories(cfg.ToDataOptions())
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	if err := repos.Store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	fmt.Printf("[Bot] Database: %s\n", repos.Store.Dialect())

	// Initialize usecase layer
	ucs := biz.NewUsecases(biz.Repos{
		Accounts:     repos.Accounts,
		Listings:     repos.Listings,
		Applications: repos.Applications,
		Proposals:    repos.Proposals,
		AI:           repos.AI,
		Messages:     repos.Messages,
		SMS:          repos.SMS,
		Events:       repos.Events,
	}, cfg.ToBotConfig())

	if ucs.Conversation.AIEnabled() {
		fmt.Println("[Bot] Natural language listings enabled")
	}

	// Initialize service layer
	waSvc := service.NewWhatsAppService(ucs.Conversation, repos.Messages, repos.Guard)
	sweeper := service.NewSweeper(repos.Proposals, repos.Guard, time.Minute)

	var admin *api.Server
	if cfg.Server.AdminToken != "" {
		admin = api.NewServer(waSvc, ucs.Application, cfg.Server.AdminToken)
		fmt.Println("[Bot] Admin API enabled")
	}

	srv := server.NewWhatsAppServer(repos.WhatsApp, waSvc, admin, sweeper, cfg.Server.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			fmt.Printf("[Bot] Shutdown error: %v\n", err)
		}
	}()

	fmt.Println("Starting Tevkil WhatsApp bot...")
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
