package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-consult-bot/internal/bootstrap"
	"food-consult-bot/internal/chat/discord"
	"food-consult-bot/internal/config"
	"food-consult-bot/internal/server"
	"food-consult-bot/internal/tracer"
	"food-consult-bot/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment != "production")
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, "food-consult-bot", container.Logger)
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := container.MasterService.Reload(ctx); err != nil {
		container.Logger.Warn("MAIN", "Master maps not loaded at startup, lists will retry on demand", map[string]interface{}{"error": err.Error()})
	}

	// 4. Start the event stream before any adapter can submit
	if err := container.Dispatcher.Run(ctx); err != nil {
		log.Fatalf("Event stream failed: %v", err)
	}

	// 5. Connect the chat platform
	bot, err := discord.New(cfg.Discord.Token, cfg.Discord.GuildID, container.Dispatcher, container.Logger)
	if err != nil {
		log.Fatalf("Discord init failed: %v", err)
	}
	if err := bot.Open(); err != nil {
		log.Fatalf("Discord connect failed: %v", err)
	}
	defer bot.Close()

	// 6. Admin API
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			container.Logger.Error("MAIN", "Admin API stopped", map[string]interface{}{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	container.Logger.Info("MAIN", "Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Warn("MAIN", "Admin API shutdown", map[string]interface{}{"error": err.Error()})
	}
}
