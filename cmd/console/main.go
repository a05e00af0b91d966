package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"food-consult-bot/internal/bootstrap"
	"food-consult-bot/internal/chat/console"
	"food-consult-bot/internal/config"
	"food-consult-bot/internal/pkg/logger"
	"food-consult-bot/pkg/database"
)

func main() {
	user := flag.String("user", "local", "user id for this terminal")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.ValidateLocal(); err != nil {
		log.Fatal(err)
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	container, err := bootstrap.NewContainerWithLogger(gormDB, cfg, logger.NewIsolatedLogger(cfg.App.LogFilePath))
	if err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := container.Dispatcher.Run(ctx); err != nil {
		log.Fatalf("Event stream failed: %v", err)
	}

	term := console.New(container.Dispatcher, *user, os.Stdout, container.Logger)
	term.Banner()
	if err := term.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Printf("console: %v", err)
	}
}
