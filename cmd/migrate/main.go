package main

import (
	"context"
	"flag"
	"log"

	"food-consult-bot/internal/config"
	"food-consult-bot/internal/model"
	"food-consult-bot/internal/repository/unitofwork"
	"food-consult-bot/pkg/database"
)

func main() {
	seed := flag.Bool("seed", false, "insert the default genres, styles and foods")
	flag.Parse()

	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DATABASE_URL is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. AutoMigrate the catalog
	log.Println("Step 1: Running AutoMigrate...")

	models := []interface{}{
		&model.Genre{},
		&model.Style{},
		&model.Food{},
		&model.ConsultHistory{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	if !*seed {
		log.Println("✅ Migration complete")
		return
	}

	// 4. Seed reference data
	log.Println("Step 2: Seeding master data...")
	if err := Seed(context.Background(), unitofwork.NewRepositoryFactory(db)); err != nil {
		log.Fatalf("Error: Seeding failed: %v", err)
	}
	log.Println("✅ Migration and seed complete")
}
