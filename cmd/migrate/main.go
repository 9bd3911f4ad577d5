package main

import (
	"log"

	"en-garde-armory-be/internal/config"
	"en-garde-armory-be/internal/model"
	"en-garde-armory-be/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	cfg := config.Load()

	log.Printf("Starting GORM Migration (driver=%s)...", cfg.Database.Driver)

	// 2. Connect and AutoMigrate
	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection, true, &model.InsightLog{})
	if err != nil {
		log.Fatal("Error: Failed to migrate database:", err)
	}

	// 3. Post-Migration: composite index for per-equipment history queries
	if cfg.Database.Driver == database.DriverPostgres {
		if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_insight_logs_equipment_created ON insight_logs (equipment_id, created_at DESC);`).Error; err != nil {
			log.Printf("Warn: Failed to create history index: %v", err)
		}
	}

	var count int64
	if err := db.Model(&model.InsightLog{}).Count(&count).Error; err != nil {
		log.Fatal("Error: Failed to verify insight_logs:", err)
	}
	log.Printf("Migration complete. insight_logs rows: %d", count)
}
