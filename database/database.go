package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/thanaphatj/WOSystem/config"
	"github.com/thanaphatj/WOSystem/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	Migrate(db)
}

// Migrate แยกออกมาเพื่อให้ test เรียกกับ sqlite in-memory ได้
func Migrate(db *gorm.DB) {
	if err := db.AutoMigrate(
		&models.Event{},
		&models.Leave{},
		&models.Holiday{},
		&models.User{},
		&models.LoginLog{},
		&models.WorkerCount{},
		&models.Report{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}
