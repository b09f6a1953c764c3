package main

import (
	"fmt"
	"log"
	"os"

	"github.com/advpress/advpress-backend/internal/config"
	"github.com/advpress/advpress-backend/internal/migration"
	pkglogger "github.com/advpress/advpress-backend/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Standalone migration runner for deployments where the API process must
// not own schema changes.
func main() {
	config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)

	cfg, err := config.Load(fmt.Sprintf("configs/config.%s.yaml", env))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migration.Run(db, cfg.Categories); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	pkglogger.Info("Migration complete")
}
