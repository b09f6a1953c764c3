package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/advpress/advpress-backend/internal/config"
	"github.com/advpress/advpress-backend/internal/domain"
	"github.com/advpress/advpress-backend/internal/handler"
	"github.com/advpress/advpress-backend/internal/middleware"
	"github.com/advpress/advpress-backend/internal/migration"
	"github.com/advpress/advpress-backend/internal/repository"
	"github.com/advpress/advpress-backend/internal/routes"
	"github.com/advpress/advpress-backend/internal/service"
	pkgcache "github.com/advpress/advpress-backend/pkg/cache"
	pkgjwt "github.com/advpress/advpress-backend/pkg/jwt"
	pkglogger "github.com/advpress/advpress-backend/pkg/logger"
	pkgredis "github.com/advpress/advpress-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Version is the service version embedded in exported reports
const Version = "2.4.0"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	// MySQL connection. The ledger lives here; without it the service
	// cannot honor its durability contract, so this one is fatal.
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")

	if err := migration.Run(db, cfg.Categories); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis connection. The history cache degrades to best-effort without
	// it, so a failure here only warns.
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (history cache degrades to in-memory)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}
	blobStore := pkgcache.NewStore(redisClient)

	// Repositories
	postRepo := repository.NewPostRepository(db)
	logRepo := repository.NewPublishLogRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Services
	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, service.TokenExpiry(cfg.JWT.ExpiryHours))
	authSvc := service.NewAuthService(cfg.Accounts, jwtManager)
	historySvc := service.NewHistoryService(
		blobStore,
		cfg.History.Capacity,
		cfg.History.ModerationMarkers,
		domain.ReportConfiguration{
			WPConfigured:       cfg.Database.Host != "",
			AuditConfigured:    cfg.Audit.Enabled && cfg.Audit.APIKey != "" && cfg.Audit.SecretKey != "",
			SecurityConfigured: cfg.Security.ClientAuthToken != "",
			TestMode:           cfg.TestMode,
		},
		Version,
	)
	moderationSvc := service.NewModerationService(postRepo, logRepo)
	auditor := service.NewContentAuditor(cfg.Audit.Enabled, cfg.TestMode, cfg.Audit.APIKey, cfg.Audit.SecretKey)
	publishSvc := service.NewPublishService(postRepo, categoryRepo, auditor, historySvc)
	retentionSvc := service.NewRetentionService(
		postRepo,
		cfg.Retention.Days,
		time.Duration(cfg.Retention.SweepIntervalHours)*time.Hour,
	)
	retentionSvc.Start(context.Background())

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	publishHandler := handler.NewPublishHandler(publishSvc, authSvc)
	moderationHandler := handler.NewModerationHandler(moderationSvc, authSvc)
	historyHandler := handler.NewHistoryHandler(historySvc)

	if env != "local" && env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	routes.Setup(router, authHandler, publishHandler, moderationHandler, historyHandler, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.Info("Server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDB opens the MySQL connection
func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
