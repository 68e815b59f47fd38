package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"stockroom/internal/alert"
	"stockroom/internal/auth"
	"stockroom/internal/config"
	"stockroom/internal/db"
	api "stockroom/internal/http"
	"stockroom/internal/http/handlers"
	rl "stockroom/internal/http/rate_limiter"
	"stockroom/internal/inventory"
	"stockroom/internal/repo"
)

// @title Stockroom API
// @version 1.0
// @description REST API for tracking stock-keeping units and their movement ledger.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Could not load configuration: %v", err)
	}
	auth.SetSecret(cfg.JWTSecret)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database:", err)
	}
	defer database.Close()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Could not connect to Redis: %v", err)
		}
		defer rdb.Close()
	} else {
		log.Println("REDIS_ADDR not set, low-stock daily summary disabled")
	}

	notifier := alert.NewNotifier(rdb, alert.Config{
		From:         cfg.AlertFrom,
		To:           cfg.AlertTo,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUser:     cfg.SMTPUser,
		SMTPPassword: cfg.SMTPPassword,
		AuthDisabled: cfg.SMTPAuthDisabled,
	})
	go notifier.StartDailySummary(24 * time.Hour)
	go rl.StartVisitorCleanupLoop()

	productRepo := repo.NewPostgresProductRepository(database)
	transactionRepo := repo.NewPostgresTransactionRepository(database)
	userRepo := repo.NewPostgresUserRepository(database)
	metricsRepo := repo.NewPostgresMetricsRepository(database)

	inv := inventory.NewService(productRepo, transactionRepo, notifier)
	srv := handlers.NewServer(productRepo, transactionRepo, userRepo, metricsRepo, inv)

	r := api.NewRouter(srv)
	log.Println("✅ Server running on", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}
