package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"giraffe/internal/database"
	"giraffe/internal/handlers"
	"giraffe/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if os.Getenv("DEBUG") != "" {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Load .env file if it exists, but don't fail if it's missing (e.g. in production)
	_ = godotenv.Load()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/giraffe.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Fatalf("db open failed: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, logger); err != nil {
		logger.Fatalf("migrate failed: %v", err)
	}

	repo := database.New(db, logger)
	quotes := service.NewYahooQuotes()
	priceSvc := service.NewPriceService(repo, quotes, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 0 disables the background refresher entirely.
	interval := 3600
	if v := os.Getenv("PRICE_UPDATE_INTERVAL"); v != "" {
		if iv, err := strconv.Atoi(v); err == nil && iv >= 0 {
			interval = iv
		}
	}
	priceSvc.Start(ctx, time.Duration(interval)*time.Second)

	h := handlers.NewHandler(repo, priceSvc, quotes, dbPath, logger)

	rg := gin.Default()
	h.Register(rg)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Infof("server starting on :%s", port)
	if err := rg.Run(":" + port); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
