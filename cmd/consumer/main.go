package main

import (
	"os"

	"go-leaves/internal/app"
	"go-leaves/internal/config"
	"go-leaves/internal/shared/apperror"
	"go-leaves/internal/shared/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("LEAVES_CONFIG"))
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	apperror.Init()

	if err := app.RunConsumer(cfg, log); err != nil {
		log.Fatal("consumer failed", zap.Error(err))
	}
}
