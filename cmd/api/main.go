package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"todoService/internal/app"
	"todoService/internal/config"
	"todoService/internal/logger"
)

func main() {
	cfg, err := config.Load("config.yml")
	if err != nil {
		log.Fatalf("загрузка конфигурации: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg)
	if err := application.Init(ctx); err != nil {
		// недоступное хранилище (или логгер) на старте фатально: не обслуживаем трафик
		log.Fatalf("инициализация приложения: %v", err)
	}

	go application.WaitForShutdown(ctx)

	if err := application.Run(); err != nil {
		logger.Fatal("Работа сервера", err)
	}
}
