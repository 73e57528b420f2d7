package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"taskKeeper/internal/app"
	"taskKeeper/internal/config"
)

func main() {
	cfg, err := config.Load("config.yml")
	if err != nil {
		log.Fatalf("загрузка конфигурации: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg)
	if err := application.Init(ctx); err != nil {
		log.Fatalf("инициализация приложения: %v", err)
	}
	defer application.Shutdown()

	go func() {
		<-ctx.Done()
		application.Shutdown()
	}()

	if err := application.Run(ctx); err != nil {
		log.Fatalf("работа сервера: %v", err)
	}
}
