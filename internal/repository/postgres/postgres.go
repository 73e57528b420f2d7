package postgres

import (
	"context"
	"fmt"
	"os"
	"time"

	"taskKeeper/internal/config"
	"taskKeeper/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool создаёт общий пул соединений для всех репозиториев
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnIdleTime = cfg.IdleTimeout.Std()

	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = 10
	}
	if poolConfig.MinConns == 0 {
		poolConfig.MinConns = 2
	}
	if poolConfig.MaxConnIdleTime == 0 {
		poolConfig.MaxConnIdleTime = time.Minute * 5
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return pool, nil
}

// Migrate применяет SQL-миграции из файлов, как и раньше - без внешних инструментов
func Migrate(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	logger.Info("Попытка миграций")

	files := []string{"001_init.up.sql", "002_indexes.up.sql"}

	for _, name := range files {
		sql, err := os.ReadFile(dir + "/" + name)
		if err != nil {
			logger.Error("не удалось прочитать "+name, err)
			return err
		}

		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			logger.Error("не удалось применить "+name, err)
			return err
		}
	}

	logger.Info("Миграции применены")
	return nil
}

func Down(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	logger.Info("Откат миграций")

	files := []string{"002_indexes.down.sql", "001_init.down.sql"}

	for _, name := range files {
		sql, err := os.ReadFile(dir + "/" + name)
		if err != nil {
			logger.Error("не удалось прочитать "+name, err)
			return err
		}

		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			logger.Error("не удалось откатить "+name, err)
			return err
		}
	}

	logger.Info("Откат миграций завершён")
	return nil
}
