package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/campus-market/internal/config"
	"github.com/ignatzorin/campus-market/internal/db"
	"github.com/ignatzorin/campus-market/internal/logger"
)

// loadConfig читает конфигурацию и настраивает логгер.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}
	return cfg, nil
}

// openDatabase подключается к базе и, если нужно, применяет миграции.
func openDatabase(ctx context.Context, cfg *config.Config, migrate bool) (*sqlx.DB, error) {
	conn, err := db.NewDatabase(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if migrate {
		if err := db.RunMigrations(ctx, conn, cfg.MigrationsDir()); err != nil {
			safeClose(conn)
			return nil, fmt.Errorf("миграции: %w", err)
		}
	}
	return conn, nil
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.Log.Errorf("main: ошибка закрытия базы: %v", err)
	}
}
