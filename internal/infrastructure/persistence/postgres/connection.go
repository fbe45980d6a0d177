// internal/infrastructure/persistence/postgres/connection.go
package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"telegram-dispatch-bot/internal/infrastructure/config"
	"telegram-dispatch-bot/pkg/logger"
)

// schema - бутстрап таблицы пользователей. Без внешнего мигратора:
// одна таблица, IF NOT EXISTS достаточно.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id           BIGSERIAL PRIMARY KEY,
    telegram_id  BIGINT NOT NULL UNIQUE,
    username     TEXT NOT NULL DEFAULT '',
    first_name   TEXT NOT NULL DEFAULT '',
    last_name    TEXT NOT NULL DEFAULT '',
    chat_id      BIGINT NOT NULL DEFAULT 0,
    language     TEXT NOT NULL DEFAULT 'ru',
    role         TEXT NOT NULL DEFAULT 'user',
    is_active    BOOLEAN NOT NULL DEFAULT TRUE,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_is_active ON users (is_active);
`

// Connect открывает пул соединений с PostgreSQL и создает схему
func Connect(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Настройки пула соединений
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	// Проверка подключения
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info("✅ Подключение к PostgreSQL установлено")

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	return db, nil
}
