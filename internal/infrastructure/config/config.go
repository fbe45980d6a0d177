// /internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================
// КОНФИГУРАЦИЯ БАЗЫ ДАННЫХ
// ============================================

// DatabaseConfig - конфигурация базы данных
type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     int    `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`

	// Включение/отключение БД
	Enabled bool `mapstructure:"DB_ENABLED"`

	// Настройки пула соединений
	MaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	MaxConnLifetime time.Duration `mapstructure:"DB_MAX_CONN_LIFETIME"`
	MaxConnIdleTime time.Duration `mapstructure:"DB_MAX_CONN_IDLE_TIME"`
}

// RedisConfig конфигурация Redis
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`     // localhost
	Port     int    `mapstructure:"REDIS_PORT"`     // 6379
	Password string `mapstructure:"REDIS_PASSWORD"` // пустой или пароль
	DB       int    `mapstructure:"REDIS_DB"`       // 0

	// Включение/отключение Redis
	Enabled bool `mapstructure:"REDIS_ENABLED"`

	// Настройки пула соединений
	PoolSize     int           `mapstructure:"REDIS_POOL_SIZE"`      // 10
	MinIdleConns int           `mapstructure:"REDIS_MIN_IDLE_CONNS"` // 5
	DialTimeout  time.Duration `mapstructure:"REDIS_DIAL_TIMEOUT"`   // 5s
	ReadTimeout  time.Duration `mapstructure:"REDIS_READ_TIMEOUT"`   // 3s
	WriteTimeout time.Duration `mapstructure:"REDIS_WRITE_TIMEOUT"`  // 3s

	// Настройки кэширования
	DefaultTTL time.Duration `mapstructure:"REDIS_DEFAULT_TTL"` // 1h
	SessionTTL time.Duration `mapstructure:"REDIS_SESSION_TTL"` // 24h
}

// ============================================
// КОНФИГУРАЦИЯ TELEGRAM
// ============================================

// TelegramConfig - настройки Telegram Bot API и диспетчера
type TelegramConfig struct {
	BotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	Enabled  bool   `mapstructure:"TELEGRAM_ENABLED"`

	// Базовый URL API (переопределяется в тестах)
	APIBaseURL string `mapstructure:"TELEGRAM_API_BASE_URL"`

	// Параметры long polling
	PollTimeout  int           `mapstructure:"TELEGRAM_POLL_TIMEOUT"`   // 30 (секунды long poll)
	PollLimit    int           `mapstructure:"TELEGRAM_POLL_LIMIT"`     // 50 (updates за запрос)
	PollInterval time.Duration `mapstructure:"TELEGRAM_POLL_INTERVAL"`  // 300ms между итерациями
	SendTimeout  time.Duration `mapstructure:"TELEGRAM_SEND_TIMEOUT"`   // 10s на отправку

	// Cooldown'ы защиты от дублей
	MessageCooldown  time.Duration `mapstructure:"TELEGRAM_MESSAGE_COOLDOWN"`  // 1s
	CallbackCooldown time.Duration `mapstructure:"TELEGRAM_CALLBACK_COOLDOWN"` // 500ms

	// Telegram ID администраторов (через запятую)
	AdminIDs []int64 `mapstructure:"TELEGRAM_ADMIN_IDS"`
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Path  string `mapstructure:"LOG_PATH"`
	Level string `mapstructure:"LOG_LEVEL"`
	Debug bool   `mapstructure:"LOG_DEBUG"`
}

// UserDefaultsConfig - настройки пользователей по умолчанию
type UserDefaultsConfig struct {
	Language string `mapstructure:"DEFAULT_LANGUAGE"`
	Timezone string `mapstructure:"DEFAULT_TIMEZONE"`
}

// ============================================
// ОСНОВНАЯ КОНФИГУРАЦИЯ ПРИЛОЖЕНИЯ
// ============================================

// Config - основная структура конфигурации
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`

	Telegram     TelegramConfig     `mapstructure:"TELEGRAM"`
	Database     DatabaseConfig     `mapstructure:"DATABASE"`
	Redis        RedisConfig        `mapstructure:"REDIS"`
	Logging      LoggingConfig      `mapstructure:"LOGGING"`
	UserDefaults UserDefaultsConfig `mapstructure:"USER_DEFAULTS"`
}

// LoadConfig загружает конфигурацию из .env и переменных окружения
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		fmt.Printf("⚠️  Config file not found, using environment variables\n")
	}

	cfg := &Config{}

	// ======================
	// ОСНОВНЫЕ НАСТРОЙКИ
	// ======================
	cfg.Environment = getEnv("ENVIRONMENT", "production")
	cfg.Version = getEnv("VERSION", "1.0.0")

	// ======================
	// TELEGRAM
	// ======================
	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.Telegram.Enabled = getEnvBool("TELEGRAM_ENABLED", true)
	cfg.Telegram.APIBaseURL = getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org")
	cfg.Telegram.PollTimeout = getEnvInt("TELEGRAM_POLL_TIMEOUT", 30)
	cfg.Telegram.PollLimit = getEnvInt("TELEGRAM_POLL_LIMIT", 50)
	cfg.Telegram.PollInterval = getEnvDuration("TELEGRAM_POLL_INTERVAL", 300*time.Millisecond)
	cfg.Telegram.SendTimeout = getEnvDuration("TELEGRAM_SEND_TIMEOUT", 10*time.Second)
	cfg.Telegram.MessageCooldown = getEnvDuration("TELEGRAM_MESSAGE_COOLDOWN", 1*time.Second)
	cfg.Telegram.CallbackCooldown = getEnvDuration("TELEGRAM_CALLBACK_COOLDOWN", 500*time.Millisecond)
	cfg.Telegram.AdminIDs = getEnvInt64List("TELEGRAM_ADMIN_IDS")

	// ======================
	// БАЗА ДАННЫХ
	// ======================
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 25)
	cfg.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 10)
	cfg.Database.MaxConnLifetime = getEnvDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute)
	cfg.Database.MaxConnIdleTime = getEnvDuration("DB_MAX_CONN_IDLE_TIME", 10*time.Minute)
	cfg.Database.Enabled = getEnvBool("DB_ENABLED", true)

	// ======================
	// REDIS
	// ======================
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnvInt("REDIS_PORT", 6379)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.PoolSize = getEnvInt("REDIS_POOL_SIZE", 10)
	cfg.Redis.MinIdleConns = getEnvInt("REDIS_MIN_IDLE_CONNS", 5)
	cfg.Redis.DialTimeout = getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.Redis.ReadTimeout = getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.Redis.WriteTimeout = getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.Redis.DefaultTTL = getEnvDuration("REDIS_DEFAULT_TTL", 1*time.Hour)
	cfg.Redis.SessionTTL = getEnvDuration("REDIS_SESSION_TTL", 24*time.Hour)
	cfg.Redis.Enabled = getEnvBool("REDIS_ENABLED", true)

	// ======================
	// ЛОГИРОВАНИЕ
	// ======================
	cfg.Logging.Path = getEnv("LOG_PATH", "logs/bot.log")
	cfg.Logging.Level = getEnv("LOG_LEVEL", "INFO")
	cfg.Logging.Debug = getEnvBool("LOG_DEBUG", false)

	// ======================
	// НАСТРОЙКИ ПОЛЬЗОВАТЕЛЕЙ ПО УМОЛЧАНИЮ
	// ======================
	cfg.UserDefaults.Language = getEnv("DEFAULT_LANGUAGE", "ru")
	cfg.UserDefaults.Timezone = getEnv("DEFAULT_TIMEZONE", "Europe/Moscow")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN не задан")
	}
	if c.Database.Enabled {
		if c.Database.User == "" || c.Database.Name == "" {
			return fmt.Errorf("DB_USER и DB_NAME обязательны при DB_ENABLED=true")
		}
	}
	if c.Telegram.PollTimeout <= 0 || c.Telegram.PollTimeout > 50 {
		return fmt.Errorf("TELEGRAM_POLL_TIMEOUT должен быть в диапазоне 1-50 секунд")
	}
	if c.Telegram.PollLimit <= 0 || c.Telegram.PollLimit > 100 {
		return fmt.Errorf("TELEGRAM_POLL_LIMIT должен быть в диапазоне 1-100")
	}
	return nil
}

// RedisAddr возвращает адрес Redis в формате host:port
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsAdmin проверяет, является ли Telegram ID администратором
func (c *TelegramConfig) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

// ============================================
// ХЕЛПЕРЫ ЧТЕНИЯ ОКРУЖЕНИЯ
// ============================================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvInt64List(key string) []int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	var result []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			result = append(result, id)
		}
	}
	return result
}
