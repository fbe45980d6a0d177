// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-dispatch-bot/internal/core/domain/users"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot"
	"telegram-dispatch-bot/internal/infrastructure/cache/redis"
	"telegram-dispatch-bot/internal/infrastructure/config"
	"telegram-dispatch-bot/internal/infrastructure/persistence/postgres"
	"telegram-dispatch-bot/pkg/logger"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Не удалось загрузить конфигурацию: %v", err)
	}

	// Инициализируем логгер
	if err := logger.InitGlobal(cfg.Logging.Path, cfg.Logging.Level, cfg.Logging.Debug); err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}

	printHeader("ДИСПЕТЧЕР ОБНОВЛЕНИЙ TELEGRAM")
	fmt.Printf("🔧 Конфигурация:\n")
	fmt.Printf("   Long poll: timeout=%dс, limit=%d\n", cfg.Telegram.PollTimeout, cfg.Telegram.PollLimit)
	fmt.Printf("   Интервал цикла: %v\n", cfg.Telegram.PollInterval)
	fmt.Printf("   Cooldown: сообщения %v, callback'и %v\n", cfg.Telegram.MessageCooldown, cfg.Telegram.CallbackCooldown)
	fmt.Printf("   Администраторов: %d\n", len(cfg.Telegram.AdminIDs))
	fmt.Println()

	// Подключаемся к PostgreSQL
	db, err := postgres.Connect(&cfg.Database)
	if err != nil {
		log.Fatalf("Не удалось подключиться к PostgreSQL: %v", err)
	}
	defer db.Close()

	// Redis: кэш + сессии (опционально)
	var cache *redis.Cache
	var sessions *redis.SessionStore
	if cfg.Redis.Enabled {
		cache = redis.NewCache(cfg.Redis.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err := cache.Ping(context.Background()); err != nil {
			logger.Warn("⚠️ Redis недоступен, работаем без кэша: %v", err)
			cache = nil
		} else {
			sessions = redis.NewSessionStore(cfg.Redis.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.SessionTTL)
			defer sessions.Close()
			defer cache.Close()
			logger.Info("✅ Подключение к Redis установлено")
		}
	}

	// Сервис пользователей
	userService := users.NewService(db, cache, sessions, users.Config{
		DefaultLanguage: cfg.UserDefaults.Language,
		DefaultTimezone: cfg.UserDefaults.Timezone,
		AdminIDs:        cfg.Telegram.AdminIDs,
	})

	// Телеграм-бот
	telegramBot := bot.NewTelegramBot(cfg, &bot.Dependencies{
		UserService: userService,
	})

	// Admin-рассылка перехватывается до роутера
	telegramBot.AddTextInterceptor(bot.NewAnnounceInterceptor(userService, telegramBot.GetMessageSender()))

	if err := telegramBot.StartPolling(); err != nil {
		log.Fatalf("Не удалось запустить polling: %v", err)
	}

	startTime := time.Now()
	logger.Info("✅ Бот запущен")

	// Ожидаем сигнал остановки
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logger.Warn("🛑 Получен сигнал %v, останавливаемся...", sig)

	if err := telegramBot.StopPolling(); err != nil {
		logger.Error("❌ Ошибка остановки polling: %v", err)
	}

	if count, err := userService.TotalCount(context.Background()); err == nil {
		logger.Status(map[string]string{
			"Время работы":  time.Since(startTime).Round(time.Second).String(),
			"Пользователей": fmt.Sprintf("%d", count),
		})
	}

	logger.Info("👋 Бот остановлен")
}

func printHeader(title string) {
	fmt.Println("============================================================")
	fmt.Printf("  %s\n", title)
	fmt.Println("============================================================")
}
