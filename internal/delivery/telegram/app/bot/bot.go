// internal/delivery/telegram/app/bot/bot.go
package bot

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"telegram-dispatch-bot/internal/core/domain/users"
	"telegram-dispatch-bot/internal/delivery/telegram"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/constants"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/guard"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/router"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/listeners"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/message_sender"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/middlewares"
	telegram_http "telegram-dispatch-bot/internal/delivery/telegram/app/http_client"
	"telegram-dispatch-bot/internal/infrastructure/config"
	"telegram-dispatch-bot/pkg/logger"
)

// TextInterceptor перехватывает текстовое сообщение до слушателей и
// роутера. Возвращает true, если сообщение обработано.
type TextInterceptor func(params handlers.HandlerParams) bool

// TelegramBot - диспетчер обновлений Telegram
type TelegramBot struct {
	config *config.Config

	// HTTP клиенты
	telegramClient *telegram_http.TelegramClient
	pollingClient  *telegram_http.PollingClient

	// MessageSender для отправки сообщений
	messageSender message_sender.MessageSender

	// Конвейер обработки
	guard          *guard.UpdateGuard
	listeners      *listeners.Registry
	router         router.Router
	authMiddleware *middlewares.AuthMiddleware
	interceptors   []TextInterceptor

	// Dispatcher цикла polling
	dispatcher *Dispatcher

	mu          sync.Mutex
	startupTime time.Time
}

// Dependencies зависимости для TelegramBot
type Dependencies struct {
	UserService *users.Service
}

// NewTelegramBot создает новый экземпляр TelegramBot
func NewTelegramBot(cfg *config.Config, deps *Dependencies) *TelegramBot {
	apiBase := cfg.Telegram.APIBaseURL
	if apiBase == "" {
		apiBase = "https://api.telegram.org"
	}
	baseURL := apiBase + "/bot" + cfg.Telegram.BotToken + "/"
	telegramClient := telegram_http.NewTelegramClient(baseURL)
	if cfg.Telegram.SendTimeout > 0 {
		telegramClient.SetTimeout(cfg.Telegram.SendTimeout)
	}
	pollingClient := telegram_http.NewPollingClient(baseURL)

	ms := message_sender.NewMessageSender(telegramClient, cfg.Telegram.Enabled)

	authMiddleware := middlewares.NewAuthMiddleware(deps.UserService, &cfg.Telegram)

	bot := &TelegramBot{
		config:         cfg,
		telegramClient: telegramClient,
		pollingClient:  pollingClient,
		messageSender:  ms,
		guard:          guard.NewUpdateGuard(),
		listeners:      listeners.NewRegistry(),
		router:         router.NewRouter(),
		authMiddleware: authMiddleware,
		startupTime:    time.Now(),
	}

	// Приветствие при первом контакте: /start сам показывает
	// приветствие, для остальных входов шлем короткое
	authMiddleware.SetFirstContactHook(func(params handlers.HandlerParams) {
		if params.Text == "" || strings.HasPrefix(params.Text, "/start") {
			return
		}
		welcome := fmt.Sprintf("👋 Добро пожаловать, %s! Наберите /start, чтобы открыть меню.", params.User.DisplayName())
		if err := ms.SendTextMessage(params.ChatID, welcome, nil); err != nil {
			logger.Warn("⚠️ Не удалось отправить приветствие в чат %d: %v", params.ChatID, err)
		}
	})

	// Регистрируем все хэндлеры
	bot.registerHandlers(deps)

	bot.dispatcher = NewDispatcher(bot)

	// Устанавливаем меню команд Telegram
	if cfg.Telegram.Enabled {
		if err := bot.SetMyCommands(); err != nil {
			logger.Warn("Не удалось установить меню команд: %v", err)
			logger.Info("Бот будет работать, но меню команд в Telegram может не отображаться")
		}
	}

	return bot
}

// AddTextInterceptor добавляет перехватчик текстовых сообщений.
// Перехватчики проверяются до слушателей и роутера, в порядке добавления.
func (b *TelegramBot) AddTextInterceptor(interceptor TextInterceptor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.interceptors = append(b.interceptors, interceptor)
}

// HandleUpdate проводит одно обновление через конвейер:
// дедупликация -> авторизация -> перехватчики -> слушатели -> роутер
func (b *TelegramBot) HandleUpdate(update *telegram.Update) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Callback подтверждаем всегда, даже если дальше отбросим как
	// дубль: иначе у пользователя "зависают" часики на кнопке
	if update.CallbackQuery != nil {
		_ = b.messageSender.AnswerCallback(update.CallbackQuery.ID, "", false)
	}

	// Защита от повторной доставки update_id
	if b.guard.IsDuplicateUpdate(update.UpdateID) {
		logger.Debug("Пропуск дубля update_id=%d", update.UpdateID)
		return nil
	}

	if update.CallbackQuery != nil {
		return b.handleCallback(update)
	}
	if update.Message != nil {
		return b.handleMessage(update)
	}

	// Другие типы обновлений игнорируем
	return nil
}

// handleCallback обрабатывает callback query
func (b *TelegramBot) handleCallback(update *telegram.Update) error {
	cb := update.CallbackQuery

	if b.guard.IsDuplicateCallback(cb.ID) {
		logger.Debug("Пропуск дубля callback_id=%s", cb.ID)
		return nil
	}
	if b.guard.IsRateLimited(cb.From.ID, "callback", b.config.Telegram.CallbackCooldown) {
		logger.Debug("Rate limit callback от %d, пропуск", cb.From.ID)
		return nil
	}

	params, err := b.authMiddleware.ProcessUpdate(update)
	if err != nil {
		return b.sendProcessingError(update.ChatID(), err)
	}

	return b.route(cb.Data, params)
}

// handleMessage обрабатывает текстовое сообщение
func (b *TelegramBot) handleMessage(update *telegram.Update) error {
	msg := update.Message

	if b.guard.IsDuplicateMessage(msg) {
		logger.Debug("Пропуск дубля сообщения от %d", msg.From.ID)
		return nil
	}
	if b.guard.IsRateLimited(msg.From.ID, "message", b.config.Telegram.MessageCooldown) {
		logger.Debug("Rate limit сообщений от %d, пропуск", msg.From.ID)
		return nil
	}

	params, err := b.authMiddleware.ProcessUpdate(update)
	if err != nil {
		return b.sendProcessingError(update.ChatID(), err)
	}

	// Перехватчики (например, admin-рассылка) идут первыми
	for _, interceptor := range b.interceptors {
		if interceptor(params) {
			return nil
		}
	}

	// Одноразовый слушатель чата: команда отменяет режим ожидания,
	// обычный текст уходит слушателю вместо роутера
	if strings.HasPrefix(msg.Text, "/") {
		b.listeners.Remove(params.ChatID)
	} else if kind, listener, ok := b.listeners.Consume(params.ChatID); ok {
		logger.Debug("Сообщение из чата %d ушло слушателю '%s'", params.ChatID, kind)
		listener(update, params.ChatID, msg.Text)
		return nil
	}

	if msg.Text == "" {
		return nil
	}

	return b.route(msg.Text, params)
}

// route прогоняет ключ через роутер и отправляет результат
func (b *TelegramBot) route(key string, params handlers.HandlerParams) error {
	result, err := b.router.Handle(key, params)
	if err != nil {
		if errors.Is(err, router.ErrNoHandler) {
			return b.sendUnknownReply(params.ChatID, key)
		}
		logger.Error("❌ Ошибка обработки '%s': %v", key, err)
		return b.messageSender.SendTextMessage(params.ChatID, "⚠️ Произошла ошибка, попробуйте позже.", nil)
	}

	if result.Message == "" {
		return nil
	}
	return b.messageSender.SendMenuMessage(params.ChatID, result.Message, result.Keyboard)
}

// sendUnknownReply отвечает на нераспознанную команду/действие
func (b *TelegramBot) sendUnknownReply(chatID int64, key string) error {
	var message string
	if strings.HasPrefix(key, "/") {
		message = "🤷 Неизвестная команда. Наберите /commands для списка команд."
	} else {
		message = "🤷 Неизвестное действие. Откройте меню заново: /start"
	}
	logger.Warn("⚠️ Нет хэндлера для '%s'", key)
	return b.messageSender.SendTextMessage(chatID, message, nil)
}

// sendProcessingError отправляет сообщение об ошибке обработки
func (b *TelegramBot) sendProcessingError(chatID int64, err error) error {
	if chatID == 0 {
		return err
	}
	return b.messageSender.SendTextMessage(chatID, "🔐 *Ошибка обработки*\n\n"+err.Error(), nil)
}

// StartPolling запускает цикл polling
func (b *TelegramBot) StartPolling() error {
	return b.dispatcher.Start()
}

// StopPolling останавливает цикл polling
func (b *TelegramBot) StopPolling() error {
	return b.dispatcher.Stop()
}

// IsPolling проверяет, работает ли цикл polling
func (b *TelegramBot) IsPolling() bool {
	return b.dispatcher != nil && b.dispatcher.IsRunning()
}

// GetPollingClient возвращает polling клиент
func (b *TelegramBot) GetPollingClient() *telegram_http.PollingClient {
	return b.pollingClient
}

// GetTelegramClient возвращает telegram клиент
func (b *TelegramBot) GetTelegramClient() *telegram_http.TelegramClient {
	return b.telegramClient
}

// GetMessageSender возвращает MessageSender для других компонентов
func (b *TelegramBot) GetMessageSender() message_sender.MessageSender {
	return b.messageSender
}

// GetRouter возвращает роутер
func (b *TelegramBot) GetRouter() router.Router {
	return b.router
}

// GetListeners возвращает реестр слушателей
func (b *TelegramBot) GetListeners() *listeners.Registry {
	return b.listeners
}

// GetGuard возвращает защиту от дублей
func (b *TelegramBot) GetGuard() *guard.UpdateGuard {
	return b.guard
}

// GetConfig возвращает конфигурацию
func (b *TelegramBot) GetConfig() *config.Config {
	return b.config
}

// SetMyCommands устанавливает меню команд в Telegram
func (b *TelegramBot) SetMyCommands() error {
	logger.Info("Установка меню команд в Telegram API")

	commands := make([]telegram.BotCommand, 0, len(constants.CommandDescriptions))
	for _, cmd := range constants.CommandDescriptions {
		commands = append(commands, telegram.BotCommand{
			Command:     "/" + cmd.Command,
			Description: cmd.Description,
		})
	}

	logger.Debug("Подготовлено %d команд для отправки", len(commands))

	if err := b.telegramClient.SetMyCommands(commands); err != nil {
		logger.Error("Ошибка установки меню команд: %v", err)
		return fmt.Errorf("ошибка настройки меню команд: %v", err)
	}

	logger.Info("Меню команд успешно отправлено в Telegram API")
	return nil
}
