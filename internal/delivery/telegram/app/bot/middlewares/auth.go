// internal/delivery/telegram/app/bot/middlewares/auth.go
package middlewares

import (
	"context"
	"fmt"

	"telegram-dispatch-bot/internal/core/domain/users"
	"telegram-dispatch-bot/internal/delivery/telegram"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/infrastructure/config"
	"telegram-dispatch-bot/pkg/logger"
)

// AuthMiddleware - извлекает пользователя из обновления и готовит
// параметры для хэндлеров
type AuthMiddleware struct {
	userService *users.Service
	telegramCfg *config.TelegramConfig
	// FirstContact вызывается для только что созданных пользователей
	firstContact func(params handlers.HandlerParams)
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(userService *users.Service, telegramCfg *config.TelegramConfig) *AuthMiddleware {
	return &AuthMiddleware{
		userService: userService,
		telegramCfg: telegramCfg,
	}
}

// SetFirstContactHook регистрирует обработчик первого контакта
func (m *AuthMiddleware) SetFirstContactHook(hook func(params handlers.HandlerParams)) {
	m.firstContact = hook
}

// ProcessUpdate обрабатывает обновление и создает handlers.HandlerParams
func (m *AuthMiddleware) ProcessUpdate(update *telegram.Update) (handlers.HandlerParams, error) {
	if m.userService == nil {
		logger.Warn("❌ ProcessUpdate: userService is nil! Cannot process update")
		return handlers.HandlerParams{}, fmt.Errorf("сервис пользователей временно недоступен")
	}

	var userID, chatID int64
	var username, firstName, lastName string
	var text, data string

	// Извлекаем данные из обновления
	if update.Message != nil && update.Message.From.ID > 0 {
		userID = update.Message.From.ID
		username = update.Message.From.Username
		firstName = update.Message.From.FirstName
		lastName = update.Message.From.LastName
		chatID = update.Message.Chat.ID
		text = update.Message.Text

		logger.Debug("🔍 ProcessUpdate: Message from user %d, chat %d, text: %s", userID, chatID, text)
	} else if update.CallbackQuery != nil && update.CallbackQuery.From.ID > 0 {
		userID = update.CallbackQuery.From.ID
		username = update.CallbackQuery.From.Username
		firstName = update.CallbackQuery.From.FirstName
		lastName = update.CallbackQuery.From.LastName
		data = update.CallbackQuery.Data

		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
			logger.Debug("🔍 ProcessUpdate: Callback from user %d, chat %d, data: %s", userID, chatID, data)
		} else {
			chatID = userID
			logger.Warn("⚠️ ProcessUpdate: No Message in callback, using userID as chatID: %d, data: %s", chatID, data)
		}
	} else {
		logger.Warn("❌ ProcessUpdate: Не удалось получить информацию о пользователе")
		return handlers.HandlerParams{}, fmt.Errorf("не удалось получить информацию о пользователе")
	}

	// Получаем или создаем пользователя
	user, created, err := m.userService.GetOrCreateUser(userID, chatID, username, firstName, lastName)
	if err != nil {
		logger.Error("❌ ProcessUpdate: Ошибка получения пользователя %d: %v", userID, err)
		return handlers.HandlerParams{}, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	// Продлеваем сессию и отмечаем активность
	m.userService.TouchSession(context.Background(), user)
	if !created {
		m.userService.TouchLastSeen(userID)
	}

	params := handlers.HandlerParams{
		User:     user,
		ChatID:   chatID,
		Text:     text,
		Data:     data,
		UpdateID: update.UpdateID,
		IsAdmin:  user.IsAdmin() || m.telegramCfg.IsAdmin(userID),
	}

	if created && m.firstContact != nil {
		m.firstContact(params)
	}

	return params, nil
}
