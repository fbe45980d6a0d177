// internal/delivery/telegram/app/bot/handlers/commands/start/handler.go
package start

import (
	"fmt"
	"strings"
	"time"

	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/buttons"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/base"
	"telegram-dispatch-bot/internal/infrastructure/persistence/postgres/models"
	"telegram-dispatch-bot/pkg/logger"
)

// startHandlerImpl реализация хэндлера /start
type startHandlerImpl struct {
	*base.BaseHandler
	buttons *buttons.ButtonBuilder
}

// NewHandler создает новый хэндлер команды /start
func NewHandler() handlers.Handler {
	return &startHandlerImpl{
		BaseHandler: &base.BaseHandler{
			Name:    "start_handler",
			Command: "start",
			Type:    handlers.TypeCommand,
		},
		buttons: buttons.NewButtonBuilder(),
	}
}

// Execute выполняет обработку команды /start
func (h *startHandlerImpl) Execute(params handlers.HandlerParams) (handlers.HandlerResult, error) {
	logger.Debug("Обработка /start: текст='%s', data='%s'", params.Text, params.Data)

	text := strings.TrimSpace(params.Text)

	// Параметры после /start (deep link: t.me/bot?start=payload)
	if strings.HasPrefix(text, "/start ") {
		payload := strings.TrimSpace(text[len("/start"):])
		return h.handleStartWithPayload(params.User, payload)
	}

	return h.handleStandardStart(params.User)
}

// handleStartWithPayload обрабатывает /start с параметрами
func (h *startHandlerImpl) handleStartWithPayload(user *models.User, payload string) (handlers.HandlerResult, error) {
	logger.Info("Обработка /start с payload: %s для пользователя %d", payload, user.ID)

	message := h.formatWelcomeMessage(user)

	// Реферальные ссылки: ref_{code}
	if strings.HasPrefix(payload, "ref_") {
		message += fmt.Sprintf("\n\n🤝 Вы пришли по приглашению: `%s`", strings.TrimPrefix(payload, "ref_"))
	} else {
		message += "\n\n⚠️ *Неизвестный параметр:* `" + payload + "`"
	}

	return handlers.HandlerResult{
		Message:  message,
		Keyboard: h.buttons.CreateMainMenuKeyboard(),
		Metadata: map[string]interface{}{
			"user_id":   user.ID,
			"payload":   payload,
			"timestamp": time.Now(),
		},
	}, nil
}

// handleStandardStart обрабатывает /start без параметров
func (h *startHandlerImpl) handleStandardStart(user *models.User) (handlers.HandlerResult, error) {
	return handlers.HandlerResult{
		Message:  h.formatWelcomeMessage(user),
		Keyboard: h.buttons.CreateMainMenuKeyboard(),
		Metadata: map[string]interface{}{
			"user_id": user.ID,
		},
	}, nil
}

// formatWelcomeMessage формирует приветственное сообщение
func (h *startHandlerImpl) formatWelcomeMessage(user *models.User) string {
	name := user.FirstName
	if name == "" {
		name = user.DisplayName()
	}

	return fmt.Sprintf(
		"👋 *Привет, %s!*\n\n"+
			"Я бот-помощник. Вот что я умею:\n\n"+
			"• /help - справка по боту\n"+
			"• /commands - список команд\n"+
			"• /profile - ваш профиль\n"+
			"• /support - связаться с поддержкой\n\n"+
			"Выберите раздел кнопками ниже 👇",
		name,
	)
}
