// internal/delivery/telegram/app/bot/handlers/commands/support/handler.go
package support

import (
	"fmt"

	"telegram-dispatch-bot/internal/delivery/telegram"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/buttons"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/base"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/listeners"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/message_sender"
	"telegram-dispatch-bot/pkg/logger"
)

// listenerKindSupport - тип одноразового слушателя обращения в поддержку
const listenerKindSupport = "support_ticket"

type supportHandlerImpl struct {
	*base.BaseHandler
	listeners *listeners.Registry
	sender    message_sender.MessageSender
	adminIDs  []int64
	buttons   *buttons.ButtonBuilder
}

// NewHandler создает новый хэндлер команды /support
func NewHandler(registry *listeners.Registry, sender message_sender.MessageSender, adminIDs []int64) handlers.Handler {
	return &supportHandlerImpl{
		BaseHandler: &base.BaseHandler{
			Name:    "support_handler",
			Command: "support",
			Type:    handlers.TypeCommand,
		},
		listeners: registry,
		sender:    sender,
		adminIDs:  adminIDs,
		buttons:   buttons.NewButtonBuilder(),
	}
}

// Execute регистрирует одноразовый слушатель: следующее текстовое
// сообщение пользователя уйдет в поддержку, а не в роутер
func (h *supportHandlerImpl) Execute(params handlers.HandlerParams) (handlers.HandlerResult, error) {
	user := params.User

	h.listeners.Add(params.ChatID, listenerKindSupport, func(update *telegram.Update, chatID int64, text string) {
		h.forwardTicket(chatID, user.DisplayName(), user.TelegramID, text)
	})

	return handlers.HandlerResult{
		Message: "📧 *Поддержка*\n\n" +
			"Напишите ваш вопрос одним сообщением - мы передадим его команде.\n" +
			"Любая команда отменит режим обращения.",
		Keyboard: h.buttons.CreateBackKeyboard(),
	}, nil
}

// forwardTicket пересылает обращение администраторам
func (h *supportHandlerImpl) forwardTicket(chatID int64, displayName string, telegramID int64, text string) {
	ticket := fmt.Sprintf(
		"📨 *Обращение в поддержку*\n\n*От:* %s (tg=%d)\n\n%s",
		displayName, telegramID, text,
	)

	delivered := 0
	for _, adminID := range h.adminIDs {
		if err := h.sender.SendTextMessage(adminID, ticket, nil); err != nil {
			logger.Warn("⚠️ Не удалось доставить обращение админу %d: %v", adminID, err)
			continue
		}
		delivered++
	}

	if delivered == 0 && len(h.adminIDs) > 0 {
		logger.Error("❌ Обращение tg=%d не доставлено ни одному администратору", telegramID)
	}

	reply := "✅ Ваше обращение принято. Мы ответим в ближайшее время."
	if len(h.adminIDs) == 0 {
		reply = "⚠️ Поддержка временно недоступна, попробуйте позже."
	}

	if err := h.sender.SendTextMessage(chatID, reply, h.buttons.CreateBackKeyboard()); err != nil {
		logger.Warn("⚠️ Не удалось подтвердить обращение в чат %d: %v", chatID, err)
	}
}
