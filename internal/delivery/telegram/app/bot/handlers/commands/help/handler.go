// internal/delivery/telegram/app/bot/handlers/commands/help/handler.go
package help

import (
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/buttons"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/base"
)

type helpHandlerImpl struct {
	*base.BaseHandler
	buttons *buttons.ButtonBuilder
}

// NewHandler создает новый хэндлер команды /help
func NewHandler() handlers.Handler {
	return &helpHandlerImpl{
		BaseHandler: &base.BaseHandler{
			Name:    "help_handler",
			Command: "help",
			Type:    handlers.TypeCommand,
		},
		buttons: buttons.NewButtonBuilder(),
	}
}

// Execute выполняет обработку команды /help
func (h *helpHandlerImpl) Execute(params handlers.HandlerParams) (handlers.HandlerResult, error) {
	message := "📋 *Справка*\n\n" +
		"*Команды:*\n" +
		"• /start - главное меню\n" +
		"• /commands - список команд\n" +
		"• /profile - ваш профиль и настройки\n" +
		"• /support - написать в поддержку\n\n" +
		"*Кнопки:*\n" +
		"Кнопки под сообщениями дублируют команды - пользуйтесь тем, что удобнее.\n\n" +
		"Если бот не отвечает, подождите пару секунд и повторите: защита от дублей " +
		"игнорирует слишком частые одинаковые сообщения."

	return handlers.HandlerResult{
		Message:  message,
		Keyboard: h.buttons.CreateBackKeyboard(),
	}, nil
}
