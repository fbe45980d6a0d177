// internal/delivery/telegram/app/bot/handlers/callbacks/menu_main/handler.go
package menu_main

import (
	"fmt"

	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/buttons"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/constants"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/base"
)

type menuMainHandlerImpl struct {
	*base.BaseHandler
	buttons *buttons.ButtonBuilder
}

// NewHandler создает хэндлер callback'а menu_main
func NewHandler() handlers.Handler {
	return &menuMainHandlerImpl{
		BaseHandler: &base.BaseHandler{
			Name:    "menu_main_handler",
			Command: constants.CallbackMenuMain,
			Type:    handlers.TypeCallback,
		},
		buttons: buttons.NewButtonBuilder(),
	}
}

// Execute показывает главное меню
func (h *menuMainHandlerImpl) Execute(params handlers.HandlerParams) (handlers.HandlerResult, error) {
	message := fmt.Sprintf(
		"🏠 *Главное меню*\n\nПривет, %s! Выберите раздел 👇",
		params.User.DisplayName(),
	)

	return handlers.HandlerResult{
		Message:  message,
		Keyboard: h.buttons.CreateMainMenuKeyboard(),
	}, nil
}
