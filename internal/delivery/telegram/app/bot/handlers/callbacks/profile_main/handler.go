// internal/delivery/telegram/app/bot/handlers/callbacks/profile_main/handler.go
package profile_main

import (
	"fmt"

	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/buttons"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/constants"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/base"
)

type profileMainHandlerImpl struct {
	*base.BaseHandler
	buttons *buttons.ButtonBuilder
}

// NewHandler создает хэндлер callback'а profile_main
func NewHandler() handlers.Handler {
	return &profileMainHandlerImpl{
		BaseHandler: &base.BaseHandler{
			Name:    "profile_main_handler",
			Command: constants.CallbackProfileMain,
			Type:    handlers.TypeCallback,
		},
		buttons: buttons.NewButtonBuilder(),
	}
}

// Execute показывает карточку профиля из callback'а
func (h *profileMainHandlerImpl) Execute(params handlers.HandlerParams) (handlers.HandlerResult, error) {
	user := params.User

	message := fmt.Sprintf(
		"👤 *Ваш профиль*\n\n"+
			"*Имя:* %s\n"+
			"*Роль:* %s\n"+
			"*Язык:* %s\n"+
			"*Статус:* %s\n\n"+
			"Сменить язык можно кнопками ниже 👇",
		user.DisplayName(),
		h.GetRoleDisplay(user.Role),
		h.GetLanguageDisplay(user.Language),
		h.GetStatusDisplay(user.IsActive),
	)

	return handlers.HandlerResult{
		Message:  message,
		Keyboard: h.buttons.CreateProfileKeyboard(),
	}, nil
}
