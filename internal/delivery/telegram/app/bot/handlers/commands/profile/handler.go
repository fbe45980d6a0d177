// internal/delivery/telegram/app/bot/handlers/commands/profile/handler.go
package profile

import (
	"fmt"

	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/buttons"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/base"
	"telegram-dispatch-bot/internal/infrastructure/persistence/postgres/models"
)

type profileHandlerImpl struct {
	*base.BaseHandler
	buttons *buttons.ButtonBuilder
}

// NewHandler создает новый хэндлер команды /profile
func NewHandler() handlers.Handler {
	return &profileHandlerImpl{
		BaseHandler: &base.BaseHandler{
			Name:    "profile_handler",
			Command: "profile",
			Type:    handlers.TypeCommand,
		},
		buttons: buttons.NewButtonBuilder(),
	}
}

// Execute выполняет обработку команды /profile
func (h *profileHandlerImpl) Execute(params handlers.HandlerParams) (handlers.HandlerResult, error) {
	return handlers.HandlerResult{
		Message:  h.formatProfile(params.User),
		Keyboard: h.buttons.CreateProfileKeyboard(),
	}, nil
}

// formatProfile формирует карточку профиля
func (h *profileHandlerImpl) formatProfile(user *models.User) string {
	return fmt.Sprintf(
		"👤 *Ваш профиль*\n\n"+
			"*Имя:* %s\n"+
			"*Роль:* %s\n"+
			"*Язык:* %s\n"+
			"*Статус:* %s\n"+
			"*С нами с:* %s\n\n"+
			"Сменить язык можно кнопками ниже 👇",
		user.DisplayName(),
		h.GetRoleDisplay(user.Role),
		h.GetLanguageDisplay(user.Language),
		h.GetStatusDisplay(user.IsActive),
		user.CreatedAt.Format("02.01.2006"),
	)
}
