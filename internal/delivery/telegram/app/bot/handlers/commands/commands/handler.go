// internal/delivery/telegram/app/bot/handlers/commands/commands/handler.go
package commands

import (
	"fmt"
	"strings"

	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/buttons"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/constants"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/base"
)

type commandsHandlerImpl struct {
	*base.BaseHandler
	buttons *buttons.ButtonBuilder
}

// NewHandler создает новый хэндлер команды /commands
func NewHandler() handlers.Handler {
	return &commandsHandlerImpl{
		BaseHandler: &base.BaseHandler{
			Name:    "commands_handler",
			Command: "commands",
			Type:    handlers.TypeCommand,
		},
		buttons: buttons.NewButtonBuilder(),
	}
}

// Execute выполняет обработку команды /commands
func (h *commandsHandlerImpl) Execute(params handlers.HandlerParams) (handlers.HandlerResult, error) {
	var sb strings.Builder
	sb.WriteString("📜 *Список команд*\n\n")
	for _, cmd := range constants.CommandDescriptions {
		sb.WriteString(fmt.Sprintf("/%s - %s\n", cmd.Command, cmd.Description))
	}

	if params.IsAdmin {
		sb.WriteString("\n*Для администраторов:*\n")
		sb.WriteString("`announce <текст>` - рассылка всем активным пользователям\n")
	}

	return handlers.HandlerResult{
		Message:  sb.String(),
		Keyboard: h.buttons.CreateBackKeyboard(),
	}, nil
}
