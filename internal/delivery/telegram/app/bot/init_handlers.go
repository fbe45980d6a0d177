// internal/delivery/telegram/app/bot/init_handlers.go
package bot

import (
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/constants"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/callbacks/lang_select"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/callbacks/menu_main"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/callbacks/profile_main"
	commands_handler "telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/commands/commands"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/commands/help"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/commands/profile"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/commands/start"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/commands/support"
	"telegram-dispatch-bot/pkg/logger"
)

// registerHandlers регистрирует все хэндлеры команд и callback'ов
func (b *TelegramBot) registerHandlers(deps *Dependencies) {
	// Команды
	b.router.RegisterHandler(start.NewHandler())
	helpHandler := help.NewHandler()
	b.router.RegisterHandler(helpHandler)
	b.router.RegisterHandler(commands_handler.NewHandler())
	b.router.RegisterHandler(profile.NewHandler())

	supportHandler := support.NewHandler(b.listeners, b.messageSender, b.config.Telegram.AdminIDs)
	b.router.RegisterHandler(supportHandler)

	// Callback'и
	b.router.RegisterCallback(constants.CallbackMenuMain, menu_main.NewHandler())
	b.router.RegisterCallback(constants.CallbackProfileMain, profile_main.NewHandler())
	// help и support из кнопок ведут на те же хэндлеры, что и команды
	b.router.RegisterCallback(constants.CallbackHelp, helpHandler)
	b.router.RegisterCallback(constants.CallbackSupport, supportHandler)

	// Префиксные callback'и
	b.router.RegisterPrefix(constants.CallbackLangPrefix, lang_select.NewHandler(deps.UserService))

	logger.Info("✅ Зарегистрировано хэндлеров: %d", len(b.router.GetCommands()))
}
