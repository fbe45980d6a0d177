// internal/delivery/telegram/app/bot/handlers/callbacks/lang_select/handler.go
package lang_select

import (
	"fmt"
	"strings"

	"telegram-dispatch-bot/internal/core/domain/users"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/buttons"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/constants"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/base"
	"telegram-dispatch-bot/pkg/logger"
)

// Поддерживаемые языки
var supportedLanguages = map[string]string{
	"ru": "🇷🇺 Русский",
	"en": "🇬🇧 English",
}

// langSelectHandlerImpl - префиксный хэндлер callback'ов lang_<code>
type langSelectHandlerImpl struct {
	*base.BaseHandler
	userService *users.Service
	buttons     *buttons.ButtonBuilder
}

// NewHandler создает хэндлер выбора языка
func NewHandler(userService *users.Service) handlers.Handler {
	return &langSelectHandlerImpl{
		BaseHandler: &base.BaseHandler{
			Name:    "lang_select_handler",
			Command: constants.CallbackLangPrefix,
			Type:    handlers.TypeCallback,
		},
		userService: userService,
		buttons:     buttons.NewButtonBuilder(),
	}
}

// Execute применяет язык из суффикса callback'а (lang_ru -> ru)
func (h *langSelectHandlerImpl) Execute(params handlers.HandlerParams) (handlers.HandlerResult, error) {
	code := strings.TrimPrefix(params.Data, constants.CallbackLangPrefix)

	display, ok := supportedLanguages[code]
	if !ok {
		logger.Warn("⚠️ Неизвестный код языка в callback: %s", params.Data)
		return handlers.HandlerResult{
			Message:  fmt.Sprintf("⚠️ Язык `%s` не поддерживается", code),
			Keyboard: h.buttons.CreateProfileKeyboard(),
		}, nil
	}

	user, err := h.userService.SetLanguage(params.User.TelegramID, code)
	if err != nil {
		return handlers.HandlerResult{}, fmt.Errorf("не удалось сменить язык: %w", err)
	}

	logger.Info("✅ Пользователь %d сменил язык на %s", user.TelegramID, code)

	return handlers.HandlerResult{
		Message:  fmt.Sprintf("✅ Язык изменен: %s", display),
		Keyboard: h.buttons.CreateBackKeyboard(),
	}, nil
}
