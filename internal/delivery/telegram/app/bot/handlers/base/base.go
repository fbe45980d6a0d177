// internal/delivery/telegram/app/bot/handlers/base/base.go
package base

import (
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/infrastructure/persistence/postgres/models"
)

// BaseHandler базовая структура для всех хэндлеров
type BaseHandler struct {
	Name    string
	Command string
	Type    handlers.HandlerType
}

// GetName возвращает имя хэндлера
func (h *BaseHandler) GetName() string {
	return h.Name
}

// GetCommand возвращает команду/callback
func (h *BaseHandler) GetCommand() string {
	return h.Command
}

// GetType возвращает тип хэндлера
func (h *BaseHandler) GetType() handlers.HandlerType {
	return h.Type
}

// GetRoleDisplay возвращает отображаемое имя роли
func (h *BaseHandler) GetRoleDisplay(role string) string {
	switch role {
	case models.RoleAdmin:
		return "👑 Администратор"
	case models.RoleUser:
		return "👤 Пользователь"
	default:
		return role
	}
}

// GetLanguageDisplay возвращает отображаемое имя языка
func (h *BaseHandler) GetLanguageDisplay(language string) string {
	switch language {
	case "ru":
		return "🇷🇺 Русский"
	case "en":
		return "🇬🇧 English"
	default:
		return language
	}
}

// GetStatusDisplay возвращает отображение статуса
func (h *BaseHandler) GetStatusDisplay(isActive bool) string {
	if isActive {
		return "✅ Активен"
	}
	return "❌ Деактивирован"
}
