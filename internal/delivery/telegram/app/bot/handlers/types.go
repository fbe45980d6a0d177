// internal/delivery/telegram/app/bot/handlers/types.go
package handlers

import "telegram-dispatch-bot/internal/infrastructure/persistence/postgres/models"

// HandlerType тип хэндлера
type HandlerType string

const (
	TypeCommand  HandlerType = "command"
	TypeCallback HandlerType = "callback"
)

// Handler интерфейс для всех хэндлеров
type Handler interface {
	Execute(params HandlerParams) (HandlerResult, error)
	GetName() string
	GetCommand() string // Может быть и командой и callback'ом
	GetType() HandlerType
}

// HandlerParams базовые параметры для всех хэндлеров
type HandlerParams struct {
	User     *models.User
	ChatID   int64
	Text     string // текст сообщения
	Data     string // для callback данных
	UpdateID int64  // ID обновления
	IsAdmin  bool
}

// HandlerResult базовый результат хэндлера
type HandlerResult struct {
	Message  string                 `json:"message"`
	Keyboard interface{}            `json:"keyboard,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
