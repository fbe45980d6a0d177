// internal/delivery/telegram/app/bot/handlers/router/interface.go
package router

import "telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"

// Router интерфейс маршрутизатора хэндлеров
type Router interface {
	RegisterHandler(handler handlers.Handler)                          // автоматическая регистрация
	RegisterCommand(command string, handler handlers.Handler)          // явная регистрация команды
	RegisterCallback(callback string, handler handlers.Handler)        // явная регистрация callback
	RegisterPrefix(prefix string, handler handlers.Handler)            // callback с динамическим суффиксом
	Handle(key string, params handlers.HandlerParams) (handlers.HandlerResult, error)
	GetHandler(key string) (handlers.Handler, bool)
	GetCommands() []string
}
