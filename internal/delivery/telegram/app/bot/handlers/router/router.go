// internal/delivery/telegram/app/bot/handlers/router/router.go
package router

import (
	"errors"
	"fmt"
	"strings"

	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/pkg/logger"
)

// ErrNoHandler - для ключа не нашлось ни точного, ни префиксного
// совпадения. Вызывающий отвечает пользователю "неизвестная команда".
var ErrNoHandler = errors.New("хэндлер не найден")

// prefixMatcher - префиксное правило для callback'ов с динамическим
// суффиксом (например lang_<code>), которые нельзя зарегистрировать
// точным ключом
type prefixMatcher struct {
	prefix  string
	handler handlers.Handler
}

// routerImpl реализация Router. Порядок матчинга явный и проверяемый:
// сначала точные ключи, затем префиксные правила в порядке регистрации.
type routerImpl struct {
	exact    map[string]handlers.Handler
	prefixes []prefixMatcher
}

// NewRouter создает новый роутер
func NewRouter() Router {
	return &routerImpl{
		exact: make(map[string]handlers.Handler),
	}
}

// RegisterHandler регистрирует хэндлер (использует GetCommand())
func (r *routerImpl) RegisterHandler(handler handlers.Handler) {
	command := handler.GetCommand()

	// Для команд добавляем префикс /
	if handler.GetType() == handlers.TypeCommand && command[0] != '/' {
		command = "/" + command
	}

	r.exact[command] = handler
	logger.Debug("Зарегистрирован хэндлер: %s для %s: %s",
		handler.GetName(), handler.GetType(), command)
}

// RegisterCommand регистрирует команду (явно указываем команду с /)
func (r *routerImpl) RegisterCommand(command string, handler handlers.Handler) {
	if command[0] != '/' {
		command = "/" + command
	}
	r.exact[command] = handler
	logger.Debug("Зарегистрирована команда: %s → %s", command, handler.GetName())
}

// RegisterCallback регистрирует callback (без префикса /)
func (r *routerImpl) RegisterCallback(callback string, handler handlers.Handler) {
	if len(callback) > 0 && callback[0] == '/' {
		callback = callback[1:]
	}
	r.exact[callback] = handler
	logger.Debug("Зарегистрирован callback: %s → %s", callback, handler.GetName())
}

// RegisterPrefix регистрирует префиксное правило. Правила проверяются
// после точных ключей, в порядке регистрации.
func (r *routerImpl) RegisterPrefix(prefix string, handler handlers.Handler) {
	r.prefixes = append(r.prefixes, prefixMatcher{prefix: prefix, handler: handler})
	logger.Debug("Зарегистрирован префикс: %s* → %s", prefix, handler.GetName())
}

// Handle обрабатывает команду/callback: точное совпадение, затем
// префиксные правила, затем ErrNoHandler
func (r *routerImpl) Handle(key string, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	if handler, exists := r.exact[key]; exists {
		return r.executeHandler(handler, key, params)
	}

	// Команды с аргументами: "/start ref123" матчится на "/start"
	if strings.HasPrefix(key, "/") {
		if idx := strings.IndexByte(key, ' '); idx > 0 {
			if handler, exists := r.exact[key[:idx]]; exists {
				return r.executeHandler(handler, key, params)
			}
		}
	}

	// Префиксные правила: callback'и с динамическим суффиксом
	for _, m := range r.prefixes {
		if strings.HasPrefix(key, m.prefix) {
			params.Data = key
			logger.Debug("Перенаправление по префиксу '%s' в %s", key, m.handler.GetName())
			return r.executeHandler(m.handler, key, params)
		}
	}

	return handlers.HandlerResult{}, fmt.Errorf("%w: '%s'", ErrNoHandler, key)
}

// executeHandler выполняет обработчик
func (r *routerImpl) executeHandler(handler handlers.Handler, key string, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	logger.Debug("Вызов хэндлера: %s для: %s", handler.GetName(), key)

	result, err := handler.Execute(params)
	if err != nil {
		logger.Error("Ошибка в хэндлере %s для %s: %v", handler.GetName(), key, err)
		return handlers.HandlerResult{}, err
	}

	logger.Debug("Хэндлер %s для %s выполнен успешно", handler.GetName(), key)
	return result, nil
}

// GetHandler возвращает хэндлер по точному ключу
func (r *routerImpl) GetHandler(key string) (handlers.Handler, bool) {
	handler, exists := r.exact[key]
	return handler, exists
}

// GetCommands возвращает список всех зарегистрированных ключей
func (r *routerImpl) GetCommands() []string {
	commands := make([]string, 0, len(r.exact))
	for cmd := range r.exact {
		commands = append(commands, cmd)
	}
	return commands
}

var _ Router = (*routerImpl)(nil)
