// internal/delivery/telegram/app/bot/listeners/registry.go
package listeners

import (
	"sync"

	"telegram-dispatch-bot/internal/delivery/telegram"
	"telegram-dispatch-bot/pkg/logger"
)

// ListenerFunc - обработчик следующего свободного текста из чата
type ListenerFunc func(update *telegram.Update, chatID int64, text string)

// entry - активный слушатель чата
type entry struct {
	kind     string
	callback ListenerFunc
}

// Registry позволяет хэндлеру временно "забрать" следующее текстовое
// сообщение конкретного чата в обход командного роутинга (например,
// ожидание текста обращения в поддержку). На чат активен максимум один
// слушатель: пользователь ведёт один guided flow за раз, поэтому
// последняя регистрация побеждает.
type Registry struct {
	mu        sync.Mutex
	listeners map[int64]entry
}

// NewRegistry создает пустой реестр слушателей
func NewRegistry() *Registry {
	return &Registry{
		listeners: make(map[int64]entry),
	}
}

// Add регистрирует слушателя для чата. Существующий слушатель
// перезаписывается: это замена, а не ошибка.
func (r *Registry) Add(chatID int64, kind string, callback ListenerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.listeners[chatID]; exists {
		logger.Debug("Replacing %s listener with %s for chat %d", existing.kind, kind, chatID)
	}
	r.listeners[chatID] = entry{kind: kind, callback: callback}
	logger.Info("Added %s listener for chat %d", kind, chatID)
}

// Remove снимает слушателя. Идемпотентен: снятие отсутствующего
// слушателя - no-op.
func (r *Registry) Remove(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.listeners[chatID]; exists {
		delete(r.listeners, chatID)
		logger.Info("Removed listener for chat %d", chatID)
	}
}

// Consume атомарно забирает и снимает слушателя чата (one-shot
// потребление). Возвращает false, если слушателя нет.
func (r *Registry) Consume(chatID int64) (string, ListenerFunc, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.listeners[chatID]
	if !exists {
		return "", nil, false
	}

	delete(r.listeners, chatID)
	return e.kind, e.callback, true
}

// Has проверяет наличие активного слушателя для чата
func (r *Registry) Has(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.listeners[chatID]
	return exists
}
