// internal/delivery/telegram/app/bot/message_sender/cache.go
package message_sender

import (
	"sync"
	"time"
)

// MessageCache кэш исходящих сообщений для предотвращения дубликатов
type MessageCache struct {
	cache    map[string]time.Time
	mu       sync.RWMutex
	cacheTTL time.Duration
	repeatIn time.Duration
}

// NewMessageCache создает новый кэш сообщений
func NewMessageCache(ttl, repeatIn time.Duration) *MessageCache {
	return &MessageCache{
		cache:    make(map[string]time.Time),
		cacheTTL: ttl,
		repeatIn: repeatIn,
	}
}

// IsDuplicate проверяет, является ли сообщение дубликатом
func (mc *MessageCache) IsDuplicate(hash string) bool {
	mc.mu.RLock()
	lastSent, exists := mc.cache[hash]
	mc.mu.RUnlock()

	if !exists {
		return false
	}

	if time.Since(lastSent) > mc.cacheTTL {
		return false
	}

	return time.Since(lastSent) < mc.repeatIn
}

// Add добавляет сообщение в кэш
func (mc *MessageCache) Add(hash string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	// Очищаем старые записи
	now := time.Now()
	for key, timestamp := range mc.cache {
		if now.Sub(timestamp) > mc.cacheTTL {
			delete(mc.cache, key)
		}
	}

	mc.cache[hash] = now
}

// Clear очищает кэш
func (mc *MessageCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.cache = make(map[string]time.Time)
}
