// internal/infrastructure/cache/redis/cache.go
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Cache struct {
	client *redis.Client
	prefix string
}

func NewCache(addr, password string, db int) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		prefix: "dispatchbot:",
	}
}

// Ping проверяет соединение с Redis
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Set устанавливает значение в Redis с TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	fullKey := c.prefix + key

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, fullKey, data, ttl).Err()
}

// Get получает значение из Redis
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	fullKey := c.prefix + key

	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), dest)
}

// Delete удаляет ключ из Redis
func (c *Cache) Delete(ctx context.Context, key string) error {
	fullKey := c.prefix + key
	return c.client.Del(ctx, fullKey).Err()
}

// DeleteMulti удаляет несколько ключей из Redis
func (c *Cache) DeleteMulti(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = c.prefix + key
	}

	return c.client.Del(ctx, fullKeys...).Err()
}

// SetUser устанавливает пользователя в кэш
func (c *Cache) SetUser(ctx context.Context, user interface{}, userID int64, ttl time.Duration) error {
	key := fmt.Sprintf("user:%d", userID)
	return c.Set(ctx, key, user, ttl)
}

// GetUser получает пользователя из кэша
func (c *Cache) GetUser(ctx context.Context, userID int64, dest interface{}) error {
	key := fmt.Sprintf("user:%d", userID)
	return c.Get(ctx, key, dest)
}

// SetUserByTelegramID устанавливает пользователя по Telegram ID
func (c *Cache) SetUserByTelegramID(ctx context.Context, user interface{}, telegramID int64, ttl time.Duration) error {
	key := fmt.Sprintf("user:telegram:%d", telegramID)
	return c.Set(ctx, key, user, ttl)
}

// GetUserByTelegramID получает пользователя по Telegram ID
func (c *Cache) GetUserByTelegramID(ctx context.Context, telegramID int64, dest interface{}) error {
	key := fmt.Sprintf("user:telegram:%d", telegramID)
	return c.Get(ctx, key, dest)
}

// SetActiveUsers устанавливает список активных пользователей в кэш
func (c *Cache) SetActiveUsers(ctx context.Context, users interface{}, ttl time.Duration) error {
	return c.Set(ctx, "active_users", users, ttl)
}

// GetActiveUsers получает список активных пользователей из кэша
func (c *Cache) GetActiveUsers(ctx context.Context, dest interface{}) error {
	return c.Get(ctx, "active_users", dest)
}

// InvalidateUser инвалидирует все ключи пользователя
func (c *Cache) InvalidateUser(ctx context.Context, userID, telegramID int64) {
	keys := []string{"active_users"}
	if userID > 0 {
		keys = append(keys, fmt.Sprintf("user:%d", userID))
	}
	if telegramID > 0 {
		keys = append(keys, fmt.Sprintf("user:telegram:%d", telegramID))
	}
	_ = c.DeleteMulti(ctx, keys...)
}

// IsCacheMiss проверяет, является ли ошибка промахом кэша
func IsCacheMiss(err error) bool {
	return err == redis.Nil
}

// Close закрывает соединение с Redis
func (c *Cache) Close() error {
	return c.client.Close()
}
