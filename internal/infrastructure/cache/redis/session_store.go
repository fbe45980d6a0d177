// internal/infrastructure/cache/redis/session_store.go
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// SessionStore управляет сессиями пользователей в Redis
type SessionStore struct {
	client     *redis.Client
	prefix     string
	sessionTTL time.Duration
}

// SessionData структура данных сессии
type SessionData struct {
	UserID       int64     `json:"user_id"`
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	Role         string    `json:"role"`
	Language     string    `json:"language"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewSessionStore создает новое хранилище сессий
func NewSessionStore(addr, password string, db int, sessionTTL time.Duration) *SessionStore {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &SessionStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		prefix:     "session:",
		sessionTTL: sessionTTL,
	}
}

// CreateSession создает новую сессию и возвращает токен
func (s *SessionStore) CreateSession(ctx context.Context, userID, telegramID int64, username, firstName, role, language string) (string, *SessionData, error) {
	token := uuid.NewString()

	now := time.Now()
	sessionData := &SessionData{
		UserID:       userID,
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		Role:         role,
		Language:     language,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(s.sessionTTL),
	}

	if err := s.saveSession(ctx, token, sessionData); err != nil {
		return "", nil, fmt.Errorf("failed to save session: %w", err)
	}

	// Связь telegram_id -> токен, чтобы находить сессию без токена
	if err := s.client.Set(ctx, s.userKey(telegramID), token, s.sessionTTL).Err(); err != nil {
		_ = s.DeleteSession(ctx, token)
		return "", nil, fmt.Errorf("failed to link user to session: %w", err)
	}

	return token, sessionData, nil
}

// GetSession получает данные сессии по токену
func (s *SessionStore) GetSession(ctx context.Context, token string) (*SessionData, error) {
	data, err := s.client.Get(ctx, s.prefix+token).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sessionData SessionData
	if err := json.Unmarshal([]byte(data), &sessionData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sessionData, nil
}

// GetSessionByTelegramID находит сессию по telegram_id
func (s *SessionStore) GetSessionByTelegramID(ctx context.Context, telegramID int64) (string, *SessionData, error) {
	token, err := s.client.Get(ctx, s.userKey(telegramID)).Result()
	if err == redis.Nil {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	sessionData, err := s.GetSession(ctx, token)
	if err != nil {
		return "", nil, err
	}
	if sessionData == nil {
		// Токен устарел, связь осталась
		_ = s.client.Del(ctx, s.userKey(telegramID)).Err()
		return "", nil, nil
	}

	return token, sessionData, nil
}

// TouchSession продлевает сессию и обновляет время активности
func (s *SessionStore) TouchSession(ctx context.Context, token string) error {
	sessionData, err := s.GetSession(ctx, token)
	if err != nil {
		return err
	}
	if sessionData == nil {
		return fmt.Errorf("session not found")
	}

	now := time.Now()
	sessionData.LastActivity = now
	sessionData.ExpiresAt = now.Add(s.sessionTTL)

	if err := s.saveSession(ctx, token, sessionData); err != nil {
		return err
	}

	return s.client.Expire(ctx, s.userKey(sessionData.TelegramID), s.sessionTTL).Err()
}

// DeleteSession удаляет сессию
func (s *SessionStore) DeleteSession(ctx context.Context, token string) error {
	sessionData, err := s.GetSession(ctx, token)
	if err != nil {
		return err
	}

	keys := []string{s.prefix + token}
	if sessionData != nil {
		keys = append(keys, s.userKey(sessionData.TelegramID))
	}

	return s.client.Del(ctx, keys...).Err()
}

// Close закрывает соединение с Redis
func (s *SessionStore) Close() error {
	return s.client.Close()
}

func (s *SessionStore) saveSession(ctx context.Context, token string, data *SessionData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+token, payload, s.sessionTTL).Err()
}

func (s *SessionStore) userKey(telegramID int64) string {
	return fmt.Sprintf("%suser:%d", s.prefix, telegramID)
}
