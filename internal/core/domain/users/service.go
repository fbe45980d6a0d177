// internal/core/domain/users/service.go
package users

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"

	"telegram-dispatch-bot/internal/infrastructure/cache/redis"
	"telegram-dispatch-bot/internal/infrastructure/persistence/postgres/models"
	users_repo "telegram-dispatch-bot/internal/infrastructure/persistence/postgres/repository/users"
	"telegram-dispatch-bot/pkg/logger"
)

// Config конфигурация сервиса
type Config struct {
	DefaultLanguage string
	DefaultTimezone string
	AdminIDs        []int64
}

// Service сервис управления пользователями
type Service struct {
	repo     users_repo.UserRepository
	sessions *redis.SessionStore
	mu       sync.RWMutex
	config   Config
}

// NewService создает новый сервис пользователей
func NewService(db *sqlx.DB, cache *redis.Cache, sessions *redis.SessionStore, config Config) *Service {
	if config.DefaultLanguage == "" {
		config.DefaultLanguage = "ru"
	}
	return &Service{
		repo:     users_repo.NewUserRepository(db, cache),
		sessions: sessions,
		config:   config,
	}
}

// NewServiceWithRepo создает сервис поверх готового репозитория (для тестов)
func NewServiceWithRepo(repo users_repo.UserRepository, sessions *redis.SessionStore, config Config) *Service {
	if config.DefaultLanguage == "" {
		config.DefaultLanguage = "ru"
	}
	return &Service{
		repo:     repo,
		sessions: sessions,
		config:   config,
	}
}

// GetOrCreateUser возвращает пользователя по Telegram ID, создавая при
// первом контакте. Второе значение true - пользователь только что создан.
func (s *Service) GetOrCreateUser(telegramID, chatID int64, username, firstName, lastName string) (*models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.repo.FindByTelegramID(telegramID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to lookup user: %w", err)
	}

	if user != nil {
		// Обновляем профиль, если он поменялся в Telegram
		if user.Username != username || user.FirstName != firstName || user.LastName != lastName || user.ChatID != chatID {
			user.Username = username
			user.FirstName = firstName
			user.LastName = lastName
			user.ChatID = chatID
			if err := s.repo.Update(user); err != nil {
				logger.Warn("⚠️ Не удалось обновить профиль пользователя %d: %v", telegramID, err)
			}
		}
		return user, false, nil
	}

	role := models.RoleUser
	for _, adminID := range s.config.AdminIDs {
		if adminID == telegramID {
			role = models.RoleAdmin
			break
		}
	}

	user = &models.User{
		TelegramID: telegramID,
		ChatID:     chatID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		Language:   s.config.DefaultLanguage,
		Role:       role,
		IsActive:   true,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("✅ Новый пользователь: %s (tg=%d)", user.DisplayName(), telegramID)
	return user, true, nil
}

// TouchSession продлевает (или создает) Redis-сессию пользователя
func (s *Service) TouchSession(ctx context.Context, user *models.User) {
	if s.sessions == nil {
		return
	}

	token, _, err := s.sessions.GetSessionByTelegramID(ctx, user.TelegramID)
	if err != nil {
		logger.Debug("Ошибка поиска сессии tg=%d: %v", user.TelegramID, err)
		return
	}

	if token == "" {
		if _, _, err := s.sessions.CreateSession(ctx, user.ID, user.TelegramID, user.Username, user.FirstName, user.Role, user.Language); err != nil {
			logger.Debug("Не удалось создать сессию tg=%d: %v", user.TelegramID, err)
		}
		return
	}

	if err := s.sessions.TouchSession(ctx, token); err != nil {
		logger.Debug("Не удалось продлить сессию tg=%d: %v", user.TelegramID, err)
	}
}

// SetLanguage меняет язык пользователя
func (s *Service) SetLanguage(telegramID int64, language string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.repo.FindByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", telegramID)
	}

	user.Language = language
	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	return user, nil
}

// TouchLastSeen обновляет время последней активности
func (s *Service) TouchLastSeen(telegramID int64) {
	if err := s.repo.TouchLastSeen(telegramID); err != nil {
		logger.Debug("Не удалось обновить last_seen tg=%d: %v", telegramID, err)
	}
}

// ActiveUsers возвращает всех активных пользователей
func (s *Service) ActiveUsers() ([]*models.User, error) {
	return s.repo.GetAllActive()
}

// TotalCount возвращает общее число пользователей
func (s *Service) TotalCount(ctx context.Context) (int, error) {
	return s.repo.GetTotalCount(ctx)
}
