// internal/infrastructure/persistence/postgres/repository/users/repository.go
package users

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"telegram-dispatch-bot/internal/infrastructure/cache/redis"
	"telegram-dispatch-bot/internal/infrastructure/persistence/postgres/models"
	"telegram-dispatch-bot/pkg/logger"
)

const userCacheTTL = 1 * time.Hour

// UserRepository интерфейс для работы с данными пользователей
type UserRepository interface {
	FindByID(id int64) (*models.User, error)
	FindByTelegramID(telegramID int64) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id int64) error
	TouchLastSeen(telegramID int64) error
	GetAllActive() ([]*models.User, error)
	GetTotalCount(ctx context.Context) (int, error)
}

// UserRepositoryImpl реализация репозитория пользователей
type UserRepositoryImpl struct {
	db    *sqlx.DB
	cache *redis.Cache
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *sqlx.DB, cache *redis.Cache) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db, cache: cache}
}

const userColumns = `
	id, telegram_id, username, first_name, last_name, chat_id,
	language, role, is_active,
	created_at, updated_at, last_seen_at
`

// FindByID находит пользователя по ID
func (r *UserRepositoryImpl) FindByID(id int64) (*models.User, error) {
	if r.cache != nil {
		var cached models.User
		if err := r.cache.GetUser(context.Background(), id, &cached); err == nil {
			return &cached, nil
		}
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	err := r.db.Get(&user, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}

	r.cacheUser(&user)
	return &user, nil
}

// FindByTelegramID находит пользователя по Telegram ID
func (r *UserRepositoryImpl) FindByTelegramID(telegramID int64) (*models.User, error) {
	if r.cache != nil {
		var cached models.User
		if err := r.cache.GetUserByTelegramID(context.Background(), telegramID, &cached); err == nil {
			return &cached, nil
		}
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	var user models.User
	err := r.db.Get(&user, query, telegramID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by telegram id: %w", err)
	}

	r.cacheUser(&user)
	return &user, nil
}

// Create создает нового пользователя
func (r *UserRepositoryImpl) Create(user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.LastSeenAt = now

	query := `
		INSERT INTO users (
			telegram_id, username, first_name, last_name, chat_id,
			language, role, is_active,
			created_at, updated_at, last_seen_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		user.TelegramID, user.Username, user.FirstName, user.LastName, user.ChatID,
		user.Language, user.Role, user.IsActive,
		user.CreatedAt, user.UpdatedAt, user.LastSeenAt,
	).Scan(&user.ID)

	if err != nil {
		// Гонка двух апдейтов одного пользователя: запись уже есть
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			existing, findErr := r.FindByTelegramID(user.TelegramID)
			if findErr == nil && existing != nil {
				*user = *existing
				return nil
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.invalidateUserCache(user.ID, user.TelegramID)
	return nil
}

// Update обновляет пользователя
func (r *UserRepositoryImpl) Update(user *models.User) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users SET
			username = $1,
			first_name = $2,
			last_name = $3,
			chat_id = $4,
			language = $5,
			role = $6,
			is_active = $7,
			updated_at = $8,
			last_seen_at = $9
		WHERE id = $10
	`

	result, err := r.db.Exec(query,
		user.Username, user.FirstName, user.LastName, user.ChatID,
		user.Language, user.Role, user.IsActive,
		user.UpdatedAt, user.LastSeenAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	r.invalidateUserCache(user.ID, user.TelegramID)
	return nil
}

// Delete удаляет пользователя
func (r *UserRepositoryImpl) Delete(id int64) error {
	user, err := r.FindByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return sql.ErrNoRows
	}

	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	r.invalidateUserCache(user.ID, user.TelegramID)
	return nil
}

// TouchLastSeen обновляет время последней активности
func (r *UserRepositoryImpl) TouchLastSeen(telegramID int64) error {
	query := `
		UPDATE users
		SET last_seen_at = NOW(),
			updated_at = NOW()
		WHERE telegram_id = $1
	`

	result, err := r.db.Exec(query, telegramID)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// GetAllActive получает всех активных пользователей
func (r *UserRepositoryImpl) GetAllActive() ([]*models.User, error) {
	if r.cache != nil {
		var cached []*models.User
		if err := r.cache.GetActiveUsers(context.Background(), &cached); err == nil {
			return cached, nil
		}
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active = TRUE
		ORDER BY created_at DESC
	`

	var userList []*models.User
	if err := r.db.Select(&userList, query); err != nil {
		return nil, fmt.Errorf("failed to load active users: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.SetActiveUsers(context.Background(), userList, 5*time.Minute); err != nil {
			logger.Debug("Не удалось закэшировать активных пользователей: %v", err)
		}
	}

	return userList, nil
}

// GetTotalCount возвращает общее количество пользователей
func (r *UserRepositoryImpl) GetTotalCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Вспомогательные методы

func (r *UserRepositoryImpl) cacheUser(user *models.User) {
	if r.cache == nil {
		return
	}
	ctx := context.Background()
	if err := r.cache.SetUser(ctx, user, user.ID, userCacheTTL); err != nil {
		logger.Debug("Ошибка кэширования пользователя %d: %v", user.ID, err)
	}
	if err := r.cache.SetUserByTelegramID(ctx, user, user.TelegramID, userCacheTTL); err != nil {
		logger.Debug("Ошибка кэширования пользователя tg=%d: %v", user.TelegramID, err)
	}
}

func (r *UserRepositoryImpl) invalidateUserCache(userID, telegramID int64) {
	if r.cache == nil {
		return
	}
	r.cache.InvalidateUser(context.Background(), userID, telegramID)
}

var _ UserRepository = (*UserRepositoryImpl)(nil)
