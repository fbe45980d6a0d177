package users

import (
	"context"
	"sync"
	"testing"

	"telegram-dispatch-bot/internal/infrastructure/persistence/postgres/models"
)

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	byTG   map[int64]*models.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byTG: make(map[int64]*models.User)}
}

func (m *memoryRepo) FindByID(id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byTG {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) FindByTelegramID(telegramID int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byTG[telegramID]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryRepo) Create(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.nextID
	m.nextID++
	copied := *user
	m.byTG[user.TelegramID] = &copied
	return nil
}

func (m *memoryRepo) Update(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.byTG[user.TelegramID] = &copied
	return nil
}

func (m *memoryRepo) Delete(id int64) error                { return nil }
func (m *memoryRepo) TouchLastSeen(telegramID int64) error { return nil }

func (m *memoryRepo) GetAllActive() ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, u := range m.byTG {
		if u.IsActive {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetTotalCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byTG), nil
}

func TestGetOrCreateUserFirstContact(t *testing.T) {
	svc := NewServiceWithRepo(newMemoryRepo(), nil, Config{
		DefaultLanguage: "ru",
		AdminIDs:        []int64{999},
	})

	user, created, err := svc.GetOrCreateUser(42, 42, "ivan", "Иван", "Петров")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("first contact must report created=true")
	}
	if user.Language != "ru" {
		t.Fatalf("language = %q, want default ru", user.Language)
	}
	if user.Role != models.RoleUser {
		t.Fatalf("role = %q, want user", user.Role)
	}
	if !user.IsActive {
		t.Fatalf("new user must be active")
	}

	// Повторный вход - тот же пользователь
	again, created, err := svc.GetOrCreateUser(42, 42, "ivan", "Иван", "Петров")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("second contact must report created=false")
	}
	if again.ID != user.ID {
		t.Fatalf("user id changed between contacts: %d -> %d", user.ID, again.ID)
	}
}

func TestGetOrCreateUserAdminRole(t *testing.T) {
	svc := NewServiceWithRepo(newMemoryRepo(), nil, Config{AdminIDs: []int64{999}})

	admin, _, err := svc.GetOrCreateUser(999, 999, "root", "Админ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Fatalf("role = %q, want admin", admin.Role)
	}
	if !admin.IsAdmin() {
		t.Fatalf("IsAdmin must be true for admin role")
	}
}

func TestGetOrCreateUserRefreshesProfile(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewServiceWithRepo(repo, nil, Config{})

	svc.GetOrCreateUser(7, 7, "old", "Старое", "")
	user, _, err := svc.GetOrCreateUser(7, 7, "new", "Новое", "Имя")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Username != "new" || user.FirstName != "Новое" {
		t.Fatalf("profile not refreshed: %+v", user)
	}

	stored, _ := repo.FindByTelegramID(7)
	if stored.Username != "new" {
		t.Fatalf("refreshed profile not persisted")
	}
}

func TestSetLanguage(t *testing.T) {
	svc := NewServiceWithRepo(newMemoryRepo(), nil, Config{DefaultLanguage: "ru"})

	svc.GetOrCreateUser(5, 5, "", "Тест", "")

	user, err := svc.SetLanguage(5, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Language != "en" {
		t.Fatalf("language = %q, want en", user.Language)
	}

	if _, err := svc.SetLanguage(404, "en"); err == nil {
		t.Fatalf("unknown user must error")
	}
}
