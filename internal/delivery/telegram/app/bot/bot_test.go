package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"telegram-dispatch-bot/internal/core/domain/users"
	"telegram-dispatch-bot/internal/delivery/telegram"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers/base"
	"telegram-dispatch-bot/internal/infrastructure/config"
	"telegram-dispatch-bot/internal/infrastructure/persistence/postgres/models"
)

// fakeUserRepo - репозиторий пользователей в памяти
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byTG   map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, byTG: make(map[int64]*models.User)}
}

func (f *fakeUserRepo) FindByID(id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byTG {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByTelegramID(telegramID int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byTG[telegramID]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.byTG[user.TelegramID] = &copied
	return nil
}

func (f *fakeUserRepo) Update(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.byTG[user.TelegramID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(id int64) error { return nil }

func (f *fakeUserRepo) TouchLastSeen(telegramID int64) error { return nil }

func (f *fakeUserRepo) GetAllActive() ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.byTG {
		if u.IsActive {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetTotalCount(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byTG), nil
}

// apiRecorder считает запросы к фейковому Telegram API по методам
type apiRecorder struct {
	mu    sync.Mutex
	calls map[string]int
}

func (a *apiRecorder) count(method string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[method]
}

func newTestBot(t *testing.T) (*TelegramBot, *fakeUserRepo, *apiRecorder) {
	t.Helper()

	rec := &apiRecorder{calls: make(map[string]int)}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.calls[r.URL.Path] = rec.calls[r.URL.Path] + 1
		rec.mu.Unlock()

		if r.URL.Path == "/bot123/getUpdates" {
			w.Write([]byte(`{"ok":true,"result":[]}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Telegram = config.TelegramConfig{
		BotToken:     "123",
		Enabled:      true,
		APIBaseURL:   server.URL,
		PollTimeout:  1,
		PollLimit:    10,
		PollInterval: 10 * time.Millisecond,
		AdminIDs:     []int64{999},
	}

	repo := newFakeUserRepo()
	userService := users.NewServiceWithRepo(repo, nil, users.Config{
		DefaultLanguage: "ru",
		AdminIDs:        cfg.Telegram.AdminIDs,
	})

	telegramBot := NewTelegramBot(cfg, &Dependencies{UserService: userService})
	return telegramBot, repo, rec
}

type countingHandler struct {
	*base.BaseHandler
	calls int
	panic bool
}

func (h *countingHandler) Execute(params handlers.HandlerParams) (handlers.HandlerResult, error) {
	h.calls++
	if h.panic {
		panic("boom")
	}
	return handlers.HandlerResult{Message: "pong"}, nil
}

func messageUpdate(updateID, senderID int64, text string, date int64) *telegram.Update {
	return &telegram.Update{
		UpdateID: updateID,
		Message: &telegram.Message{
			MessageID: updateID,
			From:      telegram.User{ID: senderID, FirstName: "Тест"},
			Chat:      telegram.Chat{ID: senderID},
			Date:      date,
			Text:      text,
		},
	}
}

func TestHandleUpdateDeduplicatesByUpdateID(t *testing.T) {
	bot, _, _ := newTestBot(t)

	ping := &countingHandler{BaseHandler: &base.BaseHandler{Name: "ping", Command: "ping", Type: handlers.TypeCommand}}
	bot.GetRouter().RegisterHandler(ping)

	update := messageUpdate(100, 10, "/ping", 1000)

	if err := bot.HandleUpdate(update); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	if err := bot.HandleUpdate(update); err != nil {
		t.Fatalf("redelivery must be swallowed: %v", err)
	}

	if ping.calls != 1 {
		t.Fatalf("handler invoked %d times for redelivered update, want 1", ping.calls)
	}
}

func TestListenerConsumesNextPlainMessage(t *testing.T) {
	bot, _, _ := newTestBot(t)

	ping := &countingHandler{BaseHandler: &base.BaseHandler{Name: "ping", Command: "ping", Type: handlers.TypeCommand}}
	bot.GetRouter().RegisterHandler(ping)

	var captured string
	bot.GetListeners().Add(555, "support_ticket", func(update *telegram.Update, chatID int64, text string) {
		captured = text
	})

	if err := bot.HandleUpdate(messageUpdate(1, 555, "мой вопрос", 1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured != "мой вопрос" {
		t.Fatalf("listener did not receive message, captured %q", captured)
	}
	if bot.GetListeners().Has(555) {
		t.Fatalf("listener must be one-shot")
	}

	// Следующее сообщение уходит обычным путем
	if err := bot.HandleUpdate(messageUpdate(2, 555, "/ping", 1010)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ping.calls != 1 {
		t.Fatalf("router must handle message after listener consumed, calls=%d", ping.calls)
	}
}

func TestCommandCancelsListener(t *testing.T) {
	bot, _, _ := newTestBot(t)

	ping := &countingHandler{BaseHandler: &base.BaseHandler{Name: "ping", Command: "ping", Type: handlers.TypeCommand}}
	bot.GetRouter().RegisterHandler(ping)

	invoked := false
	bot.GetListeners().Add(555, "support_ticket", func(update *telegram.Update, chatID int64, text string) {
		invoked = true
	})

	if err := bot.HandleUpdate(messageUpdate(1, 555, "/ping", 1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if invoked {
		t.Fatalf("command must not be fed to listener")
	}
	if bot.GetListeners().Has(555) {
		t.Fatalf("command must cancel pending listener")
	}
	if ping.calls != 1 {
		t.Fatalf("command must be routed, calls=%d", ping.calls)
	}
}

func TestCallbackIsAnsweredEvenWhenDuplicate(t *testing.T) {
	bot, _, rec := newTestBot(t)

	update := &telegram.Update{
		UpdateID: 1,
		CallbackQuery: &telegram.CallbackQuery{
			ID:   "cb-1",
			From: telegram.User{ID: 10, FirstName: "Тест"},
			Message: &telegram.Message{
				MessageID: 5,
				Chat:      telegram.Chat{ID: 10},
			},
			Data: "menu_main",
		},
	}

	if err := bot.HandleUpdate(update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Повторная доставка того же callback'а под другим update_id
	dup := *update
	dup.UpdateID = 2
	if err := bot.HandleUpdate(&dup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := rec.count("/bot123/answerCallbackQuery"); got != 2 {
		t.Fatalf("answerCallbackQuery calls = %d, want 2 (dupes answered too)", got)
	}
	// Но меню отправлено только один раз
	if got := rec.count("/bot123/sendMessage"); got != 1 {
		t.Fatalf("sendMessage calls = %d, want 1", got)
	}
}

func TestDispatcherOffsetAdvancesPastFailures(t *testing.T) {
	bot, _, _ := newTestBot(t)

	boom := &countingHandler{
		BaseHandler: &base.BaseHandler{Name: "boom", Command: "boom", Type: handlers.TypeCommand},
		panic:       true,
	}
	bot.GetRouter().RegisterHandler(boom)

	dispatcher := NewDispatcher(bot)
	dispatcher.dispatchBatch([]telegram.Update{
		*messageUpdate(5, 20, "/boom", 1000),
		*messageUpdate(6, 21, "/boom", 1001),
		*messageUpdate(7, 22, "/boom", 1002),
	})

	if got := dispatcher.Offset(); got != 8 {
		t.Fatalf("offset = %d, want 8 even though every handler panicked", got)
	}
	if boom.calls != 3 {
		t.Fatalf("handler calls = %d, want 3", boom.calls)
	}
}

func TestAnnounceInterceptorBroadcasts(t *testing.T) {
	bot, repo, rec := newTestBot(t)

	// Два активных получателя
	repo.Create(&models.User{TelegramID: 11, ChatID: 11, Language: "ru", Role: models.RoleUser, IsActive: true})
	repo.Create(&models.User{TelegramID: 12, ChatID: 12, Language: "ru", Role: models.RoleUser, IsActive: true})

	userService := users.NewServiceWithRepo(repo, nil, users.Config{AdminIDs: []int64{999}})
	bot.AddTextInterceptor(NewAnnounceInterceptor(userService, bot.GetMessageSender()))

	// Админ (id 999) рассылает объявление
	if err := bot.HandleUpdate(messageUpdate(1, 999, "announce Всем привет", 1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2 получателя + админ (на момент обработки тоже активен) + подтверждение
	if got := rec.count("/bot123/sendMessage"); got < 3 {
		t.Fatalf("sendMessage calls = %d, want at least 3 (broadcast + confirmation)", got)
	}

	// Не-админ не может рассылать: текст падает в роутер как неизвестный
	before := rec.count("/bot123/sendMessage")
	if err := bot.HandleUpdate(messageUpdate(2, 11, "announce спам", 1010)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := rec.count("/bot123/sendMessage")
	if after != before+1 {
		t.Fatalf("non-admin announce must produce single unknown-command reply, got %d extra", after-before)
	}
}
