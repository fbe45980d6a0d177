package guard

import (
	"fmt"
	"testing"
	"time"

	"telegram-dispatch-bot/internal/delivery/telegram"
)

func TestDuplicateUpdateAdmission(t *testing.T) {
	g := NewUpdateGuard()

	if g.IsDuplicateUpdate(100) {
		t.Fatalf("first admission of update 100 must not be a duplicate")
	}
	if !g.IsDuplicateUpdate(100) {
		t.Fatalf("second admission of update 100 must be a duplicate")
	}
	if g.IsDuplicateUpdate(101) {
		t.Fatalf("unseen update 101 must not be a duplicate")
	}
}

func TestDuplicateUpdateBoundedMemory(t *testing.T) {
	g := NewUpdateGuard()

	for i := int64(0); i < 3*updateRingCapacity; i++ {
		g.IsDuplicateUpdate(i)
	}

	if got := g.TrackedUpdates(); got != updateRingCapacity {
		t.Fatalf("tracked updates = %d, want capacity %d", got, updateRingCapacity)
	}

	// Самые старые ID вытеснены и проходят заново
	if g.IsDuplicateUpdate(0) {
		t.Fatalf("evicted update 0 must be admitted again")
	}
	// Свежие еще помнятся
	if !g.IsDuplicateUpdate(3*updateRingCapacity - 1) {
		t.Fatalf("recent update must still be tracked")
	}
}

func TestDuplicateCallbackBoundedMemory(t *testing.T) {
	g := NewUpdateGuard()

	for i := 0; i < 2*callbackRingCapacity; i++ {
		g.IsDuplicateCallback(fmt.Sprintf("cb-%d", i))
	}

	if got := g.TrackedCallbacks(); got != callbackRingCapacity {
		t.Fatalf("tracked callbacks = %d, want capacity %d", got, callbackRingCapacity)
	}
	if !g.IsDuplicateCallback(fmt.Sprintf("cb-%d", 2*callbackRingCapacity-1)) {
		t.Fatalf("recent callback must still be tracked")
	}
}

func TestDuplicateMessageSignature(t *testing.T) {
	g := NewUpdateGuard()

	msg := &telegram.Message{
		MessageID: 1,
		From:      telegram.User{ID: 42},
		Chat:      telegram.Chat{ID: 42},
		Date:      1700000000,
		Text:      "привет",
	}

	if g.IsDuplicateMessage(msg) {
		t.Fatalf("first message must not be a duplicate")
	}
	if !g.IsDuplicateMessage(msg) {
		t.Fatalf("identical message must be a duplicate")
	}

	// Тот же текст, другой date, в пределах окна быстрых повторов
	rapid := &telegram.Message{
		MessageID: 2,
		From:      telegram.User{ID: 42},
		Chat:      telegram.Chat{ID: 42},
		Date:      1700000001,
		Text:      "привет",
	}
	if !g.IsDuplicateMessage(rapid) {
		t.Fatalf("rapid repeat of same text must be a duplicate")
	}

	// Другой отправитель - не дубль
	other := &telegram.Message{
		MessageID: 3,
		From:      telegram.User{ID: 43},
		Chat:      telegram.Chat{ID: 43},
		Date:      1700000000,
		Text:      "привет",
	}
	if g.IsDuplicateMessage(other) {
		t.Fatalf("same text from different sender must not be a duplicate")
	}
}

func TestRateLimitStampsOnAdmission(t *testing.T) {
	g := NewUpdateGuard()

	cooldown := 50 * time.Millisecond

	if g.IsRateLimited(7, "callback", cooldown) {
		t.Fatalf("first action must not be rate limited")
	}
	if !g.IsRateLimited(7, "callback", cooldown) {
		t.Fatalf("immediate repeat must be rate limited")
	}

	// Другой тип действия того же пользователя - свой счетчик
	if g.IsRateLimited(7, "message", cooldown) {
		t.Fatalf("different action kind must have its own cooldown")
	}

	time.Sleep(cooldown + 20*time.Millisecond)

	if g.IsRateLimited(7, "callback", cooldown) {
		t.Fatalf("action after cooldown must be admitted")
	}
}

func TestRecentRingEviction(t *testing.T) {
	r := newRecentRing[int64](3)

	for i := int64(1); i <= 3; i++ {
		r.Add(i)
	}
	if r.Len() != 3 {
		t.Fatalf("ring len = %d, want 3", r.Len())
	}

	r.Add(4) // вытесняет 1
	if r.Contains(1) {
		t.Fatalf("oldest key must be evicted")
	}
	for i := int64(2); i <= 4; i++ {
		if !r.Contains(i) {
			t.Fatalf("key %d must survive eviction", i)
		}
	}

	// Повторное добавление известного ключа не растит кольцо
	r.Add(4)
	if r.Len() != 3 {
		t.Fatalf("re-adding known key must not change len, got %d", r.Len())
	}
}
