package listeners

import (
	"testing"

	"telegram-dispatch-bot/internal/delivery/telegram"
)

func TestConsumeIsOneShot(t *testing.T) {
	r := NewRegistry()

	invoked := 0
	r.Add(555, "support_ticket", func(update *telegram.Update, chatID int64, text string) {
		invoked++
	})

	kind, listener, ok := r.Consume(555)
	if !ok {
		t.Fatalf("expected listener for chat 555")
	}
	if kind != "support_ticket" {
		t.Fatalf("kind = %q, want support_ticket", kind)
	}
	listener(nil, 555, "hello")
	if invoked != 1 {
		t.Fatalf("listener invoked %d times, want 1", invoked)
	}

	if _, _, ok := r.Consume(555); ok {
		t.Fatalf("second consume must find nothing")
	}
	if r.Has(555) {
		t.Fatalf("registry must be empty after consume")
	}
}

func TestAddOverridesPreviousListener(t *testing.T) {
	r := NewRegistry()

	var got string
	r.Add(7, "first", func(update *telegram.Update, chatID int64, text string) { got = "first" })
	r.Add(7, "second", func(update *telegram.Update, chatID int64, text string) { got = "second" })

	kind, listener, ok := r.Consume(7)
	if !ok {
		t.Fatalf("expected listener for chat 7")
	}
	if kind != "second" {
		t.Fatalf("kind = %q, want second (last registration wins)", kind)
	}
	listener(nil, 7, "")
	if got != "second" {
		t.Fatalf("invoked %q listener, want second", got)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()

	r.Add(1, "x", func(update *telegram.Update, chatID int64, text string) {})
	r.Remove(1)
	r.Remove(1) // повторное удаление не должно паниковать
	r.Remove(2) // как и удаление несуществующего

	if r.Has(1) {
		t.Fatalf("listener must be gone after remove")
	}
}

func TestConsumeUnknownChat(t *testing.T) {
	r := NewRegistry()
	if _, _, ok := r.Consume(999); ok {
		t.Fatalf("consume on empty registry must return false")
	}
}
