package message_sender

import (
	"testing"
	"time"
)

func TestMessageCacheDuplicateWindow(t *testing.T) {
	mc := NewMessageCache(10*time.Minute, 50*time.Millisecond)

	hash := GetMessageHash(1, "text", nil)

	if mc.IsDuplicate(hash) {
		t.Fatalf("unseen hash must not be duplicate")
	}
	mc.Add(hash)
	if !mc.IsDuplicate(hash) {
		t.Fatalf("hash inside repeat window must be duplicate")
	}

	time.Sleep(70 * time.Millisecond)
	if mc.IsDuplicate(hash) {
		t.Fatalf("hash after repeat window must be admitted")
	}
}

func TestMessageCacheClear(t *testing.T) {
	mc := NewMessageCache(10*time.Minute, time.Minute)

	hash := GetMessageHash(1, "text", nil)
	mc.Add(hash)
	mc.Clear()

	if mc.IsDuplicate(hash) {
		t.Fatalf("cache must be empty after clear")
	}
}

func TestGetMessageHashDistinguishesRecipients(t *testing.T) {
	a := GetMessageHash(1, "same text", nil)
	b := GetMessageHash(2, "same text", nil)
	if a == b {
		t.Fatalf("hash must include chat id")
	}

	withKeyboard := GetMessageHash(1, "same text", map[string]string{"k": "v"})
	if a == withKeyboard {
		t.Fatalf("hash must include keyboard")
	}
}

func TestRateLimiterInterval(t *testing.T) {
	rl := NewRateLimiter(50 * time.Millisecond)

	if !rl.CanSend() {
		t.Fatalf("first send must be allowed")
	}
	if rl.CanSend() {
		t.Fatalf("immediate second send must be blocked")
	}

	time.Sleep(70 * time.Millisecond)
	if !rl.CanSend() {
		t.Fatalf("send after interval must be allowed")
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got := EscapeMarkdownV2("a_b*c.d")
	want := `a\_b\*c\.d`
	if got != want {
		t.Fatalf("escaped = %q, want %q", got, want)
	}
}
