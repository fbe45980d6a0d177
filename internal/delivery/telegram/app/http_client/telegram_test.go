package http_client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestTelegramClient(handler http.HandlerFunc) (*TelegramClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewTelegramClient(server.URL + "/bot123/")
	client.sleep = func(time.Duration) {} // не спим в тестах
	return client, server
}

func TestSendMessageSuccess(t *testing.T) {
	var gotPayload map[string]interface{}
	client, server := newTestTelegramClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot123/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"ok":true,"result":{"message_id":77}}`))
	})
	defer server.Close()

	result := client.SendMessage(555, "привет", "Markdown", nil, true)

	if !result.OK {
		t.Fatalf("send failed: %+v", result)
	}
	if result.MessageID != 77 {
		t.Fatalf("message_id = %d, want 77", result.MessageID)
	}
	if gotPayload["parse_mode"] != "Markdown" {
		t.Fatalf("parse_mode not forwarded: %v", gotPayload)
	}
	if gotPayload["disable_web_page_preview"] != true {
		t.Fatalf("disable_web_page_preview not forwarded: %v", gotPayload)
	}
}

func TestSendMessageConflictIsSyntheticSuccess(t *testing.T) {
	requests := 0
	client, server := newTestTelegramClient(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusConflict)
	})
	defer server.Close()

	result := client.SendMessage(555, "text", "", nil, false)

	if !result.OK {
		t.Fatalf("409 must be treated as success, got %+v", result)
	}
	if !result.DuplicateHandled {
		t.Fatalf("409 must set DuplicateHandled")
	}
	if requests != 1 {
		t.Fatalf("409 must not be retried, got %d requests", requests)
	}
}

func TestSendMessageRateLimited(t *testing.T) {
	slept := time.Duration(0)
	client, server := newTestTelegramClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer server.Close()
	client.sleep = func(d time.Duration) { slept = d }

	result := client.SendMessage(555, "text", "", nil, false)

	if result.OK {
		t.Fatalf("429 must not be success")
	}
	if !result.Retryable {
		t.Fatalf("429 must be marked retryable")
	}
	if slept != 1*time.Second {
		t.Fatalf("429 must sleep 1s before returning, slept %v", slept)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	client, server := newTestTelegramClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	})
	defer server.Close()

	result := client.SendMessage(555, "text", "", nil, false)

	if result.OK || result.Retryable || result.DuplicateHandled {
		t.Fatalf("API error must be plain failure: %+v", result)
	}
	if result.Description != "Bad Request: chat not found" {
		t.Fatalf("description = %q", result.Description)
	}
}

func TestEditMessageConflictKeepsMessageID(t *testing.T) {
	client, server := newTestTelegramClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	defer server.Close()

	result := client.EditMessage(555, 42, "new text", "Markdown", nil)

	if !result.OK || !result.DuplicateHandled {
		t.Fatalf("409 on edit must be synthetic success: %+v", result)
	}
	if result.MessageID != 42 {
		t.Fatalf("message_id = %d, want original 42", result.MessageID)
	}
}

func TestSetMyCommands(t *testing.T) {
	client, server := newTestTelegramClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot123/setMyCommands" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"ok":true}`))
	})
	defer server.Close()

	err := client.SetMyCommands(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
