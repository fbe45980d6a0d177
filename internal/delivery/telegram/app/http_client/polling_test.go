package http_client

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// pollRecorder записывает параметры всех getUpdates запросов
type pollRecorder struct {
	mu       sync.Mutex
	requests []string
}

func (pr *pollRecorder) record(r *http.Request) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.requests = append(pr.requests, r.URL.RawQuery)
}

func (pr *pollRecorder) count() int {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return len(pr.requests)
}

func (pr *pollRecorder) last() string {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if len(pr.requests) == 0 {
		return ""
	}
	return pr.requests[len(pr.requests)-1]
}

func TestGetUpdatesConfirmsBatch(t *testing.T) {
	rec := &pollRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		if rec.count() == 1 {
			// Первый запрос - сам long poll
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":5,"message":{"message_id":1,"from":{"id":9},"chat":{"id":9},"date":1,"text":"a"}},
				{"update_id":6,"message":{"message_id":2,"from":{"id":9},"chat":{"id":9},"date":2,"text":"b"}}
			]}`))
			return
		}
		// Подтверждающий throwaway
		w.Write([]byte(`{"ok":true,"result":[]}`))
	}))
	defer server.Close()

	client := NewPollingClient(server.URL + "/bot123/")
	result := client.GetUpdates(0, 30, 50)

	if result.Kind != FetchOK {
		t.Fatalf("kind = %v, want FetchOK", result.Kind)
	}
	if len(result.Updates) != 2 {
		t.Fatalf("got %d updates, want 2", len(result.Updates))
	}
	if result.Updates[1].UpdateID != 6 {
		t.Fatalf("last update_id = %d, want 6", result.Updates[1].UpdateID)
	}

	// Батч подтвержден throwaway-запросом offset=7
	if rec.count() != 2 {
		t.Fatalf("want confirm request after batch, got %d requests", rec.count())
	}
	if rec.last() != "offset=7&limit=1&timeout=0" {
		t.Fatalf("confirm query = %q", rec.last())
	}
}

func TestGetUpdatesConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewPollingClient(server.URL + "/bot123/")
	result := client.GetUpdates(0, 30, 50)

	if result.Kind != FetchConflict {
		t.Fatalf("kind = %v, want FetchConflict", result.Kind)
	}
	if result.Backoff <= 0 {
		t.Fatalf("conflict must carry a backoff")
	}
}

func TestGetUpdatesRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewPollingClient(server.URL + "/bot123/")
	result := client.GetUpdates(0, 30, 50)

	if result.Kind != FetchRateLimited {
		t.Fatalf("kind = %v, want FetchRateLimited", result.Kind)
	}
}

func TestGetUpdatesEmptyBatch(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"ok":true,"result":[]}`))
	}))
	defer server.Close()

	client := NewPollingClient(server.URL + "/bot123/")
	result := client.GetUpdates(10, 30, 50)

	if result.Kind != FetchOK {
		t.Fatalf("kind = %v, want FetchOK", result.Kind)
	}
	if len(result.Updates) != 0 {
		t.Fatalf("want empty batch")
	}
	if requests != 1 {
		t.Fatalf("empty batch must not be confirmed, got %d requests", requests)
	}
}

func TestClearBacklog(t *testing.T) {
	rec := &pollRecorder{}
	var deletedWebhook bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bot123/deleteWebhook" {
			deletedWebhook = true
			w.Write([]byte(`{"ok":true}`))
			return
		}
		rec.record(r)
		if rec.count() == 1 {
			// offset=-1 возвращает только самое свежее обновление
			w.Write([]byte(fmt.Sprintf(`{"ok":true,"result":[{"update_id":%d}]}`, 42)))
			return
		}
		w.Write([]byte(`{"ok":true,"result":[]}`))
	}))
	defer server.Close()

	client := NewPollingClient(server.URL + "/bot123/")
	next := client.ClearBacklog()

	if !deletedWebhook {
		t.Fatalf("ClearBacklog must delete webhook first")
	}
	if next != 43 {
		t.Fatalf("next offset = %d, want 43", next)
	}
	if rec.last() != "offset=43&limit=1&timeout=0" {
		t.Fatalf("confirm query = %q", rec.last())
	}
}

func TestClearBacklogEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"result":[]}`))
	}))
	defer server.Close()

	client := NewPollingClient(server.URL + "/bot123/")
	if next := client.ClearBacklog(); next != 0 {
		t.Fatalf("empty backlog must return 0, got %d", next)
	}
}
