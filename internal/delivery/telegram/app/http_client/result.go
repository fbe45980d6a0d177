// internal/delivery/telegram/app/http_client/result.go
package http_client

import (
	"time"

	"telegram-dispatch-bot/internal/delivery/telegram"
)

// FetchKind - исход одного запроса getUpdates
type FetchKind string

const (
	FetchOK          FetchKind = "ok"
	FetchConflict    FetchKind = "conflict"     // HTTP 409: конкурирующий поллер
	FetchRateLimited FetchKind = "rate_limited" // HTTP 429
	FetchTimeout     FetchKind = "timeout"      // обычный idle long poll
	FetchFailed      FetchKind = "failed"       // прочие non-200 и битые ответы
)

// FetchResult - явный результат poll-запроса. Временные состояния
// (409/429/timeout) не являются ошибками: цикл диспетчера сам решает,
// сколько спать, по полю Backoff.
type FetchResult struct {
	Kind    FetchKind
	Updates []telegram.Update
	Backoff time.Duration
}

// SendResult - результат send/edit запроса.
// HTTP 409 сворачивается в синтетический успех (DuplicateHandled=true):
// Telegram уже считает сообщение отправленным конкурирующим процессом,
// и ошибка здесь спровоцировала бы повторную отправку.
type SendResult struct {
	OK               bool
	DuplicateHandled bool
	Retryable        bool // HTTP 429: можно повторить после паузы
	MessageID        int64
	StatusCode       int
	Description      string
}
