// internal/delivery/telegram/app/http_client/polling.go
package http_client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"telegram-dispatch-bot/internal/delivery/telegram"
	"telegram-dispatch-bot/pkg/logger"
)

// allowedUpdates - бот работает только с сообщениями и callback'ами
const allowedUpdates = `["message","callback_query"]`

// PollingClient клиент для polling запросов с увеличенным таймаутом
type PollingClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewPollingClient создает новый клиент для polling
func NewPollingClient(baseURL string) *PollingClient {
	return &PollingClient{
		httpClient: &http.Client{
			Timeout: 35 * time.Second, // Больше чем timeout=30 в Telegram long-polling
		},
		baseURL: baseURL,
	}
}

// GetUpdates выполняет long poll запрос getUpdates.
// Все ожидаемые временные состояния (таймаут, 409, 429, non-200)
// возвращаются как FetchResult без обновлений, никогда как ошибка.
func (c *PollingClient) GetUpdates(offset int64, timeout, limit int) FetchResult {
	query := url.Values{}
	query.Set("offset", strconv.FormatInt(offset, 10))
	query.Set("timeout", strconv.Itoa(timeout))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("allowed_updates", allowedUpdates)

	resp, err := c.httpClient.Get(c.baseURL + "getUpdates?" + query.Encode())
	if err != nil {
		if isTimeout(err) {
			// Обычный idle long poll, не ошибка
			logger.Debug("Polling timeout (normal)")
			return FetchResult{Kind: FetchTimeout}
		}
		logger.Error("❌ Error fetching updates: %v", err)
		return FetchResult{Kind: FetchFailed, Backoff: 500 * time.Millisecond}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		// Конкурирующий поллер, состояние временное
		logger.Debug("HTTP 409 (Conflict) from Telegram API - handling gracefully")
		return FetchResult{Kind: FetchConflict, Backoff: 500 * time.Millisecond}
	case resp.StatusCode == http.StatusTooManyRequests:
		logger.Warn("⚠️ Rate limited by Telegram API - backing off")
		return FetchResult{Kind: FetchRateLimited, Backoff: 2 * time.Second}
	case resp.StatusCode != http.StatusOK:
		logger.Error("❌ HTTP %d from Telegram API", resp.StatusCode)
		return FetchResult{Kind: FetchFailed, Backoff: 500 * time.Millisecond}
	}

	var result telegram.UpdatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Error("❌ Error decoding updates: %v", err)
		return FetchResult{Kind: FetchFailed, Backoff: 500 * time.Millisecond}
	}

	if !result.OK {
		logger.Error("❌ Telegram API error %d: %s", result.ErrorCode, result.Description)
		return FetchResult{Kind: FetchFailed, Backoff: 500 * time.Millisecond}
	}

	if len(result.Result) > 0 {
		// Сразу подтверждаем весь батч throwaway-запросом, чтобы Telegram
		// выкинул его из своей очереди независимо от дальнейшей судьбы
		// offset'а в цикле диспетчера
		lastID := result.Result[len(result.Result)-1].UpdateID
		c.Acknowledge(lastID + 1)
		logger.Debug("Received %d updates, confirmed offset: %d", len(result.Result), lastID+1)
	}

	return FetchResult{Kind: FetchOK, Updates: result.Result}
}

// Acknowledge выполняет throwaway-запрос getUpdates с limit=1 и
// timeout=0, чтобы сдвинуть серверный курсор. Результат не важен.
func (c *PollingClient) Acknowledge(offset int64) {
	resp, err := c.httpClient.Get(fmt.Sprintf(
		"%sgetUpdates?offset=%d&limit=1&timeout=0", c.baseURL, offset))
	if err != nil {
		logger.Debug("Acknowledge fetch failed: %v", err)
		return
	}
	resp.Body.Close()
}

// ClearBacklog удаляет webhook (гарантия эксклюзивности poll-режима) и
// сбрасывает все накопившиеся обновления. Возвращает offset, с которого
// должен начаться polling. Вызывается один раз при старте: всё, что
// пришло боту пока он был offline, сознательно отбрасывается.
func (c *PollingClient) ClearBacklog() int64 {
	if resp, err := c.httpClient.Post(c.baseURL+"deleteWebhook", "application/json", nil); err == nil {
		resp.Body.Close()
		logger.Info("Webhook removed successfully")
	} else {
		logger.Warn("⚠️ Could not remove webhook: %v", err)
	}

	resp, err := c.httpClient.Get(c.baseURL + "getUpdates?offset=-1")
	if err != nil {
		logger.Warn("⚠️ Could not clear pending updates: %v", err)
		return 0
	}
	defer resp.Body.Close()

	var result telegram.UpdatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Warn("⚠️ Could not decode pending updates: %v", err)
		return 0
	}

	if !result.OK || len(result.Result) == 0 {
		return 0
	}

	lastID := result.Result[len(result.Result)-1].UpdateID
	c.Acknowledge(lastID + 1)
	logger.Info("Cleared pending updates up to %d", lastID)
	return lastID + 1
}

// SetTimeout устанавливает таймаут для клиента
func (c *PollingClient) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// GetHTTPClient возвращает HTTP клиент
func (c *PollingClient) GetHTTPClient() *http.Client {
	return c.httpClient
}

func isTimeout(err error) bool {
	if os.IsTimeout(err) {
		return true
	}
	type timeouter interface{ Timeout() bool }
	if te, ok := err.(timeouter); ok {
		return te.Timeout()
	}
	return false
}
