// internal/delivery/telegram/app/bot/message_sender/sender.go
package message_sender

import (
	"fmt"
	"time"

	"telegram-dispatch-bot/internal/delivery/telegram/app/http_client"
	"telegram-dispatch-bot/pkg/logger"
)

// MessageSender интерфейс для отправки сообщений
type MessageSender interface {
	// Основные методы отправки
	SendTextMessage(chatID int64, text string, keyboard interface{}) error
	// Отправка сообщений меню (приоритетные, отдельный rate limiter)
	SendMenuMessage(chatID int64, text string, keyboard interface{}) error

	// Управление сообщениями
	EditMessageText(chatID, messageID int64, text string, keyboard interface{}) error
	DeleteMessage(chatID, messageID int64) error
	AnswerCallback(callbackID, text string, showAlert bool) error

	// Утилиты
	SetTestMode(enabled bool)
	IsTestMode() bool
}

// MessageSenderImpl реализация MessageSender поверх Telegram-клиента
type MessageSenderImpl struct {
	client          *http_client.TelegramClient
	rateLimiter     *RateLimiter
	menuRateLimiter *RateLimiter // Отдельный rate limiter для меню
	messageCache    *MessageCache
	parseMode       string
	testMode        bool
	enabled         bool
}

// NewMessageSender создает новый MessageSender
func NewMessageSender(client *http_client.TelegramClient, enabled bool) MessageSender {
	return &MessageSenderImpl{
		client:          client,
		rateLimiter:     NewRateLimiter(500 * time.Millisecond),
		menuRateLimiter: NewRateLimiter(200 * time.Millisecond), // Для меню (быстрее)
		messageCache:    NewMessageCache(10*time.Minute, 30*time.Second),
		parseMode:       "Markdown",
		enabled:         enabled,
	}
}

// SendTextMessage отправляет текстовое сообщение
func (ms *MessageSenderImpl) SendTextMessage(chatID int64, text string, keyboard interface{}) error {
	if !ms.enabled {
		logger.Warn("⚠️ Telegram отключен, пропуск отправки сообщения")
		return nil
	}

	if ms.testMode {
		logger.Info("[TEST] Send to %d: %s", chatID, text[:min(50, len(text))])
		return nil
	}

	// Защита от спама одинаковыми сообщениями
	messageHash := GetMessageHash(chatID, text, keyboard)
	if ms.messageCache.IsDuplicate(messageHash) {
		logger.Warn("⚠️ Дубликат исходящего сообщения для %d, пропуск", chatID)
		return nil
	}

	if !ms.rateLimiter.CanSend() {
		time.Sleep(ms.rateLimiter.interval)
	}

	result := ms.client.SendMessage(chatID, text, ms.parseMode, keyboard, true)
	if result.Retryable {
		result = ms.client.SendMessage(chatID, text, ms.parseMode, keyboard, true)
	}
	if !result.OK {
		logger.Error("❌ Ошибка отправки сообщения в %d: %s", chatID, result.Description)
		return fmt.Errorf("telegram API error %d: %s", result.StatusCode, result.Description)
	}

	ms.messageCache.Add(messageHash)
	return nil
}

// SendMenuMessage отправляет сообщение меню (без дубль-кэша: меню
// легитимно повторяются при навигации)
func (ms *MessageSenderImpl) SendMenuMessage(chatID int64, text string, keyboard interface{}) error {
	if !ms.enabled {
		logger.Warn("⚠️ Telegram отключен, пропуск отправки меню")
		return nil
	}

	if ms.testMode {
		logger.Info("[TEST] Send menu to %d: %s", chatID, text[:min(50, len(text))])
		return nil
	}

	if !ms.menuRateLimiter.CanSend() {
		time.Sleep(ms.menuRateLimiter.interval)
	}

	result := ms.client.SendMessage(chatID, text, ms.parseMode, keyboard, true)
	if result.Retryable {
		result = ms.client.SendMessage(chatID, text, ms.parseMode, keyboard, true)
	}
	if !result.OK {
		logger.Error("❌ Ошибка отправки меню в %d: %s", chatID, result.Description)
		return fmt.Errorf("telegram API error %d: %s", result.StatusCode, result.Description)
	}

	return nil
}

// EditMessageText редактирует текст сообщения
func (ms *MessageSenderImpl) EditMessageText(chatID, messageID int64, text string, keyboard interface{}) error {
	if !ms.enabled || ms.testMode {
		return nil
	}

	result := ms.client.EditMessage(chatID, messageID, text, ms.parseMode, keyboard)
	if !result.OK {
		return fmt.Errorf("telegram API error %d: %s", result.StatusCode, result.Description)
	}
	return nil
}

// DeleteMessage удаляет сообщение
func (ms *MessageSenderImpl) DeleteMessage(chatID, messageID int64) error {
	if !ms.enabled || ms.testMode {
		return nil
	}

	result := ms.client.DeleteMessage(chatID, messageID)
	if !result.OK {
		return fmt.Errorf("telegram API error %d: %s", result.StatusCode, result.Description)
	}
	return nil
}

// AnswerCallback отвечает на callback query
func (ms *MessageSenderImpl) AnswerCallback(callbackID, text string, showAlert bool) error {
	if !ms.enabled || ms.testMode {
		return nil
	}

	ms.client.AnswerCallback(callbackID, text, showAlert)
	return nil
}

// SetTestMode включает/выключает тестовый режим
func (ms *MessageSenderImpl) SetTestMode(enabled bool) {
	ms.testMode = enabled
}

// IsTestMode возвращает состояние тестового режима
func (ms *MessageSenderImpl) IsTestMode() bool {
	return ms.testMode
}

var _ MessageSender = (*MessageSenderImpl)(nil)
