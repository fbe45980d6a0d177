// internal/delivery/telegram/app/http_client/telegram.go
package http_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"telegram-dispatch-bot/internal/delivery/telegram"
	"telegram-dispatch-bot/pkg/logger"
)

// TelegramClient клиент для исходящих запросов к Telegram API
type TelegramClient struct {
	httpClient *http.Client
	baseURL    string
	sleep      func(time.Duration) // подменяется в тестах
}

// NewTelegramClient создает новый клиент Telegram
func NewTelegramClient(baseURL string) *TelegramClient {
	return &TelegramClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		sleep:   time.Sleep,
	}
}

// SendMessage отправляет сообщение. HTTP 409 сворачивается в
// синтетический успех: повтор привёл бы к двойной отправке.
func (c *TelegramClient) SendMessage(chatID int64, text, parseMode string, keyboard interface{}, disableWebPreview bool) SendResult {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	if disableWebPreview {
		payload["disable_web_page_preview"] = true
	}

	return c.postJSON("sendMessage", payload)
}

// EditMessage редактирует текст сообщения, семантика 409/429 как у SendMessage
func (c *TelegramClient) EditMessage(chatID, messageID int64, text, parseMode string, keyboard interface{}) SendResult {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
		"parse_mode": parseMode,
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}

	result := c.postJSON("editMessageText", payload)
	if result.DuplicateHandled {
		result.MessageID = messageID
	}
	return result
}

// DeleteMessage удаляет сообщение
func (c *TelegramClient) DeleteMessage(chatID, messageID int64) SendResult {
	return c.postJSON("deleteMessage", map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
	})
}

// AnswerCallback отвечает на callback запрос (гасит спиннер на кнопке).
// Вызывается для каждого полученного callback'а, включая дубли.
// Некритично для UX: ошибки логируются и проглатываются.
func (c *TelegramClient) AnswerCallback(callbackID, text string, showAlert bool) {
	payload := map[string]interface{}{
		"callback_query_id": callbackID,
	}
	if text != "" {
		payload["text"] = text
		payload["show_alert"] = showAlert
	}

	if result := c.postJSON("answerCallbackQuery", payload); !result.OK {
		logger.Debug("answerCallbackQuery %s failed: %s", callbackID, result.Description)
	}
}

// SendChatAction отправляет индикатор действия (typing, upload_document и т.п.).
// Некритично: ошибки логируются и проглатываются.
func (c *TelegramClient) SendChatAction(chatID int64, action string) {
	result := c.postJSON("sendChatAction", map[string]interface{}{
		"chat_id": chatID,
		"action":  action,
	})
	if !result.OK {
		logger.Debug("sendChatAction для %d не прошел: %s", chatID, result.Description)
	}
}

// SendDocument отправляет файл как multipart/form-data
func (c *TelegramClient) SendDocument(chatID int64, filename string, document io.Reader, caption string) SendResult {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	writer.WriteField("chat_id", fmt.Sprintf("%d", chatID))
	if caption != "" {
		writer.WriteField("caption", caption)
		writer.WriteField("parse_mode", "Markdown")
	}

	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		logger.Error("❌ Error preparing document %s: %v", filename, err)
		return SendResult{Description: err.Error()}
	}
	if _, err := io.Copy(part, document); err != nil {
		logger.Error("❌ Error preparing document %s: %v", filename, err)
		return SendResult{Description: err.Error()}
	}
	writer.Close()

	// Показываем "uploading document" пока файл уходит
	c.SendChatAction(chatID, "upload_document")

	resp, err := c.httpClient.Post(c.baseURL+"sendDocument", writer.FormDataContentType(), &body)
	if err != nil {
		logger.Error("❌ Error sending document to %d: %v", chatID, err)
		return SendResult{Description: err.Error()}
	}
	defer resp.Body.Close()

	return c.parseResponse("sendDocument", resp)
}

// SetMyCommands устанавливает меню команд в Telegram
func (c *TelegramClient) SetMyCommands(commands []telegram.BotCommand) error {
	result := c.postJSON("setMyCommands", map[string]interface{}{
		"commands": commands,
	})
	if !result.OK {
		return fmt.Errorf("ошибка установки меню команд: %s", result.Description)
	}
	return nil
}

// SetTimeout устанавливает таймаут для клиента
func (c *TelegramClient) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// GetBaseURL возвращает базовый URL
func (c *TelegramClient) GetBaseURL() string {
	return c.baseURL
}

// postJSON отправляет JSON запрос и нормализует ответ в SendResult
func (c *TelegramClient) postJSON(method string, payload map[string]interface{}) SendResult {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return SendResult{Description: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	resp, err := c.httpClient.Post(c.baseURL+method, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		logger.Error("❌ Error sending %s request: %v", method, err)
		return SendResult{Description: err.Error()}
	}
	defer resp.Body.Close()

	return c.parseResponse(method, resp)
}

// parseResponse нормализует HTTP ответ Telegram в SendResult
func (c *TelegramClient) parseResponse(method string, resp *http.Response) SendResult {
	switch {
	case resp.StatusCode == http.StatusConflict:
		// Telegram уже считает запрос выполненным конкурирующим
		// процессом: ошибка здесь спровоцировала бы повторную отправку
		logger.Debug("HTTP 409 for %s - treating as success", method)
		return SendResult{OK: true, DuplicateHandled: true, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		logger.Warn("⚠️ Rate limited for %s - backing off", method)
		c.sleep(1 * time.Second)
		return SendResult{Retryable: true, StatusCode: resp.StatusCode, Description: "rate limited"}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		logger.Error("❌ HTTP %d for %s - %s", resp.StatusCode, method, string(body))
		return SendResult{StatusCode: resp.StatusCode, Description: string(body)}
	}

	var apiResp telegram.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		// Битый ответ - единственный по-настоящему неожиданный случай
		logger.Error("❌ Failed to parse %s response: %v", method, err)
		return SendResult{StatusCode: resp.StatusCode, Description: err.Error()}
	}

	if !apiResp.OK {
		logger.Error("❌ Telegram API error %d for %s: %s", apiResp.ErrorCode, method, apiResp.Description)
		return SendResult{StatusCode: resp.StatusCode, Description: apiResp.Description}
	}

	return SendResult{OK: true, MessageID: apiResp.Result.MessageID, StatusCode: resp.StatusCode}
}
