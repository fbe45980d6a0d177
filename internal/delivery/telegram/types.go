// internal/delivery/telegram/types.go
package telegram

// User - отправитель сообщения или нажатия кнопки
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Chat - чат, из которого пришло обновление
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"`
}

// Message - входящее текстовое сообщение
type Message struct {
	MessageID int64  `json:"message_id"`
	From      User   `json:"from"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text"`
}

// CallbackQuery - нажатие кнопки inline клавиатуры.
// У callback'ов свой домен идемпотентности: ID не связан с update_id.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message"`
	Data    string   `json:"data"`
}

// Update - одно обновление из getUpdates.
// В рамках этого бота заполнен ровно один из Message/CallbackQuery.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// UpdatesResponse - ответ getUpdates
type UpdatesResponse struct {
	OK          bool     `json:"ok"`
	Result      []Update `json:"result"`
	ErrorCode   int      `json:"error_code,omitempty"`
	Description string   `json:"description,omitempty"`
}

// APIResponse - общий ответ Telegram API на send/edit запросы
type APIResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
	Parameters struct {
		RetryAfter int `json:"retry_after,omitempty"`
	} `json:"parameters"`
}

// InlineKeyboardButton - кнопка inline клавиатуры
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

// InlineKeyboardMarkup - разметка inline клавиатуры
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// BotCommand представляет команду в меню бота
type BotCommand struct {
	Command     string `json:"command"`     // Команда (1-32 символа)
	Description string `json:"description"` // Описание (1-256 символов)
}

// ChatID возвращает ID чата для любого типа обновления (0, если чата нет)
func (u *Update) ChatID() int64 {
	if u.Message != nil {
		return u.Message.Chat.ID
	}
	if u.CallbackQuery != nil {
		if u.CallbackQuery.Message != nil {
			return u.CallbackQuery.Message.Chat.ID
		}
		// Callback без сообщения: отвечаем лично отправителю
		return u.CallbackQuery.From.ID
	}
	return 0
}

// SenderID возвращает Telegram ID отправителя (0, если отправителя нет)
func (u *Update) SenderID() int64 {
	if u.Message != nil {
		return u.Message.From.ID
	}
	if u.CallbackQuery != nil {
		return u.CallbackQuery.From.ID
	}
	return 0
}
