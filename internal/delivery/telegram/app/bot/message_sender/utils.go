// internal/delivery/telegram/app/bot/message_sender/utils.go
package message_sender

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
)

// GetMessageHash создает хэш для проверки дубликатов
func GetMessageHash(chatID int64, text string, keyboard interface{}) string {
	keyboardStr := ""
	if keyboard != nil {
		keyboardBytes, _ := json.Marshal(keyboard)
		keyboardStr = string(keyboardBytes)
	}
	return fmt.Sprintf("%x", md5.Sum(fmt.Appendf(nil, "%d:%s:%s", chatID, text, keyboardStr)))
}

// min возвращает минимум из двух чисел
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// EscapeMarkdownV2 экранирует специальные символы для MarkdownV2
func EscapeMarkdownV2(text string) string {
	specialChars := []string{
		"_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!",
	}

	result := text
	for _, char := range specialChars {
		result = strings.ReplaceAll(result, char, "\\"+char)
	}
	return result
}
