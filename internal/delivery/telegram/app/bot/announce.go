// internal/delivery/telegram/app/bot/announce.go
package bot

import (
	"fmt"
	"strings"

	"telegram-dispatch-bot/internal/core/domain/users"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/handlers"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/message_sender"
	"telegram-dispatch-bot/pkg/logger"
)

// announcePrefix - сырой текст администратора без слэша
const announcePrefix = "announce "

// NewAnnounceInterceptor перехватывает сообщения вида "announce <текст>"
// от администраторов и рассылает текст всем активным пользователям
func NewAnnounceInterceptor(userService *users.Service, sender message_sender.MessageSender) TextInterceptor {
	return func(params handlers.HandlerParams) bool {
		if !strings.HasPrefix(params.Text, announcePrefix) {
			return false
		}
		if !params.IsAdmin {
			// Не админ - пусть текст идет дальше по конвейеру
			return false
		}

		text := strings.TrimSpace(strings.TrimPrefix(params.Text, announcePrefix))
		if text == "" {
			_ = sender.SendTextMessage(params.ChatID, "⚠️ Пустой текст рассылки", nil)
			return true
		}

		activeUsers, err := userService.ActiveUsers()
		if err != nil {
			logger.Error("❌ Не удалось получить список пользователей для рассылки: %v", err)
			_ = sender.SendTextMessage(params.ChatID, "❌ Ошибка получения списка пользователей", nil)
			return true
		}

		announcement := "📢 *Объявление*\n\n" + text

		sent := 0
		for _, user := range activeUsers {
			if user.ChatID == 0 {
				continue
			}
			if err := sender.SendTextMessage(user.ChatID, announcement, nil); err != nil {
				logger.Warn("⚠️ Рассылка: не доставлено в чат %d: %v", user.ChatID, err)
				continue
			}
			sent++
		}

		logger.Info("📢 Рассылка завершена: %d/%d доставлено", sent, len(activeUsers))
		_ = sender.SendTextMessage(params.ChatID, fmt.Sprintf("✅ Рассылка: доставлено %d из %d", sent, len(activeUsers)), nil)
		return true
	}
}
