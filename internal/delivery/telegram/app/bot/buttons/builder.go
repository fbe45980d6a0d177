// internal/delivery/telegram/app/bot/buttons/builder.go
package buttons

import (
	"telegram-dispatch-bot/internal/delivery/telegram"
	"telegram-dispatch-bot/internal/delivery/telegram/app/bot/constants"
)

// ButtonBuilder - построитель кнопок
type ButtonBuilder struct{}

// NewButtonBuilder создает новый построитель кнопок
func NewButtonBuilder() *ButtonBuilder {
	return &ButtonBuilder{}
}

// CreateMainMenuKeyboard создает клавиатуру главного меню
func (b *ButtonBuilder) CreateMainMenuKeyboard() telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: constants.ButtonTexts.Profile, CallbackData: constants.CallbackProfileMain},
				{Text: constants.ButtonTexts.Help, CallbackData: constants.CallbackHelp},
			},
			{
				{Text: constants.ButtonTexts.Support, CallbackData: constants.CallbackSupport},
			},
		},
	}
}

// CreateProfileKeyboard создает клавиатуру профиля
func (b *ButtonBuilder) CreateProfileKeyboard() telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: constants.ButtonTexts.LangRu, CallbackData: constants.CallbackLangRu},
				{Text: constants.ButtonTexts.LangEn, CallbackData: constants.CallbackLangEn},
			},
			{
				{Text: constants.ButtonTexts.Back, CallbackData: constants.CallbackMenuMain},
			},
		},
	}
}

// CreateBackKeyboard создает клавиатуру с одной кнопкой "Назад"
func (b *ButtonBuilder) CreateBackKeyboard() telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: constants.ButtonTexts.Back, CallbackData: constants.CallbackMenuMain},
			},
		},
	}
}
