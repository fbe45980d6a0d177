// internal/delivery/telegram/app/bot/constants/constants.go
package constants

// ButtonTexts содержит тексты для кнопок
var ButtonTexts = struct {
	MainMenu string
	Help     string
	Profile  string
	Support  string
	Back     string
	LangRu   string
	LangEn   string
}{
	MainMenu: "🏠 Главное меню",
	Help:     "📋 Помощь",
	Profile:  "👤 Профиль",
	Support:  "📧 Поддержка",
	Back:     "🔙 Назад",
	LangRu:   "🇷🇺 Русский",
	LangEn:   "🇬🇧 English",
}

// CommandDescriptions - описания команд для setMyCommands
var CommandDescriptions = []struct {
	Command     string
	Description string
}{
	{"start", "Запустить бота"},
	{"help", "Справка по боту"},
	{"commands", "Список команд"},
	{"profile", "Мой профиль"},
	{"support", "Написать в поддержку"},
}
