// internal/delivery/telegram/app/bot/constants/callbacks.go
package constants

// Callback constants
const (
	// ============== MAIN MENU ==============
	CallbackMenuMain    = "menu_main"    // 🏠 Главное меню
	CallbackHelp        = "help"         // 📋 Помощь
	CallbackProfileMain = "profile_main" // 👤 Мой профиль
	CallbackSupport     = "support"      // 📧 Поддержка

	// ============== LANGUAGE ==============
	// lang_<code> - префиксный callback, код языка в суффиксе
	CallbackLangPrefix = "lang_"
	CallbackLangRu     = "lang_ru" // 🇷🇺 Русский
	CallbackLangEn     = "lang_en" // 🇬🇧 English
)
