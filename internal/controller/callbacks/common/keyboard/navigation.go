package keyboard

import (
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot/models"
)

// BackButton создаёт кнопку "Назад"
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Назад", callbackData)
}

// BackToMainButton создаёт кнопку "В главное меню"
func BackToMainButton() models.InlineKeyboardButton {
	return Button("🏠 В главное меню", callbacktypes.BackToMain)
}

// BackToDentistsButton создаёт кнопку "К списку врачей"
func BackToDentistsButton() models.InlineKeyboardButton {
	return Button("⬅️ К списку врачей", callbacktypes.DentistsPage+"0")
}

// MyAppointmentsButton создаёт кнопку "Мои записи"
func MyAppointmentsButton() models.InlineKeyboardButton {
	return Button("📅 Мои записи", callbacktypes.MyAppointments)
}

// LoginButton создаёт кнопку входа в аккаунт клиники
func LoginButton() models.InlineKeyboardButton {
	return Button("🔑 Войти", callbacktypes.StartLogin)
}

// CancelButton создаёт кнопку "Отмена"
func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("❌ Отмена", callbackData)
}

// ConfirmButton создаёт кнопку "Подтвердить"
func ConfirmButton(callbackData string) models.InlineKeyboardButton {
	return Button("✅ Подтвердить", callbackData)
}

// YesNoButtons создаёт ряд с кнопками Да/Нет
func YesNoButtons(yesCallback, noCallback string) [][]models.InlineKeyboardButton {
	return [][]models.InlineKeyboardButton{
		{
			Button("✅ Да", yesCallback),
			Button("❌ Нет", noCallback),
		},
	}
}

// BackRow создаёт ряд с кнопкой "Назад"
func BackRow(callbackData string) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{BackButton(callbackData)}
}

// AddBackButton добавляет кнопку "Назад" к builder
func (b *Builder) AddBackButton(callbackData string) *Builder {
	return b.Row(BackButton(callbackData))
}

// AddBackToMainButton добавляет кнопку "В главное меню" к builder
func (b *Builder) AddBackToMainButton() *Builder {
	return b.Row(BackToMainButton())
}
