package common

import (
	"errors"

	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
	"github.com/Freeeeeet/dentist_booking_bot/internal/clinicapi"
	"github.com/Freeeeeet/dentist_booking_bot/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNoSession     = errors.New("no open slot session")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrPatientNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, service.ErrNotLinked):
		return "🔑 Сначала войдите в аккаунт клиники: /login"
	case errors.Is(err, service.ErrTokenExpired):
		return "🔑 Сессия клиники истекла. Войдите заново: /login"
	case errors.Is(err, service.ErrDentistNotFound):
		return "❌ Врач не найден"
	case errors.Is(err, service.ErrServiceNotFound):
		return "❌ Услуга не найдена"
	case errors.Is(err, service.ErrSlotTaken):
		return "⚠️ Это время только что заняли. Выберите другое"
	case errors.Is(err, service.ErrNotActive):
		return "❌ Запись уже отменена"
	case errors.Is(err, booking.ErrPastDate):
		return "⏪ Этот день уже прошёл"
	case errors.Is(err, booking.ErrOutsideWindow):
		return "❌ День вне текущей недели"
	case errors.Is(err, booking.ErrSlotUnavailable):
		return "❌ Это время недоступно"
	case errors.Is(err, booking.ErrNothingSelected):
		return "👆 Сначала выберите время"
	case errors.Is(err, clinicapi.ErrNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, clinicapi.ErrConflict):
		return "⚠️ Конфликт с текущим состоянием записи"
	case errors.Is(err, ErrNoSession):
		return "⌛ Выбор времени устарел. Откройте его заново"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка"
	}
}
