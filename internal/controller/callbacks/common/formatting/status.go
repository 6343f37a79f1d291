package formatting

import (
	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
)

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetAppointmentStatusDisplay возвращает emoji и текст для статуса записи
func GetAppointmentStatusDisplay(status model.AppointmentStatus) StatusDisplay {
	displays := map[model.AppointmentStatus]StatusDisplay{
		model.AppointmentStatusPending:   {"⏳", "Ожидает подтверждения"},
		model.AppointmentStatusConfirmed: {"✅", "Подтверждена"},
		model.AppointmentStatusCancelled: {"❌", "Отменена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetSlotStateDisplay возвращает emoji и подпись для состояния времени
func GetSlotStateDisplay(state slots.SlotState) StatusDisplay {
	displays := map[slots.SlotState]StatusDisplay{
		slots.StateAvailable:         {"🟢", "Свободно"},
		slots.StateSelected:          {"🔵", "Выбрано"},
		slots.StatePinnedUnavailable: {"📌", "Текущее время записи"},
		slots.StateSelectedAndPinned: {"📍", "Текущее время, выбрано"},
	}

	if display, ok := displays[state]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetEventKindDisplay подпись события из истории
func GetEventKindDisplay(kind model.BookingEventKind) StatusDisplay {
	switch kind {
	case model.BookingEventBooked:
		return StatusDisplay{"🆕", "Запись"}
	case model.BookingEventRescheduled:
		return StatusDisplay{"🔁", "Перенос"}
	case model.BookingEventCancelled:
		return StatusDisplay{"❌", "Отмена"}
	default:
		return StatusDisplay{"❓", string(kind)}
	}
}
