package keyboard

import (
	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"github.com/go-telegram/bot/models"
)

const (
	daysPerRow  = 4
	timesPerRow = 4
)

// SlotView клавиатура выбора времени: дни окна, время дня, недели и действия
func SlotView(kind booking.Kind, view booking.View) *models.InlineKeyboardMarkup {
	b := NewBuilder()

	b.Row(WeekPagination(formatting.FormatWindow(view.Window), view.CanPrev)...)
	b.Grid(daysPerRow, dayButtons(view.Days)...)
	b.Grid(timesPerRow, timeButtons(view.Slots)...)

	actions := []models.InlineKeyboardButton{}
	if view.Tentative != nil {
		actions = append(actions, Button("✅ Подтвердить", callbacktypes.SlotConfirm))
	}
	if kind == booking.KindEdit {
		actions = append(actions, Button("📌 Оставить текущее", callbacktypes.SlotKeep))
	}
	b.Row(actions...)

	b.Row(
		Button("🖼 Неделя", callbacktypes.SlotImage),
		Button("🔄 Обновить", callbacktypes.SlotRefresh),
		Button("✖️ Закрыть", callbacktypes.SlotClose),
	)

	return b.Build()
}

func dayButtons(days []booking.Day) []models.InlineKeyboardButton {
	buttons := make([]models.InlineKeyboardButton, 0, len(days))
	for _, d := range days {
		label := formatting.FormatDayButton(d.Date)
		data := callbacktypes.SlotDay + d.Date.String()
		switch {
		case d.Past:
			label = "· " + label
			data = callbacktypes.Noop
		case d.Viewed:
			label = "▸ " + label
		case d.Slots == 0:
			label += " ∅"
		}
		buttons = append(buttons, Button(label, data))
	}
	return buttons
}

func timeButtons(list []booking.Slot) []models.InlineKeyboardButton {
	buttons := make([]models.InlineKeyboardButton, 0, len(list))
	for _, s := range list {
		data := callbacktypes.SlotTime + s.Time
		if !s.Pickable() {
			data = callbacktypes.Noop
		}
		buttons = append(buttons, Button(SlotLabel(s), data))
	}
	return buttons
}

// SlotLabel подпись кнопки времени с отметкой состояния
func SlotLabel(s booking.Slot) string {
	if s.Past {
		return "· " + s.Time
	}
	if s.State == slots.StateAvailable {
		return s.Time
	}
	return formatting.GetSlotStateDisplay(s.State).Emoji + " " + s.Time
}
