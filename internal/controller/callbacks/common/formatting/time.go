package formatting

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
)

// FormatDate форматирует дату
func FormatDate(d civil.Date) string {
	return fmt.Sprintf("%02d.%02d.%d", d.Day, int(d.Month), d.Year)
}

// FormatDateTime форматирует дату и время
func FormatDateTime(dt civil.DateTime) string {
	return FormatDate(dt.Date) + " " + slots.TimeKey(dt.Time)
}

// FormatDateWithWeekday форматирует дату с днём недели: "Пн, 10.06.2024"
func FormatDateWithWeekday(d civil.Date) string {
	return GetWeekdayShort(Weekday(d)) + ", " + FormatDate(d)
}

// FormatDayButton подпись кнопки дня: "Пн 10"
func FormatDayButton(d civil.Date) string {
	return fmt.Sprintf("%s %d", GetWeekdayShort(Weekday(d)), d.Day)
}

// FormatWindow форматирует окно: "10.06 - 16.06.2024"
func FormatWindow(w slots.Window) string {
	return fmt.Sprintf("%02d.%02d - %s", w.Start.Day, int(w.Start.Month), FormatDate(w.End))
}

// Weekday день недели гражданской даты
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(weekday time.Weekday) string {
	names := []string{
		"Воскресенье",
		"Понедельник",
		"Вторник",
		"Среда",
		"Четверг",
		"Пятница",
		"Суббота",
	}
	if weekday >= 0 && int(weekday) < len(names) {
		return names[weekday]
	}
	return "Неизвестно"
}

// GetWeekdayShort возвращает короткое название дня недели
func GetWeekdayShort(weekday time.Weekday) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && int(weekday) < len(names) {
		return names[weekday]
	}
	return "?"
}

// GetMonthName возвращает название месяца на русском
func GetMonthName(month time.Month) string {
	names := map[time.Month]string{
		time.January:   "Январь",
		time.February:  "Февраль",
		time.March:     "Март",
		time.April:     "Апрель",
		time.May:       "Май",
		time.June:      "Июнь",
		time.July:      "Июль",
		time.August:    "Август",
		time.September: "Сентябрь",
		time.October:   "Октябрь",
		time.November:  "Ноябрь",
		time.December:  "Декабрь",
	}
	return names[month]
}
