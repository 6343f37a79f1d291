package callbacktypes

import (
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
)

// ========================
// Callback Data Patterns
// ========================
// Telegram ограничивает callback data 64 байтами

// Common callbacks
const (
	BackToMain = "back_to_main"
	Noop       = "noop"
	StartLogin = "start_login"
)

// Dentist directory callbacks
const (
	DentistsPage = "dentists_page:" // dentists_page:2
	DentistsCity = "dentists_city:" // dentists_city:3 (индекс города) или dentists_city:all
	ViewDentist  = "view_dentist:"  // view_dentist:12
	BookService  = "book_service:"  // book_service:12:3 (dentist_id:service_id)
	AllCities    = "all"
)

// Slot view callbacks
const (
	SlotDay     = "slot_day:"  // slot_day:2024-06-10
	SlotTime    = "slot_time:" // slot_time:09:30
	SlotPrev    = "slot_week:prev"
	SlotNext    = "slot_week:next"
	SlotConfirm = "slot_confirm"
	SlotKeep    = "slot_keep"
	SlotClose   = "slot_close"
	SlotImage   = "slot_image"
	SlotRefresh = "slot_refresh"
)

// Appointment callbacks
const (
	MyAppointments        = "my_appointments"
	ViewAppointment       = "view_appt:"       // view_appt:5
	CancelAppointment     = "cancel_appt:"     // cancel_appt:5
	ConfirmCancel         = "confirm_cancel:"  // confirm_cancel:5
	RescheduleAppointment = "reschedule_appt:" // reschedule_appt:5
)

// ParseID извлекает ID из callback data
// Например: "view_dentist:123" -> 123
func ParseID(data, prefix string) (int64, error) {
	raw, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return 0, fmt.Errorf("callback %q: missing prefix %q", data, prefix)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("callback %q: %w", data, err)
	}
	return id, nil
}

// ParseIDPair извлекает пару ID: "book_service:12:3" -> 12, 3
func ParseIDPair(data, prefix string) (int64, int64, error) {
	raw, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return 0, 0, fmt.Errorf("callback %q: missing prefix %q", data, prefix)
	}
	first, second, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, 0, fmt.Errorf("callback %q: want two ids", data)
	}
	a, err := strconv.ParseInt(first, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("callback %q: %w", data, err)
	}
	b, err := strconv.ParseInt(second, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("callback %q: %w", data, err)
	}
	return a, b, nil
}

// ParseDate извлекает дату: "slot_day:2024-06-10"
func ParseDate(data, prefix string) (civil.Date, error) {
	raw, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return civil.Date{}, fmt.Errorf("callback %q: missing prefix %q", data, prefix)
	}
	return civil.ParseDate(raw)
}

// ParseSuffix возвращает всё после префикса: "slot_time:09:30" -> "09:30"
func ParseSuffix(data, prefix string) (string, error) {
	raw, ok := strings.CutPrefix(data, prefix)
	if !ok || raw == "" {
		return "", fmt.Errorf("callback %q: missing value after %q", data, prefix)
	}
	return raw, nil
}

// WithID собирает callback data из префикса и ID
func WithID(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}
