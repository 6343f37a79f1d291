package handlers

import (
	"testing"
	"time"

	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"github.com/stretchr/testify/assert"
)

func TestFormatEvent(t *testing.T) {
	msk, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Skip("tzdata not available")
	}
	clock := slots.FixedClock(msk, time.Date(2024, 6, 10, 8, 0, 0, 0, msk))

	id := int64(42)
	start := "2024-06-12T10:30:00"
	e := &model.BookingEvent{
		Kind:          model.BookingEventRescheduled,
		AppointmentID: &id,
		SlotStart:     &start,
		CreatedAt:     time.Date(2024, 6, 10, 6, 15, 0, 0, time.UTC),
	}

	// время события показывается в поясе клиники
	assert.Equal(t, "🔁 Перенос · 10.06.2024 09:15 · #42 → 12.06.2024 10:30", FormatEvent(e, clock))

	bad := "завтра"
	e = &model.BookingEvent{Kind: model.BookingEventCancelled, SlotStart: &bad, CreatedAt: e.CreatedAt}
	assert.Equal(t, "❌ Отмена · 10.06.2024 09:15 → завтра", FormatEvent(e, clock))
}

func TestFormatHistory(t *testing.T) {
	clock := slots.FixedClock(time.UTC, time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC))

	assert.Contains(t, FormatHistory(nil, clock), "История пуста")

	events := []*model.BookingEvent{
		{Kind: model.BookingEventBooked, CreatedAt: time.Date(2024, 6, 10, 7, 0, 0, 0, time.UTC)},
		{Kind: model.BookingEventCancelled, CreatedAt: time.Date(2024, 6, 9, 7, 0, 0, 0, time.UTC)},
	}
	got := FormatHistory(events, clock)
	assert.Contains(t, got, "🆕 Запись · 10.06.2024 07:00")
	assert.Contains(t, got, "❌ Отмена · 09.06.2024 07:00")
}

func TestEmailPattern(t *testing.T) {
	for _, ok := range []string{"patient@example.com", "a.b+c@clinic.ru"} {
		assert.True(t, emailPattern.MatchString(ok), ok)
	}
	for _, bad := range []string{"", "patient", "patient@", "@example.com", "pa tient@example.com", "patient@example"} {
		assert.False(t, emailPattern.MatchString(bad), bad)
	}
}
