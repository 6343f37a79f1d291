package keyboard

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callbacks(markup *models.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.CallbackData)
		}
	}
	return out
}

func TestGrid(t *testing.T) {
	markup := NewBuilder().Grid(2, Button("a", "1"), Button("b", "2"), Button("c", "3")).Build()
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Len(t, markup.InlineKeyboard[1], 1)
}

func TestPage(t *testing.T) {
	start, end, pages := Page(12, 1, 5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 10, end)
	assert.Equal(t, 3, pages)

	start, end, pages = Page(12, 9, 5)
	assert.Equal(t, 10, start)
	assert.Equal(t, 12, end)
	assert.Equal(t, 3, pages)

	start, end, pages = Page(0, 0, 5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
	assert.Equal(t, 1, pages)
}

func TestPaginationButtons(t *testing.T) {
	assert.Nil(t, PaginationButtons("p:", 0, 1))

	buttons := PaginationButtons("p:", 1, 3)
	require.Len(t, buttons, 3)
	assert.Equal(t, "p:0", buttons[0].CallbackData)
	assert.Equal(t, "p:2", buttons[2].CallbackData)
}

func TestSlotViewKeyboard(t *testing.T) {
	clock := slots.FixedClock(time.UTC, time.Date(2024, 6, 10, 9, 15, 0, 0, time.UTC))
	original := civil.DateTime{Date: civil.Date{Year: 2024, Month: time.June, Day: 10}, Time: civil.Time{Hour: 10}}
	sess := booking.NewEditSession(clock, slots.AlignMonday, booking.Target{}, original)

	ticket := sess.BeginFetch()
	_, err := sess.Apply(ticket, []slots.TimeSlot{
		{Start: civil.DateTime{Date: original.Date, Time: civil.Time{Hour: 9}}},
		{Start: civil.DateTime{Date: original.Date, Time: civil.Time{Hour: 11}}},
	})
	require.NoError(t, err)

	markup := SlotView(booking.KindEdit, sess.View())
	data := callbacks(markup)

	// прошедшее 09:00 не нажимается, к исходному 10:00 можно вернуться
	assert.Contains(t, data, callbacktypes.SlotTime+"11:00")
	assert.NotContains(t, data, callbacktypes.SlotTime+"09:00")
	assert.Contains(t, data, callbacktypes.SlotTime+"10:00")

	assert.Contains(t, data, callbacktypes.SlotDay+"2024-06-11")
	assert.Contains(t, data, callbacktypes.SlotNext)
	assert.NotContains(t, data, callbacktypes.SlotPrev)
	assert.Contains(t, data, callbacktypes.SlotKeep)
	assert.NotContains(t, data, callbacktypes.SlotConfirm)

	require.NoError(t, sess.Select("11:00"))
	assert.Contains(t, callbacks(SlotView(booking.KindEdit, sess.View())), callbacktypes.SlotConfirm)
}

func TestSlotLabel(t *testing.T) {
	assert.Equal(t, "09:00", SlotLabel(booking.Slot{Time: "09:00", State: slots.StateAvailable}))
	assert.Equal(t, "🔵 09:00", SlotLabel(booking.Slot{Time: "09:00", State: slots.StateSelected}))
	assert.Equal(t, "· 09:00", SlotLabel(booking.Slot{Time: "09:00", State: slots.StateAvailable, Past: true}))
}
