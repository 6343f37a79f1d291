package slots

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	require.NoError(t, err)
	return d
}

func dateTime(t *testing.T, s string) civil.DateTime {
	t.Helper()
	dt, err := civil.ParseDateTime(s)
	require.NoError(t, err)
	return dt
}

func TestWindowForMondayAlignment(t *testing.T) {
	cases := map[string]string{
		"2024-06-10": "2024-06-10", // понедельник
		"2024-06-12": "2024-06-10",
		"2024-06-16": "2024-06-10", // воскресенье
		"2024-06-17": "2024-06-17",
		"2024-01-03": "2024-01-01",
		"2023-12-31": "2023-12-25",
	}
	for anchor, start := range cases {
		w := WindowFor(date(t, anchor), AlignMonday)
		assert.Equal(t, date(t, start), w.Start, "anchor %s", anchor)
		assert.Equal(t, w.Start.AddDays(6), w.End, "anchor %s", anchor)
		assert.NoError(t, w.Validate())
	}
}

func TestWindowForAnchorAlignment(t *testing.T) {
	w := WindowFor(date(t, "2024-06-12"), AlignAnchor)
	assert.Equal(t, date(t, "2024-06-12"), w.Start)
	assert.Equal(t, date(t, "2024-06-18"), w.End)
}

func TestShift(t *testing.T) {
	w := WindowFor(date(t, "2024-06-10"), AlignMonday)

	next := Shift(w, 1)
	assert.Equal(t, date(t, "2024-06-17"), next.Start)
	assert.Equal(t, date(t, "2024-06-23"), next.End)

	back := Shift(w, -2)
	assert.Equal(t, date(t, "2024-05-27"), back.Start)
	assert.Equal(t, date(t, "2024-06-02"), back.End)

	assert.Equal(t, w, Shift(w, 0))
}

func TestNewWindowRejectsInvalidSpans(t *testing.T) {
	_, err := NewWindow(date(t, "2024-06-10"), date(t, "2024-06-16"))
	require.NoError(t, err)

	_, err = NewWindow(date(t, "2024-06-10"), date(t, "2024-06-09"))
	assert.True(t, errors.Is(err, ErrInvalidWindow))

	_, err = NewWindow(date(t, "2024-06-10"), date(t, "2024-06-17"))
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewWindow(civil.Date{}, date(t, "2024-06-17"))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestWindowDaysAndContains(t *testing.T) {
	w := WindowFor(date(t, "2024-06-10"), AlignMonday)
	days := w.Days()
	require.Len(t, days, WeekLength)
	assert.Equal(t, date(t, "2024-06-10"), days[0])
	assert.Equal(t, date(t, "2024-06-16"), days[6])

	assert.True(t, w.Contains(date(t, "2024-06-16")))
	assert.False(t, w.Contains(date(t, "2024-06-17")))
	assert.False(t, w.Contains(date(t, "2024-06-09")))
}

func TestIsPastDate(t *testing.T) {
	now := dateTime(t, "2024-06-12T15:30:00")

	assert.True(t, IsPastDate(date(t, "2024-06-11"), now))
	assert.False(t, IsPastDate(date(t, "2024-06-12"), now))
	assert.False(t, IsPastDate(date(t, "2024-06-13"), now))
}

func TestIsPastDateTime(t *testing.T) {
	now := dateTime(t, "2024-06-12T15:30:00")

	assert.True(t, IsPastDateTime(date(t, "2024-06-11"), "23:00", now))
	assert.True(t, IsPastDateTime(date(t, "2024-06-12"), "15:00", now))
	assert.False(t, IsPastDateTime(date(t, "2024-06-12"), "15:30", now))
	assert.False(t, IsPastDateTime(date(t, "2024-06-12"), "16:00", now))
	assert.False(t, IsPastDateTime(date(t, "2024-06-13"), "08:00", now))
	assert.False(t, IsPastDateTime(date(t, "2024-06-12"), "bad", now))
}

func TestParseAlignment(t *testing.T) {
	a, err := ParseAlignment(" Monday ")
	require.NoError(t, err)
	assert.Equal(t, AlignMonday, a)

	a, err = ParseAlignment("anchor")
	require.NoError(t, err)
	assert.Equal(t, AlignAnchor, a)

	_, err = ParseAlignment("sunday")
	assert.Error(t, err)
}

func TestClockUsesInjectedLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	// 22:00 UTC 11 июня это уже 12 июня в клинике
	clock := FixedClock(loc, time.Date(2024, 6, 11, 22, 0, 0, 0, time.UTC))

	assert.Equal(t, date(t, "2024-06-12"), clock.Today())
	assert.Equal(t, dateTime(t, "2024-06-12T03:00:00"), clock.Now())
}

func TestParseSlotTime(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	clock := FixedClock(loc, time.Date(2024, 6, 10, 0, 0, 0, 0, loc))

	cases := map[string]string{
		"2024-06-10T09:00:00":       "2024-06-10T09:00:00",
		"2024-06-10T09:30":          "2024-06-10T09:30:00",
		"2024-06-10 10:15:00":       "2024-06-10T10:15:00",
		"2024-06-10T06:00:00Z":      "2024-06-10T09:00:00",
		"2024-06-10T06:00:00.000Z":  "2024-06-10T09:00:00",
		"2024-06-10T09:00:00+03:00": "2024-06-10T09:00:00",
		"2024-06-10T23:00:00-02:00": "2024-06-11T04:00:00",
	}
	for raw, want := range cases {
		got, err := clock.ParseSlotTime(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, dateTime(t, want), got, raw)
	}

	_, err := clock.ParseSlotTime("")
	assert.Error(t, err)
	_, err = clock.ParseSlotTime("10.06.2024 09:00")
	assert.Error(t, err)
}

func TestParseTimeKey(t *testing.T) {
	tm, err := ParseTimeKey("09:05")
	require.NoError(t, err)
	assert.Equal(t, civil.Time{Hour: 9, Minute: 5}, tm)
	assert.Equal(t, "09:05", TimeKey(tm))

	for _, bad := range []string{"9:05", "24:00", "09-05", "", "09:5"} {
		_, err := ParseTimeKey(bad)
		assert.Error(t, err, bad)
	}
}
