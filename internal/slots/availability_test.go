package slots

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawSlots(t *testing.T, values ...string) []TimeSlot {
	t.Helper()
	out := make([]TimeSlot, 0, len(values))
	for _, v := range values {
		out = append(out, TimeSlot{Start: dateTime(t, v)})
	}
	return out
}

func TestAvailabilitySlotsForDaySorted(t *testing.T) {
	day := date(t, "2024-06-10")
	m := NewAvailability()
	require.NoError(t, m.Ingest(WindowFor(day, AlignMonday), rawSlots(t,
		"2024-06-10T14:00:00",
		"2024-06-11T08:00:00",
		"2024-06-10T09:00:00",
		"2024-06-10T11:30:00",
	)))

	assert.Equal(t, []string{"09:00", "11:30", "14:00"}, m.SlotsForDay(day))
	assert.Equal(t, []string{"08:00"}, m.SlotsForDay(date(t, "2024-06-11")))
	assert.Equal(t, 4, m.Len())
}

func TestAvailabilityEmptyIngestionIsNotAnError(t *testing.T) {
	m := NewAvailability()
	assert.Equal(t, []string{}, m.SlotsForDay(date(t, "2024-06-10")))

	require.NoError(t, m.Ingest(WindowFor(date(t, "2024-06-10"), AlignMonday), nil))
	for _, d := range []string{"2024-06-10", "2024-06-16", "2030-01-01"} {
		got := m.SlotsForDay(date(t, d))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestAvailabilityIngestReplacesAndCopies(t *testing.T) {
	w := WindowFor(date(t, "2024-06-10"), AlignMonday)
	raw := rawSlots(t, "2024-06-10T09:00:00")

	m := NewAvailability()
	require.NoError(t, m.Ingest(w, raw))
	v1 := m.Version()

	// Изменение исходного среза не должно влиять на модель
	raw[0] = TimeSlot{Start: dateTime(t, "2024-06-10T18:00:00")}
	assert.Equal(t, []string{"09:00"}, m.SlotsForDay(w.Start))

	next := Shift(w, 1)
	require.NoError(t, m.Ingest(next, rawSlots(t, "2024-06-17T10:00:00")))
	assert.Greater(t, m.Version(), v1)
	assert.Empty(t, m.SlotsForDay(w.Start))
	assert.Equal(t, []string{"10:00"}, m.SlotsForDay(next.Start))

	got, ok := m.Window()
	assert.True(t, ok)
	assert.Equal(t, next, got)
}

func TestAvailabilityIgnoresDaysOutsideWindow(t *testing.T) {
	w := WindowFor(date(t, "2024-06-10"), AlignMonday)
	m := NewAvailability()
	require.NoError(t, m.Ingest(w, rawSlots(t, "2024-06-20T09:00:00")))

	assert.Empty(t, m.SlotsForDay(date(t, "2024-06-20")))
}

func TestAvailabilityRejectsInvalidWindow(t *testing.T) {
	m := NewAvailability()
	err := m.Ingest(Window{Start: date(t, "2024-06-10"), End: date(t, "2024-06-12")}, nil)
	assert.ErrorIs(t, err, ErrInvalidWindow)
	assert.Equal(t, uint64(0), m.Version())
}

func TestAvailabilityReset(t *testing.T) {
	w := WindowFor(date(t, "2024-06-10"), AlignMonday)
	m := NewAvailability()
	require.NoError(t, m.Ingest(w, rawSlots(t, "2024-06-10T09:00:00")))
	v := m.Version()

	m.Reset()
	assert.Empty(t, m.SlotsForDay(w.Start))
	assert.Greater(t, m.Version(), v)
	_, ok := m.Window()
	assert.False(t, ok)
}

func TestTimeSlotKeys(t *testing.T) {
	s := TimeSlot{Start: civil.DateTime{
		Date: civil.Date{Year: 2024, Month: 6, Day: 1},
		Time: civil.Time{Hour: 7, Minute: 5},
	}}
	assert.Equal(t, "2024-06-01", s.DateKey())
	assert.Equal(t, "07:05", s.TimeKey())
}

func TestAvailabilityKeepsRawDuplicates(t *testing.T) {
	day := date(t, "2024-06-10")
	m := NewAvailability()
	require.NoError(t, m.Ingest(WindowFor(day, AlignMonday), rawSlots(t,
		"2024-06-10T09:00:00",
		"2024-06-10T09:00:00",
		"2024-06-10T10:00:00",
	)))

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"09:00", "10:00"}, m.SlotsForDay(day))
}
