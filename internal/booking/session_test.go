package booking

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// понедельник 10 июня 2024, 08:00
func mondayMorning() *slots.Clock {
	return slots.FixedClock(time.UTC, time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC))
}

func mustDate(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	require.NoError(t, err)
	return d
}

func mustDateTime(t *testing.T, s string) civil.DateTime {
	t.Helper()
	dt, err := civil.ParseDateTime(s)
	require.NoError(t, err)
	return dt
}

func timeSlots(t *testing.T, values ...string) []slots.TimeSlot {
	t.Helper()
	out := make([]slots.TimeSlot, 0, len(values))
	for _, v := range values {
		out = append(out, slots.TimeSlot{Start: mustDateTime(t, v)})
	}
	return out
}

func load(t *testing.T, s *Session, values ...string) {
	t.Helper()
	ticket := s.BeginFetch()
	applied, err := s.Apply(ticket, timeSlots(t, values...))
	require.NoError(t, err)
	require.True(t, applied)
}

func states(view View) [][2]string {
	out := make([][2]string, 0, len(view.Slots))
	for _, s := range view.Slots {
		out = append(out, [2]string{s.Time, string(s.State)})
	}
	return out
}

func TestBookingScenario(t *testing.T) {
	s := NewBookingSession(mondayMorning(), slots.AlignMonday, Target{DentistID: 1})
	load(t, s, "2024-06-10T09:00:00", "2024-06-10T09:30:00")

	require.NoError(t, s.Select("09:30"))

	view := s.View()
	assert.Equal(t, mustDate(t, "2024-06-10"), view.Day)
	assert.Equal(t, [][2]string{
		{"09:00", "available"},
		{"09:30", "selected"},
	}, states(view))
	assert.False(t, view.CanPrev)
	assert.True(t, view.Loaded)

	dt, changed, err := s.Choice()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, mustDateTime(t, "2024-06-10T09:30:00"), dt)
}

func TestEditScenario(t *testing.T) {
	s := NewEditSession(mondayMorning(), slots.AlignAnchor, Target{DentistID: 1, AppointmentID: 9},
		mustDateTime(t, "2024-06-10T09:00:00"))
	load(t, s, "2024-06-10T09:30:00")

	assert.Equal(t, [][2]string{
		{"09:00", "pinned-unavailable"},
		{"09:30", "available"},
	}, states(s.View()))

	require.NoError(t, s.Select("09:30"))
	assert.Equal(t, [][2]string{
		{"09:00", "pinned-unavailable"},
		{"09:30", "selected"},
	}, states(s.View()))
}

func TestEditReturnToOriginalTime(t *testing.T) {
	s := NewEditSession(mondayMorning(), slots.AlignAnchor, Target{DentistID: 1, AppointmentID: 9},
		mustDateTime(t, "2024-06-10T09:00:00"))
	load(t, s, "2024-06-10T09:30:00")

	require.NoError(t, s.Select("09:30"))

	// исходное время занято на сервере, но это своя запись
	require.NoError(t, s.Select("09:00"))
	assert.Equal(t, [][2]string{
		{"09:00", "selected-and-pinned"},
		{"09:30", "available"},
	}, states(s.View()))

	dt, changed, err := s.Choice()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, mustDateTime(t, "2024-06-10T09:00:00"), dt)
}

func TestEditCannotReturnToPastOriginal(t *testing.T) {
	clock := slots.FixedClock(time.UTC, time.Date(2024, 6, 10, 9, 15, 0, 0, time.UTC))
	s := NewEditSession(clock, slots.AlignAnchor, Target{AppointmentID: 9},
		mustDateTime(t, "2024-06-10T09:00:00"))
	load(t, s, "2024-06-10T09:30:00")

	assert.ErrorIs(t, s.Select("09:00"), ErrSlotUnavailable)
}

func TestEditKeepOriginalIsNoop(t *testing.T) {
	s := NewEditSession(mondayMorning(), slots.AlignAnchor, Target{AppointmentID: 9},
		mustDateTime(t, "2024-06-11T10:00:00"))
	load(t, s, "2024-06-11T10:00:00", "2024-06-11T11:00:00")

	dt, changed, err := s.Choice()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, mustDateTime(t, "2024-06-11T10:00:00"), dt)

	// исходное время всё ещё свободно, его можно выбрать явно
	require.NoError(t, s.Select("10:00"))
	assert.Equal(t, [][2]string{
		{"10:00", "selected-and-pinned"},
		{"11:00", "available"},
	}, states(s.View()))
	_, changed, err = s.Choice()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, s.Select("11:00"))
	s.ClearSelection()
	_, changed, err = s.Choice()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestBookingWithoutSelection(t *testing.T) {
	s := NewBookingSession(mondayMorning(), slots.AlignMonday, Target{})
	_, _, err := s.Choice()
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	s := NewBookingSession(mondayMorning(), slots.AlignMonday, Target{})

	stale := s.BeginFetch()
	s.NextWeek()
	fresh := s.BeginFetch()

	applied, err := s.Apply(fresh, timeSlots(t, "2024-06-17T12:00:00"))
	require.NoError(t, err)
	assert.True(t, applied)

	// медленный ответ для прошлой недели приходит позже
	applied, err = s.Apply(stale, timeSlots(t, "2024-06-10T09:00:00"))
	require.NoError(t, err)
	assert.False(t, applied)

	view := s.View()
	assert.Equal(t, mustDate(t, "2024-06-17"), view.Window.Start)
	assert.Equal(t, mustDate(t, "2024-06-17"), view.Day)
	assert.Equal(t, [][2]string{{"12:00", "available"}}, states(view))
}

func TestRepeatedFetchForSameWindowKeepsLatest(t *testing.T) {
	s := NewBookingSession(mondayMorning(), slots.AlignMonday, Target{})

	first := s.BeginFetch()
	second := s.BeginFetch()

	applied, err := s.Apply(second, timeSlots(t, "2024-06-10T10:00:00"))
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = s.Apply(first, timeSlots(t, "2024-06-10T09:00:00"))
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, [][2]string{{"10:00", "available"}}, states(s.View()))
}

func TestFailResetsModel(t *testing.T) {
	s := NewBookingSession(mondayMorning(), slots.AlignMonday, Target{})
	load(t, s, "2024-06-10T09:00:00")

	ticket := s.BeginFetch()
	assert.True(t, s.Fail(ticket))

	view := s.View()
	assert.False(t, view.Loaded)
	assert.Empty(t, view.Slots)

	s.NextWeek()
	assert.False(t, s.Fail(ticket))
}

func TestBookingDayChangeClearsSelection(t *testing.T) {
	s := NewBookingSession(mondayMorning(), slots.AlignMonday, Target{})
	load(t, s, "2024-06-10T09:00:00", "2024-06-11T09:00:00")

	require.NoError(t, s.Select("09:00"))
	require.NoError(t, s.ViewDay(mustDate(t, "2024-06-11")))
	assert.Nil(t, s.View().Tentative)

	_, _, err := s.Choice()
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestEditDayChangeKeepsSelection(t *testing.T) {
	s := NewEditSession(mondayMorning(), slots.AlignMonday, Target{},
		mustDateTime(t, "2024-06-12T09:00:00"))
	load(t, s, "2024-06-12T10:00:00", "2024-06-13T09:00:00")

	require.NoError(t, s.Select("10:00"))
	require.NoError(t, s.ViewDay(mustDate(t, "2024-06-13")))

	view := s.View()
	require.NotNil(t, view.Tentative)
	assert.Equal(t, slots.Selection{Date: mustDate(t, "2024-06-12"), Time: "10:00"}, *view.Tentative)
	assert.Equal(t, [][2]string{{"09:00", "available"}}, states(view))

	dt, changed, err := s.Choice()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, mustDateTime(t, "2024-06-12T10:00:00"), dt)
}

func TestViewDayGuards(t *testing.T) {
	clock := slots.FixedClock(time.UTC, time.Date(2024, 6, 12, 8, 0, 0, 0, time.UTC))
	s := NewBookingSession(clock, slots.AlignMonday, Target{})

	assert.ErrorIs(t, s.ViewDay(mustDate(t, "2024-06-11")), ErrPastDate)
	assert.ErrorIs(t, s.ViewDay(mustDate(t, "2024-06-20")), ErrOutsideWindow)
	assert.NoError(t, s.ViewDay(mustDate(t, "2024-06-16")))
}

func TestPastTimesAreNotClickable(t *testing.T) {
	clock := slots.FixedClock(time.UTC, time.Date(2024, 6, 10, 9, 15, 0, 0, time.UTC))
	s := NewBookingSession(clock, slots.AlignMonday, Target{})
	load(t, s, "2024-06-10T09:00:00", "2024-06-10T09:30:00")

	view := s.View()
	require.Len(t, view.Slots, 2)
	assert.True(t, view.Slots[0].Past)
	assert.False(t, view.Slots[0].Clickable())
	assert.True(t, view.Slots[1].Clickable())

	assert.ErrorIs(t, s.Select("09:00"), ErrSlotUnavailable)
	assert.ErrorIs(t, s.Select("12:00"), ErrSlotUnavailable)
	assert.NoError(t, s.Select("09:30"))
}

func TestWeekNavigationMovesViewedDay(t *testing.T) {
	clock := slots.FixedClock(time.UTC, time.Date(2024, 6, 12, 8, 0, 0, 0, time.UTC))
	s := NewBookingSession(clock, slots.AlignMonday, Target{})

	assert.False(t, s.PrevWeek())
	s.NextWeek()
	assert.Equal(t, mustDate(t, "2024-06-17"), s.View().Day)

	require.True(t, s.PrevWeek())
	view := s.View()
	assert.Equal(t, mustDate(t, "2024-06-10"), view.Window.Start)
	// понедельник и вторник уже прошли
	assert.Equal(t, mustDate(t, "2024-06-12"), view.Day)
	assert.True(t, view.Days[0].Past)
	assert.True(t, view.Days[2].Viewed)
}

func TestEditSessionForPastAppointmentStartsToday(t *testing.T) {
	s := NewEditSession(mondayMorning(), slots.AlignAnchor, Target{}, mustDateTime(t, "2024-06-01T09:00:00"))
	view := s.View()
	assert.Equal(t, mustDate(t, "2024-06-10"), view.Window.Start)
	assert.Equal(t, mustDate(t, "2024-06-10"), view.Day)
}

func TestWeekReconcilesEveryDay(t *testing.T) {
	s := NewEditSession(mondayMorning(), slots.AlignMonday, Target{}, mustDateTime(t, "2024-06-12T09:00:00"))
	load(t, s, "2024-06-10T10:00:00", "2024-06-14T15:00:00")

	week := s.Week()
	require.Len(t, week, slots.WeekLength)
	assert.Equal(t, []Slot{{Time: "10:00", State: slots.StateAvailable}}, week[mustDate(t, "2024-06-10")])
	assert.Equal(t, []Slot{{Time: "09:00", State: slots.StatePinnedUnavailable}}, week[mustDate(t, "2024-06-12")])
	assert.Empty(t, week[mustDate(t, "2024-06-16")])
}

func TestViewCountsSlotsPerDay(t *testing.T) {
	s := NewBookingSession(mondayMorning(), slots.AlignMonday, Target{})
	load(t, s, "2024-06-10T09:00:00", "2024-06-10T10:00:00", "2024-06-13T09:00:00")

	view := s.View()
	require.Len(t, view.Days, slots.WeekLength)
	assert.Equal(t, 2, view.Days[0].Slots)
	assert.Equal(t, 1, view.Days[3].Slots)
	assert.Equal(t, 0, view.Days[6].Slots)
}
