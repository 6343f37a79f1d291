package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// среда 12 июня 2024, 10:00 по времени клиники
func testClock() *Clock {
	return FixedClock(time.UTC, time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC))
}

func TestNavigatorPrevNeverPrecedesTodayWindow(t *testing.T) {
	clock := testClock()
	nav := NewNavigator(clock, AlignMonday, clock.Today())
	floor := WindowFor(clock.Today(), AlignMonday)

	assert.Equal(t, floor, nav.Window())
	assert.False(t, nav.CanPrev())

	for i := 0; i < 10; i++ {
		moved := nav.Prev()
		assert.False(t, moved)
		assert.False(t, nav.Window().Start.Before(floor.Start))
	}
}

func TestNavigatorNextThenPrev(t *testing.T) {
	clock := testClock()
	nav := NewNavigator(clock, AlignMonday, clock.Today())

	nav.Next()
	nav.Next()
	assert.Equal(t, date(t, "2024-06-24"), nav.Window().Start)
	assert.True(t, nav.CanPrev())

	require.True(t, nav.Prev())
	assert.Equal(t, date(t, "2024-06-17"), nav.Window().Start)
	require.True(t, nav.Prev())
	assert.Equal(t, date(t, "2024-06-10"), nav.Window().Start)
	assert.False(t, nav.Prev())
	assert.Equal(t, date(t, "2024-06-10"), nav.Window().Start)
}

func TestNavigatorAnchorAlignmentClampsToToday(t *testing.T) {
	clock := testClock()
	// запись через 10 дней, окно начинается с её даты
	nav := NewNavigator(clock, AlignAnchor, date(t, "2024-06-22"))
	assert.Equal(t, date(t, "2024-06-22"), nav.Window().Start)

	require.True(t, nav.Prev())
	assert.Equal(t, date(t, "2024-06-15"), nav.Window().Start)

	// полный шаг ушёл бы на 8 июня, окно встаёт на сегодня
	require.True(t, nav.Prev())
	assert.Equal(t, date(t, "2024-06-12"), nav.Window().Start)
	assert.NoError(t, nav.Window().Validate())

	assert.False(t, nav.CanPrev())
	assert.False(t, nav.Prev())
}

func TestNavigatorPastAnchorCannotGoBack(t *testing.T) {
	clock := testClock()
	nav := NewNavigator(clock, AlignMonday, date(t, "2024-05-01"))

	assert.False(t, nav.CanPrev())
	assert.False(t, nav.Prev())
	nav.Next()
	assert.Equal(t, date(t, "2024-05-06"), nav.Window().Start)
}

func TestNavigatorPrevGuardProperty(t *testing.T) {
	clock := testClock()
	for _, align := range []Alignment{AlignMonday, AlignAnchor} {
		floor := WindowFor(clock.Today(), align)
		nav := NewNavigator(clock, align, date(t, "2024-09-03"))
		for i := 0; i < 30; i++ {
			nav.Prev()
			assert.False(t, nav.Window().Start.Before(floor.Start), "align %s step %d", align, i)
			assert.NoError(t, nav.Window().Validate())
		}
		assert.Equal(t, floor, nav.Window())
	}
}
