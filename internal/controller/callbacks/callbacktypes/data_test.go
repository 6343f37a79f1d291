package callbacktypes

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("view_dentist:123", ViewDentist)
	require.NoError(t, err)
	assert.Equal(t, int64(123), id)

	_, err = ParseID("view_dentist:abc", ViewDentist)
	assert.Error(t, err)

	_, err = ParseID("cancel_appt:1", ViewDentist)
	assert.Error(t, err)
}

func TestParseIDPair(t *testing.T) {
	dentistID, serviceID, err := ParseIDPair("book_service:12:3", BookService)
	require.NoError(t, err)
	assert.Equal(t, int64(12), dentistID)
	assert.Equal(t, int64(3), serviceID)

	_, _, err = ParseIDPair("book_service:12", BookService)
	assert.Error(t, err)
}

func TestParseDateAndSuffix(t *testing.T) {
	d, err := ParseDate("slot_day:2024-06-10", SlotDay)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: 6, Day: 10}, d)

	_, err = ParseDate("slot_day:10.06.2024", SlotDay)
	assert.Error(t, err)

	v, err := ParseSuffix("slot_time:09:30", SlotTime)
	require.NoError(t, err)
	assert.Equal(t, "09:30", v)

	_, err = ParseSuffix("slot_time:", SlotTime)
	assert.Error(t, err)
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	longest := []string{
		WithID(RescheduleAppointment, 1<<62),
		BookService + "9223372036854775807:9223372036854775807",
		SlotDay + "2024-06-10",
	}
	for _, data := range longest {
		assert.LessOrEqual(t, len(data), 64, data)
	}
}
