package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/Freeeeeet/dentist_booking_bot/internal/service"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDirectory struct {
	dentists []model.Dentist
	err      error
	filter   service.DentistFilter
}

func (f *fakeDirectory) List(_ context.Context, filter service.DentistFilter) ([]model.Dentist, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return service.FilterDentists(f.dentists, filter), nil
}

type fakeViewer struct {
	clock     *slots.Clock
	available []string
	err       error
	dentistID int64
}

func (f *fakeViewer) Clock() *slots.Clock {
	return f.clock
}

func (f *fakeViewer) Preview(_ context.Context, dentistID int64, opts booking.Options) (*booking.Session, error) {
	f.dentistID = dentistID
	if f.err != nil {
		return nil, f.err
	}

	sess := booking.New(f.clock, opts)
	ticket := sess.BeginFetch()
	raw := make([]slots.TimeSlot, 0, len(f.available))
	for _, v := range f.available {
		dt, err := civil.ParseDateTime(v)
		if err != nil {
			return nil, err
		}
		raw = append(raw, slots.TimeSlot{Start: dt})
	}
	if _, err := sess.Apply(ticket, raw); err != nil {
		return nil, err
	}
	return sess, nil
}

type slotViewBody struct {
	Window struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"window"`
	Day     string `json:"day"`
	CanPrev bool   `json:"canGoPrev"`
	Loaded  bool   `json:"loaded"`
	Slots   []struct {
		Time  string `json:"time"`
		State string `json:"state"`
		Past  bool   `json:"past"`
	} `json:"slots"`
}

func newTestServer(dir *fakeDirectory, viewer *fakeViewer) *Server {
	if viewer.clock == nil {
		// понедельник 10 июня 2024, 08:00
		viewer.clock = slots.FixedClock(time.UTC, time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC))
	}
	return NewServer(dir, viewer, slots.AlignMonday, zap.NewNop())
}

func do(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeDirectory{}, &fakeViewer{})

	rec := do(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListDentists(t *testing.T) {
	dir := &fakeDirectory{dentists: []model.Dentist{
		{ID: 1, Name: "Анна", Clinic: model.Clinic{City: "Moscow"}, PriceRange: model.PriceRange{Min: 1000, Max: 5000}},
		{ID: 2, Name: "Борис", Clinic: model.Clinic{City: "Kazan"}, PriceRange: model.PriceRange{Min: 2000, Max: 3000}},
	}}
	s := newTestServer(dir, &fakeViewer{})

	rec := do(t, s, "/v1/dentists?city=moscow&serviceId=3,4&serviceId=5&minPrice=100")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "moscow", dir.filter.City)
	assert.Equal(t, []int64{3, 4, 5}, dir.filter.ServiceIDs)
	require.NotNil(t, dir.filter.MinPrice)
	assert.Equal(t, 100.0, *dir.filter.MinPrice)
	assert.Nil(t, dir.filter.MaxPrice)

	rec = do(t, s, "/v1/dentists?city=kazan")
	require.Equal(t, http.StatusOK, rec.Code)
	var body dentistsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, int64(2), body.Dentists[0].ID)
}

func TestListDentistsErrors(t *testing.T) {
	s := newTestServer(&fakeDirectory{}, &fakeViewer{})
	assert.Equal(t, http.StatusBadRequest, do(t, s, "/v1/dentists?minPrice=abc").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "/v1/dentists?maxPrice=-1").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "/v1/dentists?serviceId=x").Code)

	s = newTestServer(&fakeDirectory{err: errors.New("down")}, &fakeViewer{})
	assert.Equal(t, http.StatusBadGateway, do(t, s, "/v1/dentists").Code)
}

func TestSlotViewBooking(t *testing.T) {
	viewer := &fakeViewer{available: []string{"2024-06-10T09:00:00", "2024-06-11T10:00:00", "2024-06-11T09:30:00"}}
	s := newTestServer(&fakeDirectory{}, viewer)

	rec := do(t, s, "/v1/dentists/7/slot-view?day=2024-06-11")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(7), viewer.dentistID)

	var body slotViewBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2024-06-10", body.Window.Start)
	assert.Equal(t, "2024-06-16", body.Window.End)
	assert.Equal(t, "2024-06-11", body.Day)
	assert.False(t, body.CanPrev)
	assert.True(t, body.Loaded)
	require.Len(t, body.Slots, 2)
	assert.Equal(t, "09:30", body.Slots[0].Time)
	assert.Equal(t, "available", body.Slots[0].State)
	assert.Equal(t, "10:00", body.Slots[1].Time)
}

func TestSlotViewEditWithTentative(t *testing.T) {
	viewer := &fakeViewer{available: []string{"2024-06-12T10:00:00"}}
	s := newTestServer(&fakeDirectory{}, viewer)

	rec := do(t, s, "/v1/dentists/7/slot-view?align=anchor&pinned=2024-06-12T12:00&tentative=2024-06-12T10:00")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body slotViewBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// окно строится от даты записи
	assert.Equal(t, "2024-06-12", body.Window.Start)
	assert.Equal(t, "2024-06-12", body.Day)
	require.Len(t, body.Slots, 2)
	assert.Equal(t, "selected", body.Slots[0].State)
	assert.Equal(t, "12:00", body.Slots[1].Time)
	assert.Equal(t, "pinned-unavailable", body.Slots[1].State)
}

func TestSlotViewTentativeOnOriginalTime(t *testing.T) {
	viewer := &fakeViewer{available: []string{"2024-06-10T09:30:00"}}
	s := newTestServer(&fakeDirectory{}, viewer)

	rec := do(t, s, "/v1/dentists/7/slot-view?pinned=2024-06-10T09:00&tentative=2024-06-10T09:00")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body slotViewBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Slots, 2)
	assert.Equal(t, "09:00", body.Slots[0].Time)
	assert.Equal(t, "selected-and-pinned", body.Slots[0].State)
	assert.Equal(t, "available", body.Slots[1].State)
}

func TestSlotViewBadParams(t *testing.T) {
	viewer := &fakeViewer{available: []string{"2024-06-10T09:00:00"}}
	s := newTestServer(&fakeDirectory{}, viewer)

	for _, target := range []string{
		"/v1/dentists/abc/slot-view",
		"/v1/dentists/0/slot-view",
		"/v1/dentists/7/slot-view?align=sunday",
		"/v1/dentists/7/slot-view?anchor=10.06.2024",
		"/v1/dentists/7/slot-view?day=2024-06-30",
		"/v1/dentists/7/slot-view?pinned=tomorrow",
		"/v1/dentists/7/slot-view?tentative=2024-06-10T11:00",
	} {
		rec := do(t, s, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestSlotViewFetchFailure(t *testing.T) {
	s := newTestServer(&fakeDirectory{}, &fakeViewer{err: errors.New("refresh slots: timeout")})

	rec := do(t, s, "/v1/dentists/7/slot-view")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
