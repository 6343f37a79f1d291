package service

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
)

type fakePatients struct {
	mu     sync.Mutex
	nextID int64
	byTG   map[int64]*model.Patient
}

func newFakePatients() *fakePatients {
	return &fakePatients{byTG: make(map[int64]*model.Patient)}
}

func (f *fakePatients) Upsert(_ context.Context, p *model.Patient) (*model.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.byTG[p.TelegramID]; ok {
		existing.Username = p.Username
		existing.FirstName = p.FirstName
		existing.LastName = p.LastName
		c := *existing
		return &c, nil
	}
	f.nextID++
	c := *p
	c.ID = f.nextID
	f.byTG[p.TelegramID] = &c
	out := c
	return &out, nil
}

func (f *fakePatients) GetByTelegramID(_ context.Context, telegramID int64) (*model.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.byTG[telegramID]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (f *fakePatients) byID(id int64) *model.Patient {
	for _, p := range f.byTG {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (f *fakePatients) SaveToken(_ context.Context, patientID int64, email, token string, expiresAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := f.byID(patientID)
	p.Email = &email
	p.APIToken = &token
	p.TokenExpiresAt = expiresAt
	return nil
}

func (f *fakePatients) ClearToken(_ context.Context, patientID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := f.byID(patientID)
	p.APIToken = nil
	p.TokenExpiresAt = nil
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []*model.BookingEvent
}

func (f *fakeEvents) Create(_ context.Context, e *model.BookingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = int64(len(f.events) + 1)
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEvents) ListByPatient(_ context.Context, patientID int64, limit int) ([]*model.BookingEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.BookingEvent
	for i := len(f.events) - 1; i >= 0 && len(out) < limit; i-- {
		if f.events[i].PatientID == patientID {
			out = append(out, f.events[i])
		}
	}
	return out, nil
}

type slotsCall struct {
	dentistID  int64
	start, end civil.Date
}

// fakeClinic подменяет API клиники
type fakeClinic struct {
	mu sync.Mutex

	token    string
	loginErr error

	dentists     []model.Dentist
	dentistCalls int

	slots      map[civil.Date][]model.RawSlot
	slotsErr   error
	slotsCalls []slotsCall

	appointments []model.Appointment
	apptErr      error
	bookErr      error
	booked       []model.BookingRequest
	rescheduled  map[int64]model.RescheduleRequest
	cancelled    []int64
	lastToken    string
}

func newFakeClinic() *fakeClinic {
	return &fakeClinic{
		slots:       make(map[civil.Date][]model.RawSlot),
		rescheduled: make(map[int64]model.RescheduleRequest),
	}
}

func (f *fakeClinic) Login(_ context.Context, _, _ string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeClinic) AvailableDentists(_ context.Context) ([]model.Dentist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dentistCalls++
	return f.dentists, nil
}

func (f *fakeClinic) AvailableSlots(_ context.Context, dentistID int64, start, end civil.Date) ([]model.RawSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.slotsCalls = append(f.slotsCalls, slotsCall{dentistID: dentistID, start: start, end: end})
	if f.slotsErr != nil {
		return nil, f.slotsErr
	}
	out := []model.RawSlot{}
	for d := start; !d.After(end); d = d.AddDays(1) {
		out = append(out, f.slots[d]...)
	}
	return out, nil
}

func (f *fakeClinic) addSlots(day civil.Date, starts ...string) {
	for _, s := range starts {
		f.slots[day] = append(f.slots[day], model.RawSlot{StartTime: s})
	}
}

func (f *fakeClinic) MyAppointments(_ context.Context, token string) ([]model.Appointment, error) {
	f.lastToken = token
	if f.apptErr != nil {
		return nil, f.apptErr
	}
	return f.appointments, nil
}

func (f *fakeClinic) BookAppointment(_ context.Context, token string, req model.BookingRequest) (*model.Appointment, error) {
	f.lastToken = token
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	f.booked = append(f.booked, req)
	return &model.Appointment{ID: 100 + int64(len(f.booked)), StartTime: req.StartDate}, nil
}

func (f *fakeClinic) CancelAppointment(_ context.Context, token string, appointmentID int64) error {
	f.lastToken = token
	if f.bookErr != nil {
		return f.bookErr
	}
	f.cancelled = append(f.cancelled, appointmentID)
	return nil
}

func (f *fakeClinic) RescheduleAppointment(_ context.Context, token string, appointmentID int64, req model.RescheduleRequest) error {
	f.lastToken = token
	if f.bookErr != nil {
		return f.bookErr
	}
	f.rescheduled[appointmentID] = req
	return nil
}

type fakeCache struct {
	dentists []model.Dentist
	ok       bool
	getErr   error
	sets     int
}

func (f *fakeCache) Get(_ context.Context) ([]model.Dentist, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.dentists, f.ok, nil
}

func (f *fakeCache) Set(_ context.Context, dentists []model.Dentist) error {
	f.dentists = dentists
	f.ok = true
	f.sets++
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context) error {
	f.dentists = nil
	f.ok = false
	return nil
}
