package service

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
)

// Интерфейсы внешних зависимостей сервисов.
// Реализации: clinicapi.Client, repository.*, cache.DentistCache.

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type DentistsAPI interface {
	AvailableDentists(ctx context.Context) ([]model.Dentist, error)
}

type SlotsAPI interface {
	AvailableSlots(ctx context.Context, dentistID int64, start, end civil.Date) ([]model.RawSlot, error)
}

type AppointmentsAPI interface {
	MyAppointments(ctx context.Context, token string) ([]model.Appointment, error)
	BookAppointment(ctx context.Context, token string, req model.BookingRequest) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, token string, appointmentID int64) error
	RescheduleAppointment(ctx context.Context, token string, appointmentID int64, req model.RescheduleRequest) error
}

type PatientStore interface {
	Upsert(ctx context.Context, p *model.Patient) (*model.Patient, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Patient, error)
	SaveToken(ctx context.Context, patientID int64, email, token string, expiresAt *time.Time) error
	ClearToken(ctx context.Context, patientID int64) error
}

type EventStore interface {
	Create(ctx context.Context, e *model.BookingEvent) error
	ListByPatient(ctx context.Context, patientID int64, limit int) ([]*model.BookingEvent, error)
}

type DentistCache interface {
	Get(ctx context.Context) ([]model.Dentist, bool, error)
	Set(ctx context.Context, dentists []model.Dentist) error
	Invalidate(ctx context.Context) error
}
