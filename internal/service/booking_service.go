package service

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
	"github.com/Freeeeeet/dentist_booking_bot/internal/clinicapi"
	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"go.uber.org/zap"
)

type BookingService struct {
	slotsAPI     SlotsAPI
	appointments AppointmentsAPI
	patients     *PatientService
	events       EventStore
	clock        *slots.Clock
	bookingAlign slots.Alignment
	editAlign    slots.Alignment
	logger       *zap.Logger
}

// BookingConfig выравнивание окон для записи и для переноса
type BookingConfig struct {
	BookingAlign slots.Alignment
	EditAlign    slots.Alignment
}

func NewBookingService(
	slotsAPI SlotsAPI,
	appointments AppointmentsAPI,
	patients *PatientService,
	events EventStore,
	clock *slots.Clock,
	cfg BookingConfig,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		slotsAPI:     slotsAPI,
		appointments: appointments,
		patients:     patients,
		events:       events,
		clock:        clock,
		bookingAlign: cfg.BookingAlign,
		editAlign:    cfg.EditAlign,
		logger:       logger,
	}
}

// Clock часы клиники
func (s *BookingService) Clock() *slots.Clock {
	return s.clock
}

// Outcome результат подтверждения
type Outcome struct {
	Kind        booking.Kind
	When        civil.DateTime
	Changed     bool               // false если перенос подтверждён без изменения времени
	Appointment *model.Appointment // Только для новой записи
}

// OpenBooking открывает запись к врачу на услугу и загружает первую неделю
func (s *BookingService) OpenBooking(ctx context.Context, dentist *model.Dentist, serviceID int64) (*booking.Session, error) {
	if _, ok := dentist.ServiceByID(serviceID); !ok {
		return nil, ErrServiceNotFound
	}

	sess := booking.NewBookingSession(s.clock, s.bookingAlign, booking.Target{
		DentistID: dentist.ID,
		ClinicID:  dentist.Clinic.ID,
		ServiceID: serviceID,
	})

	s.logger.Info("Booking session opened",
		zap.String("session_id", sess.ID().String()),
		zap.Int64("dentist_id", dentist.ID),
		zap.Int64("service_id", serviceID),
	)

	// ошибку загрузки показывает представление, сессия остаётся рабочей
	if err := s.Refresh(ctx, sess); err != nil {
		return sess, err
	}
	return sess, nil
}

// OpenEdit открывает перенос записи
func (s *BookingService) OpenEdit(ctx context.Context, appt *model.Appointment) (*booking.Session, error) {
	if !appt.Active() {
		return nil, ErrNotActive
	}

	original, err := s.clock.ParseSlotTime(appt.StartTime)
	if err != nil {
		return nil, fmt.Errorf("open edit: %w", err)
	}

	sess := booking.NewEditSession(s.clock, s.editAlign, booking.Target{
		DentistID:     appt.DentistID,
		ClinicID:      appt.ClinicID,
		ServiceID:     appt.ServiceID,
		AppointmentID: appt.ID,
	}, original)

	s.logger.Info("Edit session opened",
		zap.String("session_id", sess.ID().String()),
		zap.Int64("appointment_id", appt.ID),
		zap.Stringer("original", original),
	)

	if err := s.Refresh(ctx, sess); err != nil {
		return sess, err
	}
	return sess, nil
}

// Preview строит временную сессию для просмотра без записи
func (s *BookingService) Preview(ctx context.Context, dentistID int64, opts booking.Options) (*booking.Session, error) {
	opts.Target.DentistID = dentistID
	sess := booking.New(s.clock, opts)
	if err := s.Refresh(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Refresh загружает слоты текущего окна. Ответ, пришедший после смены окна, отбрасывается.
func (s *BookingService) Refresh(ctx context.Context, sess *booking.Session) error {
	ticket := sess.BeginFetch()
	target := sess.Target()

	raw, err := s.slotsAPI.AvailableSlots(ctx, target.DentistID, ticket.Window.Start, ticket.Window.End)
	if err != nil {
		sess.Fail(ticket)
		s.logger.Error("Failed to fetch slots",
			zap.String("session_id", sess.ID().String()),
			zap.String("fetch_id", ticket.ID.String()),
			zap.Stringer("window", ticket.Window),
			zap.Error(err),
		)
		return fmt.Errorf("refresh slots: %w", err)
	}

	parsed := make([]slots.TimeSlot, 0, len(raw))
	for _, r := range raw {
		start, err := s.clock.ParseSlotTime(r.StartTime)
		if err != nil {
			s.logger.Warn("Skipping malformed slot", zap.String("start_time", r.StartTime), zap.Error(err))
			continue
		}
		parsed = append(parsed, slots.TimeSlot{Start: start})
	}

	applied, err := sess.Apply(ticket, parsed)
	if err != nil {
		return fmt.Errorf("refresh slots: %w", err)
	}
	if !applied {
		s.logger.Debug("Stale slots response dropped",
			zap.String("session_id", sess.ID().String()),
			zap.String("fetch_id", ticket.ID.String()),
			zap.Stringer("window", ticket.Window),
		)
		return nil
	}

	s.logger.Debug("Slots loaded",
		zap.String("session_id", sess.ID().String()),
		zap.Stringer("window", ticket.Window),
		zap.Int("count", len(parsed)),
	)
	return nil
}

// PrevWeek переходит на неделю назад и перезагружает слоты.
// false если переход запрещён, тогда запроса нет.
func (s *BookingService) PrevWeek(ctx context.Context, sess *booking.Session) (bool, error) {
	if !sess.PrevWeek() {
		return false, nil
	}
	return true, s.Refresh(ctx, sess)
}

// NextWeek переходит на неделю вперёд и перезагружает слоты
func (s *BookingService) NextWeek(ctx context.Context, sess *booking.Session) error {
	sess.NextWeek()
	return s.Refresh(ctx, sess)
}

// Confirm отправляет выбранное время в клинику
func (s *BookingService) Confirm(ctx context.Context, account *Account, sess *booking.Session) (*Outcome, error) {
	when, changed, err := sess.Choice()
	if err != nil {
		return nil, err
	}

	target := sess.Target()
	outcome := &Outcome{Kind: sess.Kind(), When: when, Changed: changed}

	switch sess.Kind() {
	case booking.KindEdit:
		if !changed {
			s.logger.Info("Reschedule kept original time",
				zap.String("session_id", sess.ID().String()),
				zap.Int64("appointment_id", target.AppointmentID),
			)
			return outcome, nil
		}
		err = s.appointments.RescheduleAppointment(ctx, account.Token, target.AppointmentID, model.RescheduleRequest{
			NewDate: RequestTime(when),
		})
	default:
		outcome.Appointment, err = s.appointments.BookAppointment(ctx, account.Token, model.BookingRequest{
			DentistID: target.DentistID,
			ClinicID:  target.ClinicID,
			ServiceID: target.ServiceID,
			StartDate: RequestTime(when),
		})
	}
	if err != nil {
		return nil, s.confirmFailed(ctx, account, sess, err)
	}

	sess.ClearSelection()
	if err := s.Refresh(ctx, sess); err != nil {
		s.logger.Warn("Refresh after confirm failed", zap.Error(err))
	}

	event := &model.BookingEvent{
		PatientID: account.Patient.ID,
		Kind:      model.BookingEventBooked,
		DentistID: &target.DentistID,
		SlotStart: ptr(when.String()),
	}
	if sess.Kind() == booking.KindEdit {
		event.Kind = model.BookingEventRescheduled
		event.AppointmentID = &target.AppointmentID
	} else if outcome.Appointment != nil && outcome.Appointment.ID != 0 {
		event.AppointmentID = &outcome.Appointment.ID
	}
	s.recordEvent(ctx, event)

	s.logger.Info("Appointment confirmed",
		zap.String("session_id", sess.ID().String()),
		zap.String("kind", string(sess.Kind())),
		zap.Int64("patient_id", account.Patient.ID),
		zap.Stringer("when", when),
	)
	return outcome, nil
}

func (s *BookingService) confirmFailed(ctx context.Context, account *Account, sess *booking.Session, err error) error {
	if errors.Is(err, clinicapi.ErrConflict) {
		s.logger.Info("Slot taken before confirm", zap.String("session_id", sess.ID().String()))
		sess.ClearSelection()
		if refreshErr := s.Refresh(ctx, sess); refreshErr != nil {
			s.logger.Warn("Refresh after conflict failed", zap.Error(refreshErr))
		}
		return ErrSlotTaken
	}

	s.logger.Error("Failed to confirm appointment",
		zap.String("session_id", sess.ID().String()),
		zap.Error(err),
	)
	return s.patients.HandleAPIError(ctx, account, err)
}

// Cancel отменяет запись пациента
func (s *BookingService) Cancel(ctx context.Context, account *Account, appointmentID int64) error {
	if err := s.appointments.CancelAppointment(ctx, account.Token, appointmentID); err != nil {
		s.logger.Error("Failed to cancel appointment", zap.Int64("appointment_id", appointmentID), zap.Error(err))
		return s.patients.HandleAPIError(ctx, account, err)
	}

	s.recordEvent(ctx, &model.BookingEvent{
		PatientID:     account.Patient.ID,
		Kind:          model.BookingEventCancelled,
		AppointmentID: &appointmentID,
	})

	s.logger.Info("Appointment cancelled",
		zap.Int64("patient_id", account.Patient.ID),
		zap.Int64("appointment_id", appointmentID),
	)
	return nil
}

// MyAppointments записи пациента
func (s *BookingService) MyAppointments(ctx context.Context, account *Account) ([]model.Appointment, error) {
	appointments, err := s.appointments.MyAppointments(ctx, account.Token)
	if err != nil {
		return nil, s.patients.HandleAPIError(ctx, account, err)
	}
	return appointments, nil
}

// Appointment одна запись пациента по ID
func (s *BookingService) Appointment(ctx context.Context, account *Account, appointmentID int64) (*model.Appointment, error) {
	appointments, err := s.MyAppointments(ctx, account)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		if appointments[i].ID == appointmentID {
			return &appointments[i], nil
		}
	}
	return nil, clinicapi.ErrNotFound
}

// History последние действия пациента через бота
func (s *BookingService) History(ctx context.Context, patientID int64, limit int) ([]*model.BookingEvent, error) {
	if s.events == nil {
		return nil, nil
	}
	return s.events.ListByPatient(ctx, patientID, limit)
}

func (s *BookingService) recordEvent(ctx context.Context, e *model.BookingEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Create(ctx, e); err != nil {
		s.logger.Warn("Failed to record booking event",
			zap.Int64("patient_id", e.PatientID),
			zap.String("kind", string(e.Kind)),
			zap.Error(err),
		)
	}
}

// RequestTime форматирует время для API клиники: yyyy-MM-ddTHH:mm:ss без пояса
func RequestTime(dt civil.DateTime) string {
	return fmt.Sprintf("%sT%02d:%02d:%02d", dt.Date, dt.Time.Hour, dt.Time.Minute, dt.Time.Second)
}

func ptr[T any](v T) *T {
	return &v
}
