package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/Freeeeeet/dentist_booking_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingEventRepository struct {
	*base.Repository
}

func NewBookingEventRepository(pool *pgxpool.Pool) *BookingEventRepository {
	return &BookingEventRepository{Repository: base.NewRepository(pool, "booking_events")}
}

// Create сохраняет событие
func (r *BookingEventRepository) Create(ctx context.Context, e *model.BookingEvent) error {
	query := `
		INSERT INTO booking_events (patient_id, kind, appointment_id, dentist_id, slot_start)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, "create", query,
		e.PatientID,
		e.Kind,
		e.AppointmentID,
		e.DentistID,
		e.SlotStart,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("create booking event: %w", err)
	}
	return nil
}

// ListByPatient последние события пациента
func (r *BookingEventRepository) ListByPatient(ctx context.Context, patientID int64, limit int) ([]*model.BookingEvent, error) {
	query := `
		SELECT id, patient_id, kind, appointment_id, dentist_id, slot_start, created_at
		FROM booking_events
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	events, err := base.Collect(ctx, r.Repository, "list_by_patient", query, scanBookingEvent, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list booking events: %w", err)
	}
	return events, nil
}

func scanBookingEvent(row pgx.CollectableRow) (*model.BookingEvent, error) {
	var e model.BookingEvent
	err := row.Scan(
		&e.ID,
		&e.PatientID,
		&e.Kind,
		&e.AppointmentID,
		&e.DentistID,
		&e.SlotStart,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
