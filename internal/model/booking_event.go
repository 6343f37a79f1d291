package model

import "time"

type BookingEventKind string

const (
	BookingEventBooked      BookingEventKind = "booked"
	BookingEventCancelled   BookingEventKind = "cancelled"
	BookingEventRescheduled BookingEventKind = "rescheduled"
)

// BookingEvent действие пациента, выполненное через бота
type BookingEvent struct {
	ID            int64            `json:"id"`
	PatientID     int64            `json:"patient_id"`
	Kind          BookingEventKind `json:"kind"`
	AppointmentID *int64           `json:"appointment_id"`
	DentistID     *int64           `json:"dentist_id"`
	SlotStart     *string          `json:"slot_start"`
	CreatedAt     time.Time        `json:"created_at"`
}
