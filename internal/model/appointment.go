package model

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает подтверждения клиники
	AppointmentStatusConfirmed AppointmentStatus = "confirmed" // Подтверждена
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // Отменена
)

// Appointment запись пациента в том виде, в котором её отдаёт API клиники
type Appointment struct {
	ID               int64             `json:"id"`
	StartTime        string            `json:"startTime"`
	Status           AppointmentStatus `json:"status"`
	DentistID        int64             `json:"dentistId"`
	ClinicID         int64             `json:"clinicId"`
	ServiceID        int64             `json:"serviceId"`
	ServiceName      string            `json:"serviceName"`
	DentistFirstName string            `json:"dentistFirstName"`
	DentistLastName  string            `json:"dentistLastName"`
	ClinicName       string            `json:"clinicName"`
	City             string            `json:"city"`
}

// Active можно ли отменить или перенести запись
func (a *Appointment) Active() bool {
	return a.Status != AppointmentStatusCancelled
}

// DentistName полное имя врача
func (a *Appointment) DentistName() string {
	if a.DentistLastName == "" {
		return a.DentistFirstName
	}
	return a.DentistFirstName + " " + a.DentistLastName
}

// BookingRequest тело запроса на запись
type BookingRequest struct {
	DentistID int64  `json:"dentistId"`
	ClinicID  int64  `json:"clinicId"`
	ServiceID int64  `json:"serviceId"`
	StartDate string `json:"startDate"`
}

// RescheduleRequest тело запроса на перенос
type RescheduleRequest struct {
	NewDate string `json:"newDate"`
}
