package handlers

import (
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/state"
	"github.com/Freeeeeet/dentist_booking_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	patientService *service.PatientService
	dentistService *service.DentistService
	bookingService *service.BookingService
	stateManager   *state.Manager
	logger         *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	patientService *service.PatientService,
	dentistService *service.DentistService,
	bookingService *service.BookingService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		patientService: patientService,
		dentistService: dentistService,
		bookingService: bookingService,
		stateManager:   stateManager,
		logger:         logger,
	}
}
