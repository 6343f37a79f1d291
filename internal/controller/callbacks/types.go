package callbacks

import (
	"context"

	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/dentist_booking_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Handler with Dependencies
// ========================

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// StateManager интерфейс для управления состоянием пользователей
type StateManager = callbacktypes.StateManager

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	patientService *service.PatientService,
	dentistService *service.DentistService,
	bookingService *service.BookingService,
	stateManager callbacktypes.StateManager,
	logger *zap.Logger,
	handleLogin func(ctx context.Context, b *bot.Bot, update *models.Update),
) *Handler {
	inner := &callbacktypes.Handler{
		PatientService: patientService,
		DentistService: dentistService,
		BookingService: bookingService,
		StateManager:   stateManager,
		Logger:         logger,
		HandleLogin:    handleLogin,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	h.Logger.Info("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	Route(ctx, b, callback, h.Handler)
}
