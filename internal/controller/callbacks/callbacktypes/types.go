package callbacktypes

import (
	"context"

	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
	"github.com/Freeeeeet/dentist_booking_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) UserState
	SetState(telegramID int64, state UserState)
	SetData(telegramID int64, key string, value interface{})
	GetData(telegramID int64, key string) (interface{}, bool)
	GetAllData(telegramID int64) map[string]interface{}

	SetSession(telegramID int64, sess *booking.Session)
	Session(telegramID int64) (*booking.Session, bool)
	DropSession(telegramID int64)
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	PatientService *service.PatientService
	DentistService *service.DentistService
	BookingService *service.BookingService
	StateManager   StateManager
	Logger         *zap.Logger

	// Начало входа в аккаунт клиники из основного контроллера
	HandleLogin func(ctx context.Context, b *bot.Bot, update *models.Update)
}
