package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/patient"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Main Callback Router
// ========================

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	// ===== Common Navigation =====
	case data == callbacktypes.BackToMain:
		common.HandleBackToMain(ctx, b, callback, h)
	case data == callbacktypes.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")
	case data == callbacktypes.StartLogin:
		common.HandleStartLogin(ctx, b, callback, h)

	// ===== Dentist Directory =====
	case strings.HasPrefix(data, callbacktypes.DentistsPage):
		patient.HandleDentistsPage(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.DentistsCity):
		patient.HandleDentistsCity(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.ViewDentist):
		patient.HandleViewDentist(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.BookService):
		patient.HandleBookService(ctx, b, callback, h)

	// ===== Slot View =====
	case strings.HasPrefix(data, callbacktypes.SlotDay):
		patient.HandleSlotDay(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.SlotTime):
		patient.HandleSlotTime(ctx, b, callback, h)
	case data == callbacktypes.SlotPrev:
		patient.HandleSlotPrev(ctx, b, callback, h)
	case data == callbacktypes.SlotNext:
		patient.HandleSlotNext(ctx, b, callback, h)
	case data == callbacktypes.SlotConfirm:
		patient.HandleSlotConfirm(ctx, b, callback, h)
	case data == callbacktypes.SlotKeep:
		patient.HandleSlotKeep(ctx, b, callback, h)
	case data == callbacktypes.SlotClose:
		patient.HandleSlotClose(ctx, b, callback, h)
	case data == callbacktypes.SlotImage:
		patient.HandleSlotImage(ctx, b, callback, h)
	case data == callbacktypes.SlotRefresh:
		patient.HandleSlotRefresh(ctx, b, callback, h)

	// ===== Appointments =====
	case data == callbacktypes.MyAppointments:
		patient.HandleMyAppointments(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.ViewAppointment):
		patient.HandleViewAppointment(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.CancelAppointment):
		patient.HandleCancelAppointment(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.ConfirmCancel):
		patient.HandleConfirmCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.RescheduleAppointment):
		patient.HandleRescheduleAppointment(ctx, b, callback, h)

	// ===== Unknown Callback =====
	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}
