package patient

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/dentist_booking_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Appointment Handlers
// ========================

// HandleMyAppointments показывает записи пациента
func HandleMyAppointments(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAccount(ctx, b, callback, h, func(hc *common.HandlerContext) {
		appointments, err := h.BookingService.MyAppointments(ctx, hc.Account)
		if err != nil {
			common.HandleError(hc, err, "list appointments")
			return
		}

		text, kb := common.BuildAppointmentsScreen(appointments, h.BookingService.Clock())
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show appointments", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleViewAppointment показывает карточку записи
func HandleViewAppointment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAccount(ctx, b, callback, h, func(hc *common.HandlerContext) {
		apptID, err := callbacktypes.ParseID(callback.Data, callbacktypes.ViewAppointment)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		appt, err := h.BookingService.Appointment(ctx, hc.Account, apptID)
		if err != nil {
			common.HandleError(hc, err, "get appointment")
			return
		}

		text, kb := common.BuildAppointmentScreen(appt, h.BookingService.Clock())
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show appointment", zap.Int64("appointment_id", apptID), zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleCancelAppointment спрашивает подтверждение отмены
func HandleCancelAppointment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAccount(ctx, b, callback, h, func(hc *common.HandlerContext) {
		apptID, err := callbacktypes.ParseID(callback.Data, callbacktypes.CancelAppointment)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		appt, err := h.BookingService.Appointment(ctx, hc.Account, apptID)
		if err != nil {
			common.HandleError(hc, err, "get appointment")
			return
		}
		if !appt.Active() {
			hc.AnswerAlert(common.ErrorMessage(service.ErrNotActive))
			return
		}

		text, kb := common.BuildCancelConfirmScreen(appt, h.BookingService.Clock())
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show cancel confirmation", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleConfirmCancel отменяет запись
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAccount(ctx, b, callback, h, func(hc *common.HandlerContext) {
		apptID, err := callbacktypes.ParseID(callback.Data, callbacktypes.ConfirmCancel)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		if err := h.BookingService.Cancel(ctx, hc.Account, apptID); err != nil {
			common.HandleError(hc, err, "cancel appointment")
			return
		}

		kb := keyboard.NewBuilder().
			Row(keyboard.MyAppointmentsButton()).
			AddBackToMainButton().
			Build()
		if err := hc.EditMessage(fmt.Sprintf("✅ Запись #%d отменена", apptID), kb); err != nil {
			h.Logger.Error("Failed to show cancel result", zap.Error(err))
		}
		hc.Answer("✅ Запись отменена")
	})
}

// HandleRescheduleAppointment открывает перенос записи
func HandleRescheduleAppointment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAccount(ctx, b, callback, h, func(hc *common.HandlerContext) {
		apptID, err := callbacktypes.ParseID(callback.Data, callbacktypes.RescheduleAppointment)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		appt, err := h.BookingService.Appointment(ctx, hc.Account, apptID)
		if err != nil {
			common.HandleError(hc, err, "get appointment")
			return
		}

		sess, err := h.BookingService.OpenEdit(ctx, appt)
		if sess == nil {
			common.HandleError(hc, err, "open edit")
			return
		}

		h.StateManager.SetSession(hc.TelegramID, sess)
		hc.SetData(common.DataSlotHeading, common.EditHeading(appt))

		h.Logger.Info("Reschedule view opened",
			zap.Int64("patient_id", hc.Patient.ID),
			zap.String("session_id", sess.ID().String()),
			zap.Int64("appointment_id", apptID))

		showSession(hc, sess, err)
	})
}
