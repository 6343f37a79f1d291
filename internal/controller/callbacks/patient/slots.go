package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/dentist_booking_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Slot View Handlers
// ========================

const loadFailedText = "⚠️ Не удалось загрузить расписание"

// HandleSlotDay переключает просматриваемый день
func HandleSlotDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext, sess *booking.Session) {
		day, err := callbacktypes.ParseDate(callback.Data, callbacktypes.SlotDay)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		if err := sess.ViewDay(day); err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		render(hc, sess)
		hc.Answer(formatting.FormatDateWithWeekday(day))
	})
}

// HandleSlotTime выбирает время
func HandleSlotTime(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext, sess *booking.Session) {
		t, err := callbacktypes.ParseSuffix(callback.Data, callbacktypes.SlotTime)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		if err := sess.Select(t); err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		render(hc, sess)
		hc.Answer("🔵 " + t)
	})
}

// HandleSlotPrev переходит на неделю назад
func HandleSlotPrev(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext, sess *booking.Session) {
		moved, err := h.BookingService.PrevWeek(ctx, sess)
		if !moved {
			hc.Answer("⏪ Раньше текущей недели записи нет")
			return
		}
		showSession(hc, sess, err)
	})
}

// HandleSlotNext переходит на неделю вперёд
func HandleSlotNext(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext, sess *booking.Session) {
		err := h.BookingService.NextWeek(ctx, sess)
		showSession(hc, sess, err)
	})
}

// HandleSlotRefresh перезагружает слоты текущей недели
func HandleSlotRefresh(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext, sess *booking.Session) {
		err := h.BookingService.Refresh(ctx, sess)
		showSession(hc, sess, err)
	})
}

// HandleSlotKeep сбрасывает выбор. При переносе остаётся текущее время записи.
func HandleSlotKeep(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext, sess *booking.Session) {
		sess.ClearSelection()
		render(hc, sess)
		if sess.Kind() == booking.KindEdit {
			hc.Answer("📌 Оставлено текущее время")
			return
		}
		hc.Answer("Выбор сброшен")
	})
}

// HandleSlotClose закрывает выбор времени
func HandleSlotClose(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	h.StateManager.DropSession(hc.TelegramID)

	if err := hc.DeleteMessage(); err != nil {
		h.Logger.Debug("Failed to delete slot view", zap.Error(err))
	}
	hc.Answer("Выбор времени закрыт")
}

// HandleSlotImage отправляет картинку всей недели
func HandleSlotImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext, sess *booking.Session) {
		window := sess.Window()
		png, err := common.GenerateWeekImage(window, sess.Week(), h.BookingService.Clock().Now())
		if err != nil {
			common.HandleError(hc, err, "generate week image")
			return
		}

		caption := "📆 " + formatting.FormatWindow(window)
		if err := hc.SendPhoto(png, caption); err != nil {
			common.HandleError(hc, err, "send week image")
			return
		}
		hc.Answer("")
	})
}

// HandleSlotConfirm отправляет выбранное время в клинику
func HandleSlotConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext, sess *booking.Session) {
		if err := hc.RequireAccount(); err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		outcome, err := h.BookingService.Confirm(ctx, hc.Account, sess)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrSlotTaken):
			// Сессия уже перезагружена, показываем свежие слоты
			render(hc, sess)
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		case errors.Is(err, booking.ErrNothingSelected), errors.Is(err, booking.ErrSlotUnavailable):
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		case errors.Is(err, service.ErrTokenExpired):
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		default:
			common.HandleError(hc, err, "confirm appointment")
			return
		}

		h.StateManager.DropSession(hc.TelegramID)

		kb := keyboard.NewBuilder().
			Row(keyboard.MyAppointmentsButton()).
			AddBackToMainButton().
			Build()
		if err := hc.EditMessage(confirmText(outcome), kb); err != nil {
			h.Logger.Error("Failed to show confirmation", zap.Error(err))
		}
		hc.Answer("✅ Готово")
	})
}

func confirmText(o *service.Outcome) string {
	when := formatting.FormatDateTime(o.When)
	switch {
	case o.Kind == booking.KindEdit && !o.Changed:
		return fmt.Sprintf("📌 Время записи не изменилось: %s", when)
	case o.Kind == booking.KindEdit:
		return fmt.Sprintf("✅ Запись перенесена на %s", when)
	case o.Appointment != nil && o.Appointment.ID != 0:
		return fmt.Sprintf("✅ Вы записаны на %s\n\n📝 Запись #%d\n📊 Статус: %s",
			when, o.Appointment.ID, formatting.GetAppointmentStatusDisplay(o.Appointment.Status).Text)
	default:
		return fmt.Sprintf("✅ Вы записаны на %s", when)
	}
}

// render перерисовывает экран выбора времени
func render(hc *common.HandlerContext, sess *booking.Session) {
	heading := "🦷 <b>Выбор времени</b>"
	if v, ok := hc.GetData(common.DataSlotHeading); ok {
		if s, ok := v.(string); ok && s != "" {
			heading = s
		}
	}

	text, kb := common.BuildSlotScreen(heading, sess.Kind(), sess.View())
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to render slot view",
			zap.String("session_id", sess.ID().String()),
			zap.Error(err))
	}
}

// showSession перерисовывает экран после загрузки слотов.
// Ошибка загрузки не закрывает сессию, экран показывает пустую неделю с кнопкой обновления.
func showSession(hc *common.HandlerContext, sess *booking.Session, fetchErr error) {
	render(hc, sess)

	if fetchErr == nil {
		hc.Answer("")
		return
	}
	if errors.Is(fetchErr, service.ErrTokenExpired) {
		hc.AnswerAlert(common.ErrorMessage(fetchErr))
		return
	}
	hc.Answer(loadFailedText)
}
