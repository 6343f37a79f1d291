package patient

import (
	"context"
	"strconv"

	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/dentist_booking_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Dentist Directory Handlers
// ========================

// HandleDentistsPage показывает страницу списка врачей
func HandleDentistsPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	page, err := callbacktypes.ParseID(callback.Data, callbacktypes.DentistsPage)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	hc := common.NewHandlerContext(ctx, b, callback, h)
	city, _ := cityFilter(hc)
	showDentists(hc, city, int(page))
}

// HandleDentistsCity переключает фильтр по городу
func HandleDentistsCity(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	raw, err := callbacktypes.ParseSuffix(callback.Data, callbacktypes.DentistsCity)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	city := ""
	if raw != callbacktypes.AllCities {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		cities, err := h.DentistService.Cities(ctx)
		if err != nil {
			common.HandleError(hc, err, "list cities")
			return
		}
		// Список городов мог измениться с момента отрисовки кнопок
		if idx < 0 || idx >= len(cities) {
			hc.AnswerAlert("❌ Город не найден, список обновлён")
			showDentists(hc, "", 0)
			return
		}
		city = cities[idx]
	}

	hc.SetData(common.DataDentistsCity, city)
	showDentists(hc, city, 0)
}

// HandleViewDentist показывает карточку врача
func HandleViewDentist(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	dentistID, err := callbacktypes.ParseID(callback.Data, callbacktypes.ViewDentist)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	dentist, err := h.DentistService.Get(ctx, dentistID)
	if err != nil {
		common.HandleError(hc, err, "get dentist")
		return
	}

	text, kb := common.BuildDentistCardScreen(dentist)
	if err := hc.EditMessage(text, kb); err != nil {
		h.Logger.Error("Failed to show dentist", zap.Int64("dentist_id", dentistID), zap.Error(err))
	}
	hc.Answer("")
}

// HandleBookService открывает выбор времени у врача на услугу
func HandleBookService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithPatient(ctx, b, callback, h, func(hc *common.HandlerContext) {
		dentistID, serviceID, err := callbacktypes.ParseIDPair(callback.Data, callbacktypes.BookService)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		dentist, err := h.DentistService.Get(ctx, dentistID)
		if err != nil {
			common.HandleError(hc, err, "get dentist")
			return
		}
		svc, ok := dentist.ServiceByID(serviceID)
		if !ok {
			hc.AnswerAlert(common.ErrorMessage(service.ErrServiceNotFound))
			return
		}

		sess, err := h.BookingService.OpenBooking(ctx, dentist, serviceID)
		if sess == nil {
			common.HandleError(hc, err, "open booking")
			return
		}

		h.StateManager.SetSession(hc.TelegramID, sess)
		hc.SetData(common.DataSlotHeading, common.BookingHeading(dentist, svc))

		h.Logger.Info("Slot view opened",
			zap.Int64("patient_id", hc.Patient.ID),
			zap.String("session_id", sess.ID().String()),
			zap.Int64("dentist_id", dentistID),
			zap.Int64("service_id", serviceID))

		showSession(hc, sess, err)
	})
}

func cityFilter(hc *common.HandlerContext) (string, bool) {
	v, ok := hc.GetData(common.DataDentistsCity)
	if !ok {
		return "", false
	}
	city, ok := v.(string)
	return city, ok
}

func showDentists(hc *common.HandlerContext, city string, page int) {
	text, kb, err := buildDentists(hc.Ctx, hc.Handler, city, page)
	if err != nil {
		common.HandleError(hc, err, "list dentists")
		return
	}

	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show dentists", zap.Error(err))
	}
	hc.Answer("")
}

func buildDentists(ctx context.Context, h *callbacktypes.Handler, city string, page int) (string, *models.InlineKeyboardMarkup, error) {
	dentists, err := h.DentistService.List(ctx, service.DentistFilter{City: city})
	if err != nil {
		return "", nil, err
	}
	cities, err := h.DentistService.Cities(ctx)
	if err != nil {
		return "", nil, err
	}

	text, kb := common.BuildDentistListScreen(dentists, cities, city, page)
	return text, kb, nil
}
