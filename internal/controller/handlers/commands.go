package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/state"
	"github.com/Freeeeeet/dentist_booking_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From

	// Регистрируем пациента
	patient, err := h.patientService.RegisterPatient(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register patient", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Здравствуйте, %s!\n\n"+
			"Это бот записи к стоматологу. Выберите врача и удобное время, "+
			"а бот передаст запись в клинику.\n\n",
		html.EscapeString(patient.FirstName),
	) + common.BuildMainMenu(patient)

	var kb *models.InlineKeyboardMarkup
	if !patient.Linked() {
		kb = keyboard.NewBuilder().Row(keyboard.LoginButton()).Build()
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText, kb)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 <b>Справка по командам</b>\n\n" +
		"/start - Начать работу с ботом\n" +
		"/dentists - Список врачей, фильтр по городу и запись\n" +
		"/appointments - Мои записи: перенос и отмена\n" +
		"/history - Последние действия через бота\n" +
		"/login - Войти в аккаунт клиники\n" +
		"/logout - Выйти из аккаунта клиники\n" +
		"/cancel - Отменить текущее действие\n" +
		"/help - Показать эту справку\n\n" +
		"При выборе времени:\n" +
		"🟢 свободно, 🔵 выбрано, 📌 текущее время записи, 📍 текущее время выбрано снова.\n" +
		"Неделю можно листать вперёд без ограничений, назад только до текущей."

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога и выбора времени
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)
	_, hasSession := h.stateManager.Session(telegramID)

	if currentState == state.StateNone && !hasSession {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.stateManager.DropSession(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.", nil)
}

// HandleDentists обрабатывает команду /dentists
func (h *Handlers) HandleDentists(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requirePatient(ctx, b, update); !ok {
		return
	}

	telegramID := update.Message.From.ID
	city := ""
	if v, ok := h.stateManager.GetData(telegramID, common.DataDentistsCity); ok {
		city, _ = v.(string)
	}

	dentists, err := h.dentistService.List(ctx, service.DentistFilter{City: city})
	if err != nil {
		h.logger.Error("Failed to list dentists", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить список врачей. Попробуйте позже.")
		return
	}
	cities, err := h.dentistService.Cities(ctx)
	if err != nil {
		h.logger.Error("Failed to list cities", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить список врачей. Попробуйте позже.")
		return
	}

	text, kb := common.BuildDentistListScreen(dentists, cities, city, 0)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleAppointments обрабатывает команду /appointments
func (h *Handlers) HandleAppointments(ctx context.Context, b *bot.Bot, update *models.Update) {
	account, ok := h.requireAccount(ctx, b, update)
	if !ok {
		return
	}

	appointments, err := h.bookingService.MyAppointments(ctx, account)
	if err != nil {
		h.logger.Error("Failed to list appointments",
			zap.Int64("patient_id", account.Patient.ID),
			zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	text, kb := common.BuildAppointmentsScreen(appointments, h.bookingService.Clock())
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleHistory обрабатывает команду /history
func (h *Handlers) HandleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	patient, ok := h.requirePatient(ctx, b, update)
	if !ok {
		return
	}

	events, err := h.bookingService.History(ctx, patient.ID, HistoryLimit)
	if err != nil {
		h.logger.Error("Failed to load history", zap.Int64("patient_id", patient.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить историю. Попробуйте позже.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, FormatHistory(events, h.bookingService.Clock()), nil)
}

// HandleLogout обрабатывает команду /logout
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	patient, ok := h.requirePatient(ctx, b, update)
	if !ok {
		return
	}

	if !patient.Linked() {
		h.sendError(ctx, b, update.Message.Chat.ID, "ℹ️ Аккаунт клиники не привязан.")
		return
	}

	if err := h.patientService.Logout(ctx, patient.TelegramID); err != nil {
		h.logger.Error("Failed to logout", zap.Int64("patient_id", patient.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось выйти. Попробуйте позже.")
		return
	}

	h.stateManager.DropSession(patient.TelegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "👋 Вы вышли из аккаунта клиники.\n\nВойти снова: /login", nil)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	// Текст сообщения не логируем, это может быть пароль
	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateNone:
		return
	case state.StateLoginEmail:
		h.handleLoginEmailStep(ctx, b, update)
	case state.StateLoginPassword:
		h.handleLoginPasswordStep(ctx, b, update)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}
