package common

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"github.com/go-telegram/bot/models"
)

// DentistsPerPage врачей на одной странице списка
const DentistsPerPage = 5

// Ключ данных с подписью открытой сессии выбора времени
const DataSlotHeading = "slot_heading"

// Ключ данных с выбранным в фильтре городом
const DataDentistsCity = "dentists_city"

// BuildMainMenu формирует текст главного меню
func BuildMainMenu(patient *model.Patient) string {
	text := "📋 <b>Главное меню</b>\n\n" +
		"/dentists - Врачи и запись\n" +
		"/appointments - Мои записи\n" +
		"/history - История действий\n" +
		"/help - Справка\n"

	if patient != nil && patient.Linked() {
		email := ""
		if patient.Email != nil {
			email = *patient.Email
		}
		text += fmt.Sprintf("\n🔓 Аккаунт клиники: %s\n/logout - Выйти", html.EscapeString(email))
	} else {
		text += "\n🔑 /login - Войти в аккаунт клиники"
	}
	return text
}

// BuildDentistListScreen формирует страницу списка врачей с фильтром по городам
func BuildDentistListScreen(dentists []model.Dentist, cities []string, city string, page int) (string, *models.InlineKeyboardMarkup) {
	start, end, pages := keyboard.Page(len(dentists), page, DentistsPerPage)
	if page >= pages {
		page = pages - 1
	}

	var sb strings.Builder
	sb.WriteString("🦷 <b>Врачи</b>")
	if city != "" {
		sb.WriteString(" · " + html.EscapeString(city))
	}
	sb.WriteString(fmt.Sprintf("\n\nНайдено: %d %s\n", len(dentists), formatting.PluralizeDentists(len(dentists))))

	kb := keyboard.NewBuilder()
	for _, d := range dentists[start:end] {
		sb.WriteString(fmt.Sprintf("\n👩‍⚕️ <b>%s</b>\n🏥 %s, %s\n💰 %s\n",
			html.EscapeString(d.Name),
			html.EscapeString(d.Clinic.Name),
			html.EscapeString(d.Clinic.City),
			formatting.FormatPriceRange(d.PriceRange),
		))
		kb.Row(keyboard.Button(d.Name, callbacktypes.WithID(callbacktypes.ViewDentist, d.ID)))
	}
	if len(dentists) == 0 {
		sb.WriteString("\nНет врачей по выбранному фильтру.")
	}

	kb.AddPagination(callbacktypes.DentistsPage, page, pages)

	cityButtons := make([]models.InlineKeyboardButton, 0, len(cities)+1)
	for i, c := range cities {
		label := c
		if strings.EqualFold(c, city) {
			label = "✓ " + c
		}
		cityButtons = append(cityButtons, keyboard.Button(label, fmt.Sprintf("%s%d", callbacktypes.DentistsCity, i)))
	}
	if city != "" {
		cityButtons = append(cityButtons, keyboard.Button("🌍 Все города", callbacktypes.DentistsCity+callbacktypes.AllCities))
	}
	kb.Grid(3, cityButtons...)
	kb.AddBackToMainButton()

	return sb.String(), kb.Build()
}

// BuildDentistCardScreen формирует карточку врача с выбором услуги
func BuildDentistCardScreen(d *model.Dentist) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👩‍⚕️ <b>%s</b>\n\n", html.EscapeString(d.Name)))
	sb.WriteString(fmt.Sprintf("🏥 %s, %s\n", html.EscapeString(d.Clinic.Name), html.EscapeString(d.Clinic.City)))
	if d.Phone != "" {
		sb.WriteString("📞 " + html.EscapeString(d.Phone) + "\n")
	}
	if d.Email != "" {
		sb.WriteString("✉️ " + html.EscapeString(d.Email) + "\n")
	}
	sb.WriteString("\n<b>Услуги:</b>\n")

	kb := keyboard.NewBuilder()
	for _, svc := range d.Services {
		sb.WriteString(fmt.Sprintf("• %s - %s\n", html.EscapeString(svc.Name), formatting.FormatPrice(svc.Price)))
		kb.Row(keyboard.Button(
			fmt.Sprintf("📅 %s", svc.Name),
			fmt.Sprintf("%s%d:%d", callbacktypes.BookService, d.ID, svc.ID),
		))
	}
	if len(d.Services) == 0 {
		sb.WriteString("Нет услуг для записи\n")
	} else {
		sb.WriteString("\nВыберите услугу для записи:")
	}

	kb.Row(keyboard.BackToDentistsButton())
	return sb.String(), kb.Build()
}

// BookingHeading подпись сессии новой записи
func BookingHeading(d *model.Dentist, svc *model.Service) string {
	return fmt.Sprintf("🦷 <b>Запись</b>\n👩‍⚕️ %s\n🩺 %s, %s",
		html.EscapeString(d.Name),
		html.EscapeString(svc.Name),
		formatting.FormatPrice(svc.Price),
	)
}

// EditHeading подпись сессии переноса
func EditHeading(a *model.Appointment) string {
	return fmt.Sprintf("🔁 <b>Перенос записи #%d</b>\n👩‍⚕️ %s\n🩺 %s",
		a.ID,
		html.EscapeString(a.DentistName()),
		html.EscapeString(a.ServiceName),
	)
}

// BuildSlotScreen формирует экран выбора времени
func BuildSlotScreen(heading string, kind booking.Kind, view booking.View) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(heading)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("📆 Неделя: %s\n", formatting.FormatWindow(view.Window)))
	sb.WriteString(fmt.Sprintf("👉 День: %s\n", formatting.FormatDateWithWeekday(view.Day)))

	if view.Pinned != nil {
		sb.WriteString(fmt.Sprintf("📌 Сейчас: %s %s\n", formatting.FormatDate(view.Pinned.Date), view.Pinned.Time))
	}
	if view.Tentative != nil {
		sb.WriteString(fmt.Sprintf("🔵 Выбрано: %s %s\n", formatting.FormatDate(view.Tentative.Date), view.Tentative.Time))
	}

	switch {
	case !view.Loaded:
		sb.WriteString("\n⚠️ Не удалось загрузить расписание. Нажмите «Обновить».")
	case len(view.Slots) == 0:
		sb.WriteString("\nНа этот день свободного времени нет.")
	default:
		free := 0
		for _, s := range view.Slots {
			if s.Clickable() {
				free++
			}
		}
		sb.WriteString(fmt.Sprintf("\nДоступно: %d %s", free, formatting.PluralizeSlots(free)))
	}

	return sb.String(), keyboard.SlotView(kind, view)
}

// BuildAppointmentsScreen формирует список записей пациента
func BuildAppointmentsScreen(appointments []model.Appointment, clock *slots.Clock) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()
	if len(appointments) == 0 {
		kb.AddBackToMainButton()
		return "📅 У вас пока нет записей.\n\nЗаписаться: /dentists", kb.Build()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 <b>Мои записи</b> (%d %s)\n",
		len(appointments), formatting.PluralizeAppointments(len(appointments))))

	for _, a := range appointments {
		display := formatting.GetAppointmentStatusDisplay(a.Status)
		when := FormatAppointmentTime(a.StartTime, clock)
		sb.WriteString(fmt.Sprintf("\n%s <b>#%d</b> %s\n👩‍⚕️ %s · 🩺 %s\n",
			display.Emoji, a.ID, when,
			html.EscapeString(a.DentistName()),
			html.EscapeString(a.ServiceName),
		))
		kb.Row(keyboard.Button(fmt.Sprintf("%s #%d %s", display.Emoji, a.ID, when),
			callbacktypes.WithID(callbacktypes.ViewAppointment, a.ID)))
	}

	kb.AddBackToMainButton()
	return sb.String(), kb.Build()
}

// BuildAppointmentScreen формирует карточку записи с действиями
func BuildAppointmentScreen(a *model.Appointment, clock *slots.Clock) (string, *models.InlineKeyboardMarkup) {
	display := formatting.GetAppointmentStatusDisplay(a.Status)
	text := fmt.Sprintf(
		"%s <b>Запись #%d</b>\n\n"+
			"🕐 %s\n"+
			"👩‍⚕️ %s\n"+
			"🩺 %s\n"+
			"🏥 %s, %s\n"+
			"📊 Статус: %s",
		display.Emoji, a.ID,
		FormatAppointmentTime(a.StartTime, clock),
		html.EscapeString(a.DentistName()),
		html.EscapeString(a.ServiceName),
		html.EscapeString(a.ClinicName),
		html.EscapeString(a.City),
		display.Text,
	)

	kb := keyboard.NewBuilder()
	if a.Active() {
		kb.Row(
			keyboard.Button("🔁 Перенести", callbacktypes.WithID(callbacktypes.RescheduleAppointment, a.ID)),
			keyboard.Button("🗑 Отменить", callbacktypes.WithID(callbacktypes.CancelAppointment, a.ID)),
		)
	}
	kb.Row(keyboard.BackButton(callbacktypes.MyAppointments))
	return text, kb.Build()
}

// BuildCancelConfirmScreen формирует подтверждение отмены
func BuildCancelConfirmScreen(a *model.Appointment, clock *slots.Clock) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("❓ Отменить запись #%d на %s к %s?",
		a.ID, FormatAppointmentTime(a.StartTime, clock), html.EscapeString(a.DentistName()))

	kb := keyboard.NewBuilder().AddRows(keyboard.YesNoButtons(
		callbacktypes.WithID(callbacktypes.ConfirmCancel, a.ID),
		callbacktypes.WithID(callbacktypes.ViewAppointment, a.ID),
	))
	return text, kb.Build()
}

// FormatAppointmentTime показывает время записи в поясе клиники.
// Если разобрать не удалось, возвращает исходную строку.
func FormatAppointmentTime(raw string, clock *slots.Clock) string {
	dt, err := clock.ParseSlotTime(raw)
	if err != nil {
		return raw
	}
	return formatting.FormatDateTime(dt)
}
