package handlers

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	cmdfmt "github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
)

// FormatHistory форматирует последние действия пациента
func FormatHistory(events []*model.BookingEvent, clock *slots.Clock) string {
	if len(events) == 0 {
		return "🕘 История пуста.\n\nЗаписаться: /dentists"
	}

	var sb strings.Builder
	sb.WriteString("🕘 <b>Последние действия</b>\n")
	for _, e := range events {
		sb.WriteString("\n")
		sb.WriteString(FormatEvent(e, clock))
	}
	return sb.String()
}

// FormatEvent одна строка истории
func FormatEvent(e *model.BookingEvent, clock *slots.Clock) string {
	display := cmdfmt.GetEventKindDisplay(e.Kind)
	at := e.CreatedAt.In(clock.Location()).Format("02.01.2006 15:04")

	line := fmt.Sprintf("%s %s · %s", display.Emoji, display.Text, at)
	if e.AppointmentID != nil {
		line += fmt.Sprintf(" · #%d", *e.AppointmentID)
	}
	if e.SlotStart != nil {
		line += " → " + formatSlotStart(*e.SlotStart)
	}
	return line
}

// formatSlotStart показывает сохранённое время слота, если оно разбирается
func formatSlotStart(raw string) string {
	dt, err := civil.ParseDateTime(raw)
	if err != nil {
		return raw
	}
	return cmdfmt.FormatDateTime(dt)
}
