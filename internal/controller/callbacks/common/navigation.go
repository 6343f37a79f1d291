package common

import (
	"context"

	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ========================
// Common Navigation Handlers
// ========================

// HandleBackToMain возвращает пользователя к главному меню
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := GetMessageFromCallback(callback)
	if msg == nil {
		AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}
	telegramID := callback.From.ID

	// Очищаем диалог и сессию выбора времени
	h.StateManager.ClearState(telegramID)
	h.StateManager.DropSession(telegramID)

	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	})

	patient, err := h.PatientService.GetByTelegramID(ctx, telegramID)
	if err != nil || patient == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   "❌ Ошибка. Используйте /start",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    msg.Chat.ID,
		Text:      BuildMainMenu(patient),
		ParseMode: models.ParseModeHTML,
	})

	AnswerCallback(ctx, b, callback.ID, "Возврат в главное меню")
}

// HandleStartLogin начинает вход в аккаунт клиники
func HandleStartLogin(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := GetMessageFromCallback(callback)
	if msg == nil || h.HandleLogin == nil {
		AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	update := &models.Update{
		Message: &models.Message{
			Chat: models.Chat{ID: msg.Chat.ID},
			From: &callback.From,
		},
	}

	h.HandleLogin(ctx, b, update)
	AnswerCallback(ctx, b, callback.ID, "")
}
