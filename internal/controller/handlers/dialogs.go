package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/dentist_booking_bot/internal/clinicapi"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleLogin начинает вход в аккаунт клиники
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requirePatient(ctx, b, update); !ok {
		return
	}

	telegramID := update.Message.From.ID

	h.logger.Info("Starting clinic login", zap.Int64("telegram_id", telegramID))

	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateLoginEmail)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🔑 <b>Вход в аккаунт клиники</b>\n\n"+
			"Шаг 1 из 2: введите email, с которым вы зарегистрированы в клинике.\n\n"+
			"Для отмены используйте /cancel", nil)
}

// handleLoginEmailStep обрабатывает ввод email
func (h *Handlers) handleLoginEmailStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	email := strings.TrimSpace(update.Message.Text)

	if len(email) > EmailMaxLength || !emailPattern.MatchString(email) {
		h.logger.Debug("Invalid email entered", zap.Int64("telegram_id", telegramID))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Это не похоже на email.\n\nПопробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(telegramID, state.DataLoginEmail, email)
	h.stateManager.SetState(telegramID, state.StateLoginPassword)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("📧 %s\n\nШаг 2 из 2: введите пароль.\nСообщение с паролем будет удалено.",
			html.EscapeString(email)), nil)
}

// handleLoginPasswordStep обрабатывает ввод пароля и входит в аккаунт
func (h *Handlers) handleLoginPasswordStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	password := update.Message.Text

	// Пароль не должен оставаться в переписке
	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: update.Message.ID}); err != nil {
		h.logger.Warn("Failed to delete password message", zap.Int64("telegram_id", telegramID), zap.Error(err))
	}

	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		h.sendError(ctx, b, chatID, "❌ Неверная длина пароля.\n\nПопробуйте ещё раз:")
		return
	}

	emailData, ok := h.stateManager.GetData(telegramID, state.DataLoginEmail)
	email, _ := emailData.(string)
	if !ok || email == "" {
		h.logger.Error("Missing email for login", zap.Int64("telegram_id", telegramID))
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ Ошибка: данные не найдены. Начните заново через /login")
		return
	}

	patient, err := h.patientService.Link(ctx, telegramID, email, password)
	if err != nil {
		if errors.Is(err, clinicapi.ErrUnauthorized) {
			h.stateManager.SetState(telegramID, state.StateLoginEmail)
			h.sendError(ctx, b, chatID, "❌ Неверный email или пароль.\n\nВведите email ещё раз или /cancel:")
			return
		}
		h.logger.Error("Failed to link clinic account", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ Не удалось войти. Попробуйте позже: /login")
		return
	}

	h.stateManager.ClearState(telegramID)

	text := "✅ Аккаунт клиники привязан.\n\nЗаписаться: /dentists\nМои записи: /appointments"
	if patient.TokenExpiresAt != nil {
		text += fmt.Sprintf("\n\n⏳ Вход действует до %s",
			patient.TokenExpiresAt.In(h.bookingService.Clock().Location()).Format("02.01.2006 15:04"))
	}
	h.sendMessage(ctx, b, chatID, text, nil)
}
