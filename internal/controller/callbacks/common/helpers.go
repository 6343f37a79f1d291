package common

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Telegram принимает текст ответа на callback не длиннее 200 символов
const callbackAnswerLimit = 200

// AnswerCallback короткое уведомление вверху чата
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	answerCallback(ctx, b, callbackID, text, false)
}

// AnswerCallbackAlert всплывающее окно, для отказов и ошибок
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	answerCallback(ctx, b, callbackID, text, true)
}

func answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string, alert bool) {
	if utf8.RuneCountInString(text) > callbackAnswerLimit {
		text = string([]rune(text)[:callbackAnswerLimit-1]) + "…"
	}
	_, _ = b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
}

// GetMessageFromCallback сообщение, к которому привязана кнопка.
// nil если сообщение уже недоступно боту.
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	return callback.Message.Message
}

// IsMessageNotModifiedError Telegram отвечает так на редактирование без изменений,
// например при повторном нажатии на уже выбранное время
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
