package handlers

import "regexp"

// Константы валидации для входа в аккаунт клиники
const (
	EmailMaxLength    = 254
	PasswordMinLength = 1
	PasswordMaxLength = 128
)

// HistoryLimit сколько последних действий показывает /history
const HistoryLimit = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
