package state

import "time"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Вход в аккаунт клиники
	StateLoginEmail    UserState = "login_email"
	StateLoginPassword UserState = "login_password"
)

// Ключи временных данных диалога
const (
	DataLoginEmail = "login_email"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State     UserState
	Data      map[string]interface{} // Временные данные для текущего диалога
	UpdatedAt time.Time
}
