package model

import "time"

// Patient пользователь Telegram и его привязка к аккаунту клиники
type Patient struct {
	ID             int64      `json:"id"`
	TelegramID     int64      `json:"telegram_id"`
	Username       string     `json:"username"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	LanguageCode   string     `json:"language_code"`
	Email          *string    `json:"email"`
	APIToken       *string    `json:"-"`
	TokenExpiresAt *time.Time `json:"token_expires_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Linked привязан ли аккаунт клиники
func (p *Patient) Linked() bool {
	return p.APIToken != nil && *p.APIToken != ""
}

// TokenExpired истёк ли токен на момент now
func (p *Patient) TokenExpired(now time.Time) bool {
	return p.TokenExpiresAt != nil && !now.Before(*p.TokenExpiresAt)
}
