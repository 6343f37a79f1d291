package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/Freeeeeet/dentist_booking_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const patientColumns = `id, telegram_id, username, first_name, last_name, language_code,
	email, api_token, token_expires_at, created_at, updated_at`

type PatientRepository struct {
	*base.Repository
}

func NewPatientRepository(pool *pgxpool.Pool) *PatientRepository {
	return &PatientRepository{Repository: base.NewRepository(pool, "patients")}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*model.Patient, error) {
	var p model.Patient
	err := row.Scan(
		&p.ID,
		&p.TelegramID,
		&p.Username,
		&p.FirstName,
		&p.LastName,
		&p.LanguageCode,
		&p.Email,
		&p.APIToken,
		&p.TokenExpiresAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert создаёт пациента или обновляет его профиль Telegram
func (r *PatientRepository) Upsert(ctx context.Context, p *model.Patient) (*model.Patient, error) {
	query := `
		INSERT INTO patients (telegram_id, username, first_name, last_name, language_code)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    language_code = EXCLUDED.language_code,
		    updated_at = NOW()
		RETURNING ` + patientColumns

	saved, err := scanPatient(r.QueryRow(ctx, "upsert", query,
		p.TelegramID,
		p.Username,
		p.FirstName,
		p.LastName,
		p.LanguageCode,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert patient: %w", err)
	}
	return saved, nil
}

// GetByTelegramID получает пациента по Telegram ID
func (r *PatientRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE telegram_id = $1`

	p, err := scanPatient(r.QueryRow(ctx, "get_by_telegram_id", query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Пациент не найден
		}
		return nil, fmt.Errorf("get patient by telegram id: %w", err)
	}
	return p, nil
}

// SaveToken привязывает аккаунт клиники
func (r *PatientRepository) SaveToken(ctx context.Context, patientID int64, email, token string, expiresAt *time.Time) error {
	query := `
		UPDATE patients
		SET email = $1, api_token = $2, token_expires_at = $3, updated_at = NOW()
		WHERE id = $4
	`

	if err := r.ExecOne(ctx, "save_token", query, email, token, expiresAt, patientID); err != nil {
		return fmt.Errorf("save patient token: %w", err)
	}
	return nil
}

// ClearToken отвязывает аккаунт клиники
func (r *PatientRepository) ClearToken(ctx context.Context, patientID int64) error {
	query := `
		UPDATE patients
		SET api_token = NULL, token_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.Exec(ctx, "clear_token", query, patientID); err != nil {
		return fmt.Errorf("clear patient token: %w", err)
	}
	return nil
}
