package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/dentist_booking_bot/internal/clinicapi"
	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type PatientService struct {
	patients PatientStore
	auth     AuthAPI
	now      func() time.Time
	logger   *zap.Logger
}

func NewPatientService(patients PatientStore, auth AuthAPI, now func() time.Time, logger *zap.Logger) *PatientService {
	if now == nil {
		now = time.Now
	}
	return &PatientService{
		patients: patients,
		auth:     auth,
		now:      now,
		logger:   logger,
	}
}

// Account пациент с действующим токеном клиники
type Account struct {
	Patient *model.Patient
	Token   string
}

// RegisterPatient регистрирует или обновляет пациента по данным Telegram
func (s *PatientService) RegisterPatient(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.Patient, error) {
	patient, err := s.patients.Upsert(ctx, &model.Patient{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
	})
	if err != nil {
		return nil, fmt.Errorf("register patient: %w", err)
	}

	s.logger.Info("Patient registered",
		zap.Int64("patient_id", patient.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
	)
	return patient, nil
}

// GetByTelegramID получает пациента по Telegram ID
func (s *PatientService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Patient, error) {
	return s.patients.GetByTelegramID(ctx, telegramID)
}

// Link входит в аккаунт клиники и сохраняет токен
func (s *PatientService) Link(ctx context.Context, telegramID int64, email, password string) (*model.Patient, error) {
	patient, err := s.requirePatient(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	token, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("link account: %w", err)
	}

	expiresAt := TokenExpiry(token)
	if err := s.patients.SaveToken(ctx, patient.ID, email, token, expiresAt); err != nil {
		return nil, fmt.Errorf("link account: %w", err)
	}

	patient.Email = &email
	patient.APIToken = &token
	patient.TokenExpiresAt = expiresAt

	s.logger.Info("Clinic account linked",
		zap.Int64("patient_id", patient.ID),
		zap.Int64("telegram_id", telegramID),
		zap.Timep("token_expires_at", expiresAt),
	)
	return patient, nil
}

// Logout отвязывает аккаунт клиники
func (s *PatientService) Logout(ctx context.Context, telegramID int64) error {
	patient, err := s.requirePatient(ctx, telegramID)
	if err != nil {
		return err
	}
	return s.RevokeToken(ctx, patient.ID)
}

// RevokeToken удаляет токен, например после ответа 401 от API клиники
func (s *PatientService) RevokeToken(ctx context.Context, patientID int64) error {
	if err := s.patients.ClearToken(ctx, patientID); err != nil {
		return err
	}
	s.logger.Info("Clinic token revoked", zap.Int64("patient_id", patientID))
	return nil
}

// Authorize возвращает пациента с действующим токеном
func (s *PatientService) Authorize(ctx context.Context, telegramID int64) (*Account, error) {
	patient, err := s.requirePatient(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if !patient.Linked() {
		return nil, ErrNotLinked
	}
	if patient.TokenExpired(s.now()) {
		if err := s.patients.ClearToken(ctx, patient.ID); err != nil {
			s.logger.Warn("Failed to clear expired token", zap.Int64("patient_id", patient.ID), zap.Error(err))
		}
		return nil, ErrTokenExpired
	}
	return &Account{Patient: patient, Token: *patient.APIToken}, nil
}

// HandleAPIError отзывает токен если API ответило 401 и возвращает ErrTokenExpired
func (s *PatientService) HandleAPIError(ctx context.Context, account *Account, err error) error {
	if account == nil || !errors.Is(err, clinicapi.ErrUnauthorized) {
		return err
	}
	if revokeErr := s.RevokeToken(ctx, account.Patient.ID); revokeErr != nil {
		s.logger.Error("Failed to revoke token", zap.Int64("patient_id", account.Patient.ID), zap.Error(revokeErr))
	}
	return ErrTokenExpired
}

func (s *PatientService) requirePatient(ctx context.Context, telegramID int64) (*model.Patient, error) {
	patient, err := s.patients.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

// TokenExpiry читает exp из JWT без проверки подписи. Подпись проверяет бэкенд,
// боту срок нужен только чтобы заранее попросить войти заново.
func TokenExpiry(token string) *time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	exp := claims.ExpiresAt.Time
	return &exp
}
