package clinicapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
)

// Формат границ окна, который ожидает API: начало и конец суток с литералом Z.
// Окно задано в днях клиники (CLINIC_TIMEZONE), а границы запроса в сутках UTC.
// При ненулевом смещении пояса слоты около полуночи на краях окна не приходят
// или отбрасываются Window.Contains после перевода в пояс клиники. Пока API
// не принимает смещение, это известное ограничение контракта.
const (
	windowStartSuffix = "T00:00:00.000Z"
	windowEndSuffix   = "T23:59:59.999Z"
)

// Login обменивает email и пароль на токен
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/user/login",
		body: map[string]string{
			"email":    email,
			"password": password,
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login: empty token in response")
	}
	return resp.Token, nil
}

// AvailableDentists возвращает врачей, к которым можно записаться
func (c *Client) AvailableDentists(ctx context.Context) ([]model.Dentist, error) {
	var dentists []model.Dentist
	err := c.get(ctx, request{
		method: http.MethodGet,
		path:   "/dentist/seeAvailableDentists",
	}, &dentists)
	if err != nil {
		return nil, fmt.Errorf("get available dentists: %w", err)
	}
	return dentists, nil
}

// AvailableSlots возвращает свободные слоты врача с начала дня start до конца дня end.
// Пустой список это нормальный ответ.
func (c *Client) AvailableSlots(ctx context.Context, dentistID int64, start, end civil.Date) ([]model.RawSlot, error) {
	query := url.Values{}
	query.Set("startDate", start.String()+windowStartSuffix)
	query.Set("endDate", end.String()+windowEndSuffix)

	var slots []model.RawSlot
	err := c.get(ctx, request{
		method: http.MethodGet,
		path:   "/dentist/" + strconv.FormatInt(dentistID, 10) + "/availableSlots",
		query:  query,
	}, &slots)
	if err != nil {
		return nil, fmt.Errorf("get available slots: %w", err)
	}
	if slots == nil {
		slots = []model.RawSlot{}
	}
	return slots, nil
}

// MyAppointments возвращает записи пациента
func (c *Client) MyAppointments(ctx context.Context, token string) ([]model.Appointment, error) {
	var appointments []model.Appointment
	err := c.get(ctx, request{
		method: http.MethodGet,
		path:   "/appointments/my",
		token:  token,
	}, &appointments)
	if err != nil {
		return nil, fmt.Errorf("get my appointments: %w", err)
	}
	return appointments, nil
}

// BookAppointment создаёт запись
func (c *Client) BookAppointment(ctx context.Context, token string, req model.BookingRequest) (*model.Appointment, error) {
	var appointment model.Appointment
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/appointments",
		token:  token,
		body:   req,
	}, &appointment)
	if err != nil {
		return nil, fmt.Errorf("book appointment: %w", err)
	}
	return &appointment, nil
}

// CancelAppointment отменяет запись
func (c *Client) CancelAppointment(ctx context.Context, token string, appointmentID int64) error {
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/appointments/" + strconv.FormatInt(appointmentID, 10) + "/cancel",
		token:  token,
	}, nil)
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	return nil
}

// RescheduleAppointment переносит запись на новое время
func (c *Client) RescheduleAppointment(ctx context.Context, token string, appointmentID int64, req model.RescheduleRequest) error {
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/appointments/" + strconv.FormatInt(appointmentID, 10),
		token:  token,
		body:   req,
	}, nil)
	if err != nil {
		return fmt.Errorf("reschedule appointment: %w", err)
	}
	return nil
}
