package slots

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Clock отдаёт "сейчас" в часовом поясе клиники.
// Локальный пояс хоста нигде не используется.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock создаёт часы для указанного пояса. now может быть nil (time.Now)
func NewClock(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		panic("slots: clock requires a location")
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

// FixedClock возвращает часы, которые всегда показывают один и тот же момент
func FixedClock(loc *time.Location, at time.Time) *Clock {
	return NewClock(loc, func() time.Time { return at })
}

// Location возвращает часовой пояс клиники
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Instant возвращает текущий момент без перевода в гражданское время
func (c *Clock) Instant() time.Time {
	return c.now()
}

// Now возвращает текущие дату и время клиники
func (c *Clock) Now() civil.DateTime {
	return civil.DateTimeOf(c.now().In(c.loc))
}

// Today возвращает сегодняшнюю дату клиники
func (c *Clock) Today() civil.Date {
	return c.Now().Date
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseSlotTime разбирает время слота от сервера.
// Метки со смещением или Z переводятся в пояс клиники,
// метки без пояса считаются уже локальными для клиники.
func (c *Clock) ParseSlotTime(raw string) (civil.DateTime, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return civil.DateTime{}, fmt.Errorf("empty slot time")
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return civil.DateTimeOf(t.In(c.loc)), nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, c.loc); err == nil {
			return civil.DateTimeOf(t), nil
		}
	}

	return civil.DateTime{}, fmt.Errorf("parse slot time %q: unsupported format", raw)
}

// TimeKey форматирует время как HH:mm
func TimeKey(t civil.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeKey разбирает строку HH:mm (строго с ведущими нулями)
func ParseTimeKey(s string) (civil.Time, error) {
	if len(s) != 5 || s[2] != ':' {
		return civil.Time{}, fmt.Errorf("time %q: want HH:mm", s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return civil.Time{}, fmt.Errorf("time %q: %w", s, err)
	}
	return civil.Time{Hour: t.Hour(), Minute: t.Minute()}, nil
}
