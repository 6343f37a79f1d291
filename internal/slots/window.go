package slots

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// WeekLength количество дней в окне
const WeekLength = 7

// ErrInvalidWindow окно не состоит ровно из 7 последовательных дней
var ErrInvalidWindow = errors.New("invalid date window")

// Alignment определяет, с какого дня начинается окно
type Alignment string

const (
	AlignMonday Alignment = "monday" // Окно начинается с понедельника недели якоря
	AlignAnchor Alignment = "anchor" // Окно начинается с самого якоря
)

// ParseAlignment разбирает выравнивание из конфигурации
func ParseAlignment(s string) (Alignment, error) {
	switch Alignment(strings.ToLower(strings.TrimSpace(s))) {
	case AlignMonday:
		return AlignMonday, nil
	case AlignAnchor:
		return AlignAnchor, nil
	default:
		return "", fmt.Errorf("unknown week alignment %q", s)
	}
}

// Window семь последовательных календарных дней
type Window struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// NewWindow создаёт окно и проверяет что end == start + 6 дней
func NewWindow(start, end civil.Date) (Window, error) {
	w := Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate проверяет инвариант окна
func (w Window) Validate() error {
	if !w.Start.IsValid() || !w.End.IsValid() {
		return fmt.Errorf("%w: bad date", ErrInvalidWindow)
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidWindow, w.End, w.Start)
	}
	if w.Start.AddDays(WeekLength-1) != w.End {
		return fmt.Errorf("%w: %s..%s is not %d days", ErrInvalidWindow, w.Start, w.End, WeekLength)
	}
	return nil
}

// WindowFor возвращает окно для якорной даты
func WindowFor(anchor civil.Date, align Alignment) Window {
	start := anchor
	if align == AlignMonday {
		start = WeekStart(anchor)
	}
	return Window{Start: start, End: start.AddDays(WeekLength - 1)}
}

// WeekStart возвращает понедельник недели, содержащей d
func WeekStart(d civil.Date) civil.Date {
	weekday := d.In(time.UTC).Weekday()
	daysSinceMonday := (int(weekday) + 6) % 7
	return d.AddDays(-daysSinceMonday)
}

// Shift сдвигает обе границы на deltaWeeks недель
func Shift(w Window, deltaWeeks int) Window {
	days := deltaWeeks * WeekLength
	return Window{Start: w.Start.AddDays(days), End: w.End.AddDays(days)}
}

// Contains проверяет что дата попадает в окно
func (w Window) Contains(d civil.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days возвращает все дни окна по порядку
func (w Window) Days() []civil.Date {
	days := make([]civil.Date, 0, WeekLength)
	for d := w.Start; !d.After(w.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (w Window) String() string {
	return w.Start.String() + ".." + w.End.String()
}

// IsPastDate true если календарный день date строго раньше дня now
func IsPastDate(date civil.Date, now civil.DateTime) bool {
	return date.Before(now.Date)
}

// IsPastDateTime true если день уже прошёл или это сегодня и время раньше now.
// Некорректное время на сегодняшний день прошедшим не считается.
func IsPastDateTime(date civil.Date, hhmm string, now civil.DateTime) bool {
	if IsPastDate(date, now) {
		return true
	}
	if date != now.Date {
		return false
	}
	t, err := ParseTimeKey(hhmm)
	if err != nil {
		return false
	}
	return civil.DateTime{Date: date, Time: t}.Before(now)
}
