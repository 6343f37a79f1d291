package slots

import (
	"slices"

	"cloud.google.com/go/civil"
)

// SlotState состояние времени в отрисованном дне
type SlotState string

const (
	StateAvailable         SlotState = "available"
	StateSelected          SlotState = "selected"
	StatePinnedUnavailable SlotState = "pinned-unavailable"
	StateSelectedAndPinned SlotState = "selected-and-pinned"
)

// Selectable можно ли нажать на слот в этом состоянии
func (s SlotState) Selectable() bool {
	return s != StatePinnedUnavailable
}

// Selection дата и время: исходное время записи или текущий выбор пользователя
type Selection struct {
	Date civil.Date `json:"date"`
	Time string     `json:"time"`
}

// On проверяет что выбор относится к дню day
func (s *Selection) On(day civil.Date) bool {
	return s != nil && s.Date == day
}

// Matches проверяет совпадение дня и времени
func (s *Selection) Matches(day civil.Date, t string) bool {
	return s.On(day) && s.Time == t
}

// DateTime собирает выбор в гражданское время
func (s Selection) DateTime() (civil.DateTime, error) {
	t, err := ParseTimeKey(s.Time)
	if err != nil {
		return civil.DateTime{}, err
	}
	return civil.DateTime{Date: s.Date, Time: t}, nil
}

// SelectionOf строит выбор из гражданского времени
func SelectionOf(dt civil.DateTime) Selection {
	return Selection{Date: dt.Date, Time: TimeKey(dt.Time)}
}

// SlotView одно время дня с его состоянием
type SlotView struct {
	Time  string    `json:"time"`
	State SlotState `json:"state"`
}

// DaySource источник свободных времён по дням
type DaySource interface {
	SlotsForDay(day civil.Date) []string
}

// Reconcile объединяет свободные слоты дня с исходным временем записи и текущим выбором.
// Результат отсортирован по времени и не содержит повторов.
func Reconcile(src DaySource, day civil.Date, pinned, tentative *Selection) []SlotView {
	base := src.SlotsForDay(day)

	merged := make([]string, len(base), len(base)+1)
	copy(merged, base)

	pinnedSynthetic := false
	if pinned.On(day) {
		if pos, found := slices.BinarySearch(merged, pinned.Time); !found {
			merged = slices.Insert(merged, pos, pinned.Time)
			pinnedSynthetic = true
		}
	}

	views := make([]SlotView, 0, len(merged))
	for _, t := range merged {
		state := StateAvailable
		switch {
		case tentative.Matches(day, t):
			state = StateSelected
			if pinned.Matches(day, t) {
				state = StateSelectedAndPinned
			}
		case pinnedSynthetic && pinned.Matches(day, t):
			state = StatePinnedUnavailable
		}
		views = append(views, SlotView{Time: t, State: state})
	}

	return views
}
