package slots

import (
	"slices"

	"cloud.google.com/go/civil"
)

// TimeSlot одно время начала приёма, которое сервер считает свободным
type TimeSlot struct {
	Start civil.DateTime
}

// DateKey возвращает дату слота в формате YYYY-MM-DD
func (s TimeSlot) DateKey() string {
	return s.Start.Date.String()
}

// TimeKey возвращает время слота в формате HH:mm
func (s TimeSlot) TimeKey() string {
	return TimeKey(s.Start.Time)
}

// Availability хранит свободные слоты одного врача за одно окно.
// Каждый Ingest полностью заменяет предыдущие данные.
type Availability struct {
	window  Window
	loaded  bool
	slots   []TimeSlot
	version uint64
}

// NewAvailability создаёт пустую модель
func NewAvailability() *Availability {
	return &Availability{}
}

// Ingest заменяет данные модели результатом загрузки для окна w
func (a *Availability) Ingest(w Window, raw []TimeSlot) error {
	if err := w.Validate(); err != nil {
		return err
	}

	copied := make([]TimeSlot, len(raw))
	copy(copied, raw)

	a.window = w
	a.slots = copied
	a.loaded = true
	a.version++
	return nil
}

// Reset забывает загруженные данные
func (a *Availability) Reset() {
	a.window = Window{}
	a.slots = nil
	a.loaded = false
	a.version++
}

// Window возвращает окно, для которого были загружены данные
func (a *Availability) Window() (Window, bool) {
	return a.window, a.loaded
}

// Version растёт при каждом изменении данных
func (a *Availability) Version() uint64 {
	return a.version
}

// Len количество загруженных слотов
func (a *Availability) Len() int {
	return len(a.slots)
}

// SlotsForDay возвращает отсортированные HH:mm всех слотов дня.
// Модель хранит ответ сервера как есть, повторы (Len их учитывает) схлопываются
// только здесь, при чтении. Reconcile получает уже уникальные времена.
// Для дня вне загруженного окна результат пустой.
func (a *Availability) SlotsForDay(day civil.Date) []string {
	times := []string{}
	if !a.loaded || !a.window.Contains(day) {
		return times
	}

	for _, s := range a.slots {
		if s.Start.Date == day {
			times = append(times, s.TimeKey())
		}
	}
	slices.Sort(times)
	return slices.Compact(times)
}
