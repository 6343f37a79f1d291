package booking

import (
	"errors"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"github.com/google/uuid"
)

// Kind тип сессии выбора времени
type Kind string

const (
	KindBooking Kind = "booking" // Новая запись
	KindEdit    Kind = "edit"    // Перенос существующей записи
)

var (
	ErrPastDate        = errors.New("date is in the past")
	ErrOutsideWindow   = errors.New("date is outside of the current week")
	ErrSlotUnavailable = errors.New("slot is not available")
	ErrNothingSelected = errors.New("no time selected")
)

// Target к кому и на какую услугу выбирается время
type Target struct {
	DentistID     int64
	ClinicID      int64
	ServiceID     int64
	AppointmentID int64 // Только для переноса
}

// FetchTicket метка загрузки слотов. Результат применяется только если
// метка всё ещё последняя выданная сессией.
type FetchTicket struct {
	ID         uuid.UUID
	Generation uint64
	Window     slots.Window
}

// Slot время дня для отрисовки
type Slot struct {
	Time  string          `json:"time"`
	State slots.SlotState `json:"state"`
	Past  bool            `json:"past"`
}

// Clickable свободное время, которое ещё не прошло
func (s Slot) Clickable() bool {
	return s.State.Selectable() && !s.Past
}

// Pickable можно ли нажать на время. Кроме свободных времён это исходное
// время записи: к нему можно вернуться, даже если сервер его не отдаёт.
func (s Slot) Pickable() bool {
	return !s.Past && (s.State.Selectable() || s.State == slots.StatePinnedUnavailable)
}

// Day день окна для отрисовки строки дней
type Day struct {
	Date   civil.Date `json:"date"`
	Past   bool       `json:"past"`
	Viewed bool       `json:"viewed"`
	Slots  int        `json:"slots"`
}

// View то, что показывается пользователю
type View struct {
	Window    slots.Window     `json:"window"`
	Day       civil.Date       `json:"day"`
	CanPrev   bool             `json:"canGoPrev"`
	Loaded    bool             `json:"loaded"`
	Slots     []Slot           `json:"slots"`
	Days      []Day            `json:"days"`
	Pinned    *slots.Selection `json:"pinned,omitempty"`
	Tentative *slots.Selection `json:"tentative,omitempty"`
}

type memoKey struct {
	version   uint64
	day       civil.Date
	tentative slots.Selection
	hasTent   bool
}

// Session одна открытая запись или перенос.
// Каждый пользователь получает свою сессию, модель слотов не разделяется.
type Session struct {
	mu sync.Mutex

	id     uuid.UUID
	kind   Kind
	target Target
	clock  *slots.Clock

	nav   *slots.Navigator
	model *slots.Availability

	pinned    *slots.Selection // Неизменяем после создания
	tentative *slots.Selection
	day       civil.Date

	generation uint64
	lastActive time.Time

	memoKey   memoKey
	memoValue []slots.SlotView
	memoSet   bool
}

// Options параметры новой сессии
type Options struct {
	Kind   Kind
	Align  slots.Alignment
	Target Target

	// Anchor день, от которого строится первое окно. Нулевое значение или
	// прошедшая дата означают сегодня, для переноса по умолчанию берётся дата записи.
	Anchor civil.Date

	// Pinned исходное время записи при переносе
	Pinned *civil.DateTime
}

// New открывает сессию выбора времени
func New(clock *slots.Clock, opts Options) *Session {
	now := clock.Now()

	var pinned *slots.Selection
	if opts.Pinned != nil {
		sel := slots.SelectionOf(*opts.Pinned)
		pinned = &sel
	}

	anchor := opts.Anchor
	if anchor.IsZero() && pinned != nil {
		anchor = pinned.Date
	}
	if anchor.IsZero() || slots.IsPastDate(anchor, now) {
		anchor = now.Date
	}

	kind := opts.Kind
	if kind == "" {
		kind = KindBooking
		if pinned != nil {
			kind = KindEdit
		}
	}

	return &Session{
		id:         uuid.New(),
		kind:       kind,
		target:     opts.Target,
		clock:      clock,
		nav:        slots.NewNavigator(clock, opts.Align, anchor),
		model:      slots.NewAvailability(),
		pinned:     pinned,
		day:        anchor,
		lastActive: clock.Instant(),
	}
}

// NewBookingSession открывает новую запись. Окно строится от сегодняшнего дня.
func NewBookingSession(clock *slots.Clock, align slots.Alignment, target Target) *Session {
	return New(clock, Options{Kind: KindBooking, Align: align, Target: target})
}

// NewEditSession открывает перенос записи, исходное время которой original.
// Окно строится от даты записи, а если она уже прошла, то от сегодня.
func NewEditSession(clock *slots.Clock, align slots.Alignment, target Target, original civil.DateTime) *Session {
	return New(clock, Options{Kind: KindEdit, Align: align, Target: target, Pinned: &original})
}

// ID идентификатор сессии
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Kind тип сессии
func (s *Session) Kind() Kind {
	return s.kind
}

// Target врач, клиника и услуга сессии
func (s *Session) Target() Target {
	return s.target
}

// Window текущее окно
func (s *Session) Window() slots.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Window()
}

// Pinned исходное время записи (только для переноса)
func (s *Session) Pinned() (slots.Selection, bool) {
	if s.pinned == nil {
		return slots.Selection{}, false
	}
	return *s.pinned, true
}

// LastActive время последнего действия в сессии
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) touch() {
	s.lastActive = s.clock.Instant()
}

// BeginFetch выдаёт метку для загрузки слотов текущего окна
func (s *Session) BeginFetch() FetchTicket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return FetchTicket{
		ID:         uuid.New(),
		Generation: s.generation,
		Window:     s.nav.Window(),
	}
}

// current проверяет что метка последняя и окно не сменилось
func (s *Session) current(t FetchTicket) bool {
	return t.Generation == s.generation && t.Window == s.nav.Window()
}

// Apply загружает результат в модель. Возвращает false для устаревшей метки.
func (s *Session) Apply(t FetchTicket, raw []slots.TimeSlot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(t) {
		return false, nil
	}
	if err := s.model.Ingest(t.Window, raw); err != nil {
		return false, err
	}
	return true, nil
}

// Fail сбрасывает модель после неудачной загрузки, чтобы не показывать чужое окно
func (s *Session) Fail(t FetchTicket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(t) {
		return false
	}
	s.model.Reset()
	return true
}

// PrevWeek переходит на неделю назад. false если переход запрещён.
func (s *Session) PrevWeek() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	if !s.nav.Prev() {
		return false
	}
	s.onWindowChanged()
	return true
}

// NextWeek переходит на неделю вперёд
func (s *Session) NextWeek() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	s.nav.Next()
	s.onWindowChanged()
}

// onWindowChanged выбирает первый не прошедший день нового окна
func (s *Session) onWindowChanged() {
	w := s.nav.Window()
	now := s.clock.Now()

	day := w.End
	for _, d := range w.Days() {
		if !slots.IsPastDate(d, now) {
			day = d
			break
		}
	}
	s.setDay(day)
}

// setDay меняет просматриваемый день. При записи выбор времени сбрасывается,
// при переносе выбор сохраняется.
func (s *Session) setDay(day civil.Date) {
	if day != s.day && s.kind == KindBooking {
		s.tentative = nil
	}
	s.day = day
}

// ViewDay переключает просматриваемый день
func (s *Session) ViewDay(day civil.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	if !s.nav.Window().Contains(day) {
		return ErrOutsideWindow
	}
	if slots.IsPastDate(day, s.clock.Now()) {
		return ErrPastDate
	}
	s.setDay(day)
	return nil
}

// Select выбирает время в просматриваемом дне.
// Занятое время выбрать нельзя, кроме исходного времени записи.
func (s *Session) Select(t string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	for _, slot := range s.slotsLocked() {
		if slot.Time != t {
			continue
		}
		if !slot.Pickable() {
			return ErrSlotUnavailable
		}
		s.tentative = &slots.Selection{Date: s.day, Time: t}
		return nil
	}
	return ErrSlotUnavailable
}

// ClearSelection сбрасывает выбор. При переносе это означает "оставить текущее время".
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	s.tentative = nil
}

// Choice возвращает итоговое время для подтверждения.
// changed=false при переносе без нового выбора или при выборе исходного времени.
func (s *Session) Choice() (dt civil.DateTime, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tentative == nil {
		if s.kind == KindEdit && s.pinned != nil {
			dt, err = s.pinned.DateTime()
			return dt, false, err
		}
		return civil.DateTime{}, false, ErrNothingSelected
	}

	dt, err = s.tentative.DateTime()
	if err != nil {
		return civil.DateTime{}, false, err
	}
	if s.pinned != nil && *s.pinned == *s.tentative {
		return dt, false, nil
	}
	if dt.Before(s.clock.Now()) {
		return civil.DateTime{}, false, ErrSlotUnavailable
	}
	return dt, true, nil
}

// View собирает текущее представление сессии
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.nav.Window()
	now := s.clock.Now()
	_, loaded := s.model.Window()

	days := make([]Day, 0, slots.WeekLength)
	for _, d := range w.Days() {
		days = append(days, Day{
			Date:   d,
			Past:   slots.IsPastDate(d, now),
			Viewed: d == s.day,
			Slots:  len(s.model.SlotsForDay(d)),
		})
	}

	return View{
		Window:    w,
		Day:       s.day,
		CanPrev:   s.nav.CanPrev(),
		Loaded:    loaded,
		Slots:     s.slotsLocked(),
		Days:      days,
		Pinned:    copySelection(s.pinned),
		Tentative: copySelection(s.tentative),
	}
}

// Week возвращает слоты по всем дням окна
func (s *Session) Week() map[civil.Date][]Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	week := make(map[civil.Date][]Slot, slots.WeekLength)
	for _, d := range s.nav.Window().Days() {
		week[d] = decorate(slots.Reconcile(s.model, d, s.pinned, s.tentative), d, now)
	}
	return week
}

// slotsLocked результат сверки для просматриваемого дня с кэшем
func (s *Session) slotsLocked() []Slot {
	key := memoKey{version: s.model.Version(), day: s.day}
	if s.tentative != nil {
		key.tentative = *s.tentative
		key.hasTent = true
	}

	if !s.memoSet || s.memoKey != key {
		s.memoValue = slots.Reconcile(s.model, s.day, s.pinned, s.tentative)
		s.memoKey = key
		s.memoSet = true
	}

	return decorate(s.memoValue, s.day, s.clock.Now())
}

func decorate(views []slots.SlotView, day civil.Date, now civil.DateTime) []Slot {
	out := make([]Slot, 0, len(views))
	for _, v := range views {
		out = append(out, Slot{
			Time:  v.Time,
			State: v.State,
			Past:  slots.IsPastDateTime(day, v.Time, now),
		})
	}
	return out
}

func copySelection(sel *slots.Selection) *slots.Selection {
	if sel == nil {
		return nil
	}
	c := *sel
	return &c
}
