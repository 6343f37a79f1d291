package slots

import "cloud.google.com/go/civil"

// Navigator переключает недели вперёд и назад.
// Назад нельзя уйти раньше окна, в котором находится сегодняшний день.
type Navigator struct {
	clock   *Clock
	align   Alignment
	current Window
}

// NewNavigator создаёт навигатор с начальным окном WindowFor(anchor)
func NewNavigator(clock *Clock, align Alignment, anchor civil.Date) *Navigator {
	return &Navigator{
		clock:   clock,
		align:   align,
		current: WindowFor(anchor, align),
	}
}

// Window возвращает текущее окно
func (n *Navigator) Window() Window {
	return n.current
}

// Alignment возвращает выравнивание окон
func (n *Navigator) Alignment() Alignment {
	return n.align
}

// floor окно, содержащее сегодняшний день
func (n *Navigator) floor() Window {
	return WindowFor(n.clock.Today(), n.align)
}

// CanPrev можно ли перейти на неделю назад
func (n *Navigator) CanPrev() bool {
	return n.current.Start.After(n.floor().Start)
}

// Prev переходит на неделю назад. Возвращает false если окно не изменилось.
// Если полный шаг уходит раньше сегодняшнего окна, окно встаёт ровно на него.
func (n *Navigator) Prev() bool {
	floor := n.floor()
	if !n.current.Start.After(floor.Start) {
		return false
	}

	target := Shift(n.current, -1)
	if target.Start.Before(floor.Start) {
		target = floor
	}
	n.current = target
	return true
}

// Next переходит на неделю вперёд
func (n *Navigator) Next() Window {
	n.current = Shift(n.current, 1)
	return n.current
}
