package state

import (
	"sync"
	"time"

	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
)

// Manager управляет состояниями пользователей и их сессиями выбора времени
type Manager struct {
	mu       sync.RWMutex
	states   map[int64]*UserData        // telegramID -> UserData
	sessions map[int64]*booking.Session // telegramID -> открытая запись или перенос
	now      func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states:   make(map[int64]*UserData),
		sessions: make(map[int64]*booking.Session),
		now:      time.Now,
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		// Если состояние None, удаляем запись
		delete(sm.states, telegramID)
		return
	}

	userData := sm.ensure(telegramID)
	userData.State = state
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(telegramID int64, key string) (interface{}, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

// SetData устанавливает временные данные пользователя
func (sm *Manager) SetData(telegramID int64, key string, value interface{}) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.ensure(telegramID).Data[key] = value
}

// ClearState очищает состояние и данные пользователя. Сессия выбора времени остаётся.
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// GetAllData получает все временные данные пользователя
func (sm *Manager) GetAllData(telegramID int64) map[string]interface{} {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		// Возвращаем копию, чтобы избежать race condition
		dataCopy := make(map[string]interface{})
		for k, v := range userData.Data {
			dataCopy[k] = v
		}
		return dataCopy
	}
	return nil
}

// ensure создаёт запись если её нет. Вызывается под mu.Lock.
func (sm *Manager) ensure(telegramID int64) *UserData {
	userData, exists := sm.states[telegramID]
	if !exists {
		userData = &UserData{
			State: StateNone,
			Data:  make(map[string]interface{}),
		}
		sm.states[telegramID] = userData
	}
	userData.UpdatedAt = sm.now()
	return userData
}

// SetSession сохраняет сессию пользователя, заменяя предыдущую
func (sm *Manager) SetSession(telegramID int64, sess *booking.Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessions[telegramID] = sess
}

// Session возвращает открытую сессию пользователя
func (sm *Manager) Session(telegramID int64) (*booking.Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sess, ok := sm.sessions[telegramID]
	return sess, ok
}

// DropSession закрывает сессию пользователя
func (sm *Manager) DropSession(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, telegramID)
}

// SweepIdle удаляет сессии и диалоги, в которых не было действий с момента cutoff.
// Возвращает количество удалённых сессий и диалогов.
func (sm *Manager) SweepIdle(cutoff time.Time) (sessions, dialogs int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for telegramID, sess := range sm.sessions {
		if sess.LastActive().Before(cutoff) {
			delete(sm.sessions, telegramID)
			sessions++
		}
	}
	for telegramID, userData := range sm.states {
		if userData.UpdatedAt.Before(cutoff) {
			delete(sm.states, telegramID)
			dialogs++
		}
	}
	return sessions, dialogs
}

// Stats количество открытых сессий и диалогов
func (sm *Manager) Stats() (sessions, dialogs int) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions), len(sm.states)
}
