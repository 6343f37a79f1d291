package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IdleSweeper удаляет сессии и диалоги без действий с момента cutoff
type IdleSweeper interface {
	SweepIdle(cutoff time.Time) (sessions, dialogs int)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sweeper  IdleSweeper
	idleTTL  time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler создаёт планировщик, который раз в interval закрывает
// сессии выбора времени, простаивающие дольше idleTTL
func NewScheduler(sweeper IdleSweeper, idleTTL, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = idleTTL / 2
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		sweeper:  sweeper,
		idleTTL:  idleTTL,
		interval: interval,
		now:      time.Now,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("idle_ttl", s.idleTTL),
		zap.Duration("interval", s.interval))

	go s.runSweepTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения.
// Повторный вызов безопасен.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	<-s.done
}

// runSweepTask периодически удаляет простаивающие сессии
func (s *Scheduler) runSweepTask(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stopChan:
			s.logger.Info("Session sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Session sweep task cancelled")
			return
		}
	}
}

// Sweep выполняет одну очистку
func (s *Scheduler) Sweep() (sessions, dialogs int) {
	sessions, dialogs = s.sweeper.SweepIdle(s.now().Add(-s.idleTTL))
	if sessions > 0 || dialogs > 0 {
		s.logger.Info("Idle sessions swept",
			zap.Int("sessions", sessions),
			zap.Int("dialogs", dialogs))
	}
	return sessions, dialogs
}
