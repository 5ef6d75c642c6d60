// Package worker содержит фоновые задачи сервиса.
package worker

import (
	"context"
	"time"

	"github.com/ignatzorin/projexnest-backend/internal/goroutine"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
)

// SessionSweeper переводит просроченные ожидающие сессии в expired.
type SessionSweeper interface {
	Execute(ctx context.Context) (int64, error)
}

// SessionExpirer периодически запускает SessionSweeper.
type SessionExpirer struct {
	sweeper  SessionSweeper
	interval time.Duration
	timeout  time.Duration
}

// NewSessionExpirer создаёт воркер. timeout ограничивает один проход.
func NewSessionExpirer(sweeper SessionSweeper, interval, timeout time.Duration) *SessionExpirer {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SessionExpirer{sweeper: sweeper, interval: interval, timeout: timeout}
}

// Start запускает воркер в отдельной горутине до отмены ctx.
// Возвращаемый канал закрывается после остановки.
func (w *SessionExpirer) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		defer close(done)
		w.loop(ctx)
	})
	return done
}

func (w *SessionExpirer) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один проход и возвращает количество истёкших сессий.
func (w *SessionExpirer) RunOnce(ctx context.Context) int64 {
	log := logger.Component("session_expirer")

	runCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	n, err := w.sweeper.Execute(runCtx)
	if err != nil {
		if ctx.Err() == nil {
			log.WithError(err).Error("не удалось завершить просроченные сессии")
		}
		return 0
	}
	if n > 0 {
		log.WithField("expired", n).Info("просроченные сессии завершены")
	}
	return n
}
