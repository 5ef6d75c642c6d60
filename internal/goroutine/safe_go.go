package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexnest-backend/internal/logger"
)

// Logger интерфейс для логирования ошибок
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создает новый обработчик
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer rh.handlePanic()
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer rh.handlePanic()
		fn(ctx)
	}()
}

func (rh *RecoveryHandler) handlePanic() {
	if r := recover(); r != nil {
		rh.logger.Errorf("panic в горутине: %v\nstack trace:\n%s", r, debug.Stack())
	}
}

// componentLogger направляет ошибки в общий logrus логгер.
type componentLogger struct{}

func (componentLogger) Errorf(format string, args ...interface{}) {
	logger.Component("goroutine").WithFields(logrus.Fields{"panic": true}).Errorf(format, args...)
}

// DefaultRecoveryHandler пишет panic в logger.Log
var DefaultRecoveryHandler = NewRecoveryHandler(componentLogger{})

// SafeGo - упрощенная функция для запуска безопасной горутины
func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

// SafeGoWithContext - упрощенная функция для запуска безопасной горутины с контекстом
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
