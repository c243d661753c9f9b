package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/notshop-backend/internal/logger"
)

// RecoveryHandler перехватывает panic в горутинах и пишет их в лог.
type RecoveryHandler struct {
	log func() logrus.FieldLogger
}

// NewRecoveryHandler создаёт обработчик с заданным логгером.
func NewRecoveryHandler(log logrus.FieldLogger) *RecoveryHandler {
	return &RecoveryHandler{log: func() logrus.FieldLogger { return log }}
}

// Recover вызывается через defer и логирует panic, если она была.
func (rh *RecoveryHandler) Recover(name string) {
	if r := recover(); r != nil {
		rh.log().WithFields(logrus.Fields{
			"goroutine": name,
			"panic":     r,
			"stack":     string(debug.Stack()),
		}).Error("goroutine: panic перехвачена")
	}
}

// SafeGo запускает горутину с обработкой panic.
func (rh *RecoveryHandler) SafeGo(name string, fn func()) {
	go func() {
		defer rh.Recover(name)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer rh.Recover(name)
		fn(ctx)
	}()
}

// DefaultRecoveryHandler пишет в глобальный логгер. Логгер берётся в момент panic,
// поэтому обработчик можно использовать до logger.Init.
var DefaultRecoveryHandler = &RecoveryHandler{
	log: func() logrus.FieldLogger { return logger.Component("goroutine") },
}

// SafeGo запускает горутину через DefaultRecoveryHandler.
func SafeGo(name string, fn func()) {
	DefaultRecoveryHandler.SafeGo(name, fn)
}

// SafeGoWithContext запускает горутину с контекстом через DefaultRecoveryHandler.
func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, name, fn)
}

// Recover логирует panic через DefaultRecoveryHandler. Вызывается через defer.
func Recover(name string) {
	if r := recover(); r != nil {
		DefaultRecoveryHandler.log().WithFields(logrus.Fields{
			"goroutine": name,
			"panic":     r,
			"stack":     string(debug.Stack()),
		}).Error("goroutine: panic перехвачена")
	}
}
