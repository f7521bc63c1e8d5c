package badgerfx

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// zapLogger forwards badger messages to zap. Badger reports routine table
// and compaction events at info level; they are logged at debug.
type zapLogger struct {
	logger *zap.Logger
}

func newLogger(l *zap.Logger) *zapLogger {
	return &zapLogger{
		logger: l.WithOptions(zap.AddCallerSkip(1)),
	}
}

// Debugf implements badger.Logger.
func (l *zapLogger) Debugf(format string, a ...any) {
	l.logger.Debug(message(format, a))
}

// Errorf implements badger.Logger.
func (l *zapLogger) Errorf(format string, a ...any) {
	l.logger.Error(message(format, a))
}

// Infof implements badger.Logger.
func (l *zapLogger) Infof(format string, a ...any) {
	l.logger.Debug(message(format, a))
}

// Warningf implements badger.Logger.
func (l *zapLogger) Warningf(format string, a ...any) {
	l.logger.Warn(message(format, a))
}

func message(format string, a []any) string {
	return strings.TrimSpace(fmt.Sprintf(format, a...))
}

var _ badger.Logger = (*zapLogger)(nil)
