// 指示: miu200521358
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var defaultLogger atomic.Pointer[zap.Logger]

// DefaultLogger はプロセス既定のロガーを返す。未設定時は何も出力しないロガーを返す。
func DefaultLogger() *zap.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

// SetDefaultLogger はプロセス既定のロガーを設定する。nil は無出力ロガーとして扱う。
func SetDefaultLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaultLogger.Store(logger)
}
