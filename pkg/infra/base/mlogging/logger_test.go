// 指示: miu200521358
package mlogging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miu200521358/mu_muscle/pkg/shared/base/logging"
	"go.uber.org/zap"
)

func TestNewLoggerWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "mu_muscle.log")
	logger, err := NewLogger(LogConfig{Level: "debug", Format: "console", File: logPath, MaxSizeMB: 1}, &console)
	if err != nil {
		t.Fatalf("new logger failed: %v", err)
	}
	logger.Info("筋肉作成", zap.String("key", "Deltoid/Left"))
	_ = logger.Sync()

	if !strings.Contains(console.String(), "Deltoid/Left") {
		t.Fatalf("console output mismatch: got=%s", console.String())
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file failed: %v", err)
	}
	if !strings.Contains(string(data), `"key":"Deltoid/Left"`) {
		t.Fatalf("file output should be json: got=%s", string(data))
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := NewLogger(LogConfig{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("unknown level should fail")
	}
}

func TestDefaultLoggerFallsBackToNop(t *testing.T) {
	prevLogger := logging.DefaultLogger()
	t.Cleanup(func() {
		logging.SetDefaultLogger(prevLogger)
	})

	logging.SetDefaultLogger(nil)
	if logging.DefaultLogger() == nil {
		t.Fatalf("default logger should never be nil")
	}
}
