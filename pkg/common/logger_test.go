package common

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "liyu1981.xyz/thp-sensor-service/pkg/testing"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLogger()
	logger.Info("Test log message", zap.String("key", "value"))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Test log message") {
		t.Errorf("expected log output to contain message, got: %s", logOutput)
	}
}

func TestLoggingCapture_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	locked := SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			GetLoggerWith(LoggerNameNotify, zap.String(LoggerFieldCategory, LoggerCategoryDispatch)).
				Info("concurrent line")
		}()
	}
	wg.Wait()

	lines := strings.Count(string(locked.Bytes()), "concurrent line")
	if lines != 20 {
		t.Errorf("expected 20 log lines, got %d", lines)
	}
}

func TestMapLookup(t *testing.T) {
	lookup := MapLookup(map[string]string{"A": "1"})

	if v, ok := lookup("A"); !ok || v != "1" {
		t.Errorf("expected A=1, got %q %v", v, ok)
	}
	if _, ok := lookup("B"); ok {
		t.Error("expected B to be missing")
	}
}
