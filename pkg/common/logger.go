package common

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *zap.Logger
	mu     sync.RWMutex
	once   sync.Once
)

// getLogger is safe to call from dispatch goroutines while tests swap the
// logger out.
func getLogger() *zap.Logger {
	once.Do(initLogger)

	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func setLogger(l *zap.Logger) {
	once.Do(initLogger)

	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func GetLogger() *zap.Logger {
	return getLogger().Named("default")
}

func GetLoggerWith(name string, fields ...zap.Field) *zap.Logger {
	return getLogger().Named(name).With(fields...)
}

// SyncLogger flushes buffered entries, call it before the process exits.
func SyncLogger() {
	_ = getLogger().Sync()
}

func initLogger() {
	dir, err := os.Getwd()
	if err != nil {
		log.Fatalf("Error getting current directory: %v", err)
	}

	logsDir := fmt.Sprintf("%s/logs", dir)
	logsFile := fmt.Sprintf("%s/thp.log", logsDir)

	if err := os.MkdirAll(logsDir, os.ModePerm); err != nil {
		log.Fatalf("Error find/create logs directory: %v", err)
	}

	logFile := &lumberjack.Logger{
		Filename:   logsFile,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28,   // days
		Compress:   true, // gzip
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(logFile),
		zap.InfoLevel,
	)

	if IsProduction() {
		logger = zap.New(fileCore, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.DebugLevel)

		combinedCore := zapcore.NewTee(fileCore, consoleCore)
		logger = zap.New(combinedCore, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
}

// SetTestCaptureLogger writes JSON lines into buf. The buffer is guarded so
// loggers used from goroutines do not race with the test reading it.
func SetTestCaptureLogger(buf *bytes.Buffer, level zapcore.Level) *LockedBuffer {
	locked := &LockedBuffer{buf: buf}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	core := zapcore.NewCore(encoder, zapcore.AddSync(locked), level)
	setLogger(zap.New(core))
	return locked
}

func SetTestLoggerNop() {
	setLogger(zap.NewNop())
}

type LockedBuffer struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (b *LockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}
