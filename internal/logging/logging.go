// internal/logging/logging.go
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	logFile *os.File
	sugar   = zap.NewNop().Sugar()
)

// Init routes log output to logPath as JSON lines. When debug is set, a
// console encoder on stderr is added and the level drops to debug. An empty
// logPath with debug off discards everything.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	if debug {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level))
	}

	if logPath = strings.TrimSpace(logPath); logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), level))
	}

	sugar = zap.New(zapcore.NewTee(cores...)).Sugar()
	return nil
}

// Close flushes pending entries and releases the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	_ = sugar.Sync()
	sugar = zap.NewNop().Sugar()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Logger returns the active sugared logger for key/value logging.
func Logger() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return sugar
}

// LogEvent logs a formatted message at info level.
func LogEvent(format string, args ...any) {
	Logger().Info(fmt.Sprintf(format, args...))
}

// LogPhase records the outcome of one grading phase for a submission.
func LogPhase(submission, phase string, keysAndValues ...any) {
	kv := append([]any{"submission", submissionLabel(submission), "phase", phase}, keysAndValues...)
	Logger().Infow("grading phase", kv...)
}

func submissionLabel(submission string) string {
	if s := strings.TrimSpace(submission); s != "" {
		return filepath.Base(s)
	}
	return "unknown"
}
