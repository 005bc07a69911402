package logger

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logsDirectory = "logs"

var (
	level       = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	dumpEnabled atomic.Bool
)

func Init() {
	simpleTimeEncoder := func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05"))
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     simpleTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
	core := zapcore.NewCore(
		consoleEncoder,
		zapcore.Lock(os.Stderr),
		level,
	)
	logger := zap.New(
		core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	zap.ReplaceGlobals(logger)
}

func SetLevel(logLevel string) {
	level.SetLevel(getZapLevel(logLevel))
}

// SetLogFile toggles WriteFile dumps.
func SetLogFile(enabled bool) {
	dumpEnabled.Store(enabled)
}

// WriteFile dumps the response body into logs/ for debugging.
// The body is restored so callers can still read it.
func WriteFile(name string, resp *http.Response) {
	if !dumpEnabled.Load() || resp == nil || resp.Body == nil {
		return
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		zap.S().Warnf("failed to read response body for %s: %v", name, err)
		return
	}
	if err := os.MkdirAll(logsDirectory, 0o755); err != nil {
		zap.S().Warnf("failed to create logs directory: %v", err)
		return
	}
	fileName := fmt.Sprintf("%s_%d.txt", name, time.Now().UnixNano())
	if err := os.WriteFile(filepath.Join(logsDirectory, fileName), body, 0o644); err != nil {
		zap.S().Warnf("failed to write %s: %v", fileName, err)
	}
}

func getZapLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func Sync() error {
	return zap.L().Sync()
}
