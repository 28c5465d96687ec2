package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the process-wide structured logger
	Logger = zap.NewNop()
	sugar  = Logger.Sugar()
)

// InitLogger builds the zap logger and installs it as the global one
func InitLogger(level, format string) error {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), lvl)
	// Skip one frame so the caller of LogInfo is reported, not this file.
	setLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel)))
	return nil
}

func setLogger(l *zap.Logger) {
	Logger = l
	sugar = l.Sugar()
	zap.ReplaceGlobals(l.WithOptions(zap.AddCallerSkip(-1)))
}

// SyncLogger flushes buffered entries
func SyncLogger() {
	_ = Logger.Sync()
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

// LogWarn logs a warning
func LogWarn(format string, v ...interface{}) {
	sugar.Warnf(format, v...)
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip, requestID string, status int, duration time.Duration) {
	Logger.Info("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("ip", ip),
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.Duration("latency", duration),
	)
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	Logger.Error("panic recovered", zap.Error(err), zap.ByteString("stack", stack))
}
