package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// LoggerInterface defines the interface that all loggers must implement
type LoggerInterface interface {
	Debug(message string, args ...interface{})
	Debugf(format string, args ...interface{})
	Info(message string, args ...interface{})
	Infof(format string, args ...interface{})
	Warn(message string, args ...interface{})
	Warnf(format string, args ...interface{})
	Error(message string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(message string)
	Fatalf(format string, args ...interface{})
}

// Logger provides leveled console logging backed by zap
type Logger struct {
	serviceName string
	version     string
	prefix      string
	sugar       *zap.SugaredLogger
}

// New creates a console logger for the given service at the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func New(serviceName, version, level string) *Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if isTerminal() {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stdout),
		ParseLevel(level),
	)

	z := zap.New(core).Named(serviceName).With(zap.String("version", version))
	return &Logger{
		serviceName: serviceName,
		version:     version,
		sugar:       z.Sugar(),
	}
}

// NewWithZap wraps an existing zap logger
func NewWithZap(z *zap.Logger) *Logger {
	return &Logger{sugar: z.Sugar()}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return NewWithZap(zap.NewNop())
}

// ParseLevel maps a level name to a zap level, defaulting to info
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// isTerminal checks if we're outputting to a terminal (for color support)
func isTerminal() bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// WithPrefix returns a logger that tags every message with "[prefix] "
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{
		serviceName: l.serviceName,
		version:     l.version,
		prefix:      "[" + prefix + "] ",
		sugar:       l.sugar,
	}
}

// Zap exposes the underlying zap logger
func (l *Logger) Zap() *zap.Logger {
	return l.sugar.Desugar()
}

// Sync flushes buffered log entries
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func (l *Logger) format(message string, args []interface{}) string {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	return l.prefix + message
}

// Debug logs a debug message with optional formatting
func (l *Logger) Debug(message string, args ...interface{}) {
	l.sugar.Debug(l.format(message, args))
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.sugar.Debug(l.format(format, args))
}

// Info logs an info message with optional formatting
func (l *Logger) Info(message string, args ...interface{}) {
	l.sugar.Info(l.format(message, args))
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.sugar.Info(l.format(format, args))
}

// Warn logs a warning message with optional formatting
func (l *Logger) Warn(message string, args ...interface{}) {
	l.sugar.Warn(l.format(message, args))
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.sugar.Warn(l.format(format, args))
}

// Error logs an error message with optional formatting
func (l *Logger) Error(message string, args ...interface{}) {
	l.sugar.Error(l.format(message, args))
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.sugar.Error(l.format(format, args))
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(message string) {
	l.sugar.Fatal(l.format(message, nil))
}

// Fatalf logs a formatted fatal message and exits
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.sugar.Fatal(l.format(format, args))
}
