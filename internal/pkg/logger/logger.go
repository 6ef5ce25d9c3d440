package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var zerologLevels = map[Level]zerolog.Level{
	DEBUG: zerolog.DebugLevel,
	INFO:  zerolog.InfoLevel,
	WARN:  zerolog.WarnLevel,
	ERROR: zerolog.ErrorLevel,
	FATAL: zerolog.FatalLevel,
}

func (l Level) String() string {
	return levelNames[l]
}

// ParseLevel maps a config value such as "debug" or "WARN" to a Level.
// Unknown values fall back to INFO.
func ParseLevel(s string) Level {
	for level, name := range levelNames {
		if strings.EqualFold(s, name) {
			return level
		}
	}
	return INFO
}

type Logger struct {
	level Level
	zl    zerolog.Logger
}

// New writes JSON lines to stdout.
func New(level Level) *Logger {
	return NewWithWriter(level, os.Stdout)
}

func NewWithWriter(level Level, w io.Writer) *Logger {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(zerologLevels[level])
	return &Logger{level: level, zl: zl}
}

// NewConsole writes human-readable, colored lines; used outside production.
func NewConsole(level Level, w io.Writer) *Logger {
	return NewWithWriter(level, zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime})
}

func (l *Logger) Debug(format string, v ...interface{}) {
	if l.level <= DEBUG {
		l.zl.Debug().Msgf(format, v...)
	}
}

func (l *Logger) Info(format string, v ...interface{}) {
	if l.level <= INFO {
		l.zl.Info().Msgf(format, v...)
	}
}

func (l *Logger) Warn(format string, v ...interface{}) {
	if l.level <= WARN {
		l.zl.Warn().Msgf(format, v...)
	}
}

func (l *Logger) Error(format string, v ...interface{}) {
	if l.level <= ERROR {
		l.zl.Error().Msgf(format, v...)
	}
}

func (l *Logger) Fatal(format string, v ...interface{}) {
	l.zl.Fatal().Msgf(format, v...)
}

// Z returns the underlying zerolog logger for structured events.
func (l *Logger) Z() *zerolog.Logger {
	return &l.zl
}

// SetLevel changes the logging level
func (l *Logger) SetLevel(level Level) {
	l.level = level
	l.zl = l.zl.Level(zerologLevels[level])
}

// GetLevel returns current logging level
func (l *Logger) GetLevel() Level {
	return l.level
}

// Global logger instance
var defaultLogger = New(INFO)

// Package-level functions for easy access
func Debug(format string, v ...interface{}) { defaultLogger.Debug(format, v...) }
func Info(format string, v ...interface{})  { defaultLogger.Info(format, v...) }
func Warn(format string, v ...interface{})  { defaultLogger.Warn(format, v...) }
func Error(format string, v ...interface{}) { defaultLogger.Error(format, v...) }
func Fatal(format string, v ...interface{}) { defaultLogger.Fatal(format, v...) }

// Z returns the global zerolog logger.
func Z() *zerolog.Logger { return defaultLogger.Z() }

// SetGlobalLevel sets the level for the global logger
func SetGlobalLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// SetGlobal replaces the global logger, e.g. with a console logger in
// development.
func SetGlobal(l *Logger) {
	defaultLogger = l
}

// Configure installs the global logger for an environment: JSON in
// production, console output otherwise.
func Configure(level Level, production bool) {
	if production {
		SetGlobal(New(level))
		return
	}
	SetGlobal(NewConsole(level, os.Stdout))
}
