package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

func New() *Logger {
	return NewWithWriter(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006/01/02 15:04:05"})
}

func NewWithWriter(writer io.Writer) *Logger {
	return &Logger{
		zl: zerolog.New(writer).With().Timestamp().Logger(),
	}
}

// NewFromConfig picks JSON output outside development and applies level,
// which may be debug, info, warn or error.
func NewFromConfig(env, level string) *Logger {
	var l *Logger
	if env == "development" {
		l = New()
	} else {
		l = NewWithWriter(os.Stdout)
	}
	return l.WithLevel(level)
}

func (l *Logger) WithLevel(level string) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.DebugLevel
	}
	return &Logger{zl: l.zl.Level(lvl)}
}

// With returns a child logger that tags every line with key=value.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// Zerolog exposes the underlying logger for libraries that take one.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

func (l *Logger) Debug(v ...interface{}) {
	l.zl.Debug().Msg(sprint(v...))
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.zl.Info().Msg(sprint(v...))
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.zl.Warn().Msg(sprint(v...))
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.zl.Error().Msg(sprint(v...))
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// sprint joins like log.Println does, with spaces between every operand.
func sprint(v ...interface{}) string {
	s := fmt.Sprintln(v...)
	return strings.TrimSuffix(s, "\n")
}
