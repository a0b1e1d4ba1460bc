package console

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heroiclabs/nakama-common/runtime"
)

// SlogLogger adapts a slog.Logger to runtime.Logger so gateway code written
// for the Nakama runtime also runs in the console.
type SlogLogger struct {
	l      *slog.Logger
	fields map[string]interface{}
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l, fields: map[string]interface{}{}}
}

func (s *SlogLogger) log(level slog.Level, format string, v ...interface{}) {
	s.l.Log(context.Background(), level, fmt.Sprintf(format, v...))
}

func (s *SlogLogger) Debug(format string, v ...interface{}) { s.log(slog.LevelDebug, format, v...) }
func (s *SlogLogger) Info(format string, v ...interface{})  { s.log(slog.LevelInfo, format, v...) }
func (s *SlogLogger) Warn(format string, v ...interface{})  { s.log(slog.LevelWarn, format, v...) }
func (s *SlogLogger) Error(format string, v ...interface{}) { s.log(slog.LevelError, format, v...) }

func (s *SlogLogger) WithField(key string, v interface{}) runtime.Logger {
	return s.WithFields(map[string]interface{}{key: v})
}

func (s *SlogLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(s.fields)+len(fields))
	args := make([]any, 0, 2*len(fields))
	for k, v := range s.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
		args = append(args, k, v)
	}
	return &SlogLogger{l: s.l.With(args...), fields: merged}
}

func (s *SlogLogger) Fields() map[string]interface{} {
	return s.fields
}

var _ runtime.Logger = (*SlogLogger)(nil)
