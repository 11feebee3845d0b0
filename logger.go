package pcfg

import (
	"io"

	"github.com/baditaflorin/l"
)

// Logger is the structured logger used by Normalizer and Parser
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NewLogger creates a logger writing to w. The returned close function
// flushes and releases the logger
func NewLogger(w io.Writer, json bool) (Logger, func() error, error) {
	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:     w,
		JsonFormat: json,
		AsyncWrite: false,
		AddSource:  false,
	})
	if err != nil {
		return nil, nil, err
	}
	return logger, logger.Close, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func orNop(logger Logger) Logger {
	if logger == nil {
		return nopLogger{}
	}
	return logger
}
