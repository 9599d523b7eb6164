package application

import (
	"github.com/rs/zerolog"

	"github.com/maryline/catalogsync"
	"github.com/maryline/catalogsync/pkg/errors"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    HistoryFunc: func() (application.History, error) {
//	        return fakeHistory, nil
//	    },
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := runs.NewCommand(mock)
type Mock struct {
	ClientFunc       func(opts ...catalogsync.Option) (catalogsync.Client, error)
	HistoryFunc      func() (History, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Client returns a client using the mock function or a configuration error.
func (m *Mock) Client(opts ...catalogsync.Option) (catalogsync.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(opts...)
	}
	return nil, errors.NewConfigError("mock", "no client configured", nil)
}

// History returns a history store using the mock function or a configuration error.
func (m *Mock) History() (History, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc()
	}
	return nil, errors.NewConfigError("mock", "no history configured", nil)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
