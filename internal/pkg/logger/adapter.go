package logger

import "cca_wallet/internal/app/port"

// slogAdapter implements port.Logger over the package-level functions, so
// services log through whatever handler the binary installed.
type slogAdapter struct {
	attrs []any
}

// NewComponentAdapter returns a port.Logger backed by the global slog logger
// that tags every record with a fixed "component" attribute.
func NewComponentAdapter(component string) port.Logger {
	return &slogAdapter{attrs: []any{"component", component}}
}

func (a *slogAdapter) with(args []any) []any {
	if len(a.attrs) == 0 {
		return args
	}
	return append(append([]any{}, a.attrs...), args...)
}

func (a *slogAdapter) Info(msg string, args ...any) {
	Info(msg, a.with(args)...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	Debug(msg, a.with(args)...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	Warn(msg, a.with(args)...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	Error(msg, a.with(args)...)
}
