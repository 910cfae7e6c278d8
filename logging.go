package archtoolkit

// Logger is the small seam operations write diagnostics through. It is
// satisfied by *charmbracelet/log.Logger without adaptation; a nil Logger
// is legal and silences all output, matching the graceful-degradation
// paths (missing pacman, cache write failures) that must never surface as
// hard errors.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// nopLogger discards everything. Used as the default when no Logger is
// configured.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Errorf(string, ...any) {}

func debugf(l Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.Debugf(format, args...)
}

func errorf(l Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.Errorf(format, args...)
}
