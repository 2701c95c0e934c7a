package logger

import "sync/atomic"

var loggerPtr atomic.Pointer[Logger]

// SetLogger installs l as the process-wide active logger.
func SetLogger(l *Logger) {
	loggerPtr.Store(l)
}

// CloseLogger detaches and closes the active logger, if any.
func CloseLogger() error {
	l := loggerPtr.Swap(nil)
	if l == nil {
		return nil
	}
	return l.Close()
}

// ActiveLogger returns the current process-wide logger, or nil.
func ActiveLogger() *Logger {
	return loggerPtr.Load()
}

func LogDebug(msg string) {
	if l := loggerPtr.Load(); l != nil {
		l.Debug(msg)
	}
}

func LogInfo(msg string) {
	if l := loggerPtr.Load(); l != nil {
		l.Info(msg)
	}
}

func LogWarn(msg string) {
	if l := loggerPtr.Load(); l != nil {
		l.Warn(msg)
	}
}

func LogError(msg string) {
	if l := loggerPtr.Load(); l != nil {
		l.Error(msg)
	}
}
