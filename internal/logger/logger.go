package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ToolName is the fixed name for this tool, used as the log file prefix.
const ToolName = "marketscout"

const recentErrorLimit = 50

// Logger writes leveled entries to a per-PID file under the temp directory.
// It keeps the most recent error lines in memory so they can be replayed to
// stderr when a run fails.
type Logger struct {
	mu     sync.Mutex
	file   *os.File
	zl     zerolog.Logger
	path   string
	recent []string
	closed bool
}

func NewLogger() (*Logger, error) {
	return NewLoggerWithSuffix("")
}

// NewLoggerWithSuffix creates a log file named
// marketscout-<pid>[-suffix].log in the temp directory.
func NewLoggerWithSuffix(suffix string) (*Logger, error) {
	name := fmt.Sprintf("%s-%d", ToolName, os.Getpid())
	if suffix = SanitizeLogSuffix(suffix); suffix != "" {
		name += "-" + suffix
	}
	path := filepath.Join(os.TempDir(), name+".log")

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	zl := zerolog.New(file).With().Timestamp().Logger()
	return &Logger{file: file, zl: zl, path: path}, nil
}

// SanitizeLogSuffix keeps only characters safe for a file name.
func SanitizeLogSuffix(raw string) string {
	var sb strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (l *Logger) Path() string { return l.path }

func (l *Logger) Debug(msg string) { l.log(zerolog.DebugLevel, msg) }
func (l *Logger) Info(msg string)  { l.log(zerolog.InfoLevel, msg) }
func (l *Logger) Warn(msg string)  { l.log(zerolog.WarnLevel, msg) }

func (l *Logger) Error(msg string) {
	l.log(zerolog.ErrorLevel, msg)
	l.mu.Lock()
	l.recent = append(l.recent, msg)
	if len(l.recent) > recentErrorLimit {
		l.recent = l.recent[len(l.recent)-recentErrorLimit:]
	}
	l.mu.Unlock()
}

func (l *Logger) log(level zerolog.Level, msg string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.zl.WithLevel(level).Msg(msg)
}

// ExtractRecentErrors returns up to n of the most recent error messages.
func (l *Logger) ExtractRecentErrors(n int) []string {
	if l == nil || n <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.recent) == 0 {
		return nil
	}
	start := len(l.recent) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, len(l.recent)-start)
	copy(out, l.recent[start:])
	return out
}

// Flush forces buffered entries to disk.
func (l *Logger) Flush() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil && !l.closed {
		_ = l.file.Sync()
	}
}

// Close stops the logger. The log file is kept on disk for debugging;
// RemoveLogFile deletes it explicitly.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if l.file == nil {
		return nil
	}
	_ = l.file.Sync()
	return l.file.Close()
}

func (l *Logger) RemoveLogFile() error {
	if l == nil || l.path == "" {
		return nil
	}
	return removeLogFileFn(l.path)
}
