package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"
)

type fakeFileInfo struct {
	name    string
	modTime time.Time
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() os.FileMode  { return 0o600 }
func (f fakeFileInfo) ModTime() time.Time { return f.modTime }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() any           { return nil }

// cleanupFixture swaps the cleanup hooks for fakes and restores them when the
// test ends.
type cleanupFixture struct {
	files      []string
	running    map[int]bool
	startTimes map[int]time.Time
	modTimes   map[string]time.Time
	removed    []string
	removeErr  error
}

func installFixture(t *testing.T, fx *cleanupFixture) {
	t.Helper()

	origGlob := globLogFiles
	origRunning := processRunningCheck
	origStart := processStartTimeFn
	origRemove := removeLogFileFn
	origStat := fileStatFn
	t.Cleanup(func() {
		globLogFiles = origGlob
		processRunningCheck = origRunning
		processStartTimeFn = origStart
		removeLogFileFn = origRemove
		fileStatFn = origStat
	})

	globLogFiles = func(pattern string) ([]string, error) { return fx.files, nil }
	processRunningCheck = func(pid int) bool { return fx.running[pid] }
	processStartTimeFn = func(pid int) time.Time { return fx.startTimes[pid] }
	removeLogFileFn = func(path string) error {
		if fx.removeErr != nil {
			return fx.removeErr
		}
		fx.removed = append(fx.removed, path)
		return nil
	}
	fileStatFn = func(path string) (os.FileInfo, error) {
		mod, ok := fx.modTimes[path]
		if !ok {
			mod = time.Now()
		}
		return fakeFileInfo{name: filepath.Base(path), modTime: mod}, nil
	}
}

func logPath(pid int) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d.log", ToolName, pid))
}

func TestCleanupOldLogs(t *testing.T) {
	ownPath := logPath(os.Getpid())
	deadPath := logPath(99991)
	livePath := logPath(99992)
	recycledPath := logPath(99993)

	fx := &cleanupFixture{
		files:   []string{ownPath, deadPath, livePath, recycledPath},
		running: map[int]bool{99992: true, 99993: true},
		startTimes: map[int]time.Time{
			99992: time.Now().Add(-time.Hour),
			99993: time.Now().Add(time.Hour), // started after the log was written
		},
		modTimes: map[string]time.Time{
			livePath:     time.Now(),
			recycledPath: time.Now(),
		},
	}
	installFixture(t, fx)

	stats, err := CleanupOldLogs()
	if err != nil {
		t.Fatalf("CleanupOldLogs: %v", err)
	}

	if stats.Scanned != 4 {
		t.Errorf("Scanned = %d, want 4", stats.Scanned)
	}
	if stats.Deleted != 2 || stats.Kept != 2 || stats.Errors != 0 {
		t.Errorf("stats = %+v", stats)
	}

	sort.Strings(fx.removed)
	want := []string{deadPath, recycledPath}
	sort.Strings(want)
	if !reflect.DeepEqual(fx.removed, want) {
		t.Errorf("removed %v, want %v", fx.removed, want)
	}
}

func TestCleanupOldLogsUnparseableNames(t *testing.T) {
	oldPath := filepath.Join(os.TempDir(), ToolName+"-garbage.log")
	freshPath := filepath.Join(os.TempDir(), ToolName+"-alsogarbage.log")

	fx := &cleanupFixture{
		files: []string{oldPath, freshPath},
		modTimes: map[string]time.Time{
			oldPath:   time.Now().Add(-48 * time.Hour),
			freshPath: time.Now(),
		},
	}
	installFixture(t, fx)

	stats, err := CleanupOldLogs()
	if err != nil {
		t.Fatalf("CleanupOldLogs: %v", err)
	}
	if stats.Deleted != 1 || stats.Kept != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(fx.removed) != 1 || fx.removed[0] != oldPath {
		t.Errorf("removed %v, want only the stale file", fx.removed)
	}
}

func TestCleanupOldLogsRemoveFailure(t *testing.T) {
	fx := &cleanupFixture{
		files:     []string{logPath(99994)},
		removeErr: fmt.Errorf("permission denied"),
	}
	installFixture(t, fx)

	stats, err := CleanupOldLogs()
	if err != nil {
		t.Fatalf("CleanupOldLogs: %v", err)
	}
	if stats.Errors != 1 || stats.Deleted != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestPidFromLogName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		pid  int
		ok   bool
	}{
		{"plain", ToolName + "-1234.log", 1234, true},
		{"with suffix", ToolName + "-1234-worker.log", 1234, true},
		{"not a pid", ToolName + "-abc.log", 0, false},
		{"negative", ToolName + "--5.log", 0, false},
		{"other tool", "othertool-1234.log", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pid, ok := pidFromLogName(tt.in)
			if pid != tt.pid || ok != tt.ok {
				t.Errorf("pidFromLogName(%q) = (%d, %v), want (%d, %v)", tt.in, pid, ok, tt.pid, tt.ok)
			}
		})
	}
}
