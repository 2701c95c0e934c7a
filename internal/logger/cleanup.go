package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Hooks for tests.
var (
	processRunningCheck = isProcessRunning
	processStartTimeFn  = getProcessStartTime
	removeLogFileFn     = os.Remove
	globLogFiles        = filepath.Glob
	fileStatFn          = os.Lstat
)

// maxStaleLogAge is how long an unparseable log file may linger before
// cleanup removes it anyway.
const maxStaleLogAge = 24 * time.Hour

// CleanupStats summarizes one cleanup pass over stale log files.
type CleanupStats struct {
	Scanned      int
	Deleted      int
	Kept         int
	Errors       int
	DeletedFiles []string
	KeptFiles    []string
}

// CleanupOldLogs removes log files left behind by processes that are no
// longer running. The current process's own log is always kept.
func CleanupOldLogs() (CleanupStats, error) {
	var stats CleanupStats

	pattern := filepath.Join(os.TempDir(), ToolName+"-*.log")
	matches, err := globLogFiles(pattern)
	if err != nil {
		return stats, fmt.Errorf("glob %s: %w", pattern, err)
	}

	ownPid := os.Getpid()
	for _, path := range matches {
		stats.Scanned++

		pid, ok := pidFromLogName(filepath.Base(path))
		if !ok {
			if removeIfOld(path, &stats) {
				continue
			}
			stats.Kept++
			stats.KeptFiles = append(stats.KeptFiles, path)
			continue
		}

		if pid == ownPid {
			stats.Kept++
			stats.KeptFiles = append(stats.KeptFiles, path)
			continue
		}

		if processRunningCheck(pid) && !pidRecycled(pid, path) {
			stats.Kept++
			stats.KeptFiles = append(stats.KeptFiles, path)
			continue
		}

		if err := removeLogFileFn(path); err != nil {
			stats.Errors++
			continue
		}
		stats.Deleted++
		stats.DeletedFiles = append(stats.DeletedFiles, path)
	}

	return stats, nil
}

// pidFromLogName extracts the owning PID from a file name shaped like
// marketscout-<pid>[-suffix].log.
func pidFromLogName(name string) (int, bool) {
	trimmed := strings.TrimSuffix(name, ".log")
	trimmed = strings.TrimPrefix(trimmed, ToolName+"-")
	if trimmed == name {
		return 0, false
	}
	if idx := strings.IndexByte(trimmed, '-'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	pid, err := strconv.Atoi(trimmed)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// pidRecycled reports whether the process holding pid started after the log
// file was written, meaning the original owner is gone and the PID was
// reused.
func pidRecycled(pid int, path string) bool {
	started := processStartTimeFn(pid)
	if started.IsZero() {
		return false
	}
	info, err := fileStatFn(path)
	if err != nil {
		return false
	}
	return started.After(info.ModTime())
}

func removeIfOld(path string, stats *CleanupStats) bool {
	info, err := fileStatFn(path)
	if err != nil {
		stats.Errors++
		return true
	}
	if time.Since(info.ModTime()) < maxStaleLogAge {
		return false
	}
	if err := removeLogFileFn(path); err != nil {
		stats.Errors++
		return true
	}
	stats.Deleted++
	stats.DeletedFiles = append(stats.DeletedFiles, path)
	return true
}
