package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Timer measures a block and appends the elapsed seconds, one per line,
// to time_<tag>.log.
type Timer struct {
	path   string
	tag    string
	start  time.Time
	logger *zap.Logger
}

// timeLogMu serializes appends from concurrent runs.
var timeLogMu sync.Mutex

// StartTimer starts timing a block tagged tag. The log lives in dir.
func StartTimer(dir, tag string, logger *zap.Logger) *Timer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Timer{
		path:   filepath.Join(dir, fmt.Sprintf("time_%s.log", tag)),
		tag:    tag,
		start:  time.Now(),
		logger: logger,
	}
}

// Path returns the log file the timer appends to.
func (t *Timer) Path() string {
	return t.path
}

// Stop records the elapsed time and returns it.
func (t *Timer) Stop() (time.Duration, error) {
	elapsed := time.Since(t.start)

	timeLogMu.Lock()
	defer timeLogMu.Unlock()

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return elapsed, fmt.Errorf("failed to open time log: %w", err)
	}
	if _, err := fmt.Fprintln(f, formatFloat(elapsed.Seconds())); err != nil {
		f.Close()
		return elapsed, fmt.Errorf("failed to write time log: %w", err)
	}
	if err := f.Close(); err != nil {
		return elapsed, fmt.Errorf("failed to close time log: %w", err)
	}

	t.logger.Info("elapsed time",
		zap.String("tag", t.tag),
		zap.Float64("seconds", elapsed.Seconds()),
	)
	return elapsed, nil
}
