// Package base provides base implementation for scheduler jobs.
package base

import (
	"sync"
	"time"
)

// JobBase records the outcome of the most recent run.
// Jobs embed it and call Record from Run so status endpoints can report on them.
type JobBase struct {
	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

// Record stores the time and result of a run
func (j *JobBase) Record(at time.Time, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lastRun = at
	j.lastErr = err
}

// LastRun returns when the job last ran and how it ended (zero time if never)
func (j *JobBase) LastRun() (time.Time, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastRun, j.lastErr
}
