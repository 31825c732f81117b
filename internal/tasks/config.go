package tasks

import (
	"time"

	"github.com/mikestefanello/backlite"
)

// Config sizes the draft cleanup queue. The retry, timeout and retention
// settings override the defaults every queue registered on a Client declares.
type Config struct {
	Workers int

	// Attempts caps how often a failing purge runs before it is given up.
	Attempts int
	// Backoff holds a failed purge back before the next attempt.
	Backoff time.Duration
	// Timeout bounds a single purge.
	Timeout time.Duration

	// ReleaseAfter hands a purge claimed by a crashed worker back to the queue.
	ReleaseAfter    time.Duration
	CleanupInterval time.Duration

	// KeepFor is how long finished purges stay inspectable in the tasks
	// database. Payloads are kept for failures only.
	KeepFor time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		Attempts:        3,
		Backoff:         time.Minute,
		Timeout:         5 * time.Minute,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
		KeepFor:         24 * time.Hour,
	}
}

// applyTo overwrites qc with every setting that is positive. Zero values leave
// the queue's own default in place.
func (c Config) applyTo(qc *backlite.QueueConfig) {
	if c.Attempts > 0 {
		qc.MaxAttempts = c.Attempts
	}
	if c.Backoff > 0 {
		qc.Backoff = c.Backoff
	}
	if c.Timeout > 0 {
		qc.Timeout = c.Timeout
	}
	if c.KeepFor > 0 {
		qc.Retention = keepFailedPayloads(c.KeepFor)
	}
}

// keepFailedPayloads retains every finished task for d, with the payload only
// when the task failed.
func keepFailedPayloads(d time.Duration) *backlite.Retention {
	return &backlite.Retention{
		Duration: d,
		Data:     &backlite.RetainData{OnlyFailed: true},
	}
}
