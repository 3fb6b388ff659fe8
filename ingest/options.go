package ingest

import (
	"log/slog"
	"time"
)

type Option func(r *Runner)

// WithLogger specifies the logger for the runner
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithWorkers bounds the number of in-flight remote fetches.
// Defaults to 1, which is strictly sequential day processing
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithNow overrides the clock used to derive the end of the date range
func WithNow(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}
