package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"
	"golang.org/x/sync/errgroup"

	"github.com/dane-analizy/kursy-walut/storage"
)

var (
	errInvalidFetcher = errors.New("invalid fetcher")
	errInvalidSink    = errors.New("invalid sink")
	errNoSinks        = errors.New("no sinks registered")
)

// Summary is the final tally of one ingestion run
type Summary struct {
	RunID string

	Days       int // calendar days in the range
	EmptyDays  int // days with no published table
	FailedDays int // days whose fetch errored

	Quotes     int // quotes fetched after filtering
	Saved      int // successful sink writes
	Duplicates int // already-stored pairs, skipped
	Failed     int // sink writes that errored
}

// Runner drives one ingestion run: it materializes the day range,
// fetches each day exactly once and fans every quote out to the
// registered sinks.
//
// Fetches run on a bounded worker group; dispatching to sinks always
// happens on the calling goroutine, so a table sink can safely hold a
// single shared connection
type Runner struct {
	fetcher Fetcher
	sinks   []Sink
	logger  *slog.Logger

	start   time.Time
	now     func() time.Time
	workers int

	q    iq.Queue[dayJob]
	qMux sync.Mutex
}

// New creates a new Runner that processes every day from start
// through "now" at run time
func New(fetcher Fetcher, start time.Time, opts ...Option) (*Runner, error) {
	if fetcher == nil || fetcher.Name() == "" {
		return nil, errInvalidFetcher
	}

	r := &Runner{
		fetcher: fetcher,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		start:   Day(start),
		now:     time.Now,
		workers: 1,
		q:       iq.NewQueue[dayJob](),
	}

	// Apply the options
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Register registers a new sink with the runner
func (r *Runner) Register(s Sink) error {
	if s == nil || s.Name() == "" {
		return errInvalidSink
	}

	r.sinks = append(r.sinks, s)

	r.logger.Info(
		"registered new sink",
		"name", s.Name(),
	)

	return nil
}

// Run executes the ingestion for the full date range [BLOCKING].
// A single day's failure never stops the run; the returned summary
// accounts for every day in the range
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if len(r.sinks) == 0 {
		return nil, errNoSinks
	}

	var (
		runID  = xid.New()
		logger = r.logger.With("run_id", runID.String())

		days = DateRange(r.start, r.now())

		summary = &Summary{
			RunID: runID.String(),
			Days:  len(days),
		}
	)

	if len(days) == 0 {
		logger.Info(
			"no days to ingest",
			"start", r.start.Format(time.DateOnly),
		)

		return summary, nil
	}

	logger.Info(
		"starting rate ingestion",
		"source", r.fetcher.Name(),
		"from", days[0].Format(time.DateOnly),
		"to", days[len(days)-1].Format(time.DateOnly),
		"days", len(days),
		"workers", r.workers,
	)

	// Queue up the pending days
	for _, day := range days {
		r.scheduleDay(day)
	}

	resCh := make(chan *dayResult, r.workers)

	group, gCtx := errgroup.WithContext(ctx)

	for i := 0; i < r.workers; i++ {
		group.Go(func() error {
			return r.fetchDays(gCtx, resCh)
		})
	}

	go func() {
		_ = group.Wait()

		close(resCh)
	}()

	// Dispatch fetched days as they arrive. The parent context is used
	// on purpose: buffered results are still flushed to the sinks after
	// the worker group context is done
	for res := range resCh {
		r.dispatch(ctx, logger, res, summary)
	}

	if err := group.Wait(); err != nil {
		return summary, err
	}

	logger.Info(
		"rate ingestion complete",
		"quotes", summary.Quotes,
		"saved", summary.Saved,
		"duplicates", summary.Duplicates,
		"failed", summary.Failed,
		"empty_days", summary.EmptyDays,
		"failed_days", summary.FailedDays,
	)

	return summary, nil
}

// scheduleDay queues a single pending day
func (r *Runner) scheduleDay(day time.Time) {
	r.qMux.Lock()
	defer r.qMux.Unlock()

	r.q.Push(dayJob{day: day})
}

// nextDay fetches the next pending day, if any
func (r *Runner) nextDay() *dayJob {
	r.qMux.Lock()
	defer r.qMux.Unlock()

	if r.q.Len() == 0 {
		return nil // nothing left to fetch
	}

	return r.q.PopFront()
}

// fetchDays drains the pending day queue, fetching one day at a time
// and handing results to the collector channel
func (r *Runner) fetchDays(ctx context.Context, resCh chan<- *dayResult) error {
	for {
		job := r.nextDay()
		if job == nil {
			return nil // queue drained
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		quotes, err := r.fetcher.FetchDay(ctx, job.day)

		res := &dayResult{
			day:    job.day,
			quotes: quotes,
			err:    err,
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case resCh <- res:
		}
	}
}

// dispatch fans one day's quotes out to every registered sink,
// classifying per-record outcomes without ever aborting the run
func (r *Runner) dispatch(
	ctx context.Context,
	logger *slog.Logger,
	res *dayResult,
	summary *Summary,
) {
	day := res.day.Format(time.DateOnly)

	if res.err != nil {
		summary.FailedDays++

		logger.Error(
			"unable to fetch rates",
			"day", day,
			"err", res.err,
		)

		return
	}

	if len(res.quotes) == 0 {
		summary.EmptyDays++

		logger.Debug(
			"no rates published",
			"day", day,
		)

		return
	}

	for _, quote := range res.quotes {
		summary.Quotes++

		for _, sink := range r.sinks {
			err := sink.SaveRate(ctx, quote)

			switch {
			case errors.Is(err, storage.ErrDuplicateRate):
				summary.Duplicates++

				logger.Debug(
					"rate already stored",
					"sink", sink.Name(),
					"day", day,
					"code", quote.Code,
				)
			case err != nil:
				summary.Failed++

				logger.Error(
					"unable to save rate",
					"sink", sink.Name(),
					"day", day,
					"code", quote.Code,
					"err", err,
				)
			default:
				summary.Saved++
			}
		}
	}
}
