package headless

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/entrhq/labtime/pkg/logging"
	"github.com/entrhq/labtime/pkg/scraper"
)

const (
	statusRunning        = "running"
	statusSuccess        = "success"
	statusFailed         = "failed"
	statusPartialSuccess = "partial_success"
	statusNoRuns         = "no_runs"
)

// Job reloads the reservation page and scrapes it once.
type Job func(ctx context.Context) (*scraper.Result, error)

// Executor implements the headless watch mode
type Executor struct {
	job            Job
	config         *Config
	logger         *logging.Logger
	artifactWriter *ArtifactWriter

	mu      sync.Mutex
	summary *ExecutionSummary
	done    chan struct{}
}

// NewExecutor creates a new headless executor running job on the configured schedule
func NewExecutor(job Job, config *Config, logger *logging.Logger) (*Executor, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	e := &Executor{
		job:    job,
		config: config,
		logger: logger,
		done:   make(chan struct{}),
		summary: &ExecutionSummary{
			Schedule: config.Schedule,
			Status:   statusRunning,
		},
	}
	if config.Artifacts.Enabled {
		e.artifactWriter = NewArtifactWriter(config.Artifacts)
	}
	return e, nil
}

// Run schedules the job and blocks until ctx is cancelled or MaxRuns is
// reached. Runs never overlap; a tick that arrives while a run is still in
// progress is skipped.
func (e *Executor) Run(ctx context.Context) error {
	e.mu.Lock()
	e.summary.StartTime = time.Now()
	e.mu.Unlock()

	e.logger.Infof("Starting watch on schedule %q", e.config.Schedule)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(e.config.Schedule, func() { e.runOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", e.config.Schedule, err)
	}

	c.Start()
	select {
	case <-ctx.Done():
		e.logger.Infof("Watch cancelled")
	case <-e.done:
		e.logger.Infof("Watch finished after %d runs", e.config.MaxRuns)
	}
	<-c.Stop().Done()

	e.finish()
	return e.writeArtifacts()
}

// Summary returns a copy of the execution summary so far.
func (e *Executor) Summary() ExecutionSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	summary := *e.summary
	summary.Runs = append([]RunRecord(nil), e.summary.Runs...)
	return summary
}

// runOnce executes one scheduled scrape and records it.
func (e *Executor) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	runCtx := ctx
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	record := RunRecord{StartTime: time.Now()}
	result, err := e.job(runCtx)
	record.Duration = time.Since(record.StartTime)
	if result != nil {
		record.Facility = result.Facility.FacilityName
		record.Reservations = len(result.Records)
		record.Stored = result.ReservationsStored
	}
	if err != nil {
		record.Error = err.Error()
		e.logger.Errorf("Scheduled scrape failed: %v", err)
	} else {
		e.logger.Infof("Scheduled scrape stored %d reservations in %s", record.Reservations, record.Duration)
	}

	e.mu.Lock()
	e.summary.Runs = append(e.summary.Runs, record)
	e.summary.Metrics.Runs++
	if err != nil {
		e.summary.Metrics.Failures++
	} else {
		e.summary.Metrics.LastReservations = record.Reservations
	}
	limitReached := e.config.MaxRuns > 0 && e.summary.Metrics.Runs == e.config.MaxRuns
	e.mu.Unlock()

	if err := e.writeArtifacts(); err != nil {
		e.logger.Warnf("Failed to write artifacts: %v", err)
	}
	if limitReached {
		close(e.done)
	}
}

// finish stamps the end time and the final status.
func (e *Executor) finish() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.summary.EndTime = time.Now()
	e.summary.Duration = e.summary.EndTime.Sub(e.summary.StartTime)

	m := e.summary.Metrics
	switch {
	case m.Runs == 0:
		e.summary.Status = statusNoRuns
	case m.Failures == 0:
		e.summary.Status = statusSuccess
	case m.Failures == m.Runs:
		e.summary.Status = statusFailed
	default:
		e.summary.Status = statusPartialSuccess
	}
}

func (e *Executor) writeArtifacts() error {
	if e.artifactWriter == nil {
		return nil
	}
	summary := e.Summary()
	return e.artifactWriter.WriteAll(&summary)
}
