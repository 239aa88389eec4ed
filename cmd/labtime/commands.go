package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/labtime/pkg/autofill"
	"github.com/entrhq/labtime/pkg/browser"
	"github.com/entrhq/labtime/pkg/executor/headless"
	"github.com/entrhq/labtime/pkg/executor/tui"
	"github.com/entrhq/labtime/pkg/scraper"
)

// runTimeline opens the terminal timeline. With a page configured it scrapes
// once at startup and enables refresh; with a live page it also enables submit.
func runTimeline(ctx context.Context, config *Config, args []string) error {
	fs := newFlagSet("timeline", config)
	if err := config.parse(fs, args); err != nil {
		return err
	}

	a, err := newApp(ctx, config)
	if err != nil {
		return err
	}
	defer a.close()

	height, tick := a.settings.UI().Timeline()
	opts := tui.Options{
		Store:        a.store,
		Logger:       a.logger.Named("tui"),
		Height:       float64(height),
		TickInterval: tick,
	}

	src, err := a.openSource(ctx)
	switch {
	case errors.Is(err, errNoPage):
		a.logger.Infof("No reservation page configured; showing stored reservations")
	case err != nil:
		return err
	default:
		// A failed scrape still shows what is stored.
		if _, err := src.scrape(ctx); err != nil {
			a.logger.Warnf("Initial scrape failed: %v", err)
		}
		opts.Refresh = src.refresh
		opts.Submit = a.submitter(src)
	}

	return tui.NewExecutor(opts).Run(ctx)
}

// runScrape scrapes the page once and prints what was stored.
func runScrape(ctx context.Context, config *Config, args []string) error {
	fs := newFlagSet("scrape", config)
	if err := config.parse(fs, args); err != nil {
		return err
	}

	a, err := newApp(ctx, config)
	if err != nil {
		return err
	}
	defer a.close()

	src, err := a.openSource(ctx)
	if err != nil {
		return err
	}

	result, err := src.scrape(ctx)
	if result != nil {
		printResult(result)
	}
	return err
}

func printResult(result *scraper.Result) {
	if !result.ReservationsStored {
		fmt.Println("Reservations were not updated.")
	} else {
		fmt.Printf("Reservations (%s): %d stored\n", result.Facility.FacilityName, len(result.Records))
		for _, r := range result.Records {
			fmt.Printf("  %s %s - %s %s  %s (%s)\n", r.StartDate, r.StartTime, r.EndDate, r.EndTime, r.Name, r.Lab)
		}
	}
	if result.ImageStored && result.Facility.FirstImgAlt != "" {
		fmt.Printf("First schedule cell: %s\n", result.Facility.FirstImgAlt)
	}
}

// runSubmit fills the reservation form on the live page and presses the
// request button.
func runSubmit(ctx context.Context, config *Config, args []string) error {
	fs := newFlagSet("submit", config)
	if err := config.parse(fs, args); err != nil {
		return err
	}
	a, err := newApp(ctx, config)
	if err != nil {
		return err
	}
	defer a.close()

	src, err := a.openSource(ctx)
	if err != nil {
		return err
	}

	report, err := a.submitter(src)(ctx)
	if errors.Is(err, browser.ErrNoActivePage) {
		return fmt.Errorf("submit needs a live page, not -html: %w", err)
	}
	if errors.Is(err, autofill.ErrRequiredDataMissing) {
		fmt.Println("Required data not found in storage. Please set it up first.")
		fmt.Println("Run 'labtime profile' and select an interval on the timeline.")
		return nil
	}
	if report != nil {
		printExchange("Autofill", report.Autofill)
		printExchange("Request button", report.Trigger)
	}
	return err
}

func printExchange(name string, ex autofill.Exchange) {
	switch {
	case ex.OK():
		fmt.Printf("%s: ok\n", name)
	case ex.Err != nil:
		fmt.Printf("%s: failed: %v\n", name, ex.Err)
	default:
		fmt.Printf("%s: failed: %s\n", name, ex.Reply.Error)
	}
}

// runWatch re-scrapes the page on the watch schedule until interrupted.
func runWatch(ctx context.Context, config *Config, args []string) error {
	fs := newFlagSet("watch", config)
	var (
		watchConfig  string
		schedule     string
		maxRuns      int
		artifactsDir string
	)
	fs.StringVar(&watchConfig, "watch-config", "", "Watch configuration file (YAML)")
	fs.StringVar(&schedule, "schedule", "", "Cron schedule, e.g. '*/10 * * * *' or '@every 5m' (overrides watch.schedule)")
	fs.IntVar(&maxRuns, "runs", 0, "Stop after this many scrapes (0: until interrupted)")
	fs.StringVar(&artifactsDir, "artifacts", "", "Write execution.json and summary.md to this directory")
	if err := config.parse(fs, args); err != nil {
		return err
	}

	a, err := newApp(ctx, config)
	if err != nil {
		return err
	}
	defer a.close()

	execConfig := headless.DefaultConfig()
	execConfig.Schedule = a.settings.Watch().GetSchedule()
	if watchConfig != "" {
		if execConfig, err = headless.LoadConfig(watchConfig); err != nil {
			return err
		}
	}
	if schedule != "" {
		execConfig.Schedule = schedule
	}
	if config.isSet("runs") {
		execConfig.MaxRuns = maxRuns
	}
	if artifactsDir != "" {
		execConfig.Artifacts.Enabled = true
		execConfig.Artifacts.OutputDir = artifactsDir
	}

	src, err := a.openSource(ctx)
	if err != nil {
		return err
	}

	executor, err := headless.NewExecutor(src.reload, execConfig, a.logger.Named("watch"))
	if err != nil {
		return err
	}

	fmt.Printf("Watching reservations on schedule %q (Ctrl+C to stop)\n", execConfig.Schedule)
	runErr := executor.Run(ctx)

	summary := executor.Summary()
	fmt.Printf("\n%s: %d runs, %d failed\n", summary.Status, summary.Metrics.Runs, summary.Metrics.Failures)
	return runErr
}
