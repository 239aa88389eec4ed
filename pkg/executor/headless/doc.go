// Package headless runs labtime without a terminal: the reservation page is
// re-scraped on a cron schedule and every run is recorded.
//
// The executor is meant for cron-like hosts and long-lived sessions where the
// timeline is not open. It provides:
//
// - A cron schedule (standard five fields or descriptors such as "@every 5m")
// - A per-run timeout and an optional run limit
// - Artifact generation (execution.json and summary.md) after every run
//
// Example usage:
//
//	config := headless.DefaultConfig()
//	config.Schedule = "*/5 8-20 * * 1-5"
//
//	executor, _ := headless.NewExecutor(source.Scrape, config, logger)
//	if err := executor.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// Configuration can also be loaded from YAML with LoadConfig:
//
//	schedule: "@every 10m"
//	max_runs: 0
//	timeout: 2m
//	artifacts:
//	  enabled: true
//	  output_dir: .labtime/artifacts
//	  json: true
//	  markdown: true
package headless
