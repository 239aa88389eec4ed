// Package main provides labtime, a terminal timeline for booking lab
// equipment: it scrapes the facility's reservation page, shows the day's
// bookings, and fills in the reservation form for the interval picked with
// the mouse.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0" // Version of labtime

// Config holds the flags shared by every subcommand. Zero values fall back to
// the configuration file.
type Config struct {
	ConfigPath string
	PageURL    string
	HTMLFile   string
	Backend    string
	StorePath  string
	RedisAddr  string
	RedisDB    int
	Headless   bool

	// set records which flags were given explicitly.
	set map[string]bool
}

// command is one labtime subcommand.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, config *Config, args []string) error
}

var commands = []command{
	{"timeline", "Show the day's reservations and select an interval (default)", runTimeline},
	{"scrape", "Scrape the reservation page once and store the result", runScrape},
	{"profile", "Save or show the profile used to fill the reservation form", runProfile},
	{"submit", "Fill the reservation form and press the request button", runSubmit},
	{"watch", "Re-scrape the reservation page on a cron schedule", runWatch},
	{"config", "Change or show the settings in the configuration file", runConfig},
	{"version", "Show version and exit", runVersion},
}

func main() {
	name, args := "timeline", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		name, args = args[0], args[1:]
	}

	cmd, ok := lookup(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "labtime: unknown command %q\n\n", name)
		usage()
		os.Exit(2)
	}

	// Create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, &Config{}, args); err != nil {
		stop()
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("labtime %s: %v", cmd.name, err)
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage() {
	fmt.Fprintf(os.Stderr, "labtime - book lab equipment from the terminal\n\n")
	fmt.Fprintf(os.Stderr, "Usage: labtime [command] [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(os.Stderr, "\nRun 'labtime <command> -h' for the options of a command.\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  labtime profile -name 'Taro Yamada' -email taro@example.ac.jp -phone 1234 -lab 24638\n")
	fmt.Fprintf(os.Stderr, "  labtime scrape -url https://rsv.example.ac.jp/facility/12\n")
	fmt.Fprintf(os.Stderr, "  labtime scrape -html saved-page.html\n")
	fmt.Fprintf(os.Stderr, "  labtime -url https://rsv.example.ac.jp/facility/12   # timeline\n")
	fmt.Fprintf(os.Stderr, "  labtime watch -schedule '@every 5m'\n")
	fmt.Fprintf(os.Stderr, "  labtime config -set page.url=https://rsv.example.ac.jp/facility/12\n")
}

// newFlagSet returns a flag set for cmd with the shared options registered.
func newFlagSet(name string, config *Config) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&config.ConfigPath, "config", "", "Configuration file (default: ~/.labtime/config.json)")
	fs.StringVar(&config.PageURL, "url", "", "Reservation page URL (overrides page.url)")
	fs.StringVar(&config.HTMLFile, "html", "", "Read a saved reservation page instead of opening a browser")
	fs.StringVar(&config.Backend, "store", "", "Storage backend: file, redis or memory (overrides storage.backend)")
	fs.StringVar(&config.StorePath, "store-path", "", "Storage file for the file backend (overrides storage.path)")
	fs.StringVar(&config.RedisAddr, "redis-addr", "", "Redis address (overrides storage.redis_addr)")
	fs.IntVar(&config.RedisDB, "redis-db", 0, "Redis database (overrides storage.redis_db)")
	fs.BoolVar(&config.Headless, "headless", true, "Run the browser without a window (overrides page.headless)")
	return fs
}

// parse parses args and records which flags were set.
func (c *Config) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		c.set[f.Name] = true
	})
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return nil
}

// isSet reports whether flag name was given on the command line.
func (c *Config) isSet(name string) bool {
	return c.set[name]
}

func runVersion(_ context.Context, _ *Config, _ []string) error {
	fmt.Printf("labtime v%s\n", version)
	return nil
}
