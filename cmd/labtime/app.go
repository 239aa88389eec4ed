package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/entrhq/labtime/pkg/autofill"
	"github.com/entrhq/labtime/pkg/browser"
	appconfig "github.com/entrhq/labtime/pkg/config"
	"github.com/entrhq/labtime/pkg/logging"
	"github.com/entrhq/labtime/pkg/scraper"
	"github.com/entrhq/labtime/pkg/store"
)

// sessionName is the browser session holding the reservation page.
const sessionName = "reservation"

// listWait bounds how long a freshly loaded page may take to attach the
// reservation list, in milliseconds.
const listWait = 5000

// redisPasswordEnv names the environment variable holding the Redis password.
const redisPasswordEnv = "LABTIME_REDIS_PASSWORD"

var errNoPage = errors.New("no reservation page configured: use -url, -html, or set page.url in the configuration file")

// app holds everything a subcommand needs: settings, logger, storage, and
// the browser once a page has been opened.
type app struct {
	config   *Config
	settings *appconfig.Manager
	logger   *logging.Logger
	store    store.Store

	browser *browser.SessionManager
	closers []func() error
}

func newApp(ctx context.Context, config *Config) (*app, error) {
	// Initialize global configuration
	if err := appconfig.Initialize(config.ConfigPath); err != nil {
		return nil, fmt.Errorf("failed to initialize configuration: %w", err)
	}

	logger, err := logging.NewLogger("labtime")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging to stderr: %v\n", err)
	}

	a := &app{
		config:   config,
		settings: appconfig.Global(),
		logger:   logger,
	}
	a.closers = append(a.closers, logger.Close)

	if a.store, err = a.openStore(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// openStore opens the configured storage backend. Flags override the
// storage section.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	backend, path, redisAddr, redisDB := a.settings.Storage().Settings()
	if a.config.isSet("store") {
		backend = a.config.Backend
	}
	if a.config.isSet("store-path") {
		path = a.config.StorePath
	}
	if a.config.isSet("redis-addr") {
		redisAddr = a.config.RedisAddr
	}
	if a.config.isSet("redis-db") {
		redisDB = a.config.RedisDB
	}

	a.logger.Debugf("Opening %s storage", backend)
	switch backend {
	case appconfig.BackendRedis:
		s, err := store.DialRedis(ctx, redisAddr, os.Getenv(redisPasswordEnv), redisDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	case appconfig.BackendMemory:
		return store.NewMemoryStore(), nil
	case appconfig.BackendFile, "":
		return store.NewFileStore(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// source is where reservations are scraped from: a live browser page, or a
// saved HTML file that is re-read on every scrape.
type source struct {
	scraper *scraper.Scraper
	logger  *logging.Logger

	// session is nil for saved pages.
	session *browser.Session
}

// openSource opens the reservation page named by -html, -url or page.url.
// It returns errNoPage when none is configured.
func (a *app) openSource(ctx context.Context) (*source, error) {
	pageURL, allowed, headless, timeout := a.settings.Page().Settings()
	if a.config.isSet("url") {
		pageURL = a.config.PageURL
	}
	if a.config.isSet("headless") {
		headless = a.config.Headless
	}

	matcher, err := scraper.NewURLMatcher(allowed)
	if err != nil {
		return nil, err
	}
	logger := a.logger.Named("scraper")

	if a.config.HTMLFile != "" {
		reader := &htmlFileReader{path: a.config.HTMLFile, url: pageURL}
		return &source{scraper: scraper.New(reader, a.store, logger, matcher), logger: logger}, nil
	}
	if pageURL == "" {
		return nil, errNoPage
	}
	if !matcher.Allows(pageURL) {
		return nil, fmt.Errorf("%w: %s", scraper.ErrPageNotAllowed, pageURL)
	}

	a.browser = browser.NewSessionManager()
	a.closers = append(a.closers, a.browser.Shutdown)
	if err := a.browser.Initialize(); err != nil {
		return nil, err
	}
	session, err := a.browser.StartSession(sessionName, browser.SessionOptions{
		Headless: headless,
		Timeout:  float64(timeout.Milliseconds()),
	})
	if err != nil {
		return nil, err
	}

	a.logger.Infof("Opening reservation page %s", pageURL)
	if err := session.Navigate(pageURL, browser.NavigateOptions{WaitUntil: "load"}); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader := browser.NewPageReader(session)
	src := &source{
		scraper: scraper.New(reader, a.store, logger, matcher),
		logger:  logger,
		session: session,
	}
	src.settle()
	return src, nil
}

// settle waits for the reservation list to attach. A page without the list
// is still scraped, so a timeout is only logged.
func (s *source) settle() {
	err := s.session.Wait(browser.WaitOptions{
		Selector: scraper.SelectorList,
		State:    "attached",
		Timeout:  listWait,
	})
	if err != nil {
		s.logger.Warnf("Reservation list did not appear: %v", err)
	}
}

// scrape reads the page as it is now.
func (s *source) scrape(ctx context.Context) (*scraper.Result, error) {
	return s.scraper.Run(ctx)
}

// reload reloads the page, then scrapes it.
func (s *source) reload(ctx context.Context) (*scraper.Result, error) {
	if s.session != nil {
		if err := s.session.Reload(); err != nil {
			return nil, err
		}
		s.settle()
	}
	return s.scrape(ctx)
}

// refresh is reload for callers that only need the error.
func (s *source) refresh(ctx context.Context) error {
	_, err := s.reload(ctx)
	return err
}

// submitter returns the autofill run against the page in src. Saved pages
// cannot be submitted; the run fails with browser.ErrNoActivePage.
func (a *app) submitter(src *source) func(ctx context.Context) (*autofill.Report, error) {
	if src.session == nil {
		return func(context.Context) (*autofill.Report, error) {
			return nil, browser.ErrNoActivePage
		}
	}
	logger := a.logger.Named("autofill")
	agent := browser.NewPageAgent(src.session, a.store, logger)
	coordinator := autofill.NewCoordinator(a.store, agent, logger)
	return coordinator.Run
}

// close releases the browser, storage and log file, newest first.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warnf("Shutdown: %v", err)
		}
	}
}

// htmlFileReader reads a saved copy of the reservation page.
type htmlFileReader struct {
	path string
	url  string
}

// ReadPage implements scraper.PageReader.
func (r *htmlFileReader) ReadPage(ctx context.Context) (*scraper.Page, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open saved page: %w", err)
	}
	defer f.Close()

	reader, err := scraper.NewHTMLReader(r.url, f)
	if err != nil {
		return nil, err
	}
	return reader.ReadPage(ctx)
}
