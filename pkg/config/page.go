package config

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gobwas/glob"
)

const (
	// SectionIDPage is the identifier for the reservation page section
	SectionIDPage = "page"

	defaultPageHeadless = false
	defaultPageTimeout  = 30 * time.Second
)

// PageSection describes the reservation page labtime reads and submits to.
type PageSection struct {
	URL         string        `json:"url"`
	AllowedURLs []string      `json:"allowed_urls"`
	Headless    bool          `json:"headless"`
	Timeout     time.Duration `json:"timeout"`
	mu          sync.RWMutex
}

// NewPageSection creates a page section with default settings.
func NewPageSection() *PageSection {
	return &PageSection{
		Headless: defaultPageHeadless,
		Timeout:  defaultPageTimeout,
	}
}

// ID returns the section identifier.
func (s *PageSection) ID() string {
	return SectionIDPage
}

// Title returns the section title.
func (s *PageSection) Title() string {
	return "Reservation Page"
}

// Description returns the section description.
func (s *PageSection) Description() string {
	return "The facility reservation page, which pages may be scraped, and how the browser is driven."
}

// Data returns the current configuration data.
func (s *PageSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"url":          s.URL,
		"allowed_urls": append([]string{}, s.AllowedURLs...),
		"headless":     s.Headless,
		"timeout":      s.Timeout.String(),
	}
}

// SetData updates the configuration from the provided data.
func (s *PageSection) SetData(data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "url":
			s.URL, err = asString(key, value)
		case "allowed_urls":
			s.AllowedURLs, err = asStringSlice(key, value)
		case "headless":
			s.Headless, err = asBool(key, value)
		case "timeout":
			s.Timeout, err = asDuration(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *PageSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.URL != "" {
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("url must be http or https, got %q", s.URL)
		}
	}
	for _, pattern := range s.AllowedURLs {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid allowed_urls pattern %q: %w", pattern, err)
		}
	}
	if s.Timeout < time.Second || s.Timeout > 5*time.Minute {
		return fmt.Errorf("timeout must be between 1s and 5m, got %v", s.Timeout)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *PageSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.URL = ""
	s.AllowedURLs = nil
	s.Headless = defaultPageHeadless
	s.Timeout = defaultPageTimeout
}

// Settings returns a snapshot of the page settings.
func (s *PageSection) Settings() (pageURL string, allowed []string, headless bool, timeout time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.URL, append([]string(nil), s.AllowedURLs...), s.Headless, s.Timeout
}
