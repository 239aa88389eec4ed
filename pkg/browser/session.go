package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Driver is the slice of page behavior the reader and agent rely on.
// *Session implements it over Playwright.
type Driver interface {
	URL() string

	// Exists reports whether selector matches at least one element.
	Exists(selector string) (bool, error)

	// Text returns the text content of the first match; found is false when
	// nothing matches.
	Text(selector string) (text string, found bool, err error)

	// Texts returns the text content of every match, in document order.
	Texts(selector string) ([]string, error)

	// Attribute returns an attribute of the first match; found is false when
	// nothing matches. A missing attribute reads as "".
	Attribute(selector, name string) (value string, found bool, err error)

	Fill(opts FillOptions) error
	SelectOption(selector, value string) error
	Click(opts ClickOptions) error
}

var _ Driver = (*Session)(nil)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// URL returns the page's current URL.
func (s *Session) URL() string {
	return s.Page.URL()
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.Goto(url, playwrightOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.CurrentURL = s.Page.URL()
	return nil
}

// Reload reloads the current page, as a page load would re-run the scraper.
func (s *Session) Reload() error {
	s.UpdateLastUsed()

	if _, err := s.Page.Reload(); err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	s.CurrentURL = s.Page.URL()
	return nil
}

// Exists implements Driver.
func (s *Session) Exists(selector string) (bool, error) {
	s.UpdateLastUsed()

	element, err := s.Page.QuerySelector(selector)
	if err != nil {
		return false, fmt.Errorf("selector query failed: %w", err)
	}
	return element != nil, nil
}

// Text implements Driver.
func (s *Session) Text(selector string) (string, bool, error) {
	s.UpdateLastUsed()

	element, err := s.Page.QuerySelector(selector)
	if err != nil {
		return "", false, fmt.Errorf("selector query failed: %w", err)
	}
	if element == nil {
		return "", false, nil
	}
	text, err := element.TextContent()
	if err != nil {
		return "", true, fmt.Errorf("text extraction failed: %w", err)
	}
	return text, true, nil
}

// Texts implements Driver.
func (s *Session) Texts(selector string) ([]string, error) {
	s.UpdateLastUsed()

	elements, err := s.Page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	texts := make([]string, 0, len(elements))
	for _, element := range elements {
		text, err := element.TextContent()
		if err != nil {
			return nil, fmt.Errorf("text extraction failed: %w", err)
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// Attribute implements Driver.
func (s *Session) Attribute(selector, name string) (string, bool, error) {
	s.UpdateLastUsed()

	element, err := s.Page.QuerySelector(selector)
	if err != nil {
		return "", false, fmt.Errorf("selector query failed: %w", err)
	}
	if element == nil {
		return "", false, nil
	}
	value, err := element.GetAttribute(name)
	if err != nil {
		return "", true, fmt.Errorf("attribute read failed: %w", err)
	}
	return value, true, nil
}

// Click clicks an element matching the selector.
func (s *Session) Click(opts ClickOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageClickOptions{}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Click(opts.Selector, playwrightOpts); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	// Update current URL in case click caused navigation
	s.CurrentURL = s.Page.URL()
	return nil
}

// Fill fills an input element with the specified value.
func (s *Session) Fill(opts FillOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageFillOptions{}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Fill(opts.Selector, opts.Value, playwrightOpts); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

// SelectOption selects the option with the given value in a <select>.
func (s *Session) SelectOption(selector, value string) error {
	s.UpdateLastUsed()

	values := playwright.SelectOptionValues{Values: &[]string{value}}
	if _, err := s.Page.SelectOption(selector, values); err != nil {
		return fmt.Errorf("select failed: %w", err)
	}
	return nil
}

// Wait waits for an element to reach a state.
func (s *Session) Wait(opts WaitOptions) error {
	s.UpdateLastUsed()

	if opts.Selector == "" {
		return fmt.Errorf("selector is required for wait")
	}

	playwrightOpts := playwright.PageWaitForSelectorOptions{}
	if opts.State != "" {
		state := playwright.WaitForSelectorState(opts.State)
		playwrightOpts.State = &state
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.WaitForSelector(opts.Selector, playwrightOpts); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}
