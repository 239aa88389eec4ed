package scraper

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
)

// ErrPageNotAllowed is returned when the loaded page is outside the
// configured reservation site.
var ErrPageNotAllowed = errors.New("page is not an allowed reservation page")

// URLMatcher decides which pages may be scraped.
type URLMatcher struct {
	patterns []glob.Glob
}

// NewURLMatcher compiles glob patterns such as "https://*.example.ac.jp/rsv/*".
// With no patterns every URL is allowed.
func NewURLMatcher(patterns []string) (*URLMatcher, error) {
	m := &URLMatcher{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid URL pattern '%s': %w", pattern, err)
		}
		m.patterns = append(m.patterns, g)
	}
	return m, nil
}

// Allows reports whether url matches any pattern.
func (m *URLMatcher) Allows(url string) bool {
	if m == nil || len(m.patterns) == 0 {
		return true
	}
	for _, g := range m.patterns {
		if g.Match(url) {
			return true
		}
	}
	return false
}
