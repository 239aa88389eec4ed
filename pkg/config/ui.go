package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDUI is the identifier for the UI settings section
	SectionIDUI = "ui"

	defaultTimelineHeight  = 960
	defaultRefreshInterval = 60 * time.Second
)

// UISection manages the timeline view.
type UISection struct {
	TimelineHeight  int           `json:"timeline_height"`
	RefreshInterval time.Duration `json:"refresh_interval"`
	mu              sync.RWMutex
}

// NewUISection creates a new UI section with default settings.
func NewUISection() *UISection {
	return &UISection{
		TimelineHeight:  defaultTimelineHeight,
		RefreshInterval: defaultRefreshInterval,
	}
}

// ID returns the section identifier.
func (s *UISection) ID() string {
	return SectionIDUI
}

// Title returns the section title.
func (s *UISection) Title() string {
	return "UI Settings"
}

// Description returns the section description.
func (s *UISection) Description() string {
	return "Timeline geometry and how often the current-time line moves."
}

// Data returns the current configuration data.
func (s *UISection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"timeline_height":  s.TimelineHeight,
		"refresh_interval": s.RefreshInterval.String(),
	}
}

// SetData updates the configuration from the provided data.
func (s *UISection) SetData(data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "timeline_height":
			s.TimelineHeight, err = asInt(key, value)
		case "refresh_interval":
			s.RefreshInterval, err = asDuration(key, value)
		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *UISection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.TimelineHeight < 24 {
		return fmt.Errorf("timeline_height must be at least 24, got %d", s.TimelineHeight)
	}
	if s.RefreshInterval < time.Second || s.RefreshInterval > time.Hour {
		return fmt.Errorf("refresh_interval must be between 1s and 1h, got %v", s.RefreshInterval)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *UISection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TimelineHeight = defaultTimelineHeight
	s.RefreshInterval = defaultRefreshInterval
}

// Timeline returns the timeline height and the now-line refresh interval.
func (s *UISection) Timeline() (height int, refresh time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.TimelineHeight, s.RefreshInterval
}
