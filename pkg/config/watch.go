package config

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
)

const (
	// SectionIDWatch is the identifier for the periodic scrape section
	SectionIDWatch = "watch"

	defaultWatchSchedule = "*/10 * * * *"
)

// WatchSection schedules unattended re-scrapes.
type WatchSection struct {
	Schedule string `json:"schedule"`
	mu       sync.RWMutex
}

// NewWatchSection creates a watch section with default settings.
func NewWatchSection() *WatchSection {
	return &WatchSection{Schedule: defaultWatchSchedule}
}

// ID returns the section identifier.
func (s *WatchSection) ID() string {
	return SectionIDWatch
}

// Title returns the section title.
func (s *WatchSection) Title() string {
	return "Watch"
}

// Description returns the section description.
func (s *WatchSection) Description() string {
	return "Cron schedule for re-reading the reservation page in watch mode."
}

// Data returns the current configuration data.
func (s *WatchSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{"schedule": s.Schedule}
}

// SetData updates the configuration from the provided data.
func (s *WatchSection) SetData(data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, ok := data["schedule"]; ok {
		schedule, err := asString("schedule", value)
		if err != nil {
			return err
		}
		s.Schedule = schedule
	}
	return nil
}

// Validate checks that the schedule is a standard five-field cron spec or a
// descriptor such as "@every 5m".
func (s *WatchSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := cron.ParseStandard(s.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.Schedule, err)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *WatchSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Schedule = defaultWatchSchedule
}

// GetSchedule returns the cron spec.
func (s *WatchSection) GetSchedule() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Schedule
}
