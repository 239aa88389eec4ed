package config

import (
	"fmt"
	"strings"
	"sync"
)

// Manager coordinates registered sections and their backing store.
type Manager struct {
	store    Store
	sections map[string]Section
	order    []string
	mu       sync.RWMutex
}

// NewManager creates a manager over store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sections: make(map[string]Section),
	}
}

// Store returns the backing store.
func (m *Manager) Store() Store {
	return m.store
}

// RegisterSection adds a section. IDs must be unique.
func (m *Manager) RegisterSection(section Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := section.ID()
	if _, exists := m.sections[id]; exists {
		return fmt.Errorf("section %q already registered", id)
	}
	m.sections[id] = section
	m.order = append(m.order, id)
	return nil
}

// GetSection returns the section registered under id.
func (m *Manager) GetSection(id string) (Section, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	section, ok := m.sections[id]
	return section, ok
}

// GetSections returns all sections in registration order.
func (m *Manager) GetSections() []Section {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sections := make([]Section, 0, len(m.order))
	for _, id := range m.order {
		sections = append(sections, m.sections[id])
	}
	return sections
}

// LoadAll loads the store and applies stored values to every section.
func (m *Manager) LoadAll() error {
	if err := m.store.Load(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	for _, section := range m.GetSections() {
		data, err := m.store.GetSection(section.ID())
		if err != nil {
			return fmt.Errorf("failed to read section %s: %w", section.ID(), err)
		}
		if len(data) == 0 {
			continue
		}
		if err := section.SetData(data); err != nil {
			return fmt.Errorf("failed to apply section %s: %w", section.ID(), err)
		}
	}

	for _, section := range m.GetSections() {
		if err := section.Validate(); err != nil {
			return fmt.Errorf("invalid %s configuration: %w", section.ID(), err)
		}
	}
	return nil
}

// Set changes one setting addressed as "section.key", converting value to
// the setting's type. The section is left as it was if the result does not
// validate. Call SaveAll to persist.
func (m *Manager) Set(path, value string) error {
	id, key, ok := strings.Cut(path, ".")
	if !ok || id == "" || key == "" {
		return fmt.Errorf("setting %q must be written as section.key", path)
	}
	section, found := m.GetSection(id)
	if !found {
		return fmt.Errorf("unknown configuration section %q", id)
	}

	previous := section.Data()
	current, known := previous[key]
	if !known {
		return fmt.Errorf("unknown setting %s", path)
	}
	parsed, err := parseSetting(path, current, value)
	if err != nil {
		return err
	}
	if err := section.SetData(map[string]interface{}{key: parsed}); err != nil {
		return err
	}
	if err := section.Validate(); err != nil {
		if restoreErr := section.SetData(previous); restoreErr != nil {
			return fmt.Errorf("failed to restore section %s: %w", id, restoreErr)
		}
		return fmt.Errorf("invalid %s configuration: %w", id, err)
	}
	return nil
}

// SaveAll validates every section and writes them to the store.
func (m *Manager) SaveAll() error {
	sections := m.GetSections()
	for _, section := range sections {
		if err := section.Validate(); err != nil {
			return fmt.Errorf("invalid %s settings: %w", section.ID(), err)
		}
	}

	for _, section := range sections {
		if err := m.store.SetSection(section.ID(), section.Data()); err != nil {
			return fmt.Errorf("failed to store section %s: %w", section.ID(), err)
		}
	}

	if err := m.store.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// ResetAll restores every section to its defaults.
func (m *Manager) ResetAll() {
	for _, section := range m.GetSections() {
		section.Reset()
	}
}
