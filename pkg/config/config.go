// Package config holds labtime's persisted settings as named sections in a
// JSON file, by default ~/.labtime/config.json.
package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// New creates a manager over the file at configPath with every labtime
// section registered and loaded.
func New(configPath string) (*Manager, error) {
	store, err := NewFileStore(configPath)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	for _, section := range []Section{
		NewPageSection(),
		NewStorageSection(),
		NewUISection(),
		NewWatchSection(),
	} {
		if err := manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Initialize creates and installs the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	manager, err := New(configPath)
	if err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// Page returns the page section of m.
func (m *Manager) Page() *PageSection {
	return sectionAs[*PageSection](m, SectionIDPage)
}

// Storage returns the storage section of m.
func (m *Manager) Storage() *StorageSection {
	return sectionAs[*StorageSection](m, SectionIDStorage)
}

// UI returns the UI section of m.
func (m *Manager) UI() *UISection {
	return sectionAs[*UISection](m, SectionIDUI)
}

// Watch returns the watch section of m.
func (m *Manager) Watch() *WatchSection {
	return sectionAs[*WatchSection](m, SectionIDWatch)
}

// sectionAs returns the section registered under id, or nil when it is
// missing or of another type.
func sectionAs[T Section](m *Manager, id string) T {
	var zero T
	section, ok := m.GetSection(id)
	if !ok {
		return zero
	}
	typed, ok := section.(T)
	if !ok {
		return zero
	}
	return typed
}
